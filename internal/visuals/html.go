package visuals

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"vizr-mcp/internal/bucket"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
)

const (
	tableClass     = "table table-striped table-bordered"
	groupedCaption = "Grouped Results"
	totalCaption   = "Total Number of Results"
)

// RenderTable renders a header row and value rows as a bootstrap-styled HTML table.
// Every cell and the caption are escaped.
func RenderTable(header []string, rows [][]string, caption string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<table class='%s'>", tableClass))
	sb.WriteString("<caption>" + html.EscapeString(caption) + "</caption>")

	sb.WriteString("<thead><tr>")
	for _, h := range header {
		sb.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	sb.WriteString("</tr></thead>")

	sb.WriteString("<tbody>")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, v := range row {
			sb.WriteString("<td>" + html.EscapeString(v) + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody>")

	sb.WriteString("</table>")
	return sb.String()
}

// RenderStatistics renders the per-group breakdown.
func RenderStatistics(table bucket.StatisticsTable) string {
	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, r.Cells())
	}
	return RenderTable(table.Header, rows, groupedCaption)
}

// RenderTotal renders the overall count, target and percent as a single-row table.
func RenderTotal(total bucket.TotalRow) string {
	return "<div>" + RenderTable(total.Header, [][]string{total.Cells()}, totalCaption) + "</div>"
}

// PreviewChart is one chart section of the preview page.
type PreviewChart struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Mermaid     string   `json:"mermaid,omitempty"`
	TotalHTML   string   `json:"-"`
	GroupHTML   string   `json:"-"`
}

const previewScript = `
function renderCharts(root) {
  var blocks = root.querySelectorAll("pre.mermaid");
  if (window.mermaid && blocks.length > 0) {
    window.mermaid.initialize({ startOnLoad: false });
    window.mermaid.run({ nodes: blocks });
  }

  var toggles = root.querySelectorAll("[data-toggle-table]");
  toggles.forEach(function (button) {
    button.addEventListener("click", function () {
      var target = document.getElementById(button.getAttribute("data-toggle-table"));
      if (target) {
        target.hidden = !target.hidden;
      }
    });
  });

  var dataElement = document.getElementById("vizr-data");
  if (dataElement) {
    var charts = JSON.parse(dataElement.textContent);
    document.title = charts.length + " chart(s) - vizr preview";
  }
}

document.addEventListener("DOMContentLoaded", function () {
  renderCharts(document);
});
`

// MinifyScript runs a JavaScript source through esbuild's minifier.
func MinifyScript(src string) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("failed to minify script: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}

// RenderPreviewPage produces a standalone HTML document with one section per chart.
// Mermaid blocks are rendered client-side when the mermaid script is reachable.
func RenderPreviewPage(title string, charts []PreviewChart) (string, error) {
	script, err := MinifyScript(previewScript)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(charts)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart data: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("<link rel=\"stylesheet\" href=\"https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css\">\n")
	sb.WriteString("<script src=\"https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js\"></script>\n")
	sb.WriteString("</head>\n<body class=\"container\">\n")
	sb.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")

	for i, c := range charts {
		tableID := fmt.Sprintf("tables-%d", i)
		sb.WriteString(fmt.Sprintf("<section class=\"chart\" id=\"chart-%s\">\n", html.EscapeString(c.ID)))
		sb.WriteString("<h2>" + html.EscapeString(c.Title) + "</h2>\n")
		if c.Description != "" {
			sb.WriteString("<p>" + html.EscapeString(c.Description) + "</p>\n")
		}
		for _, w := range c.Warnings {
			sb.WriteString("<div class=\"alert alert-warning\">" + html.EscapeString(w) + "</div>\n")
		}
		if body := stripFence(c.Mermaid); body != "" {
			sb.WriteString("<pre class=\"mermaid\">\n" + html.EscapeString(body) + "\n</pre>\n")
		}
		sb.WriteString(fmt.Sprintf("<button type=\"button\" class=\"btn btn-link\" data-toggle-table=\"%s\">Summary</button>\n", tableID))
		sb.WriteString(fmt.Sprintf("<div id=\"%s\">\n", tableID))
		sb.WriteString(c.TotalHTML + "\n")
		if c.GroupHTML != "" {
			sb.WriteString(c.GroupHTML + "\n")
		}
		sb.WriteString("</div>\n</section>\n")
	}

	sb.WriteString("<script type=\"application/json\" id=\"vizr-data\">")
	sb.Write(data)
	sb.WriteString("</script>\n")
	sb.WriteString("<script>" + script + "</script>\n")
	sb.WriteString("</body>\n</html>\n")

	log.Debug().Int("charts", len(charts)).Int("scriptBytes", len(script)).Msg("Rendered preview page")
	return sb.String(), nil
}

// stripFence removes the markdown code fence around a Mermaid chart.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```mermaid")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
