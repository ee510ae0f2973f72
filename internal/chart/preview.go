package chart

import (
	"vizr-mcp/internal/visuals"
)

// TotalHTML renders the overall summary table.
func (r *Result) TotalHTML() string {
	return visuals.RenderTotal(r.Total)
}

// GroupHTML renders the per-group table, or "" for an ungrouped chart.
func (r *Result) GroupHTML() string {
	if r.GroupTable == nil {
		return ""
	}
	return visuals.RenderStatistics(*r.GroupTable)
}

// Preview converts a result into a section of the preview page. A Mermaid chart is
// generated when the builder did not attach one.
func (r *Result) Preview(description string) visuals.PreviewChart {
	mermaid := r.MermaidText
	if mermaid == "" {
		mermaid = visuals.GenerateCumulativeChart(r.Title, r.Series, r.Trend)
	}
	return visuals.PreviewChart{
		ID:          r.ID,
		Title:       r.Title,
		Description: description,
		Warnings:    r.Warnings,
		Mermaid:     mermaid,
		TotalHTML:   r.TotalHTML(),
		GroupHTML:   r.GroupHTML(),
	}
}

// PreviewPage renders every result into one standalone HTML document. Descriptions are
// taken from the matching definitions.
func PreviewPage(title string, defs []Definition, results []*Result) (string, error) {
	charts := make([]visuals.PreviewChart, 0, len(results))
	for _, res := range results {
		description := ""
		if def, ok := Find(defs, res.ID); ok {
			description = def.Description
		}
		charts = append(charts, res.Preview(description))
	}
	return visuals.RenderPreviewPage(title, charts)
}
