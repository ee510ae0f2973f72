package records

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vizr-mcp/internal/bucket"

	"github.com/rs/zerolog/log"
)

var ErrUnsupportedFormat = errors.New("unsupported records format")

// Envelope is the response shape of the host data endpoint.
type Envelope struct {
	Data         []bucket.Record `json:"data"`
	FilterEvents []string        `json:"filterEvents,omitempty"`
}

// Load reads records from a .json, .jsonl/.ndjson or .csv file.
func Load(path string) ([]bucket.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer file.Close()

	var recs []bucket.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		recs, err = DecodeJSON(file)
	case ".jsonl", ".ndjson":
		recs, err = DecodeJSONL(file)
	case ".csv":
		recs, err = DecodeCSV(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("records", len(recs)).Msg("Loaded records")
	return recs, nil
}

// DecodeJSON accepts either a bare array of objects or an Envelope.
func DecodeJSON(r io.Reader) ([]bucket.Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if raw[0] == '[' {
		var recs []bucket.Record
		if err := dec.Decode(&recs); err != nil {
			return nil, err
		}
		return recs, nil
	}

	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return nil, err
	}
	if len(env.FilterEvents) > 1 {
		log.Warn().Strs("events", env.FilterEvents).Msg("The filter returned multiple events per record")
	}
	return env.Data, nil
}

// DecodeJSONL reads one object per line. Invalid lines are skipped with a warning.
func DecodeJSONL(r io.Reader) ([]bucket.Record, error) {
	var recs []bucket.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var rec bucket.Record
		if err := dec.Decode(&rec); err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid JSON line in records")
			continue
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// DecodeCSV maps each row to a record keyed by the header row. Every value is a string.
func DecodeCSV(r io.Reader) ([]bucket.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var recs []bucket.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(recs)+2, err)
		}

		rec := make(bucket.Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
