package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes the result as formatted JSON to the writer.
func WriteJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the findings as CSV to the writer.
// Always includes a header row, even if there are no findings.
// Column order: line, column, severity, code, name, message, url, related_url,
// status. The status column is empty when no response was received.
func WriteCSV(w io.Writer, findings []Finding) error {
	cw := csv.NewWriter(w)

	header := []string{"line", "column", "severity", "code", "name", "message", "url", "related_url", "status"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, f := range findings {
		record := []string{
			strconv.Itoa(f.Range.Start.Line + 1),
			strconv.Itoa(f.Range.Start.Column + 1),
			f.Severity.String(),
			strconv.Itoa(int(f.Code)),
			f.Code.String(),
			f.Message,
			f.URL,
			f.RelatedURL,
			statusCell(f.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", f.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

func statusCell(status int) string {
	if status == 0 {
		return ""
	}
	return strconv.Itoa(status)
}
