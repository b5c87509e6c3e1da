package result

import (
	"fmt"
	"io"
)

// PrintResults writes findings and a summary to w.
func PrintResults(w io.Writer, res *Result) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if len(res.Findings) == 0 {
		writef("No broken links found!\n")
	} else {
		for _, f := range res.Findings {
			writef("%s:%s: %s [%d] %s\n", res.Document, f.Range, f.Severity, int(f.Code), f.Message)
			if f.URL != "" {
				writef("  URL: %s\n", f.URL)
			}
			if f.RelatedURL != "" {
				writef("  Redirects to: %s\n", f.RelatedURL)
			}
		}
	}
	writef("Checked %d links: %d errors, %d warnings, %d information\n",
		res.Stats.TotalLinks, res.Stats.ErrorCount, res.Stats.WarningCount, res.Stats.InfoCount)
}
