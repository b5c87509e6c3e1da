package result

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
)

// WriteMarkdown renders the result as a GitHub flavored Markdown report.
func WriteMarkdown(w io.Writer, res *Result) error {
	md := markdown.NewMarkdown(w)

	md.H1("Link Report: " + res.Document)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"Errors", strconv.Itoa(res.Stats.ErrorCount)},
			{"Warnings", strconv.Itoa(res.Stats.WarningCount)},
			{"Information", strconv.Itoa(res.Stats.InfoCount)},
			{"Links checked", strconv.Itoa(res.Stats.TotalLinks)},
		},
	})
	md.PlainText("")

	switch {
	case res.Stats.ErrorCount > 0:
		md.Cautionf("%d link error(s) must be fixed.", res.Stats.ErrorCount)
	case res.Stats.WarningCount > 0:
		md.Warningf("%d link warning(s) should be reviewed.", res.Stats.WarningCount)
	default:
		md.Tip("No broken links found!")
	}
	md.PlainText("")

	if len(res.Findings) > 0 {
		md.H2("Findings")
		md.PlainText("")
		rows := make([][]string, 0, len(res.Findings))
		for _, f := range res.Findings {
			rows = append(rows, []string{
				f.Range.String(),
				f.Severity.String(),
				fmt.Sprintf("%d", int(f.Code)),
				escapeCell(f.Message),
				escapeCell(f.URL),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Position", "Severity", "Code", "Message", "URL"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("write markdown output: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
