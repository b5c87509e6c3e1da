package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lukemcguire/linklint/result"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	cellStyle     = lipgloss.NewStyle()
	positionStyle = lipgloss.NewStyle().Faint(true)
)

// severityStyles colors each group header and its code column.
var severityStyles = map[result.Severity]lipgloss.Style{
	result.SeverityError:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	result.SeverityWarning:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	result.SeverityInformation: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
}

// severityOrder defines the display order for finding groups (most to least actionable).
var severityOrder = []result.Severity{
	result.SeverityError,
	result.SeverityWarning,
	result.SeverityInformation,
}

var severityHeadings = map[result.Severity]string{
	result.SeverityError:       "Errors",
	result.SeverityWarning:     "Warnings",
	result.SeverityInformation: "Information",
}

// RenderSummary produces a Lip Gloss styled summary of validation findings.
func RenderSummary(res *result.Result) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if len(res.Findings) == 0 {
		builder.WriteString(successStyle.Render("No broken links found!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Checked %d links in %s",
			res.Stats.TotalLinks,
			res.Stats.Duration.Round(time.Millisecond),
		)))
		builder.WriteString("\n")
		return builder.String()
	}

	grouped := make(map[result.Severity][]result.Finding)
	for _, f := range res.Findings {
		grouped[f.Severity] = append(grouped[f.Severity], f)
	}

	for _, sev := range severityOrder {
		findings := grouped[sev]
		if len(findings) == 0 {
			continue
		}

		style := severityStyles[sev]
		builder.WriteString(style.Render(fmt.Sprintf("## %s (%d)", severityHeadings[sev], len(findings))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(findings))
		for _, f := range findings {
			rows = append(rows, []string{f.Range.String(), fmt.Sprintf("%d", int(f.Code)), f.Message, f.URL})
		}

		sevTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Line:Col", "Code", "Message", "URL").
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 0:
					return positionStyle
				case col == 1:
					return style
				default:
					return cellStyle
				}
			}).
			Rows(rows...)

		builder.WriteString(sevTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d errors, %d warnings, %d information in %d links (%s)",
		res.Stats.ErrorCount,
		res.Stats.WarningCount,
		res.Stats.InfoCount,
		res.Stats.TotalLinks,
		res.Stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")

	return builder.String()
}
