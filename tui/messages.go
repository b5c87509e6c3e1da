package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lukemcguire/linklint/linkcheck"
	"github.com/lukemcguire/linklint/result"
)

// ValidationProgressMsg reports progress after one checked link.
type ValidationProgressMsg struct {
	Checked  int
	Total    int
	Findings int
	Errors   int
	URL      string
}

// ValidationDoneMsg signals the validation run has completed.
type ValidationDoneMsg struct {
	Result *result.Result
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields nil, which ends the subscription; the
// result itself comes from startValidation.
func waitForProgress(ch <-chan linkcheck.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return ValidationProgressMsg{
			Checked:  evt.Checked,
			Total:    evt.Total,
			Findings: evt.Findings,
			Errors:   evt.Errors,
			URL:      evt.URL,
		}
	}
}
