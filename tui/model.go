// Package tui provides the Bubble Tea terminal UI for linklint,
// displaying live validation progress and a styled summary of findings.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/linkcheck"
	"github.com/lukemcguire/linklint/result"
)

// Job describes one validation run for the TUI to execute.
type Job struct {
	Validator  *linkcheck.Validator
	DocID      string
	Full       *document.Document // Whole file, for anchor lookups
	Work       *document.Document // Links to check
	Collection *result.Collection
}

// Model is the Bubble Tea model for the validation TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	job        Job
	spinner    spinner.Model
	progressCh <-chan linkcheck.Event

	checked  int
	total    int
	findings int
	errors   int
	current  string
	quitting bool
	done     bool
	result   *result.Result
	err      error
	width    int
}

// NewModel creates a TUI model wired to the given job and progress channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, job Job, progressCh <-chan linkcheck.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		job:        job,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, validation, and progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startValidation(), waitForProgress(m.progressCh))
}

// startValidation returns a tea.Cmd that runs the validator and sends
// ValidationDoneMsg.
func (m Model) startValidation() tea.Cmd {
	return func() tea.Msg {
		job := m.job
		res, err := job.Validator.Validate(m.ctx, job.DocID, job.Full, job.Work, job.Collection)
		if err != nil {
			err = fmt.Errorf("validate: %w", err)
		}
		return ValidationDoneMsg{Result: res, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ValidationProgressMsg:
		m.checked = msg.Checked
		m.total = msg.Total
		m.findings = msg.Findings
		m.errors = msg.Errors
		m.current = msg.URL
		return m, waitForProgress(m.progressCh)

	case ValidationDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.result != nil {
		return RenderSummary(m.result)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	return fmt.Sprintf("%s Checking links... %d/%d, %d findings (%d errors)\n%s\n",
		m.spinner.View(), m.checked, m.total, m.findings, m.errors,
		dimStyle.Render("  "+m.current))
}

// HasErrors reports whether the run produced any error finding.
func (m Model) HasErrors() bool {
	return m.result.HasErrors()
}

// GetResult returns the validation result for output formatting.
func (m Model) GetResult() *result.Result {
	return m.result
}

// Err returns the run-level error, if any.
func (m Model) Err() error {
	return m.err
}
