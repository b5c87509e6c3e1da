package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/linkcheck"
	"github.com/lukemcguire/linklint/result"
)

func testJob(t *testing.T, src string, progressCh chan<- linkcheck.Event) Job {
	t.Helper()
	doc, err := document.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	v, err := linkcheck.New(linkcheck.DefaultConfig(), progressCh, nil)
	if err != nil {
		t.Fatalf("linkcheck.New returned error: %v", err)
	}
	return Job{
		Validator:  v,
		DocID:      "index.html",
		Full:       doc,
		Work:       doc,
		Collection: result.NewCollection(),
	}
}

func sampleResult() *result.Result {
	return &result.Result{
		Document: "index.html",
		Findings: []result.Finding{
			result.New(404, document.Range{Start: document.Position{Line: 2, Column: 4}}, "https://example.com/dead"),
			result.New(result.CodeRelative, document.Range{Start: document.Position{Line: 5}}, "page.html"),
		},
		Stats: result.Stats{TotalLinks: 25, ErrorCount: 1, WarningCount: 1, Duration: 3 * time.Second},
	}
}

func TestNewModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progressCh := make(chan linkcheck.Event, 10)
	job := testJob(t, `<a href="#x">x</a>`, progressCh)

	model := NewModel(ctx, cancel, job, progressCh)

	if model.ctx != ctx {
		t.Error("expected ctx to be stored in model")
	}
	if model.cancel == nil {
		t.Error("expected cancel to be stored in model")
	}
	if model.job.Validator != job.Validator {
		t.Error("expected validator to be stored in model")
	}
	if model.progressCh != progressCh {
		t.Error("expected progressCh to be stored in model")
	}
	if model.checked != 0 || model.findings != 0 {
		t.Error("expected initial counters to be zero")
	}
	if model.done {
		t.Error("expected done to be false initially")
	}
}

func TestHasErrors(t *testing.T) {
	tests := []struct {
		name   string
		result *result.Result
		want   bool
	}{
		{
			name:   "nil result",
			result: nil,
			want:   false,
		},
		{
			name: "warnings only",
			result: &result.Result{Findings: []result.Finding{
				result.New(result.CodeRelative, document.Range{}, "page.html"),
			}},
			want: false,
		},
		{
			name:   "has errors",
			result: sampleResult(),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := Model{result: tt.result}
			if got := model.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetResult(t *testing.T) {
	res := sampleResult()
	model := Model{result: res}
	if got := model.GetResult(); got != res {
		t.Errorf("GetResult() = %v, want %v", got, res)
	}
	if (Model{}).GetResult() != nil {
		t.Error("GetResult() should be nil before the run completes")
	}
}

func TestRenderSummary_NilResult(t *testing.T) {
	output := RenderSummary(nil)
	if output == "" {
		t.Error("expected non-empty output for nil result")
	}
}

func TestRenderSummary_NoFindings(t *testing.T) {
	res := &result.Result{
		Stats: result.Stats{TotalLinks: 10, Duration: 2 * time.Second},
	}
	output := RenderSummary(res)
	// The styled output should contain the core text (ANSI codes may wrap it).
	if !strings.Contains(output, "No broken links found") {
		t.Errorf("expected success message, got: %s", output)
	}
	if !strings.Contains(output, "10") {
		t.Errorf("expected link count in output, got: %s", output)
	}
}

func TestRenderSummary_WithFindings(t *testing.T) {
	output := RenderSummary(sampleResult())

	for _, want := range []string{
		"Errors (1)",
		"Warnings (1)",
		"example.com/dead",
		"404",
		"3:5",
		"page.html",
		"1 errors, 1 warnings",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, "Information (") {
		t.Error("empty severity groups should be omitted")
	}
	if strings.Index(output, "Errors (1)") > strings.Index(output, "Warnings (1)") {
		t.Error("errors should be listed before warnings")
	}
}

func TestInit_ReturnsBatchCmd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progressCh := make(chan linkcheck.Event, 10)
	model := NewModel(ctx, cancel, testJob(t, `<a href="">x</a>`, progressCh), progressCh)
	if cmd := model.Init(); cmd == nil {
		t.Error("Init() should return a non-nil batch command")
	}
}

func TestStartValidation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progressCh := make(chan linkcheck.Event, 10)
	model := NewModel(ctx, cancel, testJob(t, `<a href="">x</a><a href="#gone">y</a>`, progressCh), progressCh)

	msg := model.startValidation()()
	done, ok := msg.(ValidationDoneMsg)
	if !ok {
		t.Fatalf("expected ValidationDoneMsg, got %T", msg)
	}
	if done.Err != nil {
		t.Fatalf("unexpected error: %v", done.Err)
	}
	if len(done.Result.Findings) != 2 {
		t.Errorf("expected 2 findings, got %d", len(done.Result.Findings))
	}

	progress, ok := waitForProgress(progressCh)().(ValidationProgressMsg)
	if !ok {
		t.Fatal("expected a progress message")
	}
	if progress.Total != 2 {
		t.Errorf("progress total = %d, want 2", progress.Total)
	}
}

func TestWaitForProgress_ClosedChannel(t *testing.T) {
	ch := make(chan linkcheck.Event)
	close(ch)
	if msg := waitForProgress(ch)(); msg != nil {
		t.Errorf("expected nil message for closed channel, got %T", msg)
	}
}

func TestUpdate_ValidationProgressMsg(t *testing.T) {
	model := Model{
		progressCh: make(chan linkcheck.Event, 10),
	}

	msg := ValidationProgressMsg{Checked: 5, Total: 9, Findings: 2, Errors: 1, URL: "https://example.com/page"}
	updatedModel, cmd := model.Update(msg)
	updated := updatedModel.(Model)

	if updated.checked != 5 || updated.total != 9 {
		t.Errorf("expected 5/9, got %d/%d", updated.checked, updated.total)
	}
	if updated.findings != 2 || updated.errors != 1 {
		t.Errorf("expected 2 findings 1 error, got %d/%d", updated.findings, updated.errors)
	}
	if updated.current != "https://example.com/page" {
		t.Errorf("expected current URL to be set, got %s", updated.current)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd to re-subscribe to progress channel")
	}
}

func TestUpdate_ValidationDoneMsg(t *testing.T) {
	model := Model{}
	res := sampleResult()

	updatedModel, _ := model.Update(ValidationDoneMsg{Result: res})
	updated := updatedModel.(Model)

	if !updated.done {
		t.Error("expected done=true after ValidationDoneMsg")
	}
	if updated.result != res {
		t.Error("expected result to be stored")
	}
}

func TestUpdate_QuitCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := Model{ctx: ctx, cancel: cancel}

	updatedModel, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !updatedModel.(Model).quitting {
		t.Error("expected quitting=true")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if ctx.Err() == nil {
		t.Error("expected context to be cancelled")
	}
}

func TestUpdate_SpinnerTickMsg(t *testing.T) {
	model := Model{}
	updatedModel, _ := model.Update(spinner.TickMsg{})
	_ = updatedModel.(Model) // should not panic
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	model := Model{}
	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := updatedModel.(Model)

	if updated.width != 120 {
		t.Errorf("expected width=120, got %d", updated.width)
	}
}

func TestView_InProgress(t *testing.T) {
	model := Model{
		checked: 3,
		total:   8,
		current: "https://example.com/checking",
	}
	output := model.View()
	if !strings.Contains(output, "Checking links") {
		t.Errorf("expected 'Checking links' in progress view, got: %s", output)
	}
	if !strings.Contains(output, "3/8") {
		t.Errorf("expected checked count in view, got: %s", output)
	}
}

func TestView_DoneWithResult(t *testing.T) {
	model := Model{
		done:   true,
		result: &result.Result{Stats: result.Stats{TotalLinks: 5, Duration: time.Second}},
	}
	output := model.View()
	if !strings.Contains(output, "No broken links found") {
		t.Errorf("expected success message in done view, got: %s", output)
	}
}

func TestView_DoneWithError(t *testing.T) {
	model := Model{
		done: true,
		err:  context.Canceled,
	}
	output := model.View()
	if !strings.Contains(output, "Error") {
		t.Errorf("expected error message in done view, got: %s", output)
	}
}
