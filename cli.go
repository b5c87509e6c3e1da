package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lukemcguire/linklint/config"
	"github.com/lukemcguire/linklint/document"
	"github.com/lukemcguire/linklint/linkcheck"
	"github.com/lukemcguire/linklint/result"
	"github.com/lukemcguire/linklint/tui"
)

// Output formats accepted by --format.
const (
	formatAuto     = "auto"
	formatTUI      = "tui"
	formatText     = "text"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatMarkdown = "markdown"
)

var (
	errInvalidFormat = errors.New("invalid output format")
	errInvalidLines  = errors.New("invalid --lines value")
	errInterrupted   = errors.New("interrupted before the check finished")

	// errFindings makes the process exit 1 without printing anything extra.
	errFindings = errors.New("broken links found")
)

// options holds the parsed command line.
type options struct {
	file    string
	cfg     linkcheck.Config
	first   int
	last    int
	format  string
	output  string
	verbose bool
}

// NewRootCmd creates the linklint command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linklint [flags] <file.html>",
		Short: "Check the links of an HTML document",
		Long: `linklint validates every <a> element of an HTML file.

It reports links without a URL or visible text, anchors that point at a
missing or duplicated id, URLs that fail, time out or redirect, and external
links missing rel="external" or an "(external link)" label.

Examples:
  # Check a file with the interactive progress view
  linklint page.html

  # Check only lines 40 to 80, resolving anchors against the whole file
  linklint --lines 40:80 page.html

  # Write a Markdown report
  linklint --format markdown -o report.md page.html

Configuration file (.linklint.yaml) example:
  localDomain: https://www.example.com
  excludedDomains: [intranet.example.com]
  requestMethod: get
  showProtocolRedirectionWarning: yes-separate
  delayNumberOfLinksBeforeWait: 10
  delayWait: 1s`,
		Args:          cobra.ExactArgs(1),
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linklint.yaml or $XDG_CONFIG_HOME/linklint/config.yaml)")
	cmd.Flags().StringP("lines", "l", "",
		"Only check links on lines start:end (1-based, end optional)")
	cmd.Flags().StringP("format", "f", formatAuto,
		"Output format: auto, tui, text, json, csv or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Overrides for the configuration file
	cmd.Flags().String("local-domain", "", "Site root used to check internal links")
	cmd.Flags().String("method", "", "Request method: head or get")
	cmd.Flags().Duration("timeout", 0, "Timeout for each request")
	cmd.Flags().Int("concurrency", 0, "Number of links checked at once")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func runRootCmd(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), opts.verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, opts, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if res.HasErrors() {
		return errFindings
	}
	return nil
}

// buildOptions reads the flags, loads the configuration file and applies the
// flag overrides on top of it.
func buildOptions(cmd *cobra.Command, args []string) (options, error) {
	opts := options{file: args[0]}
	flags := cmd.Flags()

	configFlag, err := flags.GetString("config")
	if err != nil {
		return opts, err
	}
	path, err := config.Find(configFlag)
	if err != nil {
		return opts, err
	}
	if opts.cfg, err = config.Load(path); err != nil {
		return opts, err
	}

	if flags.Changed("local-domain") {
		if opts.cfg.LocalDomain, err = flags.GetString("local-domain"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("method") {
		method, err := flags.GetString("method")
		if err != nil {
			return opts, err
		}
		if err := opts.cfg.RequestMethod.UnmarshalText([]byte(method)); err != nil {
			return opts, err
		}
	}
	if flags.Changed("timeout") {
		if opts.cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("concurrency") {
		if opts.cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return opts, err
		}
	}
	if err := opts.cfg.Validate(); err != nil {
		return opts, fmt.Errorf("configuration error: %w", err)
	}

	lines, err := flags.GetString("lines")
	if err != nil {
		return opts, err
	}
	if opts.first, opts.last, err = parseLines(lines); err != nil {
		return opts, err
	}

	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, err
	}
	if opts.output, err = flags.GetString("output"); err != nil {
		return opts, err
	}
	opts.format, err = resolveFormat(opts.format, opts.output)
	if err != nil {
		return opts, err
	}

	opts.verbose, err = flags.GetBool("verbose")
	if err != nil {
		return opts, err
	}
	return opts, nil
}

// parseLines parses "start:end", "start:" or "start". An empty value selects
// the whole file and returns zeros.
func parseLines(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, nil
	}

	startText, endText, _ := strings.Cut(value, ":")
	first, err := strconv.Atoi(startText)
	if err != nil || first < 1 {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidLines, value)
	}
	if endText == "" {
		return first, 0, nil
	}
	last, err := strconv.Atoi(endText)
	if err != nil || last < first {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidLines, value)
	}
	return first, last, nil
}

// resolveFormat turns "auto" into tui on a terminal and text otherwise. A
// report written to a file never uses the TUI.
func resolveFormat(format, output string) (string, error) {
	switch format {
	case formatAuto:
		if output == "" && isatty.IsTerminal(os.Stdout.Fd()) {
			return formatTUI, nil
		}
		return formatText, nil
	case formatTUI:
		if output != "" {
			return formatText, nil
		}
		return format, nil
	case formatText, formatJSON, formatCSV, formatMarkdown:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", errInvalidFormat, format)
	}
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadDocuments parses the whole file and, when a line range is selected,
// the working part of it.
func loadDocuments(src []byte, first, last int) (*document.Document, *document.Document, error) {
	full, err := document.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, nil, err
	}
	if first == 0 {
		return full, full, nil
	}

	part, origin, err := document.SelectLines(src, first, last)
	if err != nil {
		return nil, nil, err
	}
	work, err := document.ParseAt(bytes.NewReader(part), origin)
	if err != nil {
		return nil, nil, err
	}
	return full, work, nil
}

// run validates opts.file and writes the report in the selected format.
func run(ctx context.Context, opts options, stdout io.Writer, logger *slog.Logger) (*result.Result, error) {
	src, err := os.ReadFile(opts.file) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.file, err)
	}

	full, work, err := loadDocuments(src, opts.first, opts.last)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.file, err)
	}

	docID := filepath.Clean(opts.file)
	coll := result.NewCollection()

	logger.Info("checking document", "file", docID, "links", len(work.Links()))

	if opts.format == formatTUI {
		return runTUI(ctx, docID, full, work, coll, opts.cfg, logger)
	}

	validator, err := linkcheck.New(opts.cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	res, err := validator.Validate(ctx, docID, full, work, coll)
	if err != nil {
		return nil, err
	}

	w := stdout
	if opts.output != "" {
		if err := os.MkdirAll(filepath.Dir(opts.output), 0o750); err != nil {
			return nil, fmt.Errorf("create report directory: %w", err)
		}
		f, err := os.Create(opts.output) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return nil, fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := writeReport(w, opts.format, res); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return res, nil
}

// runTUI drives the validation through the Bubble Tea progress view.
func runTUI(ctx context.Context, docID string, full, work *document.Document, coll *result.Collection,
	cfg linkcheck.Config, logger *slog.Logger) (*result.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progressCh := make(chan linkcheck.Event, 100)
	validator, err := linkcheck.New(cfg, progressCh, logger)
	if err != nil {
		return nil, err
	}

	model := tui.NewModel(ctx, cancel, tui.Job{
		Validator:  validator,
		DocID:      docID,
		Full:       full,
		Work:       work,
		Collection: coll,
	}, progressCh)

	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("run tui: %w", err)
	}

	final, ok := finalModel.(tui.Model)
	if !ok {
		return nil, fmt.Errorf("run tui: unexpected model %T", finalModel)
	}
	if final.Err() != nil {
		return nil, final.Err()
	}
	if final.GetResult() == nil {
		return nil, errInterrupted
	}
	return final.GetResult(), nil
}

func writeReport(w io.Writer, format string, res *result.Result) error {
	switch format {
	case formatJSON:
		return result.WriteJSON(w, res)
	case formatCSV:
		return result.WriteCSV(w, res.Findings)
	case formatMarkdown:
		return result.WriteMarkdown(w, res)
	default:
		result.PrintResults(w, res)
		return nil
	}
}

// version is set at build time via ldflags.
var version = ""

// getVersion returns the ldflags version, the module version, or "(devel)".
func getVersion() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok && buildInfo.Main.Version != "" {
		return buildInfo.Main.Version
	}
	return "(devel)"
}
