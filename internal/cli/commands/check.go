package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch    bool
	Debounce time.Duration
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{Debounce: 200 * time.Millisecond}
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate and score model documents",
		Long: `Validate one or more model documents and report their completeness.

Every document is checked for structure, cross references, primary keys, grain
and relationship cycles. Advisory suggestions are included unless disabled.
The command exits with status 1 when any document has errors.`,
		Example: `  # Check a single document
  leapmodel check models/sales.yaml

  # Only show errors and warnings, hiding one suggestion
  leapmodel check models/*.yaml --severity warn --disable MISSING_OWNER

  # Re-check whenever the file is saved
  leapmodel check models/sales.yaml --watch

  # Machine-readable output
  leapmodel check models/sales.yaml -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)

			failed, err := runChecks(cc, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			if opts.Watch {
				return watchAndCheck(cmd.Context(), cc, args, opts.Debounce)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %s with errors", ErrFailed, plural(failed, "document"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check documents when they change")
	cmd.Flags().String("severity", "", "Lowest severity to show: error, warn, info")
	cmd.Flags().StringSlice("disable", nil, "Issue codes to hide (errors are always shown)")
	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warn", "info"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// checkedFile is one document's result after display filtering.
type checkedFile struct {
	File string `json:"file"`
	*engine.CheckResult
}

// checkOutput is the JSON shape of the check command.
type checkOutput struct {
	Results []checkedFile `json:"results"`
	Failed  int           `json:"failed"`
}

func runChecks(cc *CommandContext, in io.Reader, paths []string) (int, error) {
	filter := cc.Cfg.LintFilter()

	results := make([]checkedFile, 0, len(paths))
	failed := 0
	for _, path := range paths {
		text, err := readModel(in, path)
		if err != nil {
			return 0, err
		}

		res := *cc.Engine.Check(text)
		res.Issues = filter.Filter(res.Issues)
		res.Warnings = filter.Filter(res.Warnings)
		if res.HasErrors {
			failed++
		}
		cc.Logger.Debug("checked document", "file", path, "errors", len(res.Errors), "warnings", len(res.Warnings))
		results = append(results, checkedFile{File: path, CheckResult: &res})
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return failed, r.JSON(checkOutput{Results: results, Failed: failed})
	case output.ModeMarkdown:
		for _, f := range results {
			renderCheckMarkdown(r, f)
		}
	default:
		for _, f := range results {
			renderCheckText(r, f)
		}
	}
	return failed, nil
}

func checkVerdict(res *engine.CheckResult) string {
	switch {
	case res.HasErrors:
		return "FAIL"
	case res.Foreign:
		return "SKIPPED"
	}
	return "PASS"
}

func renderCheckText(r *output.Renderer, f checkedFile) {
	styles := r.Styles()

	mark := styles.Success.Render("✓")
	if f.HasErrors {
		mark = styles.Error.Render("✗")
	} else if f.Foreign {
		mark = styles.Warning.Render("-")
	}

	line := fmt.Sprintf("%s %s", mark, styles.Bold.Render(f.File))
	if f.Completeness != nil {
		line += styles.Muted.Render(fmt.Sprintf("  completeness %d/100", f.Completeness.Score))
	}
	r.Println(line)

	renderIssues(r, f.Issues)

	counts := fmt.Sprintf("  %s, %s", plural(len(f.Errors), "error"), plural(len(f.Warnings), "warning"))
	r.Println(styles.Muted.Render(counts))
	r.Println("")
}

func renderCheckMarkdown(r *output.Renderer, f checkedFile) {
	r.Printf("## %s\n\n", f.File)

	summary := fmt.Sprintf("**%s** - %s, %s", checkVerdict(f.CheckResult),
		plural(len(f.Errors), "error"), plural(len(f.Warnings), "warning"))
	if f.Completeness != nil {
		summary += fmt.Sprintf(", completeness %d/100", f.Completeness.Score)
	}
	r.Println(summary)
	r.Println("")

	renderIssues(r, f.Issues)
}

// watchAndCheck re-checks paths on change until ctx ends or the process is interrupted.
func watchAndCheck(ctx context.Context, cc *CommandContext, paths []string, debounce time.Duration) error {
	for _, p := range paths {
		if p == "-" {
			return fmt.Errorf("cannot watch standard input")
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cc.Renderer.Warnf("Watching %s for changes (Ctrl+C to stop)", plural(len(paths), "document"))

	var mu sync.Mutex
	return watchFiles(ctx, paths, debounce, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		cc.Logger.Debug("change detected", "file", path)
		if _, err := runChecks(cc, nil, []string{path}); err != nil {
			cc.Renderer.Warnf("%s: %v", path, err)
		}
	})
}

