// Package commands implements the leapmodel subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapmodel/internal/cli/config"
	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/spf13/cobra"
)

// ErrFailed marks a run whose result has already been reported: a check with
// errors or a gate that did not pass. The process exits 1 without printing it.
var ErrFailed = errors.New("failed")

// CommandContext holds the shared dependencies of a command run.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the config and logger that the
// root command stored on cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		mode = output.ModeAuto
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   engine.New(cfg.EngineOptions(logger)),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// readModel reads a document from path, or from in when path is "-".
func readModel(in io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read model: %w", err)
	}
	return string(data), nil
}

// renderIssues prints issues grouped by catalog group.
func renderIssues(r *output.Renderer, issues []lint.Issue) {
	if len(issues) == 0 {
		return
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		rows := make([][]string, 0, len(issues))
		for _, is := range issues {
			rows = append(rows, []string{is.Severity.String(), is.Code, location(is), is.Message})
		}
		r.Table([]string{"Severity", "Code", "Location", "Message"}, rows)
		r.Println("")
		return
	}

	styles := r.Styles()
	current := ""
	for _, is := range issues {
		group := lint.GroupOf(is.Code)
		if group != current {
			current = group
			r.Println(styles.Bold.Render("  " + groupTitle(group)))
		}
		r.Printf("    %s  %s  %s %s\n",
			styles.Severity(is.Severity).Render(fmt.Sprintf("%-5s", is.Severity)),
			styles.Muted.Render(location(is)),
			is.Message,
			styles.Muted.Render("["+is.Code+"]"),
		)
	}
}

func location(is lint.Issue) string {
	if is.Line > 0 {
		return fmt.Sprintf("%d:%s", is.Line, is.Path)
	}
	return is.Path
}

func groupTitle(group string) string {
	switch group {
	case lint.GroupLoader:
		return "Document"
	case lint.GroupStructure:
		return "Structure"
	case lint.GroupSemantic:
		return "Semantics"
	case lint.GroupNudge:
		return "Suggestions"
	}
	return "Other"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
