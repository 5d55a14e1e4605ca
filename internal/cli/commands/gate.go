package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/leapstack-labs/leapmodel/internal/history"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/spf13/cobra"
)

// GateOptions holds options for the gate command.
type GateOptions struct {
	AllowBreaking bool
	Record        bool
}

// NewGateCommand creates the gate command.
func NewGateCommand() *cobra.Command {
	opts := &GateOptions{}
	cmd := &cobra.Command{
		Use:   "gate <baseline> <candidate>",
		Short: "Block breaking changes between two model versions",
		Long: `Compare a candidate model against its baseline.

The gate fails when either document has validation errors, or when the
candidate introduces breaking changes (removed entities, fields, indexes or
metrics, changed field types, fields that became non-nullable, or changed
metric contracts). Use --allow-breaking to let breaking changes through.

With --record, or history.enabled in the config, the decision is appended to
the gate history ledger.`,
		Example: `  # Gate a pull request
  leapmodel gate main/sales.yaml sales.yaml

  # Accept a deliberate breaking change
  leapmodel gate main/sales.yaml sales.yaml --allow-breaking

  # Record the decision
  leapmodel gate main/sales.yaml sales.yaml --record`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)

			oldText, err := readModel(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			newText, err := readModel(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			allow := opts.AllowBreaking || cc.Cfg.AllowBreaking
			res := cc.Engine.Gate(oldText, newText, allow)

			if opts.Record || cc.Cfg.History.Enabled {
				if err := recordGate(cmd.Context(), cc, args[0], args[1], res); err != nil {
					return err
				}
			}

			if err := renderGate(cc, res); err != nil {
				return err
			}
			if !res.GatePassed {
				return fmt.Errorf("%w: %s", ErrFailed, res.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.AllowBreaking, "allow-breaking", false, "Pass the gate despite breaking changes")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the decision in the gate history")

	return cmd
}

func recordGate(ctx context.Context, cc *CommandContext, baseline, candidate string, res *engine.GateResult) error {
	store, err := history.Open(ctx, cc.Cfg.History.Path, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entry, err := store.Record(ctx, history.NewEntry(baseline, candidate, res))
	if err != nil {
		return err
	}
	cc.Logger.Debug("gate recorded", "id", entry.ID, "path", cc.Cfg.History.Path)
	return nil
}

func renderGate(cc *CommandContext, res *engine.GateResult) error {
	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(res)
	}

	filter := cc.Cfg.LintFilter()
	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()

	verdict := styles.Success.Render("PASS")
	if !res.GatePassed {
		verdict = styles.Error.Render(string(res.Decision))
	}
	if markdown {
		r.Println("# Gate")
		r.Println("")
		r.Printf("**%s** - %s\n\n", res.Decision, res.Message)
	} else {
		r.Printf("Gate: %s  %s\n\n", verdict, res.Message)
	}

	if res.Decision == engine.DecisionFailOnValidation {
		for _, side := range []struct {
			name  string
			check *engine.CheckResult
		}{{"baseline", res.OldCheck}, {"candidate", res.NewCheck}} {
			if !side.check.HasErrors {
				continue
			}
			if markdown {
				r.Printf("## Errors in %s\n\n", side.name)
			} else {
				r.Println(styles.Header2.Render("Errors in " + side.name))
			}
			renderIssues(r, filter.Filter(side.check.Errors))
		}
		return nil
	}

	renderDiff(r, res.Diff)
	return nil
}
