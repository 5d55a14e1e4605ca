package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/leapstack-labs/leapmodel/pkg/diff"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/spf13/cobra"
)

// DiffOptions holds options for the diff command.
type DiffOptions struct {
	FailOnBreaking bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	opts := &DiffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show structural changes between two model versions",
		Long: `Compare two model documents after canonicalization and list what changed.

Key order and list order do not count as changes. Both documents must be
free of validation errors.`,
		Example: `  # Human-readable diff
  leapmodel diff v1/sales.yaml v2/sales.yaml

  # Exit 1 when the diff contains breaking changes
  leapmodel diff v1/sales.yaml v2/sales.yaml --fail-on-breaking`,
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

			res := cc.Engine.Gate(oldText, newText, true)
			if res.Decision == engine.DecisionFailOnValidation {
				if err := renderGate(cc, res); err != nil {
					return err
				}
				return fmt.Errorf("%w: %s", ErrFailed, res.Message)
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				if err := r.JSON(res.Diff); err != nil {
					return err
				}
			} else {
				renderDiff(r, res.Diff)
			}

			if opts.FailOnBreaking && res.Diff.HasBreakingChanges {
				return fmt.Errorf("%w: %s", ErrFailed, plural(len(res.Diff.BreakingChanges), "breaking change"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.FailOnBreaking, "fail-on-breaking", false, "Exit 1 when breaking changes are found")

	return cmd
}

// summaryRows lists the non-zero counts of a diff summary.
func summaryRows(s diff.Summary) [][]string {
	counts := []struct {
		label string
		n     int
	}{
		{"Entities added", s.EntitiesAdded},
		{"Entities removed", s.EntitiesRemoved},
		{"Entities changed", s.EntitiesChanged},
		{"Fields added", s.FieldsAdded},
		{"Fields removed", s.FieldsRemoved},
		{"Field types changed", s.FieldTypesChanged},
		{"Nullability changed", s.NullabilityChanged},
		{"Relationships added", s.RelationshipsAdded},
		{"Relationships removed", s.RelationshipsRemoved},
		{"Indexes added", s.IndexesAdded},
		{"Indexes removed", s.IndexesRemoved},
		{"Metrics added", s.MetricsAdded},
		{"Metrics removed", s.MetricsRemoved},
		{"Metrics changed", s.MetricsChanged},
		{"Rules added", s.RulesAdded},
		{"Rules removed", s.RulesRemoved},
		{"Glossary terms added", s.GlossaryAdded},
		{"Glossary terms removed", s.GlossaryRemoved},
	}

	var rows [][]string
	for _, c := range counts {
		if c.n > 0 {
			rows = append(rows, []string{c.label, strconv.Itoa(c.n)})
		}
	}
	return rows
}

func renderDiff(r *output.Renderer, d *diff.Report) {
	if d == nil {
		return
	}
	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()

	if d.Empty() {
		r.Println("No changes.")
		return
	}

	heading := func(s string) {
		if markdown {
			r.Printf("## %s\n\n", s)
			return
		}
		r.Println(styles.Header2.Render(s))
	}

	heading("Summary")
	r.Table([]string{"Change", "Count"}, summaryRows(d.Summary))
	r.Println("")

	if len(d.Entities.Changed) > 0 {
		heading("Changed entities")
		for _, e := range d.Entities.Changed {
			r.Printf("- %s\n", e.Name)
			for _, f := range e.FieldsAdded {
				r.Printf("    + %s\n", f)
			}
			for _, f := range e.FieldsRemoved {
				r.Printf("    - %s\n", f)
			}
			for _, tc := range e.TypeChanged {
				r.Printf("    ~ %s: %s -> %s\n", tc.Field, tc.From, tc.To)
			}
			for _, nc := range e.NullabilityChanged {
				r.Printf("    ~ %s: nullable %t -> %t\n", nc.Field, nc.From, nc.To)
			}
		}
		r.Println("")
	}

	if len(d.BreakingChanges) == 0 {
		r.Println(styles.Success.Render("No breaking changes."))
		return
	}
	heading(fmt.Sprintf("Breaking changes (%d)", len(d.BreakingChanges)))
	for _, b := range d.BreakingChanges {
		r.Printf("- %s\n", styles.Error.Render(b))
	}
}
