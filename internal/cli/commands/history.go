package commands

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/leapstack-labs/leapmodel/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded gate decisions",
		Long: `List the most recent gate decisions recorded with 'gate --record' or with
history.enabled set in leapmodel.yaml, newest first.`,
		Example: `  leapmodel history
  leapmodel history --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			r := cc.Renderer

			store, err := history.Open(cmd.Context(), cc.Cfg.History.Path, cc.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(entries)
			}
			if len(entries) == 0 {
				r.Println("No gate runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
					string(e.Decision),
					e.Baseline,
					e.Candidate,
					strconv.Itoa(len(e.BreakingChanges)),
					strings.Join(e.BreakingChanges, "; "),
				})
			}
			r.Table([]string{"Recorded", "Decision", "Baseline", "Candidate", "Breaking", "Changes"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Number of runs to show")

	return cmd
}
