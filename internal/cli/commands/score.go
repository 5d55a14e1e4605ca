package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewScoreCommand creates the score command.
func NewScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score <file>",
		Short: "Show the completeness score of a model document",
		Long: `Grade every entity of a model document on documentation and modeling
completeness and list what each one is missing.

Scores are reported even when the document has validation errors.`,
		Example: `  leapmodel score sales.yaml
  leapmodel score sales.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			r := cc.Renderer

			text, err := readModel(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			res := cc.Engine.Check(text)
			if res.Completeness == nil {
				renderIssues(r, res.Issues)
				return fmt.Errorf("%w: %s cannot be scored", ErrFailed, args[0])
			}
			report := res.Completeness

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(report)
			}

			styles := r.Styles()
			title := fmt.Sprintf("Completeness: %d/100", report.Score)
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Printf("# %s\n\n", title)
			} else {
				r.Println(styles.Header1.Render(title))
				r.Println("")
			}

			rows := make([][]string, 0, len(report.Entities))
			for _, e := range report.Entities {
				rows = append(rows, []string{e.Name, strconv.Itoa(e.Score), strings.Join(e.Missing, ", ")})
			}
			r.Table([]string{"Entity", "Score", "Missing"}, rows)
			r.Println("")

			if len(report.FullyComplete) > 0 {
				r.Printf("Fully complete: %s\n", strings.Join(report.FullyComplete, ", "))
			}
			if len(report.NeedsAttention) > 0 {
				r.Printf("Needs attention: %s\n", styles.Warning.Render(strings.Join(report.NeedsAttention, ", ")))
			}
			return nil
		},
	}
}
