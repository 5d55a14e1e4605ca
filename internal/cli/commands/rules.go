package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmodel/internal/cli/output"
	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group string
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [code]",
		Short: "List issue codes",
		Long: `List every issue code the checker can report, with its group and default
severity. Codes marked demotable drop to warnings when the document declares
imports.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all codes
  leapmodel rules

  # Show one code
  leapmodel rules MISSING_PRIMARY_KEY

  # Only advisory suggestions
  leapmodel rules --group nudge`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			codes := make([]string, 0)
			for _, info := range lint.All() {
				codes = append(codes, info.Code)
			}
			return codes, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if len(args) > 0 {
				return showRule(cc.Renderer, args[0])
			}
			return listRules(cc.Renderer, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group: loader, structure, semantic, nudge")

	return cmd
}

func listRules(r *output.Renderer, opts *RulesOptions) error {
	infos := lint.All()
	if opts.Group != "" {
		infos = lint.ByGroup(opts.Group)
		if len(infos) == 0 {
			return fmt.Errorf("unknown group %q", opts.Group)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(struct {
			Codes []lint.CodeInfo `json:"codes"`
			Count int             `json:"count"`
		}{infos, len(infos)})
	case output.ModeMarkdown:
		r.Println("# Issue Codes")
		current := ""
		for _, info := range infos {
			if info.Group != current {
				current = info.Group
				r.Printf("\n## %s\n\n", groupTitle(current))
			}
			r.Printf("- **%s** (`%s`)%s - %s\n", info.Code, info.DefaultSeverity, demotableNote(info), info.Description)
		}
		r.Println("")
	default:
		styles := r.Styles()
		r.Println("")
		r.Println(styles.Header1.Render(fmt.Sprintf("Issue Codes (%d)", len(infos))))
		current := ""
		for _, info := range infos {
			if info.Group != current {
				current = info.Group
				r.Println("")
				r.Println(styles.Bold.Render("  " + groupTitle(current)))
			}
			r.Printf("    %-34s %s%s\n", info.Code,
				styles.Severity(info.DefaultSeverity).Render(info.DefaultSeverity.String()),
				styles.Muted.Render(demotableNote(info)))
		}
		r.Println("")
		r.Println(styles.Muted.Render("Use 'leapmodel rules <code>' for details"))
	}
	return nil
}

func showRule(r *output.Renderer, code string) error {
	info, ok := lint.Lookup(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return fmt.Errorf("issue code %q not found", code)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		r.Printf("# %s\n\n", info.Code)
		r.Printf("- Group: %s\n", info.Group)
		r.Printf("- Default severity: %s\n", info.DefaultSeverity)
		if info.Demotable {
			r.Println("- Demoted to warn when the document declares imports")
		}
		r.Printf("\n%s\n", info.Description)
	default:
		styles := r.Styles()
		r.Println(styles.Header1.Render(info.Code))
		r.Printf("  Group:    %s\n", groupTitle(info.Group))
		r.Printf("  Severity: %s\n", styles.Severity(info.DefaultSeverity).Render(info.DefaultSeverity.String()))
		if info.Demotable {
			r.Println(styles.Muted.Render("  Demoted to warn when the document declares imports"))
		}
		r.Println("")
		r.Println("  " + info.Description)
	}
	return nil
}

func demotableNote(info lint.CodeInfo) string {
	if info.Demotable {
		return " (demotable)"
	}
	return ""
}
