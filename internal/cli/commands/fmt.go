package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/leapstack-labs/leapmodel/pkg/canonical"
	"github.com/spf13/cobra"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool
	Check bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "Rewrite model documents in canonical form",
		Long: `Print model documents in canonical form: entities, fields, relationships,
indexes, rules, metrics and glossary entries sorted by name, two-space
indentation. Order-sensitive lists such as grain and natural_key are kept.

Documents with validation errors are not formatted, and neither are documents
with keys the model does not define or unquoted timestamps, since the canonical
form could not keep them.`,
		Example: `  # Print the canonical form
  leapmodel fmt sales.yaml

  # Rewrite in place
  leapmodel fmt sales.yaml --write

  # Fail in CI when a document is not canonical
  leapmodel fmt models/*.yaml --check`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			r := cc.Renderer

			unformatted := 0
			for _, path := range args {
				text, err := readModel(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}

				res := cc.Engine.Check(text)
				if res.HasErrors {
					r.Println(r.Styles().Error.Render(path + ": not formatted, document has errors"))
					renderIssues(r, res.Errors)
					return fmt.Errorf("%w: %s has errors", ErrFailed, path)
				}
				if res.Foreign {
					return fmt.Errorf("%s: not a leapmodel document", path)
				}

				lost, err := canonical.Lossy(text)
				if err != nil {
					return err
				}
				if len(lost) > 0 {
					r.Println(r.Styles().Error.Render(path + ": not formatted, canonical form would drop or retype:"))
					for _, p := range lost {
						r.Printf("  %s\n", p)
					}
					r.Println(r.Styles().Muted.Render("Remove keys the model does not define and quote timestamp values."))
					return fmt.Errorf("%w: %s has values the canonical form cannot keep", ErrFailed, path)
				}

				out, err := canonical.Marshal(canonical.Canonicalize(res.Document()))
				if err != nil {
					return err
				}

				switch {
				case opts.Check:
					if !bytes.Equal(out, []byte(text)) {
						unformatted++
						r.Println(path)
					}
				case opts.Write:
					if bytes.Equal(out, []byte(text)) {
						continue
					}
					if err := writeInPlace(path, out); err != nil {
						return err
					}
					cc.Logger.Debug("formatted document", "file", path)
				default:
					_, _ = r.Writer().Write(out)
				}
			}

			if unformatted > 0 {
				return fmt.Errorf("%w: %s not in canonical form", ErrFailed, plural(unformatted, "document"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the file")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "List documents that are not in canonical form and exit 1")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func writeInPlace(path string, data []byte) error {
	if path == "-" {
		return fmt.Errorf("cannot write standard input in place")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
