package commands

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapmodel/internal/cli/config"
	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/spf13/cobra"
)

// execute runs cmd under a minimal root that loads config like the real one.
func execute(t *testing.T, stdin io.Reader, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{
		Use:           "leapmodel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			_, err := config.Attach(c, "")
			return err
		},
	}
	root.PersistentFlags().StringP("output", "o", "", "")
	root.PersistentFlags().Bool("nudges", true, "")
	root.PersistentFlags().String("history-path", "", "")
	root.AddCommand(cmd)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(append([]string{cmd.Name()}, args...))

	err := root.Execute()
	return out.String(), err
}

// project switches to a fresh directory holding the given documents.
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for name, text := range files {
		testutil.WriteModel(t, dir, name, text)
	}
	return dir
}

var noOwnerModel = strings.Replace(testutil.BaselineModel, "    owner: crm@acme.io\n", "", 1)
