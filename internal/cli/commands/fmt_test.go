package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmt_Print(t *testing.T) {
	project(t, map[string]string{"sales.yaml": testutil.BaselineModel})

	out, err := execute(t, nil, NewFmtCommand(), "sales.yaml")
	require.NoError(t, err)

	// Fields are sorted by name.
	assert.Less(t, strings.Index(out, "name: customer_code"), strings.Index(out, "name: customer_id"))
	assert.Contains(t, out, "meta:")
}

func TestFmt_WriteThenCheck(t *testing.T) {
	dir := project(t, map[string]string{"sales.yaml": testutil.BaselineModel})
	path := filepath.Join(dir, "sales.yaml")

	out, err := execute(t, nil, NewFmtCommand(), "sales.yaml", "--check")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "sales.yaml")

	_, err = execute(t, nil, NewFmtCommand(), "sales.yaml", "--write")
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, testutil.BaselineModel, string(written))

	out, err = execute(t, nil, NewFmtCommand(), "sales.yaml", "--check")
	require.NoError(t, err)
	assert.Empty(t, out)

	// The formatted document still passes the gate against the original.
	testutil.WriteModel(t, dir, "orig.yaml", testutil.BaselineModel)
	out, err = execute(t, nil, NewDiffCommand(), "orig.yaml", "sales.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes.")
}

func TestFmt_Refusals(t *testing.T) {
	project(t, map[string]string{
		"invalid.yaml": testutil.InvalidModel,
		"foreign.yaml": "version: 2\nmodels: []\n",
	})

	out, err := execute(t, nil, NewFmtCommand(), "invalid.yaml")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "not formatted")

	_, err = execute(t, nil, NewFmtCommand(), "foreign.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a leapmodel document")

	_, err = execute(t, nil, NewFmtCommand(), "invalid.yaml", "--write", "--check")
	assert.Error(t, err)
}

func TestFmt_RefusesLossyDocument(t *testing.T) {
	text := strings.Replace(testutil.BaselineModel,
		"  layer: transform\n", "  layer: transform\n  description: Sales mart\n", 1)
	dir := project(t, map[string]string{"sales.yaml": text})

	for _, args := range [][]string{{"sales.yaml"}, {"sales.yaml", "--write"}, {"sales.yaml", "--check"}} {
		out, err := execute(t, nil, NewFmtCommand(), args...)
		assert.ErrorIs(t, err, ErrFailed, "args %v", args)
		assert.Contains(t, out, "/meta/description")
		assert.NotContains(t, out, "entities:")
	}

	written, err := os.ReadFile(filepath.Join(dir, "sales.yaml"))
	require.NoError(t, err)
	assert.Equal(t, text, string(written), "the source file is left untouched")
}
