package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Valid(t *testing.T) {
	project(t, map[string]string{"sales.yaml": testutil.BaselineModel})

	out, err := execute(t, nil, NewCheckCommand(), "sales.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "## sales.yaml")
	assert.Contains(t, out, "**PASS**")
	assert.Contains(t, out, "0 errors")
}

func TestCheck_Invalid(t *testing.T) {
	project(t, map[string]string{
		"good.yaml": testutil.BaselineModel,
		"bad.yaml":  testutil.InvalidModel,
	})

	out, err := execute(t, nil, NewCheckCommand(), "good.yaml", "bad.yaml", "-o", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, err.Error(), "1 document with errors")

	assert.Contains(t, out, "✓ good.yaml")
	assert.Contains(t, out, "✗ bad.yaml")
	assert.Contains(t, out, "INVALID_FIELD_NAME")
	assert.Contains(t, out, "MISSING_PRIMARY_KEY")
	assert.Contains(t, out, "Structure")
	assert.Contains(t, out, "Semantics")
}

func TestCheck_JSON(t *testing.T) {
	project(t, map[string]string{"dangling.yaml": testutil.DanglingImportModel})

	out, err := execute(t, nil, NewCheckCommand(), "dangling.yaml", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Results []struct {
			File      string `json:"file"`
			HasErrors bool   `json:"hasErrors"`
			Warnings  []struct {
				Code     string `json:"code"`
				Severity string `json:"severity"`
				Line     int    `json:"line"`
			} `json:"warnings"`
			Completeness struct {
				Score int `json:"score"`
			} `json:"completeness"`
		} `json:"results"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 1)

	res := got.Results[0]
	assert.Equal(t, "dangling.yaml", res.File)
	assert.False(t, res.HasErrors)
	assert.Zero(t, got.Failed)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "UNRESOLVED_REFERENCE", res.Warnings[0].Code)
	assert.Equal(t, "warn", res.Warnings[0].Severity)
	assert.Positive(t, res.Warnings[0].Line)
	assert.Positive(t, res.Completeness.Score)
}

func TestCheck_Filtering(t *testing.T) {
	project(t, map[string]string{
		"owner.yaml":   noOwnerModel,
		"invalid.yaml": testutil.InvalidModel,
	})

	out, err := execute(t, nil, NewCheckCommand(), "owner.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "MISSING_OWNER")

	out, err = execute(t, nil, NewCheckCommand(), "owner.yaml", "--disable", "MISSING_OWNER")
	require.NoError(t, err)
	assert.NotContains(t, out, "MISSING_OWNER")

	out, err = execute(t, nil, NewCheckCommand(), "owner.yaml", "--severity", "error")
	require.NoError(t, err)
	assert.NotContains(t, out, "MISSING_OWNER")

	out, err = execute(t, nil, NewCheckCommand(), "owner.yaml", "--nudges=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "MISSING_OWNER")

	// Errors are never hidden.
	out, err = execute(t, nil, NewCheckCommand(), "invalid.yaml", "--severity", "error", "--disable", "MISSING_PRIMARY_KEY")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "MISSING_PRIMARY_KEY")
}

func TestCheck_ForeignDocument(t *testing.T) {
	project(t, map[string]string{"schema.yml": "version: 2\nmodels:\n  - name: stg_orders\n"})

	out, err := execute(t, nil, NewCheckCommand(), "schema.yml")
	require.NoError(t, err)
	assert.Contains(t, out, "**SKIPPED**")
	assert.Contains(t, out, "FOREIGN_SCHEMA_DETECTED")
}

func TestCheck_Stdin(t *testing.T) {
	project(t, nil)

	out, err := execute(t, strings.NewReader(testutil.BaselineModel), NewCheckCommand(), "-")
	require.NoError(t, err)
	assert.Contains(t, out, "**PASS**")
}

func TestCheck_ReadError(t *testing.T) {
	project(t, nil)

	_, err := execute(t, nil, NewCheckCommand(), "missing.yaml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFailed)
	assert.Contains(t, err.Error(), "failed to read model")
}

func TestCheck_ParseError(t *testing.T) {
	project(t, map[string]string{"broken.yaml": "meta: [\n"})

	out, err := execute(t, nil, NewCheckCommand(), "broken.yaml")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, out, "YAML_PARSE_ERROR")
	assert.NotContains(t, out, "completeness")
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteModel(t, dir, "sales.yaml", testutil.BaselineModel)
	other := testutil.WriteModel(t, dir, "other.yaml", testutil.BaselineModel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		changed []string
	)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{path}, 20*time.Millisecond, func(p string) {
			mu.Lock()
			changed = append(changed, p)
			mu.Unlock()
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(testutil.AdditiveModel), 0o600))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changed) > 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	for _, p := range changed {
		assert.Equal(t, path, p)
	}
}

func TestWatch_RejectsStdin(t *testing.T) {
	project(t, nil)

	_, err := execute(t, strings.NewReader(testutil.BaselineModel), NewCheckCommand(), "-", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch standard input")
}

func TestWatchFiles_MissingDirectory(t *testing.T) {
	err := watchFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "x.yaml")}, time.Millisecond, func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
