package engine

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(issues []lint.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Code)
	}
	return out
}

func TestRunModelChecks_Valid(t *testing.T) {
	res := RunModelChecks(testutil.BaselineModel)

	assert.False(t, res.HasErrors)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Completeness)
	assert.Len(t, res.Completeness.Entities, 2)
	assert.NotNil(t, res.Document())
	assert.False(t, res.Foreign)
}

func TestRunModelChecks_ParseFailureIsExclusive(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{name: "empty", text: "", code: lint.CodeYAMLParseError},
		{name: "malformed", text: "meta: [\n", code: lint.CodeYAMLParseError},
		{name: "list root", text: "- 1\n", code: lint.CodeRootNotObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RunModelChecks(tt.text)
			assert.True(t, res.HasErrors)
			assert.Equal(t, []string{tt.code}, codes(res.Issues))
			assert.Len(t, res.Errors, 1)
			assert.Empty(t, res.Warnings)
			assert.Nil(t, res.Completeness)
			assert.Nil(t, res.Document())
		})
	}
}

func TestRunModelChecks_Foreign(t *testing.T) {
	res := RunModelChecks("version: 2\nmodels:\n  - name: stg_orders\n")

	assert.True(t, res.Foreign)
	assert.False(t, res.HasErrors)
	assert.Equal(t, []string{lint.CodeForeignSchemaDetected}, codes(res.Issues))
	assert.Len(t, res.Warnings, 1)
	assert.Nil(t, res.Completeness)
}

// Scenario C
func TestRunModelChecks_InvalidDocument(t *testing.T) {
	res := RunModelChecks(testutil.InvalidModel)

	assert.True(t, res.HasErrors)
	assert.Contains(t, codes(res.Errors), lint.CodeInvalidFieldName)
	assert.Contains(t, codes(res.Errors), lint.CodeMissingPrimaryKey)
	assert.NotNil(t, res.Completeness, "scoring still runs on invalid documents")

	for _, is := range res.Issues {
		assert.Positive(t, is.Line, "issue %s at %s has no line", is.Code, is.Path)
	}
}

// Scenario D
func TestRunModelChecks_DanglingReferenceWithImports(t *testing.T) {
	res := RunModelChecks(testutil.DanglingImportModel)

	var found bool
	for _, is := range res.Issues {
		if is.Code == lint.CodeUnresolvedReference {
			found = true
			assert.Equal(t, lint.SeverityWarn, is.Severity)
			assert.Equal(t, "/relationships/0/to", is.Path)
		}
	}
	assert.True(t, found)
	assert.False(t, res.HasErrors)
}

func TestCheck_StrictImports(t *testing.T) {
	res := New(Options{StrictImports: true}).Check(testutil.DanglingImportModel)
	assert.True(t, res.HasErrors)
	assert.Contains(t, codes(res.Errors), lint.CodeUnresolvedReference)
}

func TestCheck_DisableNudges(t *testing.T) {
	text := strings.Replace(testutil.BaselineModel, "    owner: crm@acme.io\n", "", 1)

	withNudges := New(Options{}).Check(text)
	assert.Contains(t, codes(withNudges.Warnings), lint.CodeMissingOwner)

	without := New(Options{DisableNudges: true}).Check(text)
	assert.NotContains(t, codes(without.Warnings), lint.CodeMissingOwner)
}

func TestCheck_Deterministic(t *testing.T) {
	first, err := json.Marshal(RunModelChecks(testutil.InvalidModel))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = json.Marshal(RunModelChecks(testutil.InvalidModel))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, string(first), string(r))
	}
}

func TestCheck_LogsStages(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()
	New(Options{Logger: logger}).Check(testutil.BaselineModel)

	out := buf.String()
	assert.Contains(t, out, "structural validation complete")
	assert.Contains(t, out, "completeness scoring complete")
	assert.Contains(t, out, "model checks complete")
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(RunModelChecks(testutil.DanglingImportModel))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"issues", "errors", "warnings", "hasErrors", "completeness"} {
		assert.Contains(t, m, key)
	}
	warnings := m["warnings"].([]any)
	require.NotEmpty(t, warnings)
	assert.Equal(t, "warn", warnings[0].(map[string]any)["severity"])
}
