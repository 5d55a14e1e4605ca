package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/leapstack-labs/leapmodel/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateProject(t *testing.T) string {
	t.Helper()
	return project(t, map[string]string{
		"base.yaml":     testutil.BaselineModel,
		"additive.yaml": testutil.AdditiveModel,
		"type.yaml":     testutil.TypeChangeModel,
		"invalid.yaml":  testutil.InvalidModel,
		"dangling.yaml": testutil.DanglingImportModel,
	})
}

func TestGate(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantFailed   bool
		wantContains []string
	}{
		{
			name:         "additive change passes",
			args:         []string{"base.yaml", "additive.yaml"},
			wantContains: []string{"**PASS**", engine.MessageNoBreaking, "Fields added"},
		},
		{
			name:         "type change is blocked",
			args:         []string{"base.yaml", "type.yaml"},
			wantFailed:   true,
			wantContains: []string{"**FAIL_ON_BREAKING**", "Field type changed: Order.total_amount", "decimal(12,2) -> decimal(18,2)"},
		},
		{
			name:         "override lets type change through",
			args:         []string{"base.yaml", "type.yaml", "--allow-breaking"},
			wantContains: []string{"**PASS**", engine.MessageBreakingAllowed},
		},
		{
			name:         "invalid candidate fails validation",
			args:         []string{"base.yaml", "invalid.yaml", "--allow-breaking"},
			wantFailed:   true,
			wantContains: []string{"**FAIL_ON_VALIDATION**", engine.MessageValidationFailed, "Errors in candidate", "MISSING_PRIMARY_KEY"},
		},
		{
			name:         "dangling import reference is not fatal",
			args:         []string{"base.yaml", "dangling.yaml"},
			wantContains: []string{"**PASS**", "Relationships added"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateProject(t)

			out, err := execute(t, nil, NewGateCommand(), tt.args...)
			if tt.wantFailed {
				assert.ErrorIs(t, err, ErrFailed)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestGate_JSON(t *testing.T) {
	gateProject(t)

	out, err := execute(t, nil, NewGateCommand(), "base.yaml", "additive.yaml", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["gatePassed"])
	assert.Equal(t, false, got["blockedByBreaking"])
	assert.Equal(t, "PASS", got["decision"])

	summary := got["diff"].(map[string]any)["summary"].(map[string]any)
	assert.InDelta(t, 0, summary["breaking_change_count"], 0)
	assert.InDelta(t, 1, summary["fields_added"], 0)
}

func TestGate_RecordAndHistory(t *testing.T) {
	dir := gateProject(t)
	ledger := filepath.Join(dir, "state", "gate.db")

	_, err := execute(t, nil, NewGateCommand(), "base.yaml", "additive.yaml", "--record", "--history-path", ledger)
	require.NoError(t, err)
	_, err = execute(t, nil, NewGateCommand(), "base.yaml", "type.yaml", "--record", "--history-path", ledger)
	require.ErrorIs(t, err, ErrFailed)

	out, err := execute(t, nil, NewHistoryCommand(), "--history-path", ledger, "-o", "json")
	require.NoError(t, err)

	var entries []struct {
		Decision        string   `json:"decision"`
		Candidate       string   `json:"candidate"`
		GatePassed      bool     `json:"gate_passed"`
		BreakingChanges []string `json:"breaking_changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)

	decisions := map[string]string{}
	for _, e := range entries {
		decisions[e.Candidate] = e.Decision
	}
	assert.Equal(t, "PASS", decisions["additive.yaml"])
	assert.Equal(t, "FAIL_ON_BREAKING", decisions["type.yaml"])

	out, err = execute(t, nil, NewHistoryCommand(), "--history-path", ledger, "--limit", "1", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "type.yaml")
	assert.NotContains(t, out, "additive.yaml")
}

func TestGate_RecordFromConfig(t *testing.T) {
	dir := gateProject(t)
	testutil.WriteModel(t, dir, "leapmodel.yaml", "history:\n  enabled: true\n  path: runs.db\n")

	_, err := execute(t, nil, NewGateCommand(), "base.yaml", "base.yaml")
	require.NoError(t, err)

	out, err := execute(t, nil, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "base.yaml")
}

func TestHistory_Empty(t *testing.T) {
	dir := project(t, nil)

	out, err := execute(t, nil, NewHistoryCommand(), "--history-path", filepath.Join(dir, "h.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No gate runs recorded.")
}
