package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_List(t *testing.T) {
	project(t, nil)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, nil, NewRulesCommand(), "-o", "json")
		require.NoError(t, err)

		var got struct {
			Codes []lint.CodeInfo `json:"codes"`
			Count int             `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, len(lint.All()), got.Count)
		assert.Len(t, got.Codes, got.Count)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := execute(t, nil, NewRulesCommand())
		require.NoError(t, err)
		assert.Contains(t, out, "# Issue Codes")
		assert.Contains(t, out, "## Structure")
		assert.Contains(t, out, "**UNRESOLVED_REFERENCE** (`error`) (demotable)")
	})

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, nil, NewRulesCommand(), "-o", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "MISSING_PRIMARY_KEY")
		assert.Contains(t, out, "Suggestions")
	})

	t.Run("group filter", func(t *testing.T) {
		out, err := execute(t, nil, NewRulesCommand(), "--group", "nudge")
		require.NoError(t, err)
		assert.Contains(t, out, "MISSING_OWNER")
		assert.NotContains(t, out, "MISSING_PRIMARY_KEY")
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := execute(t, nil, NewRulesCommand(), "--group", "nope")
		assert.Error(t, err)
	})
}

func TestRules_Show(t *testing.T) {
	project(t, nil)

	tests := []struct {
		name         string
		args         []string
		wantErr      bool
		wantContains []string
	}{
		{
			name:         "markdown",
			args:         []string{"MISSING_PRIMARY_KEY"},
			wantContains: []string{"# MISSING_PRIMARY_KEY", "- Group: semantic", "primary key"},
		},
		{
			name:         "case insensitive",
			args:         []string{"unknown_entity", "-o", "text"},
			wantContains: []string{"UNKNOWN_ENTITY", "Demoted to warn"},
		},
		{
			name:         "json",
			args:         []string{"CIRCULAR_RELATIONSHIPS", "-o", "json"},
			wantContains: []string{`"default_severity": "warn"`},
		},
		{
			name:    "unknown code",
			args:    []string{"NOPE"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, nil, NewRulesCommand(), tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
		})
	}
}
