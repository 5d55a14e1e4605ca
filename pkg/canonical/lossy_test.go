package canonical

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/leapmodel/internal/testutil"
	"github.com/leapstack-labs/leapmodel/pkg/loader"
	"github.com/leapstack-labs/leapmodel/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var withUnmodeledKeys = strings.NewReplacer(
	"  layer: transform\n", "  layer: transform\n  description: Sales mart\n",
	"        description: Surrogate key\n", "        description: Surrogate key\n        default: UNKNOWN\n",
).Replace(testutil.BaselineModel)

func TestLossy(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "baseline is fully modeled",
			text: testutil.BaselineModel,
		},
		{
			name: "unmodeled keys",
			text: withUnmodeledKeys,
			want: []string{"/entities/0/fields/0/default", "/meta/description"},
		},
		{
			name: "timestamp example",
			text: strings.Replace(testutil.BaselineModel, "examples: [19.99]", "examples: [2024-01-31]", 1),
			want: []string{"/entities/1/fields/2/examples/0"},
		},
		{
			name: "quoted timestamp is a string",
			text: strings.Replace(testutil.BaselineModel, "examples: [19.99]", `examples: ["2024-01-31"]`, 1),
		},
		{
			name: "free-form maps keep any key",
			text: testutil.BaselineModel + "display:\n  layout:\n    Order: [1, 2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lossy(tt.text)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLossy_MarshalDropsWhatItReports(t *testing.T) {
	loaded, is := loader.Load(withUnmodeledKeys)
	require.Nil(t, is)
	doc, err := model.Decode(loaded.Tree)
	require.NoError(t, err)

	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Sales mart")
	assert.NotContains(t, string(out), "UNKNOWN")

	lost, err := Lossy(string(out))
	require.NoError(t, err)
	assert.Empty(t, lost, "canonical output is itself fully modeled")
}

func TestLossy_ParseError(t *testing.T) {
	_, err := Lossy("meta: [\n")
	assert.Error(t, err)
}
