package npm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

func mustRange(t *testing.T, s string) nuget.VersionRange {
	t.Helper()
	r, err := nuget.ParseVersionRange(s)
	require.NoError(t, err)
	return r
}

func TestRangeTranslator_Translate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[1.2.0,2.0.0)", ">=1.2.0 <2.0.0"},
		{"1.2", ">=1.2.0"},
		{"(1.0,)", ">1.0.0"},
		{"(,2.0]", "<=2.0.0"},
		{"(,2.0)", "<2.0.0"},
		{"(1.0,2.0]", ">1.0.0 <=2.0.0"},
		{"[3.0]", ">=3.0.0 <=3.0.0"},
		{"[1.0.0.5,2.0)", ">=1.0.0.5 <2.0.0"},
		{"", ""},
	}
	var tr RangeTranslator
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Translate(mustRange(t, tt.in)))
		})
	}
}

func TestRangeTranslator_LowerOnlyDiffersFromUnbounded(t *testing.T) {
	var tr RangeTranslator
	lower := tr.Translate(mustRange(t, "1.0"))
	unbounded := tr.Translate(mustRange(t, ""))
	assert.NotEqual(t, lower, unbounded)
	assert.Equal(t, "", unbounded)
}

func TestRangeTranslator_MinAsExact(t *testing.T) {
	tr := RangeTranslator{MinAsExact: true}
	for _, in := range []string{"[1.2.0,2.0.0)", "(1.2.0,)", "1.2", "[1.2.0]", "(1.2.0,1.5.0]"} {
		assert.Equal(t, "1.2.0", tr.Translate(mustRange(t, in)), in)
	}
	assert.Equal(t, "", tr.Translate(mustRange(t, "(,2.0]")))
}
