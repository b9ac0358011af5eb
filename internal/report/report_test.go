package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
	"github.com/ThomasJButler/iAI-Assessment/internal/fsutil"
)

func testResult() *compare.Result {
	return &compare.Result{
		Aggregate: compare.Aggregate{
			JaccardMean:            0.72,
			JaccardMedian:          0.75,
			JaccardStd:             0.1,
			JaccardMin:             0.5,
			JaccardMax:             1.0,
			AgreementPercentage:    40.0,
			AdditionsTotal:         3,
			RemovalsTotal:          2,
			ReplacementsTotal:      1,
			ChangesPerResponseMean: 1.2,
			KappaMean:              0.55,
		},
		PerTheme: []compare.ThemeMetrics{
			{Theme: "funding", Kappa: 0.6, FreqMapping1: 3, FreqMapping2: 2, FreqDelta: -1},
			{Theme: "resources", Kappa: 0.5, FreqMapping1: 2, FreqMapping2: 3, FreqDelta: 1},
		},
		PerResponse: []compare.ResponseMetrics{
			{Jaccard: 0.5, Additions: 1, Removals: 1},
			{Jaccard: 1.0, ExactMatch: true},
			{Jaccard: 0.75, Additions: 2, Removals: 1, Replacements: 1},
			{Jaccard: 0.6},
			{Jaccard: 0.8},
		},
	}
}

func TestAgreementBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kappa float64
		want  string
	}{
		{0.9, "substantial"},
		{0.61, "substantial"},
		{0.6, "moderate"},
		{0.41, "moderate"},
		{0.4, "fair"},
		{0.0, "fair"},
		{-0.2, "fair"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, AgreementBand(tc.kappa), "kappa=%v", tc.kappa)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	s := Summary(testResult())

	assert.Contains(t, s, "# Theme Mapping Comparison Summary")
	assert.Contains(t, s, "moderate level of agreement")
	assert.Contains(t, s, "Jaccard similarity of 0.72 across all 5 consultation responses")
	assert.Contains(t, s, "Exactly 40.0% of responses received identical theme mappings")
	assert.Contains(t, s, "total of 6 theme differences")
	assert.Contains(t, s, "3 additions, 2 removals, and approximately 1 theme replacements")
	assert.Contains(t, s, "heuristic approximation, not an exact edit distance")
	assert.Contains(t, s, "averaged 0.55 across all themes")
}

func TestWriteResults(t *testing.T) {
	t.Parallel()

	memFS := fsutil.NewMemoryFileSystem()
	w := NewWriter(memFS)
	result := testResult()

	require.NoError(t, w.WriteResults(result, "out/results.json"))
	require.True(t, memFS.Exists("out/results.json"))

	data, err := memFS.ReadFile("out/results.json")
	require.NoError(t, err)

	var got compare.Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, result.Aggregate, got.Aggregate)
	assert.Equal(t, result.PerTheme, got.PerTheme)
	assert.Len(t, got.PerResponse, 5)
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	memFS := fsutil.NewMemoryFileSystem()
	w := NewWriter(memFS)

	require.NoError(t, w.WriteSummary(testResult(), "out/summary.md"))

	data, err := memFS.ReadFile("out/summary.md")
	require.NoError(t, err)
	assert.Equal(t, Summary(testResult()), string(data))
}
