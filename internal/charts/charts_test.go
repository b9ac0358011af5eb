package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
)

func testResult() *compare.Result {
	return &compare.Result{
		Aggregate: compare.Aggregate{JaccardMean: 0.7, KappaMean: 0.5},
		PerTheme: []compare.ThemeMetrics{
			{Theme: "funding", Kappa: 0.6, FreqMapping1: 4, FreqMapping2: 3, FreqDelta: -1},
			{Theme: "resources", Kappa: 0.4, FreqMapping1: 2, FreqMapping2: 4, FreqDelta: 2},
			{Theme: "transport", Kappa: 0.8, FreqMapping1: 1, FreqMapping2: 1},
		},
		PerResponse: []compare.ResponseMetrics{
			{Jaccard: 0.5}, {Jaccard: 1.0, ExactMatch: true}, {Jaccard: 0.25},
			{Jaccard: 0.75}, {Jaccard: 0.6},
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "charts")
	count, err := Generate(testResult(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, name := range []string{JaccardHistogramFile, ThemeFrequencyFile, CohenKappaFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "missing chart %s", name)
		assert.Greater(t, info.Size(), int64(0), "empty chart %s", name)
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	count, err := Generate(&compare.Result{}, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
