package extract

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary(t *testing.T) {
	t.Parallel()

	t.Run("default size", func(t *testing.T) {
		t.Parallel()
		v := Vocabulary(DefaultThemeCount)
		require.Len(t, v, 10)
		assert.Equal(t, "Theme A", v[0])
		assert.Equal(t, "Theme J", v[9])
	})

	t.Run("capped at 26", func(t *testing.T) {
		t.Parallel()
		v := Vocabulary(40)
		require.Len(t, v, 26)
		assert.Equal(t, "Theme Z", v[25])
	})

	t.Run("floor of one", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"Theme A"}, Vocabulary(0))
		assert.Equal(t, []string{"Theme A"}, Vocabulary(-3))
	})
}

func testResponses(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("response %d", i)
	}
	return out
}

func TestExtractAssignsBoundedThemeSets(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultThemeCount, rand.New(rand.NewSource(42)))
	m := e.Extract(testResponses(200))
	require.Equal(t, 200, m.Len())

	for i, rec := range m.Records {
		n := rec.Themes.Len()
		assert.GreaterOrEqual(t, n, MinThemesPerResponse, "record %d under minimum", i)
		assert.LessOrEqual(t, n, MaxThemesPerResponse, "record %d over maximum", i)
	}
}

func TestExtractPreservesResponseOrder(t *testing.T) {
	t.Parallel()

	responses := testResponses(10)
	m := NewExtractor(5, rand.New(rand.NewSource(1))).Extract(responses)
	for i, rec := range m.Records {
		assert.Equal(t, responses[i], rec.Text)
	}
}

func TestExtractDeterministicFromSeed(t *testing.T) {
	t.Parallel()

	responses := testResponses(50)
	a := NewExtractor(DefaultThemeCount, rand.New(rand.NewSource(99))).Extract(responses)
	b := NewExtractor(DefaultThemeCount, rand.New(rand.NewSource(99))).Extract(responses)

	for i := range a.Records {
		assert.True(t, a.Records[i].Themes.Equal(b.Records[i].Themes),
			"record %d differs between identical seeds", i)
	}
}

func TestExtractSmallVocabulary(t *testing.T) {
	t.Parallel()

	// With a 2-theme vocabulary every record holds 1 or 2 distinct themes.
	m := NewExtractor(2, rand.New(rand.NewSource(7))).Extract(testResponses(50))
	for i, rec := range m.Records {
		n := rec.Themes.Len()
		assert.GreaterOrEqual(t, n, 1, "record %d", i)
		assert.LessOrEqual(t, n, 2, "record %d", i)
	}
}

func TestExtractEmptyCorpus(t *testing.T) {
	t.Parallel()

	m := NewExtractor(DefaultThemeCount, rand.New(rand.NewSource(1))).Extract(nil)
	assert.Equal(t, 0, m.Len())
}
