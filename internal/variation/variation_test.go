package variation

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
)

func testMapping(n int) *mapping.Mapping {
	vocab := []string{"funding", "resources", "class size", "transport", "staffing", "buildings"}
	m := &mapping.Mapping{Records: make([]mapping.Record, 0, n)}
	for i := 0; i < n; i++ {
		labels := []string{vocab[i%len(vocab)], vocab[(i+2)%len(vocab)]}
		m.Records = append(m.Records, mapping.Record{
			Text:   fmt.Sprintf("response %d", i),
			Themes: mapping.NewThemeSet(labels...),
		})
	}
	return m
}

func TestNewGeneratorClampsLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, NewGenerator(-0.5, rand.New(rand.NewSource(1))).Level())
	assert.Equal(t, 1.0, NewGenerator(1.5, rand.New(rand.NewSource(1))).Level())
	assert.Equal(t, 0.3, NewGenerator(0.3, rand.New(rand.NewSource(1))).Level())
}

func TestVaryDeterministicFromSeed(t *testing.T) {
	t.Parallel()

	in := testMapping(50)
	a := NewGenerator(0.4, rand.New(rand.NewSource(42))).Vary(in)
	b := NewGenerator(0.4, rand.New(rand.NewSource(42))).Vary(in)

	require.Equal(t, a.Len(), b.Len())
	for i := range a.Records {
		assert.True(t, a.Records[i].Themes.Equal(b.Records[i].Themes),
			"record %d differs between identical seeds", i)
	}

	c := NewGenerator(0.4, rand.New(rand.NewSource(7))).Vary(in)
	same := true
	for i := range a.Records {
		if !a.Records[i].Themes.Equal(c.Records[i].Themes) {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should perturb differently")
}

func TestVaryNeverMutatesInput(t *testing.T) {
	t.Parallel()

	in := testMapping(30)
	before := make([][]string, in.Len())
	for i, rec := range in.Records {
		before[i] = rec.Themes.Labels()
	}

	NewGenerator(1.0, rand.New(rand.NewSource(3))).Vary(in)

	for i, rec := range in.Records {
		if diff := cmp.Diff(before[i], rec.Themes.Labels()); diff != "" {
			t.Errorf("input record %d mutated (-before +after):\n%s", i, diff)
		}
	}
}

func TestVaryPreservesTextsAndLength(t *testing.T) {
	t.Parallel()

	in := testMapping(20)
	out := NewGenerator(0.8, rand.New(rand.NewSource(9))).Vary(in)

	require.Equal(t, in.Len(), out.Len())
	for i := range in.Records {
		assert.Equal(t, in.Records[i].Text, out.Records[i].Text)
	}
}

func TestVaryZeroLevelIsIdentity(t *testing.T) {
	t.Parallel()

	in := testMapping(25)
	out := NewGenerator(0, rand.New(rand.NewSource(5))).Vary(in)

	for i := range in.Records {
		assert.True(t, in.Records[i].Themes.Equal(out.Records[i].Themes),
			"record %d changed at level zero", i)
	}
}

func TestVaryNeverEmptiesNonEmptyResponse(t *testing.T) {
	t.Parallel()

	in := testMapping(100)
	out := NewGenerator(1.0, rand.New(rand.NewSource(11))).Vary(in)

	for i, rec := range out.Records {
		if in.Records[i].Themes.Len() > 0 {
			assert.Greater(t, rec.Themes.Len(), 0, "record %d emptied", i)
		}
	}
}

func TestVaryRespectsThemeCap(t *testing.T) {
	t.Parallel()

	in := testMapping(100)
	out := NewGenerator(1.0, rand.New(rand.NewSource(13))).Vary(in)

	for i, rec := range out.Records {
		assert.LessOrEqual(t, rec.Themes.Len(), MaxThemesPerResponse, "record %d over cap", i)
	}
}

func TestVaryEmptyRecordsStayEmptyWithoutVocabulary(t *testing.T) {
	t.Parallel()

	in := &mapping.Mapping{Records: []mapping.Record{
		{Text: "a", Themes: mapping.ThemeSet{}},
		{Text: "b", Themes: mapping.ThemeSet{}},
	}}
	out := NewGenerator(1.0, rand.New(rand.NewSource(17))).Vary(in)

	for i, rec := range out.Records {
		assert.Equal(t, 0, rec.Themes.Len(), "record %d gained labels from an empty vocabulary", i)
	}
}
