// Package variation produces a perturbed copy of a theme mapping: labels are
// randomly removed, added, and replaced per response, driven by a single
// variation level in [0, 1]. The comparison engine downstream is pure; all
// randomness lives here, behind an injected source, so any perturbed mapping
// is reproducible from its seed.
package variation

import (
	"math/rand"

	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
)

// MaxThemesPerResponse caps how many labels additions may grow a response to.
const MaxThemesPerResponse = 5

// Generator perturbs mappings with controlled randomness. It holds its own
// rand.Rand rather than touching the package-global source.
type Generator struct {
	level float64
	rng   *rand.Rand
}

// NewGenerator returns a generator applying the given variation level,
// clamped into [0, 1]. The rng must not be shared with other users.
func NewGenerator(level float64, rng *rand.Rand) *Generator {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	return &Generator{level: level, rng: rng}
}

// Level returns the clamped variation level.
func (g *Generator) Level() float64 { return g.level }

// Vary builds a new mapping whose records carry the same response texts with
// perturbed theme sets. The input mapping is never mutated. Candidate labels
// for additions and replacements are drawn from the input's own vocabulary.
func (g *Generator) Vary(m *mapping.Mapping) *mapping.Mapping {
	vocab := m.Themes()
	monitoring.Logf("creating mapping variation: level=%.2f, %d responses, %d themes",
		g.level, m.Len(), len(vocab))

	out := &mapping.Mapping{Records: make([]mapping.Record, 0, m.Len())}
	for _, rec := range m.Records {
		labels := rec.Themes.Labels()
		labels = g.removeLabels(labels)
		labels = g.addLabels(labels, vocab)
		labels = g.replaceLabels(labels, vocab)
		out.Records = append(out.Records, mapping.Record{
			Text:   rec.Text,
			Themes: mapping.NewThemeSet(labels...),
		})
	}
	return out
}

// removeLabels drops each label with probability level, but never empties a
// non-empty response entirely.
func (g *Generator) removeLabels(labels []string) []string {
	if len(labels) == 0 {
		return labels
	}
	kept := labels[:0:0]
	removed := 0
	for _, l := range labels {
		if g.rng.Float64() < g.level && len(labels)-removed > 1 {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// addLabels appends labels not yet present, each slot filled with probability
// level, up to MaxThemesPerResponse in total.
func (g *Generator) addLabels(labels []string, vocab []string) []string {
	maxAdditions := capacityFor(labels)
	for j := 0; j < maxAdditions; j++ {
		if g.rng.Float64() >= g.level {
			continue
		}
		candidates := available(vocab, labels)
		if len(candidates) == 0 {
			break
		}
		labels = append(labels, candidates[g.rng.Intn(len(candidates))])
	}
	return labels
}

// replaceLabels swaps each label for an unused vocabulary label with
// probability level.
func (g *Generator) replaceLabels(labels []string, vocab []string) []string {
	for i := range labels {
		if g.rng.Float64() >= g.level {
			continue
		}
		candidates := available(vocab, labels)
		if len(candidates) == 0 {
			break
		}
		labels[i] = candidates[g.rng.Intn(len(candidates))]
	}
	return labels
}

func capacityFor(labels []string) int {
	c := MaxThemesPerResponse - len(labels)
	if c < 0 {
		return 0
	}
	return c
}

// available returns vocab entries not already carried, preserving vocab
// order so selection depends only on the rng stream.
func available(vocab, current []string) []string {
	carried := make(map[string]struct{}, len(current))
	for _, l := range current {
		carried[l] = struct{}{}
	}
	out := make([]string, 0, len(vocab))
	for _, v := range vocab {
		if _, ok := carried[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
