// Package extract assigns theme labels to consultation responses, producing
// the first mapping of a comparison run. Labels are drawn from a fixed
// lettered vocabulary ("Theme A" through "Theme J" by default); each response
// receives a keyword-independent random sample of one to five themes. This is
// the stand-in extraction stage of the pipeline, not a natural-language
// understanding component.
package extract

import (
	"fmt"
	"math/rand"

	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
)

// Defaults for the extraction vocabulary and per-response assignment bounds.
const (
	DefaultThemeCount      = 10
	MinThemesPerResponse   = 1
	MaxThemesPerResponse   = 5
	themeVocabularyLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Vocabulary returns the lettered theme vocabulary of the given size, capped
// at 26 entries.
func Vocabulary(count int) []string {
	if count < 1 {
		count = 1
	}
	if count > len(themeVocabularyLetters) {
		count = len(themeVocabularyLetters)
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = fmt.Sprintf("Theme %c", themeVocabularyLetters[i])
	}
	return out
}

// Extractor assigns themes to responses using an injected random source.
type Extractor struct {
	vocab []string
	rng   *rand.Rand
}

// NewExtractor builds an extractor over a vocabulary of themeCount labels.
func NewExtractor(themeCount int, rng *rand.Rand) *Extractor {
	return &Extractor{vocab: Vocabulary(themeCount), rng: rng}
}

// Extract builds a mapping assigning each response between
// MinThemesPerResponse and MaxThemesPerResponse distinct themes.
func (e *Extractor) Extract(responses []string) *mapping.Mapping {
	m := &mapping.Mapping{Records: make([]mapping.Record, 0, len(responses))}
	for _, text := range responses {
		m.Records = append(m.Records, mapping.Record{
			Text:   text,
			Themes: mapping.NewThemeSet(e.sample()...),
		})
	}
	monitoring.Logf("assigned themes to %d responses from a %d-theme vocabulary",
		len(responses), len(e.vocab))
	return m
}

// sample picks a random number of themes and then a random subset of the
// vocabulary of that size, without replacement.
func (e *Extractor) sample() []string {
	maxThemes := MaxThemesPerResponse
	if maxThemes > len(e.vocab) {
		maxThemes = len(e.vocab)
	}
	n := MinThemesPerResponse
	if maxThemes > MinThemesPerResponse {
		n += e.rng.Intn(maxThemes - MinThemesPerResponse + 1)
	}

	picked := e.rng.Perm(len(e.vocab))[:n]
	out := make([]string, 0, n)
	for _, idx := range picked {
		out = append(out, e.vocab[idx])
	}
	return out
}
