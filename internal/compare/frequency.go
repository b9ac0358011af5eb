package compare

import "github.com/ThomasJButler/iAI-Assessment/internal/mapping"

// themeFrequencies counts, for one theme, the number of responses whose set
// contains it in each mapping. A theme absent from one mapping simply counts
// zero there; the caller iterates the pair's shared vocabulary, so every
// label seen in either mapping gets a row.
func themeFrequencies(p *mapping.Pair, theme string) (freq1, freq2 int) {
	for i := 0; i < p.Len(); i++ {
		if p.First.Records[i].Themes.Has(theme) {
			freq1++
		}
		if p.Second.Records[i].Themes.Has(theme) {
			freq2++
		}
	}
	return freq1, freq2
}
