package mapping

import (
	"sort"
)

// Record pairs one response with its theme set in one mapping. Identity
// across two mappings is positional: record i in the first mapping describes
// the same response as record i in the second.
type Record struct {
	Text   string   `json:"response_text"`
	Themes ThemeSet `json:"themes"`
}

// Mapping is an ordered sequence of records, fixed for the lifetime of a
// comparison run. It is constructed once from validated input and never
// mutated afterwards.
type Mapping struct {
	Records []Record
}

// Len returns the number of responses in the mapping.
func (m *Mapping) Len() int { return len(m.Records) }

// Themes returns the union of labels across all records, sorted.
func (m *Mapping) Themes() []string {
	seen := make(map[string]struct{})
	for _, r := range m.Records {
		for _, l := range r.Themes.Labels() {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Pair is two aligned mappings over the same corpus plus the computed theme
// vocabulary: the sorted union of labels seen in either mapping. The
// vocabulary is built once here so the metric calculators never rediscover it
// in differing orders.
type Pair struct {
	First      *Mapping
	Second     *Mapping
	Vocabulary []string
}

// Align validates that two mappings describe the same corpus length and
// builds the shared vocabulary. A length mismatch yields a ValidationError
// and no Pair.
func Align(m1, m2 *Mapping) (*Pair, error) {
	if m1.Len() != m2.Len() {
		return nil, &ValidationError{Len1: m1.Len(), Len2: m2.Len()}
	}

	seen := make(map[string]struct{})
	for _, m := range []*Mapping{m1, m2} {
		for _, r := range m.Records {
			for _, l := range r.Themes.Labels() {
				seen[l] = struct{}{}
			}
		}
	}
	vocab := make([]string, 0, len(seen))
	for l := range seen {
		vocab = append(vocab, l)
	}
	sort.Strings(vocab)

	return &Pair{First: m1, Second: m2, Vocabulary: vocab}, nil
}

// Len returns the shared corpus length N.
func (p *Pair) Len() int { return p.First.Len() }
