// Package compare is the comparison/metrics engine. It ingests two aligned
// theme mappings and produces one immutable Result holding set-overlap
// similarity, exact-match agreement, per-theme inter-rater reliability,
// frequency deltas, and change counts. The engine is a pure function of its
// input pair: no I/O, no shared mutable state, no dependency on process-wide
// random state.
package compare

import "fmt"

// ResponseMetrics holds the per-response portion of the result: the Jaccard
// score of the two theme sets at one corpus index and the change counts
// between them.
type ResponseMetrics struct {
	Jaccard      float64 `json:"jaccard"`
	ExactMatch   bool    `json:"exact_match"`
	Additions    int     `json:"additions"`
	Removals     int     `json:"removals"`
	Replacements int     `json:"replacements"`
}

// ThemeMetrics holds the per-theme portion of the result: Cohen's Kappa for
// the theme treated as a binary presence/absence classifier, and its
// occurrence counts in each mapping. Degenerate marks a Kappa resolved by
// convention rather than computed from variance.
type ThemeMetrics struct {
	Theme        string  `json:"theme"`
	Kappa        float64 `json:"kappa"`
	FreqMapping1 int     `json:"freq_mapping1"`
	FreqMapping2 int     `json:"freq_mapping2"`
	FreqDelta    int     `json:"freq_delta"`
	Degenerate   bool    `json:"degenerate,omitempty"`
}

// Aggregate holds the corpus-level metrics.
type Aggregate struct {
	JaccardMean            float64 `json:"jaccard_mean"`
	JaccardMedian          float64 `json:"jaccard_median"`
	JaccardStd             float64 `json:"jaccard_std"`
	JaccardMin             float64 `json:"jaccard_min"`
	JaccardMax             float64 `json:"jaccard_max"`
	AgreementPercentage    float64 `json:"agreement_percentage"`
	AdditionsTotal         int     `json:"additions_total"`
	RemovalsTotal          int     `json:"removals_total"`
	ReplacementsTotal      int     `json:"replacements_total"`
	ChangesPerResponseMean float64 `json:"changes_per_response_mean"`
	KappaMean              float64 `json:"kappa_mean"`
}

// DegenerateMetricWarning records a per-theme Kappa that hit the pe == 1
// degenerate branch. It is recorded alongside the metric, never thrown:
// downstream consumers need to know the value was resolved by convention.
type DegenerateMetricWarning struct {
	Theme string `json:"theme"`
	Note  string `json:"note"`
}

func (w DegenerateMetricWarning) String() string {
	return fmt.Sprintf("theme %q: %s", w.Theme, w.Note)
}

// Result is the engine's sole output artifact. It is constructed once per
// comparison run and never updated in place. PerTheme is label-sorted and
// PerResponse index-ordered, so serialised output is deterministic.
type Result struct {
	Aggregate   Aggregate                 `json:"aggregate"`
	PerTheme    []ThemeMetrics            `json:"per_theme"`
	PerResponse []ResponseMetrics         `json:"per_response"`
	Warnings    []DegenerateMetricWarning `json:"warnings,omitempty"`
}

// JaccardScores returns the per-response Jaccard sequence in corpus order.
func (r *Result) JaccardScores() []float64 {
	out := make([]float64, len(r.PerResponse))
	for i, m := range r.PerResponse {
		out[i] = m.Jaccard
	}
	return out
}
