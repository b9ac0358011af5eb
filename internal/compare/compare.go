package compare

import (
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ThomasJButler/iAI-Assessment/internal/mapping"
	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
)

// Options tune the execution of a comparison run. The zero value means
// sequential execution.
type Options struct {
	// Workers bounds the number of goroutines used for the per-response and
	// per-theme map phases. <= 1 runs sequentially; 0 is treated as 1.
	// Output is bit-identical regardless of the worker count: workers only
	// fill pre-indexed slots, and every reduction runs afterwards in
	// canonical index/label order.
	Workers int
}

// Compare runs the full metrics engine over an aligned pair sequentially.
func Compare(p *mapping.Pair) *Result {
	return CompareWithOptions(p, Options{})
}

// CompareWithOptions runs the engine with explicit execution options.
func CompareWithOptions(p *mapping.Pair, opts Options) *Result {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if max := runtime.NumCPU() * 4; workers > max {
		workers = max
	}

	n := p.Len()
	perResponse := make([]ResponseMetrics, n)
	forEachIndex(n, workers, func(i int) {
		a := p.First.Records[i].Themes
		b := p.Second.Records[i].Themes
		add, rem, repl := Delta(a, b)
		perResponse[i] = ResponseMetrics{
			Jaccard:      Jaccard(a, b),
			ExactMatch:   ExactMatch(a, b),
			Additions:    add,
			Removals:     rem,
			Replacements: repl,
		}
	})

	perTheme := make([]ThemeMetrics, len(p.Vocabulary))
	forEachIndex(len(p.Vocabulary), workers, func(i int) {
		theme := p.Vocabulary[i]
		kappa, degenerate := kappaForTheme(p, theme)
		f1, f2 := themeFrequencies(p, theme)
		perTheme[i] = ThemeMetrics{
			Theme:        theme,
			Kappa:        kappa,
			FreqMapping1: f1,
			FreqMapping2: f2,
			FreqDelta:    f2 - f1,
			Degenerate:   degenerate,
		}
	})

	result := &Result{
		PerTheme:    perTheme,
		PerResponse: perResponse,
	}
	for _, tm := range perTheme {
		if tm.Degenerate {
			w := DegenerateMetricWarning{
				Theme: tm.Theme,
				Note:  "chance agreement saturated (pe = 1); kappa resolved by convention",
			}
			result.Warnings = append(result.Warnings, w)
			monitoring.Logf("degenerate kappa: %s", w)
		}
	}
	result.Aggregate = aggregate(result)
	return result
}

// forEachIndex runs fn for every index in [0, n), fanning out across workers.
// Each index writes only its own slot, so scheduling never affects output.
func forEachIndex(n, workers int, fn func(i int)) {
	if workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	next := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}

// aggregate folds the per-response and per-theme tables into the corpus-level
// block. It runs single-threaded over canonically ordered slices so repeated
// runs produce bit-identical numbers.
func aggregate(r *Result) Aggregate {
	agg := Aggregate{}
	n := len(r.PerResponse)
	if n == 0 {
		return agg
	}

	jaccard := r.JaccardScores()
	agg.JaccardMean = stat.Mean(jaccard, nil)
	agg.JaccardStd = stat.PopStdDev(jaccard, nil)
	agg.JaccardMin = floats.Min(jaccard)
	agg.JaccardMax = floats.Max(jaccard)
	agg.JaccardMedian = median(jaccard)

	exact := 0
	for _, m := range r.PerResponse {
		if m.ExactMatch {
			exact++
		}
		agg.AdditionsTotal += m.Additions
		agg.RemovalsTotal += m.Removals
		agg.ReplacementsTotal += m.Replacements
	}
	agg.AgreementPercentage = 100 * float64(exact) / float64(n)

	totalChanges := agg.AdditionsTotal + agg.RemovalsTotal + agg.ReplacementsTotal
	agg.ChangesPerResponseMean = float64(totalChanges) / float64(n)

	if len(r.PerTheme) > 0 {
		kappas := make([]float64, len(r.PerTheme))
		for i, tm := range r.PerTheme {
			kappas[i] = tm.Kappa
		}
		agg.KappaMean = stat.Mean(kappas, nil)
	}
	return agg
}

// median uses the even-length midpoint convention (numpy's default), which
// gonum's quantile kinds do not implement. The input is copied before
// sorting; the engine never mutates a caller's slice.
func median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
