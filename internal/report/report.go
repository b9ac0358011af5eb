// Package report renders a comparison result for people: a JSON results file
// for downstream tooling and a Markdown summary paragraph for technical and
// non-technical stakeholders. It performs no computation beyond formatting.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
	"github.com/ThomasJButler/iAI-Assessment/internal/fsutil"
	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
)

// Writer persists result artifacts through a filesystem abstraction so tests
// can run against the in-memory implementation.
type Writer struct {
	fs fsutil.FileSystem
}

// NewWriter returns a Writer backed by the given filesystem. Pass
// fsutil.OSFileSystem{} in production.
func NewWriter(fs fsutil.FileSystem) *Writer {
	return &Writer{fs: fs}
}

// WriteResults writes the full result object as indented JSON.
func (w *Writer) WriteResults(result *compare.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := w.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	monitoring.Logf("saved comparison results to %s", path)
	return nil
}

// WriteSummary writes the Markdown summary paragraph.
func (w *Writer) WriteSummary(result *compare.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	if err := w.fs.WriteFile(path, []byte(Summary(result)), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	monitoring.Logf("saved summary to %s", path)
	return nil
}

// AgreementBand names the strength of a mean Kappa value using the
// conventional interpretation bands.
func AgreementBand(kappa float64) string {
	switch {
	case kappa > 0.6:
		return "substantial"
	case kappa > 0.4:
		return "moderate"
	default:
		return "fair"
	}
}

// Summary renders the narrative paragraph describing how much the two
// mappings diverge. The replacement count is explicitly flagged as an
// approximation: it is a heuristic, not a reconciled edit distance.
func Summary(result *compare.Result) string {
	agg := result.Aggregate
	n := len(result.PerResponse)
	totalChanges := agg.AdditionsTotal + agg.RemovalsTotal + agg.ReplacementsTotal

	var b strings.Builder
	b.WriteString("# Theme Mapping Comparison Summary\n\n")
	fmt.Fprintf(&b,
		"The comparison between the two theme mappings reveals a %s level of agreement, "+
			"with an average Jaccard similarity of %.2f across all %d consultation responses. ",
		AgreementBand(agg.KappaMean), agg.JaccardMean, n)
	fmt.Fprintf(&b,
		"Exactly %.1f%% of responses received identical theme mappings in both sets. ",
		agg.AgreementPercentage)
	fmt.Fprintf(&b,
		"The analysis identified a total of %d theme differences, averaging %.2f changes per response, "+
			"which included %d additions, %d removals, and approximately %d theme replacements "+
			"(the replacement count is a heuristic approximation, not an exact edit distance). ",
		totalChanges, agg.ChangesPerResponseMean,
		agg.AdditionsTotal, agg.RemovalsTotal, agg.ReplacementsTotal)
	fmt.Fprintf(&b,
		"Cohen's Kappa coefficient, which measures inter-rater reliability while accounting for "+
			"chance agreement, averaged %.2f across all themes, indicating %s agreement between "+
			"the two mapping approaches. ",
		agg.KappaMean, AgreementBand(agg.KappaMean))
	b.WriteString(
		"The variation observed suggests that while automated theme extraction captures many of " +
			"the same patterns as the alternate coding, there remain meaningful differences in " +
			"thematic interpretation that may warrant consideration when implementing fully " +
			"automated consultation analysis systems.\n")
	return b.String()
}
