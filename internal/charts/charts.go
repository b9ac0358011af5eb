// Package charts renders a comparison result as PNG files: a histogram of
// per-response Jaccard scores, a grouped bar chart of theme frequencies, and
// a bar chart of per-theme Kappa scores with agreement threshold guides.
package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
	"github.com/ThomasJButler/iAI-Assessment/internal/monitoring"
)

// Output filenames within the charts directory.
const (
	JaccardHistogramFile = "jaccard_distribution.png"
	ThemeFrequencyFile   = "theme_frequency.png"
	CohenKappaFile       = "cohen_kappa.png"
)

var (
	colorMapping1 = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorMapping2 = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorKappa    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Generate writes all three charts into outputDir, creating it if needed.
// Returns the number of chart files written.
func Generate(result *compare.Result, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create charts directory: %w", err)
	}

	count := 0
	steps := []struct {
		name string
		fn   func(*compare.Result, string) error
	}{
		{JaccardHistogramFile, jaccardHistogram},
		{ThemeFrequencyFile, themeFrequency},
		{CohenKappaFile, cohenKappa},
	}
	for _, step := range steps {
		path := filepath.Join(outputDir, step.name)
		if err := step.fn(result, path); err != nil {
			return count, fmt.Errorf("%s: %w", step.name, err)
		}
		count++
	}
	monitoring.Logf("saved %d charts to %s", count, outputDir)
	return count, nil
}

// jaccardHistogram plots the distribution of per-response Jaccard scores.
func jaccardHistogram(result *compare.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Distribution of Jaccard Similarity Scores"
	p.X.Label.Text = "Jaccard Similarity"
	p.Y.Label.Text = "Number of Responses"
	p.Add(plotter.NewGrid())

	scores := result.JaccardScores()
	if len(scores) > 0 {
		hist, err := plotter.NewHist(plotter.Values(scores), 20)
		if err != nil {
			return err
		}
		hist.FillColor = colorMapping1
		p.Add(hist)
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// themeFrequency plots occurrence counts of every theme in both mappings as
// grouped bars. Themes arrive label-sorted from the result.
func themeFrequency(result *compare.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Theme Frequency Comparison"
	p.X.Label.Text = "Themes"
	p.Y.Label.Text = "Frequency"

	labels := make([]string, len(result.PerTheme))
	counts1 := make(plotter.Values, len(result.PerTheme))
	counts2 := make(plotter.Values, len(result.PerTheme))
	for i, tm := range result.PerTheme {
		labels[i] = tm.Theme
		counts1[i] = float64(tm.FreqMapping1)
		counts2[i] = float64(tm.FreqMapping2)
	}

	barWidth := vg.Points(12)
	bars1, err := plotter.NewBarChart(counts1, barWidth)
	if err != nil {
		return err
	}
	bars1.Color = colorMapping1
	bars1.Offset = -barWidth / 2

	bars2, err := plotter.NewBarChart(counts2, barWidth)
	if err != nil {
		return err
	}
	bars2.Color = colorMapping2
	bars2.Offset = barWidth / 2

	p.Add(bars1, bars2)
	p.Legend.Add("Mapping 1", bars1)
	p.Legend.Add("Mapping 2", bars2)
	p.Legend.Top = true
	p.NominalX(labels...)

	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

// cohenKappa plots per-theme Kappa bars with the conventional agreement
// threshold guides at 0.4, 0.6, and 0.8.
func cohenKappa(result *compare.Result, path string) error {
	p := plot.New()
	p.Title.Text = "Cohen's Kappa by Theme"
	p.X.Label.Text = "Theme"
	p.Y.Label.Text = "Cohen's Kappa"

	labels := make([]string, len(result.PerTheme))
	kappas := make(plotter.Values, len(result.PerTheme))
	for i, tm := range result.PerTheme {
		labels[i] = tm.Theme
		kappas[i] = tm.Kappa
	}

	bars, err := plotter.NewBarChart(kappas, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Color = colorKappa
	p.Add(bars)
	p.NominalX(labels...)

	thresholds := []struct {
		y     float64
		label string
	}{
		{0.4, "Fair Agreement (0.4)"},
		{0.6, "Moderate Agreement (0.6)"},
		{0.8, "Strong Agreement (0.8)"},
	}
	xMax := float64(len(labels))
	if xMax == 0 {
		xMax = 1
	}
	for _, th := range thresholds {
		line, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: th.y}, {X: xMax - 0.5, Y: th.y}})
		if err != nil {
			return err
		}
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(th.label, line)
	}
	p.Legend.Top = true

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}
