package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
	"github.com/ThomasJButler/iAI-Assessment/internal/httputil"
)

// loadRunForChart fetches a stored run for the chart handlers, translating
// the usual failure modes into HTTP errors. Returns nil if a response has
// already been written.
func (s *Server) loadRunForChart(w http.ResponseWriter, r *http.Request) *compare.Result {
	runID := r.URL.Query().Get("id")
	if runID == "" {
		httputil.BadRequest(w, "missing 'id' parameter")
		return nil
	}

	_, result, err := s.db.GetRun(runID)
	if err == sql.ErrNoRows {
		httputil.NotFound(w, fmt.Sprintf("run %s not found", runID))
		return nil
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load run: %v", err))
		return nil
	}
	return result
}

// jaccardChart renders a bar chart of the per-response Jaccard distribution,
// bucketed into ten equal-width bins.
func (s *Server) jaccardChart(w http.ResponseWriter, r *http.Request) {
	result := s.loadRunForChart(w, r)
	if result == nil {
		return
	}

	const bins = 10
	counts := make([]int, bins)
	for _, rm := range result.PerResponse {
		bin := int(rm.Jaccard * bins)
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin]++
	}

	x := make([]string, bins)
	y := make([]opts.BarData, bins)
	for i := 0; i < bins; i++ {
		x[i] = fmt.Sprintf("%.1f-%.1f", float64(i)/bins, float64(i+1)/bins)
		y[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Jaccard Similarity Distribution", Subtitle: fmt.Sprintf("%d responses", len(result.PerResponse))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("responses", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// frequencyChart renders grouped bars of theme frequency in each mapping.
func (s *Server) frequencyChart(w http.ResponseWriter, r *http.Request) {
	result := s.loadRunForChart(w, r)
	if result == nil {
		return
	}
	if len(result.PerTheme) == 0 {
		httputil.NotFound(w, "run has no theme metrics")
		return
	}

	x := make([]string, 0, len(result.PerTheme))
	y1 := make([]opts.BarData, 0, len(result.PerTheme))
	y2 := make([]opts.BarData, 0, len(result.PerTheme))
	for _, tm := range result.PerTheme {
		x = append(x, tm.Theme)
		y1 = append(y1, opts.BarData{Value: tm.FreqMapping1})
		y2 = append(y2, opts.BarData{Value: tm.FreqMapping2})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Theme Frequency Comparison"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("mapping 1", y1).
		AddSeries("mapping 2", y2)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// kappaChart renders per-theme Cohen's Kappa bars.
func (s *Server) kappaChart(w http.ResponseWriter, r *http.Request) {
	result := s.loadRunForChart(w, r)
	if result == nil {
		return
	}
	if len(result.PerTheme) == 0 {
		httputil.NotFound(w, "run has no theme metrics")
		return
	}

	x := make([]string, 0, len(result.PerTheme))
	y := make([]opts.BarData, 0, len(result.PerTheme))
	for _, tm := range result.PerTheme {
		x = append(x, tm.Theme)
		y = append(y, opts.BarData{Value: tm.Kappa})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cohen's Kappa by Theme",
			Subtitle: fmt.Sprintf("mean kappa %.3f", result.Aggregate.KappaMean),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("kappa", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
