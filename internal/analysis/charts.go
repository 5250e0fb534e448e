package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
)

// WriteCharts renders the report figures as PNGs into dir and returns their
// paths in written order.
func (r *Report) WriteCharts(dir string) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("analysis: nil report")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("analysis: create dir %q: %w", dir, err)
	}

	var written []string

	overall := filepath.Join(dir, "figure_1_overall_performance.png")
	if err := r.renderOverallChart(overall); err != nil {
		return written, err
	}
	written = append(written, overall)

	drift := filepath.Join(dir, "figure_2_domain_drift.png")
	if err := r.renderDriftChart(drift); err != nil {
		return written, err
	}
	written = append(written, drift)

	for _, lang := range r.Languages {
		path := filepath.Join(dir, fmt.Sprintf("figure_3_response_categories_%s.png", lang))
		ok, err := r.renderCategoryChart(path, lang)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, path)
		}
	}

	return written, nil
}

func (r *Report) renderOverallChart(path string) error {
	bars := make([]chart.Value, 0, len(r.Overall)*len(r.Languages))
	for _, ms := range r.Overall {
		for _, lang := range r.Languages {
			bars = append(bars, chart.Value{
				Value: ms.Scores[lang],
				Label: fmt.Sprintf("%s %s", ms.Model, lang),
			})
		}
	}
	if len(bars) == 0 {
		return nil
	}

	c := chart.BarChart{
		Title:    "Overall Performance Score by Model and Language",
		Width:    1600,
		Height:   900,
		BarWidth: 32,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 45},
	}
	return renderPNG(path, c.Render)
}

func (r *Report) renderDriftChart(path string) error {
	drift := r.driftLanguages()
	if len(drift) == 0 || len(r.Domains) == 0 {
		return nil
	}
	lang := drift[0]

	bars := make([]chart.Value, 0, len(r.Domains))
	for _, ds := range r.Domains {
		bars = append(bars, chart.Value{
			Value: ds.Drift[lang],
			Label: fmt.Sprintf("%s %s", ds.Model, ds.Domain),
		})
	}

	c := chart.BarChart{
		Title:    fmt.Sprintf("Performance Drift by Domain (%s to %s)", BaselineLanguage, lang),
		Width:    1600,
		Height:   900,
		BarWidth: 32,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 45},
	}
	return renderPNG(path, c.Render)
}

func (r *Report) renderCategoryChart(path, lang string) (bool, error) {
	categories := r.categoryNames()

	var bars []chart.StackedBar
	for _, cr := range r.Categories {
		if cr.Language != lang {
			continue
		}
		values := make([]chart.Value, 0, len(categories))
		for _, cat := range categories {
			pct := cr.Percent[cat]
			if pct <= 0 {
				continue
			}
			values = append(values, chart.Value{Value: pct, Label: cat})
		}
		if len(values) == 0 {
			continue
		}
		bars = append(bars, chart.StackedBar{Name: cr.Model, Values: values})
	}
	if len(bars) == 0 {
		return false, nil
	}

	c := chart.StackedBarChart{
		Title:  fmt.Sprintf("Response Category Distribution (%s)", lang),
		Width:  1600,
		Height: 900,
		Bars:   bars,
	}
	if err := renderPNG(path, c.Render); err != nil {
		return false, err
	}
	return true, nil
}

func renderPNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analysis: create %q: %w", path, err)
	}
	defer f.Close()

	if err := render(chart.PNG, f); err != nil {
		return fmt.Errorf("analysis: render %q: %w", path, err)
	}
	return nil
}
