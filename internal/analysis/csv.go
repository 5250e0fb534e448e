package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// WriteSummaries writes the three summary CSVs into dir and returns their
// paths in written order.
func (r *Report) WriteSummaries(dir string) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("analysis: nil report")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("analysis: create dir %q: %w", dir, err)
	}

	var written []string

	overall := filepath.Join(dir, "summary_overall_performance.csv")
	if err := r.writeOverall(overall); err != nil {
		return written, err
	}
	written = append(written, overall)

	domain := filepath.Join(dir, "summary_domain_performance.csv")
	if err := r.writeDomains(domain); err != nil {
		return written, err
	}
	written = append(written, domain)

	categories := filepath.Join(dir, "summary_category_analysis.csv")
	if err := r.writeCategories(categories); err != nil {
		return written, err
	}
	written = append(written, categories)

	return written, nil
}

func (r *Report) driftLanguages() []string {
	var out []string
	for _, lang := range r.Languages {
		if lang != BaselineLanguage {
			out = append(out, lang)
		}
	}
	return out
}

func (r *Report) writeOverall(path string) error {
	header := []string{"model_identifier"}
	header = append(header, r.Languages...)
	for _, lang := range r.driftLanguages() {
		header = append(header, lang+"_Drift_Pts")
	}

	records := [][]string{header}
	for _, ms := range r.Overall {
		rec := []string{ms.Model}
		for _, lang := range r.Languages {
			rec = append(rec, formatScore(ms.Scores[lang]))
		}
		for _, lang := range r.driftLanguages() {
			rec = append(rec, formatScore(ms.Drift[lang]))
		}
		records = append(records, rec)
	}
	return writeCSV(path, records)
}

func (r *Report) writeDomains(path string) error {
	header := []string{"model_identifier", "domain"}
	header = append(header, r.Languages...)
	for _, lang := range r.driftLanguages() {
		header = append(header, lang+"_Drift_Pts")
	}

	records := [][]string{header}
	for _, ds := range r.Domains {
		rec := []string{ds.Model, ds.Domain}
		for _, lang := range r.Languages {
			rec = append(rec, formatScore(ds.Scores[lang]))
		}
		for _, lang := range r.driftLanguages() {
			rec = append(rec, formatScore(ds.Drift[lang]))
		}
		records = append(records, rec)
	}
	return writeCSV(path, records)
}

func (r *Report) writeCategories(path string) error {
	categories := r.categoryNames()

	header := []string{"model_identifier", "language"}
	header = append(header, categories...)

	records := [][]string{header}
	for _, cr := range r.Categories {
		rec := []string{cr.Model, cr.Language}
		for _, cat := range categories {
			rec = append(rec, formatScore(cr.Percent[cat]))
		}
		records = append(records, rec)
	}
	return writeCSV(path, records)
}

func (r *Report) categoryNames() []string {
	set := make(map[string]struct{})
	for _, cr := range r.Categories {
		for cat := range cr.Percent {
			set[cat] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analysis: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("analysis: write %q: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("analysis: flush %q: %w", path, err)
	}
	return nil
}
