// Package analysis turns scored rows into the summary tables and charts the
// study reports: normalized performance per model and language, domain
// breakdowns with drift against English, and response-category
// distributions.
package analysis

import (
	"errors"
	"sort"

	"github.com/stellarlinkco/lingbench/internal/results"
)

// BaselineLanguage is the reference language drift is measured against.
const BaselineLanguage = "EN"

// ModelSummary is one model's normalized score per language, with drift
// points (baseline minus target) for every non-baseline language.
type ModelSummary struct {
	Model  string
	Scores map[string]float64 // language -> normalized score (%)
	Drift  map[string]float64 // language -> baseline score minus language score
}

// DomainSummary is a ModelSummary restricted to one question domain.
type DomainSummary struct {
	Model  string
	Domain string
	Scores map[string]float64
	Drift  map[string]float64
}

// CategoryRow is the share of each score category for one model and
// language, in percent of that model/language's responses.
type CategoryRow struct {
	Model    string
	Language string
	Percent  map[string]float64
}

// Report is the full aggregation over one scored dataset.
type Report struct {
	Languages  []string
	Overall    []ModelSummary
	Domains    []DomainSummary
	Categories []CategoryRow
	TotalRows  int
}

// Aggregate computes the report for rows. Languages fixes the column order;
// languages with no data report zero. Normalization divides each
// model/language score sum by the number of distinct questions seen in that
// language (per domain for the domain table), scaled to percent.
func Aggregate(rows []results.ScoredRow, languages []string) (*Report, error) {
	if len(rows) == 0 {
		return nil, errors.New("analysis: no scored rows")
	}
	if len(languages) == 0 {
		languages = []string{BaselineLanguage}
	}

	type key struct{ model, lang string }
	type domainKey struct{ model, domain, lang string }

	scoreSum := make(map[key]float64)
	domainSum := make(map[domainKey]float64)
	counts := make(map[key]int)
	catCounts := make(map[key]map[string]int)

	questionsByLang := make(map[string]map[string]struct{})
	questionsByDomainLang := make(map[[2]string]map[string]struct{})
	modelSet := make(map[string]struct{})
	domainSet := make(map[string]struct{})

	for i := range rows {
		r := &rows[i]
		k := key{r.ModelIdentifier, r.Language}
		scoreSum[k] += r.Score
		counts[k]++
		modelSet[r.ModelIdentifier] = struct{}{}

		if catCounts[k] == nil {
			catCounts[k] = make(map[string]int)
		}
		catCounts[k][r.ScoreCategory]++

		if questionsByLang[r.Language] == nil {
			questionsByLang[r.Language] = make(map[string]struct{})
		}
		questionsByLang[r.Language][r.QuestionID] = struct{}{}

		if r.Domain != "" {
			domainSet[r.Domain] = struct{}{}
			domainSum[domainKey{r.ModelIdentifier, r.Domain, r.Language}] += r.Score
			dl := [2]string{r.Domain, r.Language}
			if questionsByDomainLang[dl] == nil {
				questionsByDomainLang[dl] = make(map[string]struct{})
			}
			questionsByDomainLang[dl][r.QuestionID] = struct{}{}
		}
	}

	models := sortedKeys(modelSet)
	domains := sortedKeys(domainSet)

	rep := &Report{Languages: languages, TotalRows: len(rows)}

	for _, model := range models {
		ms := ModelSummary{
			Model:  model,
			Scores: make(map[string]float64, len(languages)),
			Drift:  make(map[string]float64),
		}
		for _, lang := range languages {
			ms.Scores[lang] = normalize(scoreSum[key{model, lang}], len(questionsByLang[lang]))
		}
		for _, lang := range languages {
			if lang == BaselineLanguage {
				continue
			}
			ms.Drift[lang] = ms.Scores[BaselineLanguage] - ms.Scores[lang]
		}
		rep.Overall = append(rep.Overall, ms)

		for _, domain := range domains {
			ds := DomainSummary{
				Model:  model,
				Domain: domain,
				Scores: make(map[string]float64, len(languages)),
				Drift:  make(map[string]float64),
			}
			for _, lang := range languages {
				ds.Scores[lang] = normalize(
					domainSum[domainKey{model, domain, lang}],
					len(questionsByDomainLang[[2]string{domain, lang}]),
				)
			}
			for _, lang := range languages {
				if lang == BaselineLanguage {
					continue
				}
				ds.Drift[lang] = ds.Scores[BaselineLanguage] - ds.Scores[lang]
			}
			rep.Domains = append(rep.Domains, ds)
		}

		for _, lang := range languages {
			k := key{model, lang}
			total := counts[k]
			if total == 0 {
				continue
			}
			cr := CategoryRow{
				Model:    model,
				Language: lang,
				Percent:  make(map[string]float64, len(catCounts[k])),
			}
			for cat, n := range catCounts[k] {
				cr.Percent[cat] = float64(n) / float64(total) * 100
			}
			rep.Categories = append(rep.Categories, cr)
		}
	}

	return rep, nil
}

func normalize(sum float64, questionCount int) float64 {
	if questionCount == 0 {
		return 0
	}
	return sum / float64(questionCount) * 100
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
