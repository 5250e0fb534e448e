package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellarlinkco/lingbench/internal/corpus"
	"github.com/stellarlinkco/lingbench/internal/embedding"
)

// Verdict records the gate decision for one question.
type Verdict struct {
	QuestionID string
	Status     string // "Pass", "Fail", or "Error: ..."
	Similarity float64
}

// Passed reports whether the question survived the gate.
func (v Verdict) Passed() bool {
	return v.Status == "Pass"
}

// Gate validates translations by round-trip similarity.
type Gate struct {
	Translator Translator
	Measure    embedding.Measure
	Threshold  float64
}

// TranslateQuestion round-trips one question's text through targetLang. On
// a pass, the returned question carries the translated text and drops the
// English master text; on a fail or error, the question is nil.
func (g *Gate) TranslateQuestion(ctx context.Context, q *corpus.Question, targetLang string) (*corpus.Question, Verdict) {
	if q == nil {
		return nil, Verdict{Status: "Error: nil question"}
	}
	v := Verdict{QuestionID: q.ID}

	if g == nil || g.Translator == nil || g.Measure == nil {
		v.Status = "Error: gate not configured"
		return nil, v
	}

	original := q.TextEnglish
	if original == "" {
		original = q.Text
	}

	translated, err := g.Translator.Translate(ctx, original, "en", targetLang)
	if err != nil {
		v.Status = fmt.Sprintf("Error: %v", err)
		return nil, v
	}

	roundTrip, err := g.Translator.Translate(ctx, translated, targetLang, "en")
	if err != nil {
		v.Status = fmt.Sprintf("Error: %v", err)
		return nil, v
	}

	sim, err := g.Measure.Similarity(ctx, original, roundTrip)
	if err != nil {
		v.Status = fmt.Sprintf("Error: %v", err)
		return nil, v
	}
	v.Similarity = sim

	if sim < g.Threshold {
		v.Status = "Fail"
		return nil, v
	}

	out := *q
	out.Text = translated
	out.TextEnglish = ""
	v.Status = "Pass"
	return &out, v
}

// TranslateCorpus runs the gate over every question in file order,
// returning the surviving translated corpus and a verdict per input
// question. Only a cancelled context aborts the batch.
func (g *Gate) TranslateCorpus(ctx context.Context, questions []*corpus.Question, targetLang string) ([]*corpus.Question, []Verdict, error) {
	if ctx == nil {
		return nil, nil, errors.New("translate: nil context")
	}

	out := make([]*corpus.Question, 0, len(questions))
	verdicts := make([]Verdict, 0, len(questions))
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return out, verdicts, err
		}
		tq, v := g.TranslateQuestion(ctx, q, targetLang)
		verdicts = append(verdicts, v)
		if tq != nil {
			out = append(out, tq)
		}
	}
	return out, verdicts, nil
}
