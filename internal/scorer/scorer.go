package scorer

import (
	"context"
	"regexp"
	"strings"

	"github.com/stellarlinkco/lingbench/internal/corpus"
	"github.com/stellarlinkco/lingbench/internal/embedding"
	"github.com/stellarlinkco/lingbench/internal/results"
)

// Scorer applies the hybrid automated scoring protocol to raw responses.
// Scoring is a pure function of (response, question); the only shared state
// is the similarity measure, which is read-only after construction.
type Scorer struct {
	cfg     Config
	measure embedding.Measure
}

// New creates a Scorer. The measure may be nil only if no Procedural
// Reasoning questions will be scored; a nil measure surfaces as
// SimilarityError per record, never as a panic.
func New(cfg Config, measure embedding.Measure) *Scorer {
	cfg.normalize()
	return &Scorer{cfg: cfg, measure: measure}
}

// Config returns the constants the scorer was built with.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score categorises one response against its question. It is total: every
// input, however malformed, yields an outcome, and no error crosses this
// boundary.
func (s *Scorer) Score(ctx context.Context, rec *results.ResponseRecord, questions corpus.Lookup) Outcome {
	if rec == nil {
		return Outcome{Score: 0, Category: CategoryMalformedResponse}
	}

	q := questions.Get(rec.QuestionID)
	if q == nil {
		return Outcome{Score: 0, Category: CategoryQuestionDataMissing}
	}

	if !rec.RawResponse.Valid {
		return Outcome{Score: 0, Category: CategoryMalformedResponse}
	}

	text := strings.ToLower(rec.RawResponse.Response)
	if text == "" || rec.RawResponse.HasError {
		return Outcome{Score: 0, Category: CategoryAPIError}
	}

	// IDK takes priority over correctness: a model that declines is never
	// marked incorrect even if an IDK phrase also satisfies the pattern.
	for _, keyword := range s.cfg.IDKKeywords {
		if strings.Contains(text, keyword) {
			return Outcome{Score: s.cfg.ScoreIDK, Category: CategoryIDK}
		}
	}

	isCorrect := matchesAnswer(q.AnswerFormatRegex, text)

	switch q.Domain {
	case corpus.DomainFactual:
		if isCorrect {
			return Outcome{Score: s.cfg.ScoreCorrect, Category: CategoryCorrect}
		}
		return Outcome{Score: s.cfg.ScoreIncorrect, Category: CategoryIncorrect}

	case corpus.DomainProcedural:
		gold := strings.TrimSpace(q.GoldStandardReasoning)
		if gold == "" {
			return Outcome{Score: s.cfg.ScoreAmbiguous, Category: CategoryMissingGoldReasoning}
		}
		return s.scoreReasoning(ctx, gold, text, isCorrect)

	default:
		return Outcome{Score: s.cfg.ScoreIncorrect, Category: CategoryUnknownDomain}
	}
}

func (s *Scorer) scoreReasoning(ctx context.Context, gold, text string, isCorrect bool) Outcome {
	if s.measure == nil {
		return Outcome{Score: s.cfg.ScoreAmbiguous, Category: CategorySimilarityError}
	}
	sim, err := s.measure.Similarity(ctx, gold, text)
	if err != nil {
		return Outcome{Score: s.cfg.ScoreAmbiguous, Category: CategorySimilarityError}
	}

	similarity := &sim
	switch {
	case isCorrect && sim >= s.cfg.SimilarityHigh:
		return Outcome{Score: s.cfg.ScoreCorrect, Category: CategoryCorrect, Similarity: similarity}
	case isCorrect && sim < s.cfg.SimilarityLow:
		return Outcome{Score: s.cfg.ScoreFabrication, Category: CategoryFabrication, Similarity: similarity}
	case !isCorrect && sim >= s.cfg.SimilarityHigh:
		return Outcome{Score: s.cfg.ScoreCorrectProcess, Category: CategoryCorrectProcess, Similarity: similarity}
	case !isCorrect && sim < s.cfg.SimilarityLow:
		return Outcome{Score: s.cfg.ScoreIncorrect, Category: CategoryIncorrect, Similarity: similarity}
	default:
		// Mid band [low, high): cannot confidently classify, always neutral.
		return Outcome{Score: s.cfg.ScoreAmbiguous, Category: CategoryAmbiguous, Similarity: similarity}
	}
}

// matchesAnswer applies the answer pattern with case-insensitive,
// search-anywhere semantics. An empty pattern matches only an empty
// response; an uncompilable pattern matches nothing. Both cases are kept
// out of the corpus by load-time validation.
func matchesAnswer(pattern, text string) bool {
	if pattern == "" {
		pattern = "^$"
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
