package scorer

import "strings"

// Category is the closed set of scoring outcomes.
type Category string

const (
	// Successful scoring outcomes.
	CategoryCorrect        Category = "Correct"
	CategoryIncorrect      Category = "Incorrect"
	CategoryIDK            Category = "IDK"
	CategoryFabrication    Category = "Fabrication"
	CategoryAmbiguous      Category = "AmbiguousReasoning"
	CategoryCorrectProcess Category = "CorrectProcess_IncorrectResult"

	// Per-record failure outcomes; never process-fatal.
	CategoryQuestionDataMissing  Category = "QuestionDataMissing"
	CategoryMalformedResponse    Category = "MalformedResponse"
	CategoryAPIError             Category = "APIError"
	CategorySimilarityError      Category = "SimilarityError"
	CategoryMissingGoldReasoning Category = "MissingGoldReasoning"
	CategoryUnknownDomain        Category = "UnknownDomain_Incorrect"
)

// Outcome is the result of scoring one response. Similarity is nil unless a
// reasoning comparison completed.
type Outcome struct {
	Score      float64
	Category   Category
	Similarity *float64
}

// Config holds the tunable constants of the scoring protocol. Use
// DefaultConfig for the calibrated values; thresholds must be preserved
// exactly for reproducibility.
type Config struct {
	ScoreCorrect        float64
	ScoreCorrectProcess float64
	ScoreIDK            float64
	ScoreAmbiguous      float64
	// ScoreIncorrectGuess is defined in the taxonomy but unreachable under
	// the current decision table. It is retained as inherited calibration
	// state, not given a trigger condition.
	ScoreIncorrectGuess float64
	ScoreFabrication    float64
	ScoreIncorrect      float64

	// SimilarityHigh is the inclusive lower bound of the High band;
	// SimilarityLow is the exclusive upper bound of the Low band. Values in
	// [SimilarityLow, SimilarityHigh) fall in the neutral Mid band.
	SimilarityHigh float64
	SimilarityLow  float64

	// IDKKeywords are matched as case-insensitive substrings of the
	// response text, before any correctness check.
	IDKKeywords []string
}

// DefaultConfig returns the calibrated scoring constants.
func DefaultConfig() Config {
	return Config{
		ScoreCorrect:        1.0,
		ScoreCorrectProcess: 0.5,
		ScoreIDK:            0.25,
		ScoreAmbiguous:      0.0,
		ScoreIncorrectGuess: -0.5,
		ScoreFabrication:    -1.0,
		ScoreIncorrect:      -1.0,
		SimilarityHigh:      0.70,
		SimilarityLow:       0.60,
		IDKKeywords: []string{
			"i don't know",
			"i do not know",
			"cannot answer",
			"unable to answer",
			"as an ai",
			"i am unable",
		},
	}
}

func (c *Config) normalize() {
	if len(c.IDKKeywords) == 0 {
		c.IDKKeywords = DefaultConfig().IDKKeywords
	}
	for i, k := range c.IDKKeywords {
		c.IDKKeywords[i] = strings.ToLower(k)
	}
}
