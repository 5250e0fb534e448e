package scorer

import "github.com/stellarlinkco/lingbench/internal/config"

// FromConfig merges file-configured overrides onto the calibrated defaults.
// Unset fields keep their defaults; an explicit zero is honored.
func FromConfig(sc config.ScoringConfig) Config {
	cfg := DefaultConfig()

	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.ScoreCorrect, sc.ScoreCorrect)
	set(&cfg.ScoreCorrectProcess, sc.ScoreCorrectProcess)
	set(&cfg.ScoreIDK, sc.ScoreIDK)
	set(&cfg.ScoreAmbiguous, sc.ScoreAmbiguous)
	set(&cfg.ScoreIncorrectGuess, sc.ScoreIncorrectGuess)
	set(&cfg.ScoreFabrication, sc.ScoreFabrication)
	set(&cfg.ScoreIncorrect, sc.ScoreIncorrect)
	set(&cfg.SimilarityHigh, sc.SimilarityHigh)
	set(&cfg.SimilarityLow, sc.SimilarityLow)

	if len(sc.IDKKeywords) > 0 {
		cfg.IDKKeywords = append([]string(nil), sc.IDKKeywords...)
	}
	return cfg
}
