package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Experiment  ExperimentConfig  `yaml:"experiment"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Translation TranslationConfig `yaml:"translation"`
	Storage     StorageConfig     `yaml:"storage"`
	Paths       PathsConfig       `yaml:"paths"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	EmbeddingModel  string                    `yaml:"embedding_model,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// ExperimentConfig controls the model sweep performed by the run command.
type ExperimentConfig struct {
	Models      []string      `yaml:"models"`
	Languages   []string      `yaml:"languages,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// ScoringConfig holds the tunable constants of the scoring protocol.
// Pointer fields distinguish "unset" from an explicit zero; unset fields
// fall back to the calibrated defaults in the scorer package.
type ScoringConfig struct {
	ScoreCorrect        *float64 `yaml:"score_correct,omitempty"`
	ScoreCorrectProcess *float64 `yaml:"score_correct_process,omitempty"`
	ScoreIDK            *float64 `yaml:"score_idk,omitempty"`
	ScoreAmbiguous      *float64 `yaml:"score_ambiguous,omitempty"`
	ScoreIncorrectGuess *float64 `yaml:"score_incorrect_guess,omitempty"`
	ScoreFabrication    *float64 `yaml:"score_fabrication,omitempty"`
	ScoreIncorrect      *float64 `yaml:"score_incorrect,omitempty"`
	SimilarityHigh      *float64 `yaml:"similarity_high,omitempty"`
	SimilarityLow       *float64 `yaml:"similarity_low,omitempty"`
	IDKKeywords         []string `yaml:"idk_keywords,omitempty"`
	Concurrency         int      `yaml:"concurrency,omitempty"`
}

type TranslationConfig struct {
	TargetLanguages     []string `yaml:"target_languages,omitempty"`
	SimilarityThreshold float64  `yaml:"similarity_threshold,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type PathsConfig struct {
	DataDir         string `yaml:"data_dir,omitempty"`
	TranslationsDir string `yaml:"translations_dir,omitempty"`
	ResultsDir      string `yaml:"results_dir,omitempty"`
	AnalysisDir     string `yaml:"analysis_dir,omitempty"`
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// Default returns a config built entirely from defaults, for commands that
// can run without a config file on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "ollama"
	}
	if _, ok := cfg.LLM.Providers["ollama"]; !ok {
		cfg.LLM.Providers["ollama"] = ProviderConfig{
			BaseURL: "http://localhost:11434/v1",
		}
	}
	if strings.TrimSpace(cfg.LLM.EmbeddingModel) == "" {
		cfg.LLM.EmbeddingModel = "all-minilm"
	}

	if len(cfg.Experiment.Languages) == 0 {
		cfg.Experiment.Languages = []string{"EN", "DE", "ES"}
	}
	if cfg.Experiment.Concurrency <= 0 {
		cfg.Experiment.Concurrency = 1
	}
	if cfg.Experiment.Timeout <= 0 {
		cfg.Experiment.Timeout = 120 * time.Second
	}

	if len(cfg.Translation.TargetLanguages) == 0 {
		cfg.Translation.TargetLanguages = []string{"de", "es"}
	}
	if cfg.Translation.SimilarityThreshold <= 0 {
		cfg.Translation.SimilarityThreshold = 0.95
	}

	if cfg.Scoring.Concurrency <= 0 {
		cfg.Scoring.Concurrency = 1
	}

	if strings.TrimSpace(cfg.Paths.DataDir) == "" {
		cfg.Paths.DataDir = "data"
	}
	if strings.TrimSpace(cfg.Paths.TranslationsDir) == "" {
		cfg.Paths.TranslationsDir = "translation_outputs"
	}
	if strings.TrimSpace(cfg.Paths.ResultsDir) == "" {
		cfg.Paths.ResultsDir = "experimental_results"
	}
	if strings.TrimSpace(cfg.Paths.AnalysisDir) == "" {
		cfg.Paths.AnalysisDir = "analysis_outputs"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}
}
