// Package runner executes the experimental sweep: every configured model is
// asked every question in every language, and each raw response is appended
// to the results file as its own record. Request failures become error
// payloads in the output rather than aborting the sweep.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stellarlinkco/lingbench/internal/corpus"
	"github.com/stellarlinkco/lingbench/internal/llm"
	"github.com/stellarlinkco/lingbench/internal/results"
)

// Config defines sweep behavior.
type Config struct {
	Models      []string
	Concurrency int
	Timeout     time.Duration
}

// Summary reports what a sweep produced.
type Summary struct {
	Total    int
	Errored  int
	Duration time.Duration
}

// Runner fans experiment requests out to a provider.
type Runner struct {
	provider llm.Provider
	cfg      Config
	sem      chan struct{}

	counter atomic.Int64
	started time.Time
}

// New creates a Runner with defaults applied.
func New(provider llm.Provider, cfg Config) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Runner{
		provider: provider,
		cfg:      cfg,
		sem:      make(chan struct{}, cfg.Concurrency),
		started:  time.Now().UTC(),
	}
}

// Run sweeps every model over every question of every language corpus and
// appends one record per response to w. Languages are processed in the
// given order; records within a language may interleave under concurrency.
// Cancellation truncates the sweep at whole-record boundaries.
func (r *Runner) Run(ctx context.Context, corpora map[string][]*corpus.Question, langOrder []string, w *results.Writer) (*Summary, error) {
	if r == nil {
		return nil, errors.New("runner: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}
	if r.provider == nil {
		return nil, errors.New("runner: nil provider")
	}
	if w == nil {
		return nil, errors.New("runner: nil writer")
	}
	if len(r.cfg.Models) == 0 {
		return nil, errors.New("runner: no models configured")
	}

	start := time.Now()
	sum := &Summary{}
	var mu sync.Mutex
	var wg sync.WaitGroup

sweep:
	for _, lang := range langOrder {
		questions := corpora[lang]
		for _, model := range r.cfg.Models {
			for _, q := range questions {
				if q == nil || q.PromptText() == "" {
					continue
				}

				if ctx.Err() != nil {
					break sweep
				}
				select {
				case <-ctx.Done():
					break sweep
				case r.sem <- struct{}{}:
				}

				wg.Add(1)
				go func(model, lang string, q *corpus.Question) {
					defer wg.Done()
					defer func() { <-r.sem }()

					rec := r.query(ctx, model, lang, q)
					if err := w.Append(rec); err != nil {
						return
					}

					mu.Lock()
					sum.Total++
					if rec.RawResponse.HasError {
						sum.Errored++
					}
					mu.Unlock()
				}(model, lang, q)
			}
		}
	}

	wg.Wait()
	sum.Duration = time.Since(start)
	return sum, nil
}

func (r *Runner) query(ctx context.Context, model, lang string, q *corpus.Question) *results.ResponseRecord {
	prompt := q.PromptText()

	reqCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	resp, err := r.provider.Complete(reqCtx, &llm.Request{
		Model:     model,
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: 4096,
	})

	rec := &results.ResponseRecord{
		TestID:          r.nextTestID(),
		QuestionID:      q.ID,
		ModelIdentifier: model,
		Language:        lang,
		PromptText:      prompt,
		TimestampUTC:    time.Now().UTC(),
	}
	if err != nil {
		rec.RawResponse = results.Errored(err.Error())
		return rec
	}
	rec.RawResponse = results.OK(resp.Text)
	return rec
}

func (r *Runner) nextTestID() string {
	n := r.counter.Add(1) - 1
	return fmt.Sprintf("run_%s_%05d", results.Timestamp(r.started), n)
}
