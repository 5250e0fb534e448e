package scorer

import (
	"context"
	"sync"

	"github.com/stellarlinkco/lingbench/internal/corpus"
	"github.com/stellarlinkco/lingbench/internal/results"
)

// ScoreAll scores every record with up to concurrency workers. Output
// preserves input order; outcomes carry no ordering dependency on each
// other. The question lookup must be fully populated before this is called.
func (s *Scorer) ScoreAll(ctx context.Context, records []results.ResponseRecord, questions corpus.Lookup, concurrency int) []results.ScoredRow {
	if concurrency <= 0 {
		concurrency = 1
	}

	rows := make([]results.ScoredRow, len(records))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range records {
		select {
		case <-ctx.Done():
			// Interrupt truncates the batch; already-scored rows stay intact.
			wg.Wait()
			return rows[:i]
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			rec := &records[idx]
			outcome := s.Score(ctx, rec, questions)
			rows[idx] = results.ScoredRow{
				QuestionID:      rec.QuestionID,
				ModelIdentifier: rec.ModelIdentifier,
				Language:        rec.Language,
				Domain:          domainOf(questions, rec.QuestionID),
				Score:           outcome.Score,
				ScoreCategory:   string(outcome.Category),
				Similarity:      outcome.Similarity,
				PromptText:      rec.PromptText,
			}
		}(i)
	}

	wg.Wait()
	return rows
}

func domainOf(questions corpus.Lookup, id string) string {
	if q := questions.Get(id); q != nil {
		return q.Domain
	}
	return ""
}
