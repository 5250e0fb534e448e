package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Timestamp formats t the way pipeline output files are named.
func Timestamp(t time.Time) string {
	return t.UTC().Format("20060102_150405")
}

// RawResultsName returns the filename for a raw-results file started at t.
func RawResultsName(t time.Time) string {
	return fmt.Sprintf("raw_results_%s.jsonl", Timestamp(t))
}

// ScoredResultsName returns the filename for a scored CSV written at t.
func ScoredResultsName(t time.Time) string {
	return fmt.Sprintf("final_scored_results_%s.csv", Timestamp(t))
}

// LatestFile returns the most recently modified file in dir matching the
// glob pattern, or an error when none match.
func LatestFile(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("results: glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("results: no files matching %q in %q", pattern, dir)
	}

	var latest string
	var latestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = m
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("results: no readable files matching %q in %q", pattern, dir)
	}
	return latest, nil
}
