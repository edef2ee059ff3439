// Package history owns the rolling 30-day score series: the date-keyed
// merge semantics and the two persistence backends behind them.
package history

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/dolarscope/backend/internal/contracts"
)

// MaxEntries caps the rolling series.
const MaxEntries = 30

// dateLayout is the ISO calendar-date key format.
const dateLayout = "2006-01-02"

// Store persists the series as one snapshot, overwritten wholesale.
// Load never fails: any read or parse problem degrades to an empty
// series, which triggers a reseed on the next merge.
type Store interface {
	Load(ctx context.Context) []contracts.ScoreEntry
	Save(ctx context.Context, entries []contracts.ScoreEntry) error
}

// Merge inserts today's entry into the series, last write winning per
// date, and returns the series sorted ascending by date and truncated
// to the most recent MaxEntries. Re-merging the same day is a no-op
// beyond replacing that day's entry.
func Merge(series []contracts.ScoreEntry, today contracts.ScoreEntry) []contracts.ScoreEntry {
	byDate := make(map[string]contracts.ScoreEntry, len(series)+1)
	for _, e := range series {
		byDate[e.Date] = e
	}
	byDate[today.Date] = today

	merged := make([]contracts.ScoreEntry, 0, len(byDate))
	for _, e := range byDate {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})

	if len(merged) > MaxEntries {
		merged = merged[len(merged)-MaxEntries:]
	}

	return merged
}

// Seed synthesizes a full series for the trailing MaxEntries days
// ending today, jittering today's score by ±1.0 uniform per day. It
// exists only so a first run renders a non-empty chart; the seeded
// entries share today's bias, brief and factors and are not forecasts.
func Seed(result contracts.ScoreResult, today time.Time) []contracts.ScoreEntry {
	entries := make([]contracts.ScoreEntry, 0, MaxEntries)
	for i := 0; i < MaxEntries; i++ {
		date := today.AddDate(0, 0, -(MaxEntries - 1 - i)).Format(dateLayout)
		noisy := result.Score + (rand.Float64()-0.5)*2

		entries = append(entries, contracts.ScoreEntry{
			Date:    date,
			Score:   round1(noisy),
			Label:   date,
			Bias:    result.Bias,
			Brief:   result.Brief,
			Factors: result.Factors,
		})
	}
	return entries
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
