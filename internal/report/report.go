// Package report assembles every metric for one filter into a single value
// and renders it as CSV, JSON or a plain-text digest.
package report

import (
	"log/slog"
	"time"

	"github.com/edgard/chatstat/internal/metrics"
	"github.com/edgard/chatstat/internal/transcript"
)

// Stats are the headline numbers of a report.
type Stats struct {
	Messages int       `json:"messages"`
	Words    int       `json:"words"`
	Media    int       `json:"media"`
	Links    int       `json:"links"`
	Emojis   int       `json:"emojis"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
}

// NamedCount is a label with a count, used where order matters.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is the full analysis of a transcript for one filter.
type Report struct {
	Filter      string                  `json:"filter"`
	GeneratedAt time.Time               `json:"generated_at"`
	Stats       Stats                   `json:"stats"`
	MostBusy    *metrics.BusyUsers      `json:"most_busy,omitempty"`
	TopEmojis   []metrics.EmojiCount    `json:"top_emojis"`
	Words       []metrics.WordCount     `json:"words"`
	Monthly     []metrics.TimelinePoint `json:"monthly"`
	Daily       []metrics.TimelinePoint `json:"daily"`
	Weekday     []NamedCount            `json:"weekday"`
	Month       []NamedCount            `json:"month"`
	Heatmap     metrics.Heatmap         `json:"heatmap"`
}

// Build runs every metric over recs for filter f. The busy-user ranking is
// only included for the overall filter.
func Build(recs transcript.Records, f metrics.Filter, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	selected := f.Apply(recs)
	emojis := metrics.Emojis(f, recs, opts.TopEmojis)

	r := &Report{
		Filter:      f.String(),
		GeneratedAt: start.UTC(),
		Stats: Stats{
			Messages: len(selected),
			Words:    metrics.TotalWords(f, recs),
			Media:    metrics.MediaCount(f, recs),
			Links:    metrics.LinkCount(f, recs),
			Emojis:   emojis.Total,
		},
		TopEmojis: emojis.Top,
		Words:     metrics.WordFrequency(f, recs, opts.StopWords, opts.TopWords),
		Monthly:   metrics.MonthlyTimeline(f, recs),
		Daily:     metrics.DailyTimeline(f, recs),
		Weekday:   ordered(metrics.WeekdayActivity(f, recs), transcript.DayNames()),
		Month:     ordered(metrics.MonthActivity(f, recs), monthNames()),
		Heatmap:   metrics.ActivityHeatmap(f, recs),
	}

	for i, rec := range selected {
		if i == 0 || rec.Timestamp.Before(r.Stats.First) {
			r.Stats.First = rec.Timestamp
		}
		if rec.Timestamp.After(r.Stats.Last) {
			r.Stats.Last = rec.Timestamp
		}
	}

	if f.IsAll() {
		busy, err := metrics.MostBusyUsers(f, recs, opts.TopUsers)
		if err != nil {
			return nil, err
		}
		r.MostBusy = &busy
	}

	logger.Debug("Report built",
		"filter", r.Filter,
		"messages", r.Stats.Messages,
		"duration", time.Since(start))

	return r, nil
}

func ordered(counts map[string]int, names []string) []NamedCount {
	out := make([]NamedCount, 0, len(names))
	for _, name := range names {
		out = append(out, NamedCount{Name: name, Count: counts[name]})
	}
	return out
}

func monthNames() []string {
	names := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		names = append(names, m.String())
	}
	return names
}
