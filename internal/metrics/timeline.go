package metrics

import (
	"fmt"
	"slices"
	"time"

	"github.com/edgard/chatstat/internal/transcript"
)

// TimelinePoint is the number of messages in one period.
type TimelinePoint struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// MonthlyTimeline groups the selection by (year, month) and returns the
// periods in chronological order. Labels read "January 2023".
func MonthlyTimeline(f Filter, recs transcript.Records) []TimelinePoint {
	return timeline(f.Apply(recs), func(r transcript.Record) TimelinePoint {
		return TimelinePoint{
			Label: fmt.Sprintf("%s %d", r.MonthName, r.Year),
			Start: time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC),
		}
	})
}

// DailyTimeline groups the selection by calendar date and returns the days
// in chronological order. Labels use transcript.DateLayout.
func DailyTimeline(f Filter, recs transcript.Records) []TimelinePoint {
	return timeline(f.Apply(recs), func(r transcript.Record) TimelinePoint {
		return TimelinePoint{
			Label: r.Date,
			Start: time.Date(r.Year, r.Month, r.Day, 0, 0, 0, 0, time.UTC),
		}
	})
}

// timeline buckets records by the Start of the period returned by key.
func timeline(recs transcript.Records, key func(transcript.Record) TimelinePoint) []TimelinePoint {
	index := make(map[time.Time]int)
	var points []TimelinePoint

	for _, r := range recs {
		p := key(r)
		i, ok := index[p.Start]
		if !ok {
			i = len(points)
			index[p.Start] = i
			points = append(points, p)
		}
		points[i].Count++
	}

	slices.SortStableFunc(points, func(a, b TimelinePoint) int {
		return a.Start.Compare(b.Start)
	})
	return points
}
