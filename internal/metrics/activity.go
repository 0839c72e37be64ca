package metrics

import (
	"time"

	"github.com/edgard/chatstat/internal/transcript"
)

// WeekdayActivity counts the selection per weekday name. All seven days are
// present, zero when nothing was sent that day.
func WeekdayActivity(f Filter, recs transcript.Records) map[string]int {
	out := make(map[string]int, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out[d.String()] = 0
	}
	for _, r := range f.Apply(recs) {
		out[r.DayName]++
	}
	return out
}

// MonthActivity counts the selection per month name across all years. All
// twelve months are present.
func MonthActivity(f Filter, recs transcript.Records) map[string]int {
	out := make(map[string]int, 12)
	for m := time.January; m <= time.December; m++ {
		out[m.String()] = 0
	}
	for _, r := range f.Apply(recs) {
		out[r.MonthName]++
	}
	return out
}

// Heatmap is a weekday by hour-interval table of message counts.
// Rows follow Days (Monday first), columns follow Intervals.
type Heatmap struct {
	Days      []string                         `json:"days"`
	Intervals []string                         `json:"intervals"`
	Counts    [7][transcript.IntervalCount]int `json:"counts"`
}

// ActivityHeatmap counts the selection per (weekday, two-hour interval).
// Every cell exists; empty combinations are zero.
func ActivityHeatmap(f Filter, recs transcript.Records) Heatmap {
	h := Heatmap{
		Days:      transcript.DayNames(),
		Intervals: transcript.IntervalLabels(),
	}
	for _, r := range f.Apply(recs) {
		h.Counts[transcript.DayIndex(r.Weekday)][transcript.IntervalIndex(r.Hour)]++
	}
	return h
}

// At returns the count for a day name and interval label, zero when either
// is unknown.
func (h Heatmap) At(day, interval string) int {
	d, i := -1, -1
	for k, name := range h.Days {
		if name == day {
			d = k
		}
	}
	for k, label := range h.Intervals {
		if label == interval {
			i = k
		}
	}
	if d < 0 || i < 0 {
		return 0
	}
	return h.Counts[d][i]
}

// Total returns the sum of all cells.
func (h Heatmap) Total() int {
	sum := 0
	for _, row := range h.Counts {
		for _, n := range row {
			sum += n
		}
	}
	return sum
}
