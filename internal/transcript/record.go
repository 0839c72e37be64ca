// Package transcript turns a WhatsApp text export into an ordered sequence of
// typed message records. Parsing is all-or-nothing: a transcript either
// yields every record or an error, never a truncated sequence.
package transcript

import (
	"sort"
	"time"
)

const (
	// SystemSender is the sender recorded for group notifications
	// (joins, subject changes, encryption notices) that have no author.
	SystemSender = "group_notification"

	// MediaOmitted is the placeholder the export writes in place of an attachment.
	MediaOmitted = "<Media omitted>"

	// TimestampLayout is the only timestamp format the parser accepts.
	// Example: 1/31/23, 14:05.
	TimestampLayout = "1/2/06, 15:04"

	// DateLayout formats the calendar date of a record. Example: 2023-01-31.
	DateLayout = "2006-01-02"
)

// intervalLabels are the twelve two-hour buckets used by the activity heatmap.
var intervalLabels = [...]string{
	"00-02", "02-04", "04-06", "06-08", "08-10", "10-12",
	"12-14", "14-16", "16-18", "18-20", "20-22", "22-00",
}

// IntervalCount is the number of hour-interval buckets.
const IntervalCount = len(intervalLabels)

// IntervalLabels returns the bucket labels in chronological order.
func IntervalLabels() []string {
	out := make([]string, IntervalCount)
	copy(out, intervalLabels[:])
	return out
}

// IntervalIndex maps an hour of day (0-23) to its bucket index.
func IntervalIndex(hour int) int {
	return hour / 2
}

// IntervalLabel maps an hour of day (0-23) to its bucket label.
func IntervalLabel(hour int) string {
	return intervalLabels[IntervalIndex(hour)]
}

// DayNames returns weekday names starting on Monday.
func DayNames() []string {
	names := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		names = append(names, time.Weekday((i+1)%7).String())
	}
	return names
}

// DayIndex returns the Monday-first position of a weekday.
func DayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Record is one logical chat entry. The time fields after Message are
// derived from Timestamp when the record is parsed.
type Record struct {
	Line      int       `json:"line"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	System    bool      `json:"system"`

	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	MonthName string       `json:"month_name"`
	Day       int          `json:"day"`
	Weekday   time.Weekday `json:"weekday"`
	DayName   string       `json:"day_name"`
	Hour      int          `json:"hour"`
	Interval  string       `json:"interval"`
	Date      string       `json:"date"`
}

func newRecord(line int, ts time.Time, sender, message string, system bool) Record {
	return Record{
		Line:      line,
		Timestamp: ts,
		Sender:    sender,
		Message:   message,
		System:    system,
		Year:      ts.Year(),
		Month:     ts.Month(),
		MonthName: ts.Month().String(),
		Day:       ts.Day(),
		Weekday:   ts.Weekday(),
		DayName:   ts.Weekday().String(),
		Hour:      ts.Hour(),
		Interval:  IntervalLabel(ts.Hour()),
		Date:      ts.Format(DateLayout),
	}
}

// IsMedia reports whether the body is exactly the media placeholder.
func (r Record) IsMedia() bool {
	return r.Message == MediaOmitted
}

// Records is a parsed transcript in source order. It is shared read-only
// between callers once Parse returns; nothing in this module mutates it.
type Records []Record

// Senders returns the distinct human senders, sorted by name.
func (rs Records) Senders() []string {
	seen := make(map[string]struct{})
	var senders []string
	for _, r := range rs {
		if r.System {
			continue
		}
		if _, ok := seen[r.Sender]; ok {
			continue
		}
		seen[r.Sender] = struct{}{}
		senders = append(senders, r.Sender)
	}
	sort.Strings(senders)
	return senders
}

// HasSender reports whether name authored at least one record.
func (rs Records) HasSender(name string) bool {
	for _, r := range rs {
		if !r.System && r.Sender == name {
			return true
		}
	}
	return false
}
