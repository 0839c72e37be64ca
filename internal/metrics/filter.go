// Package metrics computes descriptive statistics over a parsed transcript.
//
// Every operation takes a Filter and the record sequence. Filtering is a pure
// selection performed first; no operation modifies the records it is given,
// so one transcript.Records value can serve any number of calls.
package metrics

import (
	"strings"

	"github.com/edgard/chatstat/internal/transcript"
)

// OverallLabel is the display name of the filter that selects every record.
const OverallLabel = "Overall"

// Filter selects the records an operation works on: either the whole chat
// or the messages of one participant.
type Filter struct {
	participant string
}

// All returns the filter that selects every record, system notifications included.
func All() Filter {
	return Filter{}
}

// Participant returns a filter selecting the messages authored by name.
// System notifications never match a participant filter.
func Participant(name string) Filter {
	return Filter{participant: name}
}

// ParticipantPrefix forces ParseFilter to read the rest of its input as a
// participant name, so "=All" selects someone called All.
const ParticipantPrefix = "="

// ParseFilter maps user input to a filter. Empty input, "all" and "overall"
// (any case) select the whole chat; anything else names a participant.
// Input starting with ParticipantPrefix always names a participant.
func ParseFilter(s string) Filter {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, ParticipantPrefix); ok {
		if name = strings.TrimSpace(name); name != "" {
			return Participant(name)
		}
		return All()
	}
	if s == "" || strings.EqualFold(s, "all") || strings.EqualFold(s, OverallLabel) {
		return All()
	}
	return Participant(s)
}

// IsAll reports whether f selects the whole chat.
func (f Filter) IsAll() bool {
	return f.participant == ""
}

// Name returns the selected participant, or "" for the whole chat.
func (f Filter) Name() string {
	return f.participant
}

func (f Filter) String() string {
	if f.IsAll() {
		return OverallLabel
	}
	return f.participant
}

// Match reports whether r is selected by f.
func (f Filter) Match(r transcript.Record) bool {
	if f.IsAll() {
		return true
	}
	return !r.System && r.Sender == f.participant
}

// Apply returns the selected records. The input is never modified; for the
// overall filter the input itself is returned.
func (f Filter) Apply(recs transcript.Records) transcript.Records {
	if f.IsAll() {
		return recs
	}
	out := make(transcript.Records, 0, len(recs)/2)
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
