package transcript

import "regexp"

// LineKind is the classification of one physical line of an export.
type LineKind int

const (
	// KindContinuation is a line that extends the previous entry's body.
	KindContinuation LineKind = iota
	// KindEntry is a line that starts a new dated entry.
	KindEntry
)

func (k LineKind) String() string {
	if k == KindEntry {
		return "entry"
	}
	return "continuation"
}

// entryAnchor matches the start of a dated entry: "M/D/YY, H:MM - ".
// Years of up to four digits are accepted by the anchor so that a foreign
// date format is reported as a bad timestamp rather than silently folded
// into the previous message.
var entryAnchor = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}), (\d{1,2}:\d{2}) - `)

// Classify reports whether line starts a new entry or continues the previous one.
func Classify(line string) LineKind {
	if entryAnchor.MatchString(line) {
		return KindEntry
	}
	return KindContinuation
}
