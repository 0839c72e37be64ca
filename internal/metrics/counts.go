package metrics

import (
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/edgard/chatstat/internal/transcript"
)

// urlPattern finds links that carry an explicit scheme (https://, mailto:, ...).
var urlPattern = xurls.Strict()

// TotalMessages counts the selected records.
func TotalMessages(f Filter, recs transcript.Records) int {
	return len(f.Apply(recs))
}

// TotalWords counts whitespace-separated tokens in the selected bodies.
// Media placeholders contribute nothing.
func TotalWords(f Filter, recs transcript.Records) int {
	total := 0
	for _, r := range f.Apply(recs) {
		if r.IsMedia() {
			continue
		}
		total += len(strings.Fields(r.Message))
	}
	return total
}

// MediaCount counts records whose body is exactly the media placeholder.
func MediaCount(f Filter, recs transcript.Records) int {
	total := 0
	for _, r := range f.Apply(recs) {
		if r.IsMedia() {
			total++
		}
	}
	return total
}

// LinkCount counts URL matches across the selected bodies. Extraction is
// pattern based and does not validate the links.
func LinkCount(f Filter, recs transcript.Records) int {
	total := 0
	for _, r := range f.Apply(recs) {
		total += len(urlPattern.FindAllStringIndex(r.Message, -1))
	}
	return total
}
