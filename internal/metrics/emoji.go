package metrics

import (
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"

	"github.com/edgard/chatstat/internal/transcript"
)

// EmojiCount is one emoji and how often it was used.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// EmojiStats is the emoji usage of a selection.
type EmojiStats struct {
	Total int          `json:"total"`
	Top   []EmojiCount `json:"top"`
}

// Emojis counts emoji grapheme clusters in the selected bodies. A flag, a
// skin-toned hand or a ZWJ family is one emoji. Top is ordered by frequency,
// ties in first-seen order, and limited to n entries (n <= 0 keeps all).
func Emojis(f Filter, recs transcript.Records, n int) EmojiStats {
	c := newCounter()
	for _, r := range f.Apply(recs) {
		if r.Message == "" || r.IsMedia() {
			continue
		}
		g := uniseg.NewGraphemes(r.Message)
		for g.Next() {
			cluster := g.Str()
			if isEmojiCluster(cluster) {
				c.add(cluster)
			}
		}
	}

	stats := EmojiStats{Total: c.total()}
	for _, e := range c.ranked(n) {
		stats.Top = append(stats.Top, EmojiCount{Emoji: e, Count: c.counts[e]})
	}
	return stats
}

const variationSelector16 = '\uFE0F'

// isEmojiCluster reports whether a grapheme cluster is an emoji in the
// Unicode emoji data. Modifier sequences missing from the data are matched
// on their base emoji.
func isEmojiCluster(cluster string) bool {
	if gomoji.ContainsEmoji(cluster) {
		return true
	}
	base := strings.Map(func(r rune) rune {
		if r == variationSelector16 || (r >= 0x1F3FB && r <= 0x1F3FF) {
			return -1
		}
		return r
	}, cluster)
	return base != "" && base != cluster && gomoji.ContainsEmoji(base)
}
