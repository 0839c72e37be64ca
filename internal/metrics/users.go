package metrics

import (
	"math"

	errs "github.com/edgard/chatstat/internal/errors"
	"github.com/edgard/chatstat/internal/transcript"
)

// UserCount is a sender and the number of messages they sent.
type UserCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

// UserShare is a sender's part of all human messages. Fraction is exact;
// Percent is Fraction*100 rounded to two decimals for display.
type UserShare struct {
	Sender   string  `json:"sender"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
	Percent  float64 `json:"percent"`
}

// BusyUsers ranks the participants of a chat.
type BusyUsers struct {
	// Top holds at most n senders, busiest first.
	Top []UserCount `json:"top"`
	// Shares holds every sender in the same order as Top.
	Shares []UserShare `json:"shares"`
	// Total is the number of human (non-system) messages.
	Total int `json:"total"`
}

// MostBusyUsers ranks senders by message count, ties in first-seen order.
// System notifications are not attributed to anyone and are excluded.
// It only applies to the whole chat: any participant filter fails with an
// InvalidFilterError.
func MostBusyUsers(f Filter, recs transcript.Records, n int) (BusyUsers, error) {
	if !f.IsAll() {
		return BusyUsers{}, errs.NewInvalidFilterError(f.String(), "most busy users requires the overall filter")
	}

	c := newCounter()
	for _, r := range recs {
		if r.System {
			continue
		}
		c.add(r.Sender)
	}

	out := BusyUsers{Total: c.total()}
	ranked := c.ranked(0)
	for i, sender := range ranked {
		count := c.counts[sender]
		if n <= 0 || i < n {
			out.Top = append(out.Top, UserCount{Sender: sender, Count: count})
		}
		fraction := float64(count) / float64(out.Total)
		out.Shares = append(out.Shares, UserShare{
			Sender:   sender,
			Count:    count,
			Fraction: fraction,
			Percent:  math.Round(fraction*10000) / 100,
		})
	}
	return out, nil
}
