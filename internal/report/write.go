package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// CSV section headers, in output order.
const (
	SectionTopStats    = "Top Stats"
	SectionMostBusy    = "Most Busy Users"
	SectionUserShares  = "Percentage of messages per user"
	SectionTopEmojis   = "Top Emojis"
	SectionCommonWords = "Most Common Words"
	SectionMonthly     = "Monthly Timeline"
	SectionDaily       = "Daily Timeline"
	SectionWeekday     = "Weekday Activity"
	SectionMonth       = "Month Activity"
	SectionHeatmap     = "Activity Heatmap"
)

// Section is a titled table of a report.
type Section struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Sections flattens r into titled tables. Sections without data are kept
// with only their column header so every export has the same outline; the
// busy-user sections are only present for the overall filter.
func Sections(r *Report) []Section {
	sections := []Section{{
		Title:   SectionTopStats,
		Columns: []string{"metric", "value"},
		Rows: [][]string{
			{"Filter", r.Filter},
			{"Total Messages", strconv.Itoa(r.Stats.Messages)},
			{"Total Words", strconv.Itoa(r.Stats.Words)},
			{"Media Shared", strconv.Itoa(r.Stats.Media)},
			{"Links Shared", strconv.Itoa(r.Stats.Links)},
			{"Emojis Used", strconv.Itoa(r.Stats.Emojis)},
		},
	}}

	if r.MostBusy != nil {
		busy := Section{Title: SectionMostBusy, Columns: []string{"sender", "messages"}}
		for _, u := range r.MostBusy.Top {
			busy.Rows = append(busy.Rows, []string{u.Sender, strconv.Itoa(u.Count)})
		}
		shares := Section{Title: SectionUserShares, Columns: []string{"sender", "percent"}}
		for _, s := range r.MostBusy.Shares {
			shares.Rows = append(shares.Rows, []string{s.Sender, fmt.Sprintf("%.2f%%", s.Fraction*100)})
		}
		sections = append(sections, busy, shares)
	}

	emojis := Section{Title: SectionTopEmojis, Columns: []string{"emoji", "count"}}
	for _, e := range r.TopEmojis {
		emojis.Rows = append(emojis.Rows, []string{e.Emoji, strconv.Itoa(e.Count)})
	}

	words := Section{Title: SectionCommonWords, Columns: []string{"word", "count"}}
	for _, w := range r.Words {
		words.Rows = append(words.Rows, []string{w.Word, strconv.Itoa(w.Count)})
	}

	monthly := Section{Title: SectionMonthly, Columns: []string{"month", "messages"}}
	for _, p := range r.Monthly {
		monthly.Rows = append(monthly.Rows, []string{p.Label, strconv.Itoa(p.Count)})
	}

	daily := Section{Title: SectionDaily, Columns: []string{"date", "messages"}}
	for _, p := range r.Daily {
		daily.Rows = append(daily.Rows, []string{p.Label, strconv.Itoa(p.Count)})
	}

	weekday := Section{Title: SectionWeekday, Columns: []string{"day", "messages"}}
	for _, d := range r.Weekday {
		weekday.Rows = append(weekday.Rows, []string{d.Name, strconv.Itoa(d.Count)})
	}

	month := Section{Title: SectionMonth, Columns: []string{"month", "messages"}}
	for _, m := range r.Month {
		month.Rows = append(month.Rows, []string{m.Name, strconv.Itoa(m.Count)})
	}

	heat := Section{Title: SectionHeatmap, Columns: append([]string{"day"}, r.Heatmap.Intervals...)}
	for d, day := range r.Heatmap.Days {
		row := []string{day}
		for i := range r.Heatmap.Intervals {
			row = append(row, strconv.Itoa(r.Heatmap.Counts[d][i]))
		}
		heat.Rows = append(heat.Rows, row)
	}

	return append(sections, emojis, words, monthly, daily, weekday, month, heat)
}

// WriteCSV writes every section of r: the title on its own line, the column
// header, the rows, then a blank line.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	for _, s := range Sections(r) {
		records := make([][]string, 0, len(s.Rows)+3)
		records = append(records, []string{s.Title}, s.Columns)
		records = append(records, s.Rows...)
		records = append(records, nil)
		if err := cw.WriteAll(records); err != nil {
			return fmt.Errorf("failed to write section %q: %w", s.Title, err)
		}
	}
	return cw.Error()
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Summary renders a short plain-text digest of r suitable for a chat reply
// or a terminal.
func Summary(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Chat statistics: %s\n", r.Filter)
	if !r.Stats.First.IsZero() {
		first, last := r.Stats.First.Truncate(24*time.Hour), r.Stats.Last.Truncate(24*time.Hour)
		days := int(last.Sub(first)/(24*time.Hour)) + 1
		fmt.Fprintf(&b, "Period: %s to %s (%s days)\n",
			r.Stats.First.Format(time.DateOnly), r.Stats.Last.Format(time.DateOnly), humanize.Comma(int64(days)))
	}
	fmt.Fprintf(&b, "\nMessages: %s\n", humanize.Comma(int64(r.Stats.Messages)))
	fmt.Fprintf(&b, "Words: %s\n", humanize.Comma(int64(r.Stats.Words)))
	fmt.Fprintf(&b, "Media shared: %s\n", humanize.Comma(int64(r.Stats.Media)))
	fmt.Fprintf(&b, "Links shared: %s\n", humanize.Comma(int64(r.Stats.Links)))

	if r.MostBusy != nil && len(r.MostBusy.Top) > 0 {
		b.WriteString("\nMost busy users:\n")
		for i, u := range r.MostBusy.Top {
			fmt.Fprintf(&b, "%d. %s: %s (%.2f%%)\n", i+1, u.Sender, humanize.Comma(int64(u.Count)), r.MostBusy.Shares[i].Fraction*100)
		}
	}

	if len(r.Words) > 0 {
		b.WriteString("\nMost common words:\n")
		b.WriteString(joinCounts(len(r.Words), func(i int) (string, int) { return r.Words[i].Word, r.Words[i].Count }))
		b.WriteByte('\n')
	}

	if len(r.TopEmojis) > 0 {
		b.WriteString("\nTop emojis:\n")
		b.WriteString(joinCounts(len(r.TopEmojis), func(i int) (string, int) { return r.TopEmojis[i].Emoji, r.TopEmojis[i].Count }))
		b.WriteByte('\n')
	}

	return b.String()
}

func joinCounts(n int, at func(int) (string, int)) string {
	parts := make([]string, 0, n)
	for i := range n {
		label, count := at(i)
		parts = append(parts, fmt.Sprintf("%s (%s)", label, humanize.Comma(int64(count))))
	}
	return strings.Join(parts, ", ")
}
