package metrics_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/edgard/chatstat/internal/errors"
	"github.com/edgard/chatstat/internal/metrics"
	"github.com/edgard/chatstat/internal/transcript"
)

const exampleChat = "1/1/23, 10:00 - Alice: hello\n" +
	"1/1/23, 10:05 - Bob: <Media omitted>\n" +
	"1/1/23, 10:06 - Alice: world"

// groupChat spans two years, several weekdays and includes system lines,
// a continuation, an empty body, links and emoji.
const groupChat = "12/30/22, 21:15 - Messages and calls are end-to-end encrypted. Tap to learn more.\n" +
	"12/30/22, 21:16 - Alice: Happy new year soon 🎉🎉\n" +
	"12/31/22, 23:59 - Bob: see https://example.com/party and http://foo.org\n" +
	"1/1/23, 0:01 - Carol: 😂😂 👍🏽\n" +
	"1/1/23, 0:02 - Alice: pizza pizza tonight\n" +
	"and more pizza tomorrow\n" +
	"1/1/23, 12:30 - Bob: <Media omitted>\n" +
	"1/2/23, 13:00 - Alice: \n" +
	"1/2/23, 13:05 - Dave joined using this group's invite link\n" +
	"2/14/23, 8:00 - Carol: Pizza is the best 😂 🇮🇳\n" +
	"2/14/23, 8:01 - Alice: ok"

func mustParse(t *testing.T, text string) transcript.Records {
	t.Helper()
	recs, err := transcript.Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return recs
}

func TestWorkedExample(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, exampleChat)
	all := metrics.All()

	if got := metrics.TotalMessages(all, recs); got != 3 {
		t.Errorf("TotalMessages = %d, want 3", got)
	}
	if got := metrics.MediaCount(all, recs); got != 1 {
		t.Errorf("MediaCount = %d, want 1", got)
	}
	if got := metrics.TotalWords(all, recs); got != 2 {
		t.Errorf("TotalWords = %d, want 2", got)
	}

	busy, err := metrics.MostBusyUsers(all, recs, 5)
	if err != nil {
		t.Fatalf("MostBusyUsers() error = %v", err)
	}
	if len(busy.Top) == 0 || busy.Top[0] != (metrics.UserCount{Sender: "Alice", Count: 2}) {
		t.Errorf("Top = %+v, want Alice with 2 first", busy.Top)
	}
}

func TestContinuationAndEmptyBody(t *testing.T) {
	t.Parallel()

	withContinuation := mustParse(t, "1/1/23, 10:00 - Alice: hello\nsecond line")
	if got := metrics.TotalMessages(metrics.All(), withContinuation); got != 1 {
		t.Errorf("TotalMessages with continuation = %d, want 1", got)
	}
	if got := metrics.TotalWords(metrics.All(), withContinuation); got != 3 {
		t.Errorf("TotalWords with continuation = %d, want 3", got)
	}

	withEmpty := mustParse(t, "1/1/23, 10:00 - Alice: hello\n1/1/23, 10:01 - Bob: ")
	if got := metrics.TotalMessages(metrics.All(), withEmpty); got != 2 {
		t.Errorf("TotalMessages with empty body = %d, want 2", got)
	}
	if got := metrics.TotalWords(metrics.Participant("Bob"), withEmpty); got != 0 {
		t.Errorf("TotalWords for empty body = %d, want 0", got)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)

	tests := []struct {
		name   string
		filter metrics.Filter
		want   int
	}{
		{"overall includes system", metrics.All(), 10},
		{"alice", metrics.Participant("Alice"), 4},
		{"bob", metrics.Participant("Bob"), 2},
		{"unknown", metrics.Participant("Zed"), 0},
		{"system sentinel is not a participant", metrics.Participant(transcript.SystemSender), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := metrics.TotalMessages(tt.filter, recs); got != tt.want {
				t.Errorf("TotalMessages(%s) = %d, want %d", tt.filter, got, tt.want)
			}
		})
	}

	before := len(recs)
	_ = metrics.Participant("Alice").Apply(recs)
	if len(recs) != before || recs[0].Sender != transcript.SystemSender {
		t.Error("Apply must not modify the input records")
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "  ", "all", "ALL", "Overall", "overall", "=", " = "} {
		if f := metrics.ParseFilter(in); !f.IsAll() {
			t.Errorf("ParseFilter(%q) = %v, want overall", in, f)
		}
	}
	f := metrics.ParseFilter(" Alice ")
	if f.IsAll() || f.Name() != "Alice" {
		t.Errorf("ParseFilter(Alice) = %v, want participant Alice", f)
	}
	for in, want := range map[string]string{"=All": "All", "= Overall": "Overall", "==x": "=x"} {
		if f := metrics.ParseFilter(in); f.IsAll() || f.Name() != want {
			t.Errorf("ParseFilter(%q) = %v, want participant %q", in, f, want)
		}
	}
	if metrics.All().String() != metrics.OverallLabel {
		t.Errorf("All().String() = %q, want %q", metrics.All().String(), metrics.OverallLabel)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)
	all := metrics.All()

	if got := metrics.LinkCount(all, recs); got != 2 {
		t.Errorf("LinkCount = %d, want 2", got)
	}
	if got := metrics.LinkCount(metrics.Participant("Alice"), recs); got != 0 {
		t.Errorf("LinkCount(Alice) = %d, want 0", got)
	}
	if got := metrics.MediaCount(metrics.Participant("Bob"), recs); got != 1 {
		t.Errorf("MediaCount(Bob) = %d, want 1", got)
	}
	// Alice: "Happy new year soon 🎉🎉" (5) + "pizza pizza tonight\nand more pizza tomorrow" (7) + "" + "ok".
	if got := metrics.TotalWords(metrics.Participant("Alice"), recs); got != 13 {
		t.Errorf("TotalWords(Alice) = %d, want 13", got)
	}
}

func TestEmojis(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)

	stats := metrics.Emojis(metrics.All(), recs, 0)
	// 🎉🎉, 😂😂, 👍🏽, 😂, 🇮🇳
	if stats.Total != 7 {
		t.Errorf("Total = %d, want 7", stats.Total)
	}
	want := []metrics.EmojiCount{
		{Emoji: "😂", Count: 3},
		{Emoji: "🎉", Count: 2},
		{Emoji: "👍🏽", Count: 1},
		{Emoji: "🇮🇳", Count: 1},
	}
	if diff := cmp.Diff(want, stats.Top); diff != "" {
		t.Errorf("Top mismatch (-want +got):\n%s", diff)
	}

	limited := metrics.Emojis(metrics.All(), recs, 1)
	if len(limited.Top) != 1 || limited.Total != 7 {
		t.Errorf("Emojis(n=1) = %+v, want one entry and total 7", limited)
	}

	carol := metrics.Emojis(metrics.Participant("Carol"), recs, 0)
	if carol.Total != 5 {
		t.Errorf("Emojis(Carol).Total = %d, want 5", carol.Total)
	}

}

func TestEmojis_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"plain text", "no emoji here 123 #1", nil},
		{"text symbols", "5 ★ rating ♪ la la done ✓ → next", nil},
		{"box drawing and math", "├── a ≤ b ∑ x ° ±", nil},
		{"presentation emoji", "hi 😀 ❤️ ok", []string{"😀", "❤️"}},
		{"skin tone", "nice 👍🏽", []string{"👍🏽"}},
		{"flag", "from 🇮🇳", []string{"🇮🇳"}},
		{"keycap", "press 1️⃣", []string{"1️⃣"}},
		{"zwj family", "👨‍👩‍👧 together", []string{"👨‍👩‍👧"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stats := metrics.Emojis(metrics.All(), mustParse(t, "1/1/23, 10:00 - A: "+tt.body), 0)
			var got []string
			for _, e := range stats.Top {
				got = append(got, e.Emoji)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Emojis(%q) mismatch (-want +got):\n%s", tt.body, diff)
			}
			if stats.Total != len(tt.want) {
				t.Errorf("Emojis(%q).Total = %d, want %d", tt.body, stats.Total, len(tt.want))
			}
		})
	}
}

func TestEmojiTiesKeepFirstSeenOrder(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, "1/1/23, 10:00 - A: 🐱 🐶\n1/1/23, 10:01 - B: 🐶 🐱 🦊")
	stats := metrics.Emojis(metrics.All(), recs, 0)

	var got []string
	for _, e := range stats.Top {
		got = append(got, e.Emoji)
	}
	want := []string{"🐱", "🐶", "🦊"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMostBusyUsers(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)

	busy, err := metrics.MostBusyUsers(metrics.All(), recs, 2)
	if err != nil {
		t.Fatalf("MostBusyUsers() error = %v", err)
	}
	if busy.Total != 8 {
		t.Errorf("Total = %d, want 8 human messages", busy.Total)
	}
	wantTop := []metrics.UserCount{{Sender: "Alice", Count: 4}, {Sender: "Bob", Count: 2}}
	if diff := cmp.Diff(wantTop, busy.Top); diff != "" {
		t.Errorf("Top mismatch (-want +got):\n%s", diff)
	}
	if len(busy.Shares) != 3 {
		t.Fatalf("len(Shares) = %d, want 3 (every sender)", len(busy.Shares))
	}
	for _, s := range busy.Shares {
		if s.Sender == transcript.SystemSender {
			t.Error("system sender must not appear in shares")
		}
	}
	if busy.Shares[0].Percent != 50 {
		t.Errorf("Alice percent = %v, want 50", busy.Shares[0].Percent)
	}

	fractionSum, percentSum := 0.0, 0.0
	for _, s := range busy.Shares {
		fractionSum += s.Fraction
		percentSum += s.Percent
	}
	if math.Abs(fractionSum-1) > 1e-9 {
		t.Errorf("fractions sum to %v, want 1", fractionSum)
	}
	if math.Abs(percentSum-100) > 0.05 {
		t.Errorf("percents sum to %v, want ~100", percentSum)
	}
}

func TestMostBusyUsers_TiesAndFilter(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, "1/1/23, 10:00 - Zoe: a\n1/1/23, 10:01 - Adam: b\n1/1/23, 10:02 - Adam: c\n1/1/23, 10:03 - Zoe: d")
	busy, err := metrics.MostBusyUsers(metrics.All(), recs, 0)
	if err != nil {
		t.Fatalf("MostBusyUsers() error = %v", err)
	}
	if busy.Top[0].Sender != "Zoe" || busy.Top[1].Sender != "Adam" {
		t.Errorf("Top = %+v, want Zoe then Adam (encounter order)", busy.Top)
	}

	_, err = metrics.MostBusyUsers(metrics.Participant("Zoe"), recs, 5)
	var filterErr *errs.InvalidFilterError
	if !errors.As(err, &filterErr) {
		t.Fatalf("MostBusyUsers(Zoe) error = %v, want *InvalidFilterError", err)
	}
	if filterErr.Filter != "Zoe" {
		t.Errorf("Filter = %q, want Zoe", filterErr.Filter)
	}
}

func TestWordFrequency(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)
	stop := metrics.DefaultStopWords()

	words := metrics.WordFrequency(metrics.All(), recs, stop, 3)
	if len(words) != 3 {
		t.Fatalf("len(words) = %d, want 3", len(words))
	}
	if words[0] != (metrics.WordCount{Word: "pizza", Count: 4}) {
		t.Errorf("top word = %+v, want pizza x4", words[0])
	}

	all := metrics.WordFrequency(metrics.All(), recs, stop, 0)
	for _, w := range all {
		if stop.Contains(w.Word) {
			t.Errorf("stop word %q in frequency table", w.Word)
		}
		switch w.Word {
		case "<media", "omitted>", "joined", "encrypted.":
			t.Errorf("word %q from media or system record must be excluded", w.Word)
		}
	}
}

func TestWordFrequency_CustomStopWords(t *testing.T) {
	t.Parallel()

	stop, err := metrics.LoadStopWords(strings.NewReader("# comment\n\nPIZZA\n"))
	if err != nil {
		t.Fatalf("LoadStopWords() error = %v", err)
	}
	if !stop.Contains("pizza") {
		t.Error("stop words should be case-folded on load")
	}

	recs := mustParse(t, groupChat)
	for _, w := range metrics.WordFrequency(metrics.Participant("Alice"), recs, stop, 0) {
		if w.Word == "pizza" {
			t.Error("pizza should be excluded by the custom list")
		}
	}

	none := metrics.WordFrequency(metrics.All(), recs, nil, 0)
	if len(none) == 0 || none[0].Word != "pizza" {
		t.Errorf("WordFrequency with nil stop words = %+v, want pizza first", none)
	}
}

func TestTimelines(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)
	all := metrics.All()

	monthly := metrics.MonthlyTimeline(all, recs)
	wantMonthly := []string{"December 2022", "January 2023", "February 2023"}
	var gotMonthly []string
	for _, p := range monthly {
		gotMonthly = append(gotMonthly, p.Label)
	}
	if diff := cmp.Diff(wantMonthly, gotMonthly); diff != "" {
		t.Errorf("monthly labels mismatch (-want +got):\n%s", diff)
	}

	daily := metrics.DailyTimeline(all, recs)
	if daily[0].Label != "2022-12-30" || daily[len(daily)-1].Label != "2023-02-14" {
		t.Errorf("daily timeline not chronological: %+v", daily)
	}

	total := metrics.TotalMessages(all, recs)
	if got := sumPoints(monthly); got != total {
		t.Errorf("monthly sum = %d, want %d", got, total)
	}
	if got := sumPoints(daily); got != total {
		t.Errorf("daily sum = %d, want %d", got, total)
	}
}

func TestTimelineSortsOutOfOrderInput(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, "3/1/23, 10:00 - A: late\n1/1/23, 10:00 - B: early\n3/2/23, 10:00 - A: later")
	monthly := metrics.MonthlyTimeline(metrics.All(), recs)
	if len(monthly) != 2 || monthly[0].Label != "January 2023" || monthly[1].Count != 2 {
		t.Errorf("MonthlyTimeline = %+v, want January then March(2)", monthly)
	}
	if recs[0].Message != "late" {
		t.Error("records must stay in source order")
	}
}

func TestActivityMaps(t *testing.T) {
	t.Parallel()

	recs := mustParse(t, groupChat)
	all := metrics.All()
	total := metrics.TotalMessages(all, recs)

	week := metrics.WeekdayActivity(all, recs)
	if len(week) != 7 {
		t.Errorf("len(WeekdayActivity) = %d, want 7", len(week))
	}
	if got := sumMap(week); got != total {
		t.Errorf("weekday sum = %d, want %d", got, total)
	}
	// 12/30/22 was a Friday; 2/14/23 a Tuesday.
	if week["Friday"] != 2 || week["Tuesday"] != 2 || week["Wednesday"] != 0 {
		t.Errorf("WeekdayActivity = %v", week)
	}

	months := metrics.MonthActivity(all, recs)
	if len(months) != 12 {
		t.Errorf("len(MonthActivity) = %d, want 12", len(months))
	}
	if months["January"] != 5 || months["December"] != 3 || months["July"] != 0 {
		t.Errorf("MonthActivity = %v", months)
	}

	heat := metrics.ActivityHeatmap(all, recs)
	if heat.Total() != total {
		t.Errorf("heatmap total = %d, want %d", heat.Total(), total)
	}
	if got := heat.At("Sunday", "00-02"); got != 2 {
		t.Errorf("At(Sunday, 00-02) = %d, want 2", got)
	}
	if got := heat.At("Saturday", "22-00"); got != 1 {
		t.Errorf("At(Saturday, 22-00) = %d, want 1", got)
	}
	if got := heat.At("Funday", "00-02"); got != 0 {
		t.Errorf("At(unknown day) = %d, want 0", got)
	}

	bob := metrics.ActivityHeatmap(metrics.Participant("Bob"), recs)
	if bob.Total() != 2 {
		t.Errorf("Bob heatmap total = %d, want 2", bob.Total())
	}
}

func sumPoints(points []metrics.TimelinePoint) int {
	sum := 0
	for _, p := range points {
		sum += p.Count
	}
	return sum
}

func sumMap(m map[string]int) int {
	sum := 0
	for _, n := range m {
		sum += n
	}
	return sum
}
