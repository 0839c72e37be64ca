package metrics

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/edgard/chatstat/internal/transcript"
)

//go:embed stop_words.txt
var defaultStopWordsText string

// StopWords is a case-folded set of words excluded from word frequency.
type StopWords map[string]struct{}

var defaultStopWords = sync.OnceValue(func() StopWords {
	sw, err := LoadStopWords(strings.NewReader(defaultStopWordsText))
	if err != nil {
		panic(fmt.Sprintf("embedded stop word list: %v", err))
	}
	return sw
})

// DefaultStopWords returns the built-in English and Hinglish stop word list.
// The returned set is shared and must not be modified.
func DefaultStopWords() StopWords {
	return defaultStopWords()
}

// LoadStopWords reads one word per line. Blank lines and lines starting
// with # are skipped.
func LoadStopWords(r io.Reader) (StopWords, error) {
	folder := cases.Fold()
	sw := make(StopWords)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		sw[folder.String(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop words: %w", err)
	}
	return sw, nil
}

// Contains reports whether the case-folded word is in the set.
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// WordCount is a word and how often it was used.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// WordFrequency returns the n most used words of the selection (n <= 0 keeps
// all), most frequent first with ties in first-seen order. Words are split on
// whitespace and case-folded; stop words, system notifications and media
// placeholders are excluded.
func WordFrequency(f Filter, recs transcript.Records, stop StopWords, n int) []WordCount {
	folder := cases.Fold()
	c := newCounter()

	for _, r := range f.Apply(recs) {
		if r.System || r.IsMedia() || r.Message == "" {
			continue
		}
		for _, tok := range strings.Fields(r.Message) {
			word := folder.String(tok)
			if stop.Contains(word) {
				continue
			}
			c.add(word)
		}
	}

	ranked := c.ranked(n)
	out := make([]WordCount, 0, len(ranked))
	for _, w := range ranked {
		out = append(out, WordCount{Word: w, Count: c.counts[w]})
	}
	return out
}
