package metrics

import (
	"cmp"
	"slices"
)

// counter tallies keys and remembers the order in which each was first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) total() int {
	sum := 0
	for _, n := range c.counts {
		sum += n
	}
	return sum
}

// ranked returns keys by descending count, ties kept in first-seen order.
// n <= 0 returns every key.
func (c *counter) ranked(n int) []string {
	keys := slices.Clone(c.order)
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(c.counts[b], c.counts[a])
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
