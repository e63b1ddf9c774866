// Package counter holds in-memory tally counters. Nothing here is persisted.
package counter

import "slices"

const DefaultAmount = 1

type Counter struct {
	Title  string `json:"title,omitempty"`
	Count  int    `json:"count"`
	Amount int    `json:"amount"`
	Base   int    `json:"base"`
}

// New returns a counter starting at base. An amount of 0 becomes DefaultAmount.
func New(title string, amount, base int) Counter {
	if amount == 0 {
		amount = DefaultAmount
	}
	return Counter{Title: title, Count: base, Amount: amount, Base: base}
}

func (c *Counter) Increment() { c.Count += c.Amount }
func (c *Counter) Decrement() { c.Count -= c.Amount }
func (c *Counter) Reset()     { c.Count = c.Base }

func (c *Counter) SetAmount(n int) { c.Amount = n }
func (c *Counter) SetBase(n int)   { c.Base = n }

// Counters is an ordered list addressed by index.
type Counters struct {
	items []Counter
}

func (cs *Counters) Add(c Counter) int {
	cs.items = append(cs.items, c)
	return len(cs.items) - 1
}

// Remove drops the counter at i. It reports false for an out of range index.
func (cs *Counters) Remove(i int) bool {
	if i < 0 || i >= len(cs.items) {
		return false
	}
	cs.items = slices.Delete(cs.items, i, i+1)
	return true
}

// At returns a pointer into the list; it is invalidated by Add and Remove.
func (cs *Counters) At(i int) (*Counter, bool) {
	if i < 0 || i >= len(cs.items) {
		return nil, false
	}
	return &cs.items[i], true
}

func (cs *Counters) Len() int { return len(cs.items) }

func (cs *Counters) List() []Counter { return slices.Clone(cs.items) }
