package model

import "sort"

// FoldedStacks is the aggregation map from a folded stack (root-to-leaf
// frames joined by ';') to its sample count. It remembers first-seen
// order so callers can choose between lexicographic and insertion-order
// emission; both are deterministic.
type FoldedStacks struct {
	counts map[string]int64
	order  []string
}

// NewFoldedStacks creates an empty aggregation map.
func NewFoldedStacks() *FoldedStacks {
	return &FoldedStacks{
		counts: make(map[string]int64),
		order:  make([]string, 0),
	}
}

// Add increments the sample count for the given folded stack.
func (f *FoldedStacks) Add(stack string, count int64) {
	if _, ok := f.counts[stack]; !ok {
		f.order = append(f.order, stack)
	}
	f.counts[stack] += count
}

// Count returns the sample count for the given folded stack.
func (f *FoldedStacks) Count(stack string) int64 {
	return f.counts[stack]
}

// Len returns the number of unique folded stacks.
func (f *FoldedStacks) Len() int {
	return len(f.counts)
}

// Total returns the sum of all sample counts.
func (f *FoldedStacks) Total() int64 {
	var total int64
	for _, c := range f.counts {
		total += c
	}
	return total
}

// Sorted returns the folded stacks in lexicographic order.
func (f *FoldedStacks) Sorted() []string {
	stacks := make([]string, len(f.order))
	copy(stacks, f.order)
	sort.Strings(stacks)
	return stacks
}

// FirstSeen returns the folded stacks in first-seen order.
func (f *FoldedStacks) FirstSeen() []string {
	stacks := make([]string, len(f.order))
	copy(stacks, f.order)
	return stacks
}

// SortedLines returns the aggregation as output lines in lexicographic
// order.
func (f *FoldedStacks) SortedLines() []FoldedLine {
	lines := make([]FoldedLine, 0, len(f.order))
	for _, s := range f.Sorted() {
		lines = append(lines, FoldedLine{Stack: s, Count: f.counts[s]})
	}
	return lines
}

// FoldedLine is one line of collapsed output: a folded stack and its
// sample count. Converters that must preserve input order and keep
// equal stacks on separate lines produce these directly instead of
// going through FoldedStacks.
type FoldedLine struct {
	Stack string
	Count int64
}
