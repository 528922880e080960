// Package topn implements the top-N largest-file selector (C7): a
// bounded min-heap over candidate files that never builds a tree, a child
// index, or a recursive-size map.
package topn

import (
	"container/heap"
	"sort"
)

// Candidate is one file eligible for the top-N result.
type Candidate struct {
	Path     string
	Size     uint64
	Modified *int64
}

// minHeap orders Candidates by ascending size so the smallest element -
// the first one to evict once the heap exceeds its capacity - sits at the
// root.
type minHeap []Candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].Size < h[j].Size }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(Candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Selector accumulates candidates into a bounded min-heap of capacity n.
type Selector struct {
	n int
	h minHeap
}

// NewSelector returns a Selector that will retain at most the n
// largest candidates pushed to it.
func NewSelector(n int) *Selector {
	return &Selector{n: n, h: make(minHeap, 0, n)}
}

// Push offers a candidate to the selector. If fewer than n candidates
// have been retained so far, c is kept unconditionally; otherwise c
// replaces the current smallest retained candidate only if c is larger.
func (s *Selector) Push(c Candidate) {
	if s.n <= 0 {
		return
	}
	if s.h.Len() < s.n {
		heap.Push(&s.h, c)
		return
	}
	if c.Size > s.h[0].Size {
		heap.Pop(&s.h)
		heap.Push(&s.h, c)
	}
}

// Result returns a copy of the retained candidates sorted descending by
// size, the selector's final output shape. The heap itself is left as is.
func (s *Selector) Result() []Candidate {
	out := make([]Candidate, len(s.h))
	copy(out, s.h)
	sort.Slice(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	return out
}

// SelectTop is a convenience wrapper for selecting the n largest of an
// already-materialized candidate slice.
func SelectTop(candidates []Candidate, n int) []Candidate {
	s := NewSelector(n)
	for _, c := range candidates {
		s.Push(c)
	}
	return s.Result()
}
