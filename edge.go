/*
 * Filename: /Users/htang/code/sigma/edge.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import "container/heap"

// Edge is a candidate merge between two contigs, ranked by an estimated
// gap distance recovered from a scaffold-edge bundle line.
type Edge struct {
	ContigA  *Contig
	ContigB  *Contig
	Distance float64
}

// pairKey returns a dedup key for the unordered pair of contig ids, so that
// (a, b) and (b, a) collide in an EdgeSet the same way a C++
// unordered_set keyed on an unordered pair would.
func pairKey(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// EdgeSet deduplicates edges on their unordered contig-id pair, as the
// scaffold-edge reader ingests possibly-overlapping bundle files.
type EdgeSet struct {
	byPair map[[2]string]Edge
	order  [][2]string // preserves insertion order for deterministic queue seeding
}

// NewEdgeSet constructs an empty edge set.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{byPair: make(map[[2]string]Edge)}
}

// Insert adds an edge unless its unordered contig pair is already present.
func (s *EdgeSet) Insert(e Edge) {
	a, b := pairKey(e.ContigA.ID, e.ContigB.ID)
	key := [2]string{a, b}

	if _, ok := s.byPair[key]; ok {
		return
	}

	s.byPair[key] = e
	s.order = append(s.order, key)
}

// Len returns the number of distinct edges in the set.
func (s *EdgeSet) Len() int { return len(s.order) }

// Edges returns the set's edges in insertion order.
func (s *EdgeSet) Edges() []Edge {
	edges := make([]Edge, len(s.order))
	for i, key := range s.order {
		edges[i] = s.byPair[key]
	}
	return edges
}

// EdgeQueue is a priority queue of edges, consumed exactly once by forest
// construction. Edges pop in ascending Distance order (smaller estimated
// gap first), with a lexicographic (ContigA.ID, ContigB.ID) tie-break for
// determinism -- spec.md's edge-ranking open question is resolved this way;
// see DESIGN.md.
type EdgeQueue struct {
	heap edgeHeap
}

// NewEdgeQueue builds a queue from a slice of edges, each already carrying
// its computed Distance.
func NewEdgeQueue(edges []Edge) *EdgeQueue {
	q := &EdgeQueue{heap: make(edgeHeap, len(edges))}
	copy(q.heap, edges)
	heap.Init(&q.heap)
	return q
}

// Empty reports whether the queue has been fully drained.
func (q *EdgeQueue) Empty() bool { return q.heap.Len() == 0 }

// Len returns the number of edges remaining in the queue.
func (q *EdgeQueue) Len() int { return q.heap.Len() }

// Pop removes and returns the next edge in priority order.
func (q *EdgeQueue) Pop() Edge {
	return heap.Pop(&q.heap).(Edge)
}

// edgeHeap implements container/heap.Interface over a slice of edges.
type edgeHeap []Edge

func (h edgeHeap) Len() int { return len(h) }

func (h edgeHeap) Less(i, j int) bool {
	if h[i].Distance != h[j].Distance {
		return h[i].Distance < h[j].Distance
	}
	if h[i].ContigA.ID != h[j].ContigA.ID {
		return h[i].ContigA.ID < h[j].ContigA.ID
	}
	return h[i].ContigB.ID < h[j].ContigB.ID
}

func (h edgeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *edgeHeap) Push(x interface{}) {
	*h = append(*h, x.(Edge))
}

func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
