/*
 * Filename: /Users/htang/code/sigma/cluster.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

// ClusterNode is a node of a binary hierarchical agglomeration tree. A
// singleton leaf (Child1 == Child2 == nil) owns exactly one contig; an
// internal node's Contigs slice is the concatenation, in Child1-then-Child2
// order, of its two children's contigs.
type ClusterNode struct {
	Contigs    []*Contig
	NumContigs int
	Length     int

	SumReadCounts []int
	ArrivalRates  []float64

	Child1 *ClusterNode
	Child2 *ClusterNode

	Score      float64
	ModelScore float64
	Modeled    bool
	Connected  bool
}

// NewLeafCluster builds a singleton cluster around one contig and points
// the contig's Cluster back-reference at it.
func NewLeafCluster(contig *Contig, numSamples int) *ClusterNode {
	n := &ClusterNode{
		Contigs:       []*Contig{contig},
		NumContigs:    1,
		Length:        contig.ModifiedLength,
		SumReadCounts: make([]int, numSamples),
		ArrivalRates:  make([]float64, numSamples),
	}

	for s := 0; s < numSamples; s++ {
		n.SumReadCounts[s] = contig.SumReadCounts[s]
		n.ArrivalRates[s] = float64(n.SumReadCounts[s]) / float64(n.Length)
	}

	contig.Cluster = n

	return n
}

// NewInternalCluster merges two cluster roots into a fresh node, allocating
// its own owned contig array (copying child1's contigs then child2's), and
// rewrites every contained contig's Cluster back-reference to the new node.
// Per spec.md §4.5, a later slice-rewiring pass gives the two children
// non-owning views into this node's array; until that pass runs, the
// children's own Contigs slices are stale and must not be read.
func NewInternalCluster(child1, child2 *ClusterNode, numSamples int) *ClusterNode {
	n := &ClusterNode{
		NumContigs: child1.NumContigs + child2.NumContigs,
		Length:     child1.Length + child2.Length,
		Child1:     child1,
		Child2:     child2,
	}

	n.Contigs = make([]*Contig, n.NumContigs)
	copy(n.Contigs, child1.Contigs)
	copy(n.Contigs[child1.NumContigs:], child2.Contigs)

	n.SumReadCounts = make([]int, numSamples)
	n.ArrivalRates = make([]float64, numSamples)
	for s := 0; s < numSamples; s++ {
		n.SumReadCounts[s] = child1.SumReadCounts[s] + child2.SumReadCounts[s]
		n.ArrivalRates[s] = float64(n.SumReadCounts[s]) / float64(n.Length)
	}

	for _, c := range n.Contigs {
		c.Cluster = n
	}

	return n
}

// IsLeaf reports whether this node is a singleton (no children).
func (n *ClusterNode) IsLeaf() bool { return n.Child1 == nil && n.Child2 == nil }

// rewireSlices walks the subtree rooted at n pre-order, making each child's
// Contigs slice a view into n's owned array: Child1 gets the left half,
// Child2 the right half, in place. This is the "slice-rewiring pass" of
// spec.md §4.5, implemented with native Go slice aliasing rather than the
// manual (owner, offset, length) triple spec.md §9 suggests for languages
// without slice views.
func (n *ClusterNode) rewireSlices() {
	if n.IsLeaf() {
		return
	}

	n.Child1.Contigs = n.Contigs[:n.Child1.NumContigs]
	n.Child2.Contigs = n.Contigs[n.Child1.NumContigs:]

	n.Child1.rewireSlices()
	n.Child2.rewireSlices()
}
