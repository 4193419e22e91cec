/*
 * Filename: /Users/htang/code/sigma/graph.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import "math"

// ClusterGraph is a forest of hierarchical agglomeration trees built from a
// contig set and a priority queue of candidate merge edges.
type ClusterGraph struct {
	Roots []*ClusterNode

	numContigs int
	numWindows int
	numSamples int
	windowLen  int
}

// removeRoot returns roots with the first occurrence of target removed.
func removeRoot(roots []*ClusterNode, target *ClusterNode) []*ClusterNode {
	for i, r := range roots {
		if r == target {
			return append(roots[:i], roots[i+1:]...)
		}
	}
	return roots
}

// BuildClusterGraph constructs the forest: one leaf per contig, then
// repeatedly pops the highest-priority edge from the queue and merges the
// two (possibly already-merged) components it connects, until the queue is
// drained. Root membership is tracked via each contig's Cluster
// back-reference, which every merge rewrites for the whole new component --
// so root_of(contig) is always contig.Cluster. Once construction finishes,
// a slice-rewiring pass gives every descendant a view into its root's
// contig array.
func BuildClusterGraph(contigs ContigSet, edges *EdgeQueue, cfg *Config) *ClusterGraph {
	g := &ClusterGraph{
		numSamples: cfg.NumSamples,
		windowLen:  cfg.ContigWindowLen,
	}

	for _, id := range SortedIDs(contigs) {
		c := contigs[id]

		g.numContigs++
		g.numWindows += c.NumWindows

		g.Roots = append(g.Roots, NewLeafCluster(c, g.numSamples))
	}

	for !edges.Empty() {
		e := edges.Pop()

		ra := e.ContigA.Cluster
		rb := e.ContigB.Cluster

		if ra != rb {
			merged := NewInternalCluster(ra, rb, g.numSamples)

			g.Roots = removeRoot(g.Roots, ra)
			g.Roots = removeRoot(g.Roots, rb)
			g.Roots = append(g.Roots, merged)
		}
	}

	for _, root := range g.Roots {
		root.rewireSlices()
	}

	return g
}

// ComputeScores scores every node of every tree under the given
// probability model. Traversal order is unconstrained -- each node's score
// only depends on its own contigs and arrival rates -- so a simple
// pre-order stack walk visits every node exactly once.
func (g *ClusterGraph) ComputeScores(model ProbabilityModel) {
	stack := append([]*ClusterNode(nil), g.Roots...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.IsLeaf() {
			stack = append(stack, n.Child1, n.Child2)
		}

		g.computeClusterScore(n, model)
	}
}

func (g *ClusterGraph) computeClusterScore(n *ClusterNode, model ProbabilityModel) {
	score := 0.0

	for s := 0; s < g.numSamples; s++ {
		meanReadCount := 0.0
		if g.windowLen > 0 {
			meanReadCount = n.ArrivalRates[s] * float64(g.windowLen)
		}

		for _, c := range n.Contigs {
			if g.windowLen == 0 {
				meanReadCount = n.ArrivalRates[s] * float64(c.ModifiedLength)
				score += model.LogPMF(meanReadCount, float64(c.SumReadCounts[s]))
			} else {
				for _, v := range c.ReadCounts[s] {
					score += model.LogPMF(meanReadCount, float64(v))
				}
			}
		}
	}

	score -= 0.5 * float64(g.numSamples) * math.Log(float64(g.numWindows))

	n.Score = score
}

// ComputeModels runs the bottom-up model-selection pass: a strict
// post-order visit (a node is processed only once both children are
// processed) picks, at every internal node, whether to keep the two
// children joined (Connected=true) or cut them apart, maximizing the sum
// of model scores. A second traversal then walks from each root down while
// Connected is false, and rewrites every contig's Cluster back-reference to
// the first Connected ancestor it finds -- the maximal-connected partition.
func (g *ClusterGraph) ComputeModels() {
	stack := append([]*ClusterNode(nil), g.Roots...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]

		if n.IsLeaf() || (n.Child1.Modeled && n.Child2.Modeled) {
			stack = stack[:len(stack)-1]
			computeClusterModel(n)
		} else {
			stack = append(stack, n.Child1, n.Child2)
		}
	}

	stack = append(stack[:0], g.Roots...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Connected {
			for _, c := range n.Contigs {
				c.Cluster = n
			}
		} else {
			stack = append(stack, n.Child1, n.Child2)
		}
	}
}

func computeClusterModel(n *ClusterNode) {
	if n.IsLeaf() {
		n.ModelScore = n.Score
		n.Connected = true
	} else {
		joinScore := n.Score
		cutScore := n.Child1.ModelScore + n.Child2.ModelScore

		if joinScore >= cutScore {
			n.ModelScore = joinScore
			n.Connected = true
		} else {
			n.ModelScore = cutScore
			n.Connected = false
		}
	}

	n.Modeled = true
}

// MaximalConnectedNodes returns the output partition: the maximal
// Connected node under each root, in the deterministic order they are
// discovered by a pre-order descent from Roots. ComputeModels must have
// run first.
func (g *ClusterGraph) MaximalConnectedNodes() []*ClusterNode {
	var result []*ClusterNode

	stack := append([]*ClusterNode(nil), g.Roots...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Connected {
			result = append(result, n)
		} else {
			stack = append(stack, n.Child1, n.Child2)
		}
	}

	return result
}
