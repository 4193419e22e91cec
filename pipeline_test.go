/*
 * Filename: /Users/htang/code/sigma/pipeline_test.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"path/filepath"
	"testing"
)

// A rerun whose config file only names sigma_contigs_file (mapping_files
// omitted) must recover window geometry from the snapshot itself, not from
// whatever contig_window_len the rerun's config file happens to specify (or
// its absence). Otherwise the score pass silently switches from the
// per-window branch to the aggregate-sum branch in graph.go's
// computeClusterScore, diverging from a run against the original contigs.
func TestLoadContigsRestoresWindowLenFromSnapshot(t *testing.T) {
	savedCfg := &Config{ContigWindowLen: 100, ContigEdgeLen: 5, NumSamples: 1, ContigLenThr: 500}

	contigs := make(ContigSet)
	c := NewContig("ctg1", 1000, savedCfg.NumSamples, savedCfg)
	for w := range c.ReadCounts[0] {
		c.ReadCounts[0][w] = w + 1
	}
	c.FinalizeSums(0)
	contigs["ctg1"] = c

	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "snapshot")
	if err := SaveContigSnapshot(snapshotPath, contigs, savedCfg); err != nil {
		t.Fatalf("SaveContigSnapshot: %v", err)
	}

	// Simulate a minimal rerun config: mapping_files omitted (NumSamples==0
	// triggers the snapshot-reload path), contig_window_len unset.
	rerunCfg := &Config{SigmaContigsFile: snapshotPath}

	p := &Pipeline{}
	loaded, err := p.loadContigs(rerunCfg)
	if err != nil {
		t.Fatalf("loadContigs: %v", err)
	}

	if rerunCfg.ContigWindowLen != 100 {
		t.Fatalf("ContigWindowLen = %d, want 100 (restored from snapshot header)", rerunCfg.ContigWindowLen)
	}
	if rerunCfg.ContigEdgeLen != 5 {
		t.Errorf("ContigEdgeLen = %d, want 5", rerunCfg.ContigEdgeLen)
	}

	graph := BuildClusterGraph(loaded, NewEdgeQueue(nil), rerunCfg)
	graph.ComputeScores(PoissonModel{})

	// ComputeScores with the restored windowLen must take the per-window
	// branch: its score is compared to a direct computeClusterScore call
	// with windowLen==0 (the aggregate-sum branch), which should differ
	// given non-uniform per-window counts.
	root := graph.Roots[0]
	windowScore := root.Score

	aggregateGraph := &ClusterGraph{numSamples: 1, numWindows: graph.numWindows, windowLen: 0}
	aggregateGraph.computeClusterScore(root, PoissonModel{})
	aggregateScore := root.Score

	if windowScore == aggregateScore {
		t.Errorf("per-window score (%v) should differ from aggregate-sum score (%v) for non-uniform window counts", windowScore, aggregateScore)
	}
}
