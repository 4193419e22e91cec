/*
 * Filename: /Users/htang/code/sigma/readers_edge_test.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOperaBundleReaderInsertsKnownEdgesAndSkipsUnknown(t *testing.T) {
	dir := t.TempDir()
	a := &Contig{ID: "a"}
	b := &Contig{ID: "b"}
	contigs := ContigSet{"a": a, "b": b}

	bundlePath := writeFile(t, dir, "bundle.txt", strings.Join([]string{
		"a\tBE\tb\tBE\t123.5\t10\t5",
		"a\tBE\tunknown\tBE\t50\t10\t5",
	}, "\n")+"\n")

	skippedPath := filepath.Join(dir, "skipped.txt")
	edges := NewEdgeSet()

	if err := (OperaBundleReader{}).Read(bundlePath, contigs, edges, skippedPath); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if edges.Len() != 1 {
		t.Fatalf("edges.Len() = %d, want 1", edges.Len())
	}
	got := edges.Edges()[0]
	if got.Distance != 123.5 {
		t.Errorf("Distance = %v, want 123.5", got.Distance)
	}

	skipped, err := os.ReadFile(skippedPath)
	if err != nil {
		t.Fatalf("ReadFile skipped: %v", err)
	}
	if !strings.Contains(string(skipped), "unknown") {
		t.Errorf("skipped file = %q, want it to contain the unknown-contig line", string(skipped))
	}
}

func TestOperaBundleReaderFilterKeepsIntraClusterOnly(t *testing.T) {
	dir := t.TempDir()
	a := &Contig{ID: "a"}
	b := &Contig{ID: "b"}
	c := &Contig{ID: "c"}

	clusterAB := &ClusterNode{}
	a.Cluster = clusterAB
	b.Cluster = clusterAB
	c.Cluster = &ClusterNode{}

	contigs := ContigSet{"a": a, "b": b, "c": c}

	bundlePath := writeFile(t, dir, "bundle.txt", strings.Join([]string{
		"a\tBE\tb\tBE\t10\t1\t1",
		"a\tBE\tc\tBE\t10\t1\t1",
	}, "\n")+"\n")

	filteredPath := filepath.Join(dir, "filtered.txt")

	if err := (OperaBundleReader{}).Filter(bundlePath, contigs, filteredPath); err != nil {
		t.Fatalf("Filter: %v", err)
	}

	data, err := os.ReadFile(filteredPath)
	if err != nil {
		t.Fatalf("ReadFile filtered: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "a\tBE\tb") {
		t.Errorf("filtered lines = %v, want only the a-b line", lines)
	}
}

func TestParseBundleLineRejectsShortLines(t *testing.T) {
	if _, _, _, ok := parseBundleLine("a\tb\tc"); ok {
		t.Errorf("parseBundleLine on a short line should fail")
	}
}
