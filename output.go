/*
 * Filename: /Users/htang/code/sigma/output.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"bufio"
	"fmt"
	"os"
)

// SaveClusters writes one line per contig to path:
// id<TAB>cluster_id<TAB>sum_read_counts[0]<TAB>arrival_rates[0]. cluster_id
// is a 1-based integer assigned in the order the maximal-connected nodes
// are visited. ComputeModels must have run first.
func SaveClusters(path string, g *ClusterGraph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating clusters file %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	for clusterID, n := range g.MaximalConnectedNodes() {
		for _, c := range n.Contigs {
			fmt.Fprintf(w, "%s\t%d\t%d\t%f\n", c.ID, clusterID+1, c.SumReadCounts[0], n.ArrivalRates[0])
		}
	}

	return w.Flush()
}
