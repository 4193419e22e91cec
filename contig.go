/*
 * Filename: /Users/htang/code/sigma/contig.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Contig is a single assembler-emitted sequence along with its scored
// region geometry and per-sample window read counts. A Contig is created
// once by a reader and mutated afterwards only to accumulate read counts
// and to update its cluster back-reference.
type Contig struct {
	ID     string
	Length int

	LeftEdge       int
	RightEdge      int
	NumWindows     int
	ModifiedLength int

	SumReadCounts []int
	ReadCounts    [][]int // ReadCounts[sample][window]

	// Cluster is a weak, non-owning back-reference to the cluster node that
	// currently claims this contig. It is nil until forest construction and
	// is rewritten on every merge and once more at the end of the model pass.
	Cluster *ClusterNode
}

// ContigSet indexes contigs by their assembler-assigned id.
type ContigSet map[string]*Contig

// NewContig derives window geometry from length, cfg.ContigWindowLen (W) and
// cfg.ContigEdgeLen (E) per the formulas:
//
//	W > 0: numWindows = (length - 2E) / W (floor); remainder = length - numWindows*W
//	       leftEdge = remainder/2; rightEdge = length-1-(remainder-leftEdge)
//	W == 0: numWindows = 1; leftEdge = E; rightEdge = length-1-E
func NewContig(id string, length int, numSamples int, cfg *Config) *Contig {
	var numWindows, leftEdge, rightEdge int

	if cfg.ContigWindowLen > 0 {
		numWindows = (length - 2*cfg.ContigEdgeLen) / cfg.ContigWindowLen
		remainder := length - numWindows*cfg.ContigWindowLen
		leftEdge = remainder / 2
		rightEdge = length - 1 - (remainder - leftEdge)
	} else {
		numWindows = 1
		leftEdge = cfg.ContigEdgeLen
		rightEdge = length - 1 - cfg.ContigEdgeLen
	}

	return newContigWithGeometry(id, length, leftEdge, rightEdge, numWindows, numSamples)
}

// NewContigFromSnapshot reconstructs a Contig whose geometry was already
// computed by a previous run and persisted to a sigma_contigs_file.
func NewContigFromSnapshot(id string, length, leftEdge, rightEdge, numWindows, numSamples int) *Contig {
	return newContigWithGeometry(id, length, leftEdge, rightEdge, numWindows, numSamples)
}

func newContigWithGeometry(id string, length, leftEdge, rightEdge, numWindows, numSamples int) *Contig {
	c := &Contig{
		ID:             id,
		Length:         length,
		LeftEdge:       leftEdge,
		RightEdge:      rightEdge,
		NumWindows:     numWindows,
		ModifiedLength: rightEdge - leftEdge + 1,
	}

	c.SumReadCounts = make([]int, numSamples)
	c.ReadCounts = make([][]int, numSamples)
	for s := range c.ReadCounts {
		c.ReadCounts[s] = make([]int, numWindows)
	}

	return c
}

// RecordRead increments the window count for a single observed read-start
// position, if the position falls within the scored region. pos is the
// 0-based position along the contig and windowLen is the configured window
// length W: the window index is (pos-leftEdge)/W when W>0, else window 0.
func (c *Contig) RecordRead(sample, pos, windowLen int) {
	if pos < c.LeftEdge || pos > c.RightEdge {
		return
	}

	window := 0
	if windowLen > 0 {
		window = (pos - c.LeftEdge) / windowLen
	}

	c.ReadCounts[sample][window]++
}

// FinalizeSums computes SumReadCounts[sample] as the sum over all windows,
// restoring the invariant sum_read_counts[s] = sum_w read_counts[s][w].
func (c *Contig) FinalizeSums(sample int) {
	sum := 0
	for _, v := range c.ReadCounts[sample] {
		sum += v
	}
	c.SumReadCounts[sample] = sum
}

// SortedIDs returns the contig ids of the set in lexicographic order, giving
// deterministic iteration for forest construction and snapshotting.
func SortedIDs(contigs ContigSet) []string {
	ids := make([]string, 0, len(contigs))
	for id := range contigs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SaveContigSnapshot writes the text snapshot format described in spec §6:
// header line "S LENTHR E W", then per contig a header line and S blocks of
// two lines (sum, then space-separated per-window counts).
func SaveContigSnapshot(path string, contigs ContigSet, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating contig snapshot %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "%d %d %d %d\n", cfg.NumSamples, cfg.ContigLenThr, cfg.ContigEdgeLen, cfg.ContigWindowLen)

	for _, id := range SortedIDs(contigs) {
		c := contigs[id]

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", c.ID, c.Length, c.LeftEdge, c.RightEdge, c.NumWindows)

		for s := 0; s < cfg.NumSamples; s++ {
			fmt.Fprintf(w, "%d\n", c.SumReadCounts[s])

			counts := make([]string, c.NumWindows)
			for i, v := range c.ReadCounts[s] {
				counts[i] = strconv.Itoa(v)
			}
			fmt.Fprintf(w, "%s\n", strings.Join(counts, " "))
		}
	}

	return w.Flush()
}

// LoadContigSnapshot reads back a snapshot written by SaveContigSnapshot.
// The header line `S LENTHR E W` overwrites cfg.NumSamples,
// cfg.ContigLenThr, cfg.ContigEdgeLen and cfg.ContigWindowLen in full,
// matching ContigIO::load_contigs in original_source/src/contig.cpp, which
// reads the same four values directly into the process-wide config rather
// than trusting whatever the rerun's config file specifies. Geometry and
// read-count arrays are reproduced byte-equivalent modulo whitespace.
func LoadContigSnapshot(path string, cfg *Config) (ContigSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening contig snapshot %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 1<<20)
	scanner.Buffer(buf, 1<<24)

	if !scanner.Scan() {
		return nil, fmt.Errorf("contig snapshot %q is empty", path)
	}

	header := strings.Fields(scanner.Text())
	if len(header) < 4 {
		return nil, fmt.Errorf("malformed contig snapshot header in %q", path)
	}

	numSamples, err1 := strconv.Atoi(header[0])
	contigLenThr, err2 := strconv.Atoi(header[1])
	contigEdgeLen, err3 := strconv.Atoi(header[2])
	contigWindowLen, err4 := strconv.Atoi(header[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, fmt.Errorf("malformed contig snapshot header in %q", path)
	}

	cfg.NumSamples = numSamples
	cfg.ContigLenThr = contigLenThr
	cfg.ContigEdgeLen = contigEdgeLen
	cfg.ContigWindowLen = contigWindowLen

	contigs := make(ContigSet)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed contig record in %q: %q", path, line)
		}

		length, err1 := strconv.Atoi(fields[1])
		leftEdge, err2 := strconv.Atoi(fields[2])
		rightEdge, err3 := strconv.Atoi(fields[3])
		numWindows, err4 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, fmt.Errorf("malformed contig record in %q: %q", path, line)
		}

		c := NewContigFromSnapshot(fields[0], length, leftEdge, rightEdge, numWindows, numSamples)

		for s := 0; s < numSamples; s++ {
			if !scanner.Scan() {
				return nil, fmt.Errorf("truncated contig snapshot %q at contig %q sample %d", path, c.ID, s)
			}
			sum, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil {
				return nil, fmt.Errorf("malformed sum_read_counts in %q: %w", path, err)
			}
			c.SumReadCounts[s] = sum

			if !scanner.Scan() {
				return nil, fmt.Errorf("truncated contig snapshot %q at contig %q sample %d", path, c.ID, s)
			}
			countsLine := strings.TrimSpace(scanner.Text())
			if countsLine != "" {
				parts := strings.Fields(countsLine)
				for w, p := range parts {
					if w >= numWindows {
						break
					}
					v, err := strconv.Atoi(p)
					if err != nil {
						return nil, fmt.Errorf("malformed read_counts in %q: %w", path, err)
					}
					c.ReadCounts[s][w] = v
				}
			}
		}

		contigs[c.ID] = c
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading contig snapshot %q: %w", path, err)
	}

	return contigs, nil
}

// ComputeEmpiricalVMR computes the empirical variance-to-mean ratio used
// when pdist_type is NegativeBinomial and the configured vmr is <= 1. Over
// every contig with length >= 10000, for each sample, compute the
// (population) mean and variance of its per-window read counts; the result
// is the median of the resulting variance/mean ratios, taken as the element
// at index n/2 after sorting (the upper of the two middle values when n is
// even).
func ComputeEmpiricalVMR(contigs ContigSet, numSamples int) float64 {
	var vmrs []float64

	for _, id := range SortedIDs(contigs) {
		c := contigs[id]
		if c.Length < 10000 {
			continue
		}

		for s := 0; s < numSamples; s++ {
			counts := c.ReadCounts[s]

			mean := 0.0
			for _, v := range counts {
				mean += float64(v)
			}
			mean /= float64(len(counts))

			variance := 0.0
			for _, v := range counts {
				d := float64(v) - mean
				variance += d * d
			}
			variance /= float64(len(counts))

			vmrs = append(vmrs, variance/mean)
		}
	}

	sort.Float64s(vmrs)

	return vmrs[len(vmrs)/2]
}
