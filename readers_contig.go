/*
 * Filename: /Users/htang/code/sigma/readers_contig.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shenwei356/bio/seqio/fai"
)

// ContigReader loads contig ids and lengths from an assembler-specific
// contigs file, admitting only contigs of length >= cfg.ContigLenThr.
type ContigReader interface {
	Read(path string, numSamples int, cfg *Config, contigs ContigSet) error
}

// NewContigReader selects a ContigReader for the configured dialect.
func NewContigReader(contigsFileType string) (ContigReader, error) {
	switch contigsFileType {
	case "SOAPdenovo":
		return SOAPdenovoReader{}, nil
	case "Velvet":
		return VelvetReader{}, nil
	case "Fasta":
		return FastaIndexReader{}, nil
	default:
		return nil, fmt.Errorf("unknown contigs_file_type: %s", contigsFileType)
	}
}

// SOAPdenovoReader parses headers of the form
// ">ID length LEN cvg_C_tip_T".
type SOAPdenovoReader struct{}

// Read scans contigsFile line by line; any header that doesn't match the
// expected layout is skipped rather than treated as fatal, matching the
// original implementation's fscanf-failure-skips-line behavior.
func (SOAPdenovoReader) Read(path string, numSamples int, cfg *Config, contigs ContigSet) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening contigs file %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		id := strings.TrimPrefix(fields[0], ">")
		length, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}

		if length >= cfg.ContigLenThr {
			contigs[id] = NewContig(id, length, numSamples, cfg)
		}
	}

	return scanner.Err()
}

// VelvetReader parses headers of the form
// ">NODE_ID_length_LEN_cov_C".
type VelvetReader struct{}

func (VelvetReader) Read(path string, numSamples int, cfg *Config, contigs ContigSet) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening contigs file %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}

		id := strings.TrimPrefix(line, ">")
		if idx := strings.IndexByte(id, ' '); idx >= 0 {
			id = id[:idx]
		}

		tokens := strings.Split(id, "_")
		length := -1
		for i, tok := range tokens {
			if tok == "length" && i+1 < len(tokens) {
				if n, err := strconv.Atoi(tokens[i+1]); err == nil {
					length = n
				}
				break
			}
		}
		if length < 0 {
			continue
		}

		if length >= cfg.ContigLenThr {
			contigs[id] = NewContig(id, length, numSamples, cfg)
		}
	}

	return scanner.Err()
}

// FastaIndexReader derives contig ids and lengths from a FASTA file's
// faidx index, for assemblers that emit a plain multi-FASTA rather than a
// SOAPdenovo/Velvet-style header. Grounded on the teacher's use of
// github.com/shenwei356/bio/seqio/fai in build.go's GetFastaSizes.
type FastaIndexReader struct{}

func (FastaIndexReader) Read(path string, numSamples int, cfg *Config, contigs ContigSet) error {
	faiFile := path + ".fai"
	if !isNewerFile(faiFile, path) {
		os.Remove(faiFile)
	}

	faidx, err := fai.New(path)
	if err != nil {
		return fmt.Errorf("indexing fasta file %q: %w", path, err)
	}
	defer faidx.Close()

	for id, rec := range faidx.Index {
		length := rec.Length
		if length >= cfg.ContigLenThr {
			contigs[id] = NewContig(id, length, numSamples, cfg)
		}
	}

	return nil
}

// isNewerFile reports whether a is newer than b, or false if either is
// missing -- used to decide whether a stale .fai index needs rebuilding.
func isNewerFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return ai.ModTime().After(bi.ModTime())
}
