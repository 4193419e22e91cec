/*
 * Filename: /Users/htang/code/sigma/config.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all parameters read from a Sigma configuration file. Unlike
// the original implementation's process-wide statics, a Config value is
// constructed once per Pipeline.Run and threaded explicitly into every
// constructor that needs it.
type Config struct {
	ContigsFileType string
	ContigsFile     string
	MappingFiles    []string
	EdgesFiles      []string

	SigmaContigsFile string

	OutputDir          string
	SkippedEdgesFiles  []string
	FilteredEdgesFiles []string
	ClustersFile       string

	NumSamples int

	ContigLenThr   int
	ContigEdgeLen  int
	ContigWindowLen int

	PdistType string
	Vmr       float64
}

// paramsMap is the raw key/value table parsed out of the configuration file.
type paramsMap map[string]string

// LoadConfig reads and parses a Sigma configuration file, applying the
// per-type defaults documented in the key table (int -1, real -1.0, string
// "-", list empty) before deriving the dependent fields.
func LoadConfig(path string) (*Config, error) {
	params, err := readParamsFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	cfg := configure(params)

	return cfg, nil
}

// readParamsFile reads a `key = value` file with `#` line comments, stripping
// whitespace around keys and values. Unknown keys are retained in the map;
// it is configure's job to ignore the ones it does not recognize.
func readParamsFile(path string) (paramsMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	params := make(paramsMap)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		eqPos := strings.IndexByte(line, '=')
		if eqPos < 0 {
			continue
		}

		key := strings.TrimSpace(line[:eqPos])
		value := strings.TrimSpace(line[eqPos+1:])

		if key == "" {
			continue
		}

		params[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return params, nil
}

func configure(params paramsMap) *Config {
	cfg := &Config{}

	cfg.ContigsFileType = getStringValue(params, "contigs_file_type")

	cfg.ContigsFile = getStringValue(params, "contigs_file")
	cfg.MappingFiles = getVectorValue(params, "mapping_files")
	cfg.EdgesFiles = getVectorValue(params, "edges_files")

	cfg.SigmaContigsFile = getStringValue(params, "sigma_contigs_file")

	cfg.OutputDir = getStringValue(params, "output_dir")

	// An unset output_dir ("-") places outputs in the current directory.
	outputDir := cfg.OutputDir
	if outputDir == "-" {
		outputDir = ""
	}

	for _, filePath := range cfg.EdgesFiles {
		fileName := filepath.Base(filePath)

		cfg.SkippedEdgesFiles = append(cfg.SkippedEdgesFiles, filepath.Join(outputDir, "skipped_"+fileName))
		cfg.FilteredEdgesFiles = append(cfg.FilteredEdgesFiles, filepath.Join(outputDir, "filtered_"+fileName))
	}

	cfg.ClustersFile = filepath.Join(outputDir, "clusters")

	cfg.NumSamples = len(cfg.MappingFiles)

	cfg.ContigLenThr = getIntValue(params, "contig_len_thr")
	cfg.ContigEdgeLen = getIntValue(params, "contig_edge_len")
	cfg.ContigWindowLen = getIntValue(params, "contig_window_len")

	if cfg.ContigLenThr == -1 {
		cfg.ContigLenThr = 500
	}
	if cfg.ContigEdgeLen == -1 {
		cfg.ContigEdgeLen = 0
	}
	if cfg.ContigWindowLen == -1 {
		cfg.ContigWindowLen = 0
	}

	cfg.PdistType = getStringValue(params, "pdist_type")
	if cfg.PdistType == "-" {
		cfg.PdistType = "Poisson"
	}

	cfg.Vmr = getDoubleValue(params, "vmr")

	return cfg
}

func getIntValue(params paramsMap, key string) int {
	if v, ok := params[key]; ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return -1
}

func getDoubleValue(params paramsMap, key string) float64 {
	if v, ok := params[key]; ok {
		n, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return n
		}
	}
	return -1.0
}

func getStringValue(params paramsMap, key string) string {
	if v, ok := params[key]; ok {
		return v
	}
	return "-"
}

func getVectorValue(params paramsMap, key string) []string {
	v, ok := params[key]
	if !ok || v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	vec := make([]string, len(parts))
	for i, p := range parts {
		vec[i] = p
	}
	return vec
}
