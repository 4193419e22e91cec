/*
 * Filename: /Users/htang/code/sigma/pipeline.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"fmt"
	"time"
)

// Pipeline is the top-level Sigma run: load contigs (fresh or from a
// snapshot), accumulate read counts, load scaffold edges, build the
// cluster graph, score and model it, and emit clusters and filtered
// edges. It is the Go analog of the original implementation's main().
type Pipeline struct {
	ConfigFile string
}

// Run executes one end-to-end Sigma pass.
func (p *Pipeline) Run() error {
	cfg, err := LoadConfig(p.ConfigFile)
	if err != nil {
		return err
	}

	contigs, err := p.loadContigs(cfg)
	if err != nil {
		return err
	}

	log.Noticef("Number of contigs: %d", len(contigs))

	edgeReader := OperaBundleReader{}
	edgeSet := NewEdgeSet()

	for i, edgesFile := range cfg.EdgesFiles {
		log.Noticef("Loading edges from %s...", edgesFile)
		start := time.Now()
		if err := edgeReader.Read(edgesFile, contigs, edgeSet, cfg.SkippedEdgesFiles[i]); err != nil {
			return err
		}
		log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())
	}

	log.Noticef("Number of edges: %d", edgeSet.Len())

	queue := NewEdgeQueue(edgeSet.Edges())

	log.Notice("Generating cluster graph...")
	start := time.Now()
	graph := BuildClusterGraph(contigs, queue, cfg)
	log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())

	log.Noticef("Number of trees: %d", len(graph.Roots))

	model, err := newProbabilityModel(cfg, contigs)
	if err != nil {
		return err
	}

	log.Notice("Computing scores...")
	start = time.Now()
	graph.ComputeScores(model)
	log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())

	log.Notice("Computing models...")
	start = time.Now()
	graph.ComputeModels()
	log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())

	for i, edgesFile := range cfg.EdgesFiles {
		log.Noticef("Saving filtered edges to %s...", cfg.FilteredEdgesFiles[i])
		start := time.Now()
		if err := edgeReader.Filter(edgesFile, contigs, cfg.FilteredEdgesFiles[i]); err != nil {
			return err
		}
		log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())
	}

	log.Noticef("Saving clusters to %s...", cfg.ClustersFile)
	start = time.Now()
	if err := SaveClusters(cfg.ClustersFile, graph); err != nil {
		return err
	}
	log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())

	return nil
}

// loadContigs either reloads a prior snapshot (when mapping_files is empty)
// or reads fresh contigs and accumulates read counts from each sample's
// mapping file, optionally persisting the result as a new snapshot.
func (p *Pipeline) loadContigs(cfg *Config) (ContigSet, error) {
	if cfg.NumSamples == 0 {
		log.Noticef("Loading contig information from %s...", cfg.SigmaContigsFile)
		start := time.Now()
		contigs, err := LoadContigSnapshot(cfg.SigmaContigsFile, cfg)
		if err != nil {
			return nil, err
		}
		log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())
		return contigs, nil
	}

	contigReader, err := NewContigReader(cfg.ContigsFileType)
	if err != nil {
		return nil, err
	}

	log.Noticef("Loading contigs from %s...", cfg.ContigsFile)
	start := time.Now()
	contigs := make(ContigSet)
	if err := contigReader.Read(cfg.ContigsFile, cfg.NumSamples, cfg, contigs); err != nil {
		return nil, err
	}
	log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())

	mappingReader := SAMReader{}

	for sampleIndex, mappingFile := range cfg.MappingFiles {
		log.Noticef("Loading mapping from %s...", mappingFile)
		start := time.Now()
		if err := mappingReader.Read(mappingFile, sampleIndex, cfg.ContigWindowLen, contigs); err != nil {
			return nil, err
		}
		log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())
	}

	if cfg.SigmaContigsFile != "-" {
		log.Noticef("Saving contig information to %s...", cfg.SigmaContigsFile)
		start := time.Now()
		if err := SaveContigSnapshot(cfg.SigmaContigsFile, contigs, cfg); err != nil {
			return nil, err
		}
		log.Noticef("DONE! %.4f sec", time.Since(start).Seconds())
	}

	return contigs, nil
}

// newProbabilityModel selects and, for NegativeBinomial, parameterizes the
// read-count probability model from configuration.
func newProbabilityModel(cfg *Config, contigs ContigSet) (ProbabilityModel, error) {
	switch cfg.PdistType {
	case "Poisson":
		return PoissonModel{}, nil
	case "NegativeBinomial":
		vmr := cfg.Vmr
		if vmr <= 1.0 {
			vmr = ComputeEmpiricalVMR(contigs, cfg.NumSamples)
		}
		return NewNegativeBinomialModel(vmr), nil
	default:
		return nil, fmt.Errorf("unknown pdist_type: %s", cfg.PdistType)
	}
}
