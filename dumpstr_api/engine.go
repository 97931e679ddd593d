package dumpstr_api

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Engine runs the call and locus filters over a stream of records and keeps
// the sample and locus statistics
type Engine struct {
	Registry *Registry
	Samples  *SampleStats
	Loci     *LocusStats

	header       *Header
	useLength    bool
	dropFiltered bool
}

// NewEngine validates the config against the input header and builds the filters
func NewEngine(config *Config, header *Header) (*Engine, error) {
	registry, err := NewRegistry(config, header)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Registry:     registry,
		Samples:      newSampleStats(header.Samples),
		Loci:         newLocusStats(registry.LocusFilterNames()),
		header:       rewriteHeader(header, registry.LocusFilters),
		useLength:    config.UseLength,
		dropFiltered: config.DropFiltered,
	}, nil
}

// The header of the output VCF
func (engine *Engine) Header() *Header {
	return engine.header
}

// Process filters one record. It returns the record to emit, or false when
// the locus is dropped.
func (engine *Engine) Process(variant *Variant) (*Variant, bool) {
	engine.Loci.Processed++

	filtered := ApplyCallFilters(variant, engine.Registry.CallFilters, engine.Samples)
	annotated, keep := ApplyLocusFilters(filtered, engine.Registry.LocusFilters, engine.dropFiltered, engine.Loci)
	if !keep {
		engine.Loci.Dropped++
		return nil, false
	}

	output := RecomputeStatistics(annotated, engine.useLength)
	output.Header = engine.header
	return output, true
}

// Run streams every record of reader through the engine into writer. At most
// maxRecords records are processed, all of them when maxRecords is negative.
func Run(engine *Engine, reader RecordReader, writer RecordWriter, maxRecords int) error {
	if err := writer.WriteHeader(engine.Header()); err != nil {
		return err
	}

	for count := 0; maxRecords < 0 || count < maxRecords; count++ {
		variant, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		output, keep := engine.Process(variant)
		if !keep {
			continue
		}
		if err := writer.Write(output); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"processed": engine.Loci.Processed,
		"pass":      engine.Loci.Pass,
		"dropped":   engine.Loci.Dropped,
	}).Info("Finished filtering")
	return nil
}
