package dumpstr_api

import (
	"fmt"
)

// Execute filters the input VCF of the config and writes the output VCF and both logs
func Execute(config *Config) (err error) {
	if config.Verbose {
		SetVerbose()
	}

	reader, err := Open(config.Vcf, config.MuteWarnings)
	if err != nil {
		return fmt.Errorf("failed to open the input VCF: %w", err)
	}
	defer reader.Close()

	// All configuration errors surface here, before any output exists
	engine, err := NewEngine(config, reader.Header())
	if err != nil {
		return err
	}
	logger.Infof("Applying %d call filters and %d locus filters to %s", len(engine.Registry.CallFilters), len(engine.Registry.LocusFilters), config.Vcf)

	writer, err := Create(config.OutputVcf(), config.Bgzip, config.NoDate)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := writer.Close(); nerr != nil && err == nil {
			err = nerr
		}
	}()

	if err := Run(engine, reader, writer, config.MaxRecords()); err != nil {
		return err
	}

	if err := writeLog(config.SampleLog(), engine.Samples.Write); err != nil {
		return err
	}
	if err := writeLog(config.LocusLog(), engine.Loci.Write); err != nil {
		return err
	}
	logger.Infof("Wrote %s, %s and %s", config.OutputVcf(), config.SampleLog(), config.LocusLog())
	return nil
}
