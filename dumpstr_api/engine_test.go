package dumpstr_api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineRecords = []string{
	"chr1\t100\tSTR1\tACACACAC\tACACACACAC\t.\t.\tPERIOD=2\tGT:DP\t0/1:5\t0/1:20",
	"chr1\t200\tSTR2\tTTTGTTTG\tTTTGTTTGTTTG\t.\t.\tPERIOD=4\tGT:DP\t0/0:15\t0/1:25",
	"chr1\t300\tSTR3\tAGAGAG\tAGAGAGAG\t.\t.\tPERIOD=2\tGT:DP\t./.:.\t1/1:30",
}

func engineConfig(drop bool) *Config {
	return &Config{
		Vcf:              "input.vcf",
		Out:              "out",
		MinCallDP:        intPtr(10),
		MinLocusCallrate: floatPtr(0.8),
		DropFiltered:     drop,
		NoDate:           true,
	}
}

// runEngine streams records through a new engine and returns it with the written VCF
func runEngine(t *testing.T, config *Config, input string, maxRecords int) (*Engine, string) {
	t.Helper()
	reader, err := NewReader(strings.NewReader(input), true)
	require.NoError(t, err)
	engine, err := NewEngine(config, reader.Header())
	require.NoError(t, err)

	var output bytes.Buffer
	writer := NewWriter(&output, true)
	require.NoError(t, Run(engine, reader, writer, maxRecords))
	require.NoError(t, writer.Close())
	return engine, output.String()
}

func outputRecords(vcf string) []string {
	var records []string
	for _, line := range strings.Split(strings.TrimSpace(vcf), "\n") {
		if !strings.HasPrefix(line, "#") {
			records = append(records, line)
		}
	}
	return records
}

func TestEngine(t *testing.T) {
	input := testHeader + strings.Join(engineRecords, "\n") + "\n"

	t.Run("should annotate failing loci and count them", func(t *testing.T) {
		engine, vcf := runEngine(t, engineConfig(false), input, -1)
		records := outputRecords(vcf)
		require.Len(t, records, 3)

		assert.Equal(t, "MinLocusCallrate", strings.Split(records[0], "\t")[6])
		assert.Equal(t, "PASS", strings.Split(records[1], "\t")[6])
		assert.Equal(t, "MinLocusCallrate", strings.Split(records[2], "\t")[6])

		failed := 0
		for _, record := range records {
			if strings.Split(record, "\t")[6] != StatusPass {
				failed++
			}
		}
		assert.Equal(t, 3, engine.Loci.Processed)
		assert.Equal(t, engine.Loci.Processed, engine.Loci.Pass+failed)
		assert.Equal(t, 2, engine.Loci.Failed("MinLocusCallrate"))
		assert.Equal(t, 0, engine.Loci.Dropped)
	})

	t.Run("should drop failing loci without counting their filters", func(t *testing.T) {
		engine, vcf := runEngine(t, engineConfig(true), input, -1)
		records := outputRecords(vcf)
		require.Len(t, records, 1)

		assert.True(t, strings.HasPrefix(records[0], "chr1\t200\tSTR2"))
		assert.Equal(t, ".", strings.Split(records[0], "\t")[6])
		assert.Equal(t, 3, engine.Loci.Processed)
		assert.Equal(t, 2, engine.Loci.Dropped)
		assert.Equal(t, 0, engine.Loci.Pass)
		assert.Equal(t, 0, engine.Loci.TotalCalls)
		assert.Equal(t, 0, engine.Loci.Failed("MinLocusCallrate"))
	})

	t.Run("should write the call statuses and statistics", func(t *testing.T) {
		_, vcf := runEngine(t, engineConfig(false), input, -1)
		records := outputRecords(vcf)

		reader, err := NewReader(strings.NewReader(vcf), true)
		require.NoError(t, err)
		first, err := reader.Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"GT", "DP", "FILTER"}, first.FormatKeys)
		assert.Equal(t, "./.:.:LowCallDepth", first.Calls[0].format(first.FormatKeys))
		assert.Equal(t, "0/1:20:PASS", first.Calls[1].format(first.FormatKeys))
		assert.Equal(t, []string{"0.5"}, first.Info["HET"])
		assert.Equal(t, []string{"1"}, first.Info["AC"])
		assert.Equal(t, []string{"1"}, first.Info["REFAC"])
		hwep, ok := stringToFloat(first.Info["HWEP"])
		require.True(t, ok)
		assert.InDelta(t, 1.0, hwep, 1e-9)

		assert.Equal(t,
			"chr1\t300\tSTR3\tAGAGAG\tAGAGAGAG\t.\tMinLocusCallrate\tPERIOD=2;HRUN=1;HET=0;HWEP=1;AC=2;REFAC=0\tGT:DP:FILTER\t./.:.:NOCALL\t1/1:30:PASS",
			records[2],
		)
	})

	t.Run("should rewrite the header", func(t *testing.T) {
		_, vcf := runEngine(t, engineConfig(false), input, -1)

		assert.NotContains(t, vcf, "##FILTER=<ID=OLD")
		assert.Contains(t, vcf, "##FILTER=<ID=MinLocusCallrate,Description=\"Locus call rate below 0.8\">\n")
		assert.Contains(t, vcf, "##FORMAT=<ID=FILTER,Number=1,Type=String,Description=\"Call-level filter\">\n")
		for _, field := range []string{"AC", "REFAC", "HET", "HWEP", "HRUN"} {
			assert.Contains(t, vcf, "##INFO=<ID="+field+",")
		}
	})

	t.Run("should stop after the record limit", func(t *testing.T) {
		engine, vcf := runEngine(t, engineConfig(false), input, 1)
		assert.Len(t, outputRecords(vcf), 1)
		assert.Equal(t, 1, engine.Loci.Processed)
	})

	t.Run("should give the same output when run on its own output", func(t *testing.T) {
		config := &Config{Vcf: "input.vcf", Out: "out", NoDate: true}
		_, first := runEngine(t, config, input, -1)
		_, second := runEngine(t, config, first, -1)
		assert.Equal(t, first, second)
	})
}

func TestReports(t *testing.T) {
	input := testHeader + strings.Join(engineRecords, "\n") + "\n"

	t.Run("should write the sample log", func(t *testing.T) {
		engine, _ := runEngine(t, engineConfig(false), input, -1)
		var output bytes.Buffer
		require.NoError(t, engine.Samples.Write(&output))

		assert.Equal(t,
			"sample\tnumcalls\tmeanDP\tLowCallDepth\tHighCallDepth\tLowCallQ\tCallFlankIndels\tCallStutter\n"+
				"S1\t1\t15\t1\t0\t0\t0\t0\n"+
				"S2\t3\t25\t0\t0\t0\t0\t0\n",
			output.String(),
		)
	})

	t.Run("should write the locus log", func(t *testing.T) {
		engine, _ := runEngine(t, engineConfig(false), input, -1)
		var output bytes.Buffer
		require.NoError(t, engine.Loci.Write(&output))

		assert.Equal(t,
			"MeanSamplesPerPassingSTR\t2\n"+
				"FILTER:PASS\t1\n"+
				"FILTER:MinLocusCallrate\t2\n",
			output.String(),
		)
	})

	t.Run("should write zeros without passing loci", func(t *testing.T) {
		stats := newLocusStats([]string{"SEGDUP"})
		var output bytes.Buffer
		require.NoError(t, stats.Write(&output))
		assert.Equal(t, "MeanSamplesPerPassingSTR\t0\nFILTER:PASS\t0\nFILTER:SEGDUP\t0\n", output.String())
	})
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	vcf := writeTestFile(t, "input.vcf", testHeader+strings.Join(engineRecords, "\n")+"\n")

	t.Run("should write the output VCF and both logs", func(t *testing.T) {
		config := engineConfig(true)
		config.Vcf = vcf
		config.Out = filepath.Join(dir, "filtered")
		config.Bgzip = true
		require.NoError(t, Execute(config))

		reader, err := Open(config.OutputVcf(), true)
		require.NoError(t, err)
		defer reader.Close()
		variant, err := reader.Read()
		require.NoError(t, err)
		assert.Equal(t, "STR2", variant.Id)
		assert.Nil(t, variant.Filter)

		loclog, err := os.ReadFile(config.LocusLog())
		require.NoError(t, err)
		assert.Equal(t, "MeanSamplesPerPassingSTR\t0\nFILTER:PASS\t0\nFILTER:MinLocusCallrate\t0\n", string(loclog))

		samplog, err := os.ReadFile(config.SampleLog())
		require.NoError(t, err)
		assert.Contains(t, string(samplog), "S2\t3\t25\t0\t0\t0\t0\t0\n")
	})

	t.Run("should not create output on configuration errors", func(t *testing.T) {
		config := &Config{
			Vcf:                vcf,
			Out:                filepath.Join(dir, "invalid"),
			FilterRegions:      filepath.Join(dir, "missing.bed"),
			FilterRegionsNames: "MISSING",
		}
		err := Execute(config)
		assert.ErrorIs(t, err, ErrConfig)
		assert.NoFileExists(t, config.OutputVcf())
		assert.NoFileExists(t, config.LocusLog())
	})

	t.Run("should fail on a missing input", func(t *testing.T) {
		config := &Config{Vcf: filepath.Join(dir, "missing.vcf"), Out: filepath.Join(dir, "missing")}
		assert.Error(t, Execute(config))
	})
}
