package dumpstr_api

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	t.Run("should parse the header", func(t *testing.T) {
		header, _ := readTestVcf(t)

		assert.Equal(t, []string{"S1", "S2"}, header.Samples)
		assert.Equal(t, []string{"fileformat=VCFv4.2", "source=HipSTR"}, header.Other)
		assert.Equal(t, []string{"OLD"}, header.FilterOrder)
		assert.Equal(t, "A filter of an earlier run", header.Filter["OLD"].Description)
		assert.Equal(t, []string{"GT", "DP", "Q", "DFLANKINDEL", "DSTUTTER"}, header.FormatOrder)
		assert.Equal(t, "Integer", header.Info["PERIOD"].Type)
		assert.Equal(t, []HeaderLineIdLength{{Id: "chr1", Length: 248956422}}, header.Contig)
	})

	t.Run("should parse a record", func(t *testing.T) {
		_, variants := readTestVcf(t,
			"chr1\t100\tSTR1\tACACACAC\tACACACACAC,ACACAC\t.\tOLD\tPERIOD=2;NOTE=x\tGT:DP:Q\t0|2:15:0.9\t./.:.:.",
		)
		variant := variants[0]

		assert.Equal(t, "chr1", variant.Chromosome)
		assert.Equal(t, int64(100), variant.Pos)
		assert.Equal(t, []string{"ACACACACAC", "ACACAC"}, variant.Alt)
		assert.Equal(t, []string{"OLD"}, variant.Filter)
		assert.Equal(t, []string{"PERIOD", "NOTE"}, variant.InfoOrder)
		assert.Equal(t, []string{"x"}, variant.Info["NOTE"])
		require.Len(t, variant.Calls, 2)
		assert.Equal(t, Genotype{Alleles: []int{0, 2}, Phased: true}, variant.Calls[0].Genotype)
		assert.Equal(t, []string{"15"}, variant.Calls[0].Content["DP"])
		assert.True(t, variant.Calls[1].Genotype.Missing())
		assert.Equal(t, 1, variant.NumCalled())
	})

	t.Run("should write records back unchanged", func(t *testing.T) {
		line := "chr1\t100\tSTR1\tACACACAC\tACACACACAC\t.\tOLD\tPERIOD=2\tGT:DP:Q\t0/1:15:0.9\t./.:.:."
		_, variants := readTestVcf(t, line)
		assert.Equal(t, line, variants[0].String())
	})

	invalid := map[string]string{
		"too few columns":       "chr1\t100\tSTR1\tACAC\tACACAC\t.\t.",
		"missing sample column": "chr1\t100\tSTR1\tACAC\tACACAC\t.\t.\tPERIOD=2\tGT\t0/1",
		"invalid position":      "chr1\tpos\tSTR1\tACAC\tACACAC\t.\t.\tPERIOD=2\tGT\t0/1\t0/0",
		"GT not first":          "chr1\t100\tSTR1\tACAC\tACACAC\t.\t.\tPERIOD=2\tDP:GT\t5:0/1\t5:0/0",
		"allele not in ALT":     "chr1\t100\tSTR1\tACAC\tACACAC\t.\t.\tPERIOD=2\tGT\t0/2\t0/0",
		"invalid genotype":      "chr1\t100\tSTR1\tACAC\tACACAC\t.\t.\tPERIOD=2\tGT\t0/x\t0/0",
	}
	for name, line := range invalid {
		t.Run("should reject a record with "+name, func(t *testing.T) {
			reader, err := NewReader(strings.NewReader(testHeader+line+"\n"), true)
			require.NoError(t, err)
			_, err = reader.Read()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 12")
		})
	}

	t.Run("should reject input without a #CHROM line", func(t *testing.T) {
		_, err := NewReader(strings.NewReader("##fileformat=VCFv4.2\n"), true)
		assert.Error(t, err)
	})

	t.Run("should declare undeclared fields as single strings", func(t *testing.T) {
		header, variants := readTestVcf(t,
			"chr1\t100\tSTR1\tACAC\tACACAC\t.\t.\tEXTRA=1,2\tGT:AB\t0/1:0.5,0.5\t0/0:1",
		)
		assert.Equal(t, []string{"1,2"}, variants[0].Info["EXTRA"])
		assert.Equal(t, "String", header.Format["AB"].Type)
		assert.NotContains(t, header.FormatOrder, "AB")
	})
}

func TestConvertLineToMap(t *testing.T) {
	t.Run("should keep separators inside quotes", func(t *testing.T) {
		result := convertLineToMap(`ID=HWEP,Number=1,Type=Float,Description="HWE p-value, exact test, a=b"`)
		assert.Equal(t, map[string]string{
			"id":          "HWEP",
			"number":      "1",
			"type":        "Float",
			"description": `"HWE p-value, exact test, a=b"`,
		}, result)
	})
}

func TestWriter(t *testing.T) {
	t.Run("should reproduce the header", func(t *testing.T) {
		header, _ := readTestVcf(t)
		var output bytes.Buffer
		writer := NewWriter(&output, true)
		require.NoError(t, writer.WriteHeader(header))
		require.NoError(t, writer.Close())

		assert.Equal(t, testHeader, output.String())
	})

	t.Run("should add the date unless disabled", func(t *testing.T) {
		header, _ := readTestVcf(t)
		var output bytes.Buffer
		writer := NewWriter(&output, false)
		require.NoError(t, writer.WriteHeader(header))
		require.NoError(t, writer.Close())

		lines := strings.Split(output.String(), "\n")
		assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "##fileDate="))
	})

	t.Run("should normalize header types", func(t *testing.T) {
		assert.Equal(t, "Integer", normalizeType("integer"))
		assert.Equal(t, "Float", normalizeType("FLOAT"))
	})

	t.Run("should write a BGZF file that can be read back", func(t *testing.T) {
		header, variants := readTestVcf(t,
			"chr1\t100\tSTR1\tACACACAC\tACACACACAC\t.\t.\tPERIOD=2\tGT:DP\t0/1:15\t0/0:20",
			"chr1\t200\tSTR2\tTTTGTTTG\t.\t.\t.\tPERIOD=4\tGT:DP\t0/0:15\t0/0:20",
		)
		file := filepath.Join(t.TempDir(), "out.vcf.gz")
		writer, err := Create(file, true, true)
		require.NoError(t, err)
		require.NoError(t, writer.WriteHeader(header))
		for _, variant := range variants {
			require.NoError(t, writer.Write(variant))
		}
		require.NoError(t, writer.Close())

		reader, err := Open(file, true)
		require.NoError(t, err)
		defer reader.Close()
		assert.Equal(t, header.Samples, reader.Header().Samples)
		for _, variant := range variants {
			read, err := reader.Read()
			require.NoError(t, err)
			assert.Equal(t, variant.String(), read.String())
		}
		_, err = reader.Read()
		assert.ErrorIs(t, err, io.EOF)
	})
}
