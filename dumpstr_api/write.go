package dumpstr_api

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nvnieuwk/dumpstr/internal/fileio"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RecordWriter receives the output header and then every emitted record
type RecordWriter interface {
	WriteHeader(header *Header) error
	Write(variant *Variant) error
	Close() error
}

// Writer writes a VCF file, optionally BGZF compressed
type Writer struct {
	output *bufio.Writer
	closer io.Closer
	header *Header

	// Don't add the current date to the header
	NoDate bool
}

// Create the output VCF file
func Create(file string, bgzip bool, noDate bool) (*Writer, error) {
	output, err := fileio.Create(file, bgzip)
	if err != nil {
		return nil, fmt.Errorf("failed to create the output file: %w", err)
	}
	writer := NewWriter(output, noDate)
	writer.closer = output
	return writer, nil
}

// NewWriter writes VCF to output
func NewWriter(output io.Writer, noDate bool) *Writer {
	return &Writer{
		output: bufio.NewWriter(output),
		NoDate: noDate,
	}
}

// Write a line to the output
func (writer *Writer) writeLine(line string) error {
	if _, err := writer.output.WriteString(line); err != nil {
		return err
	}
	return writer.output.WriteByte('\n')
}

// Title-case a header Type, like "integer" to "Integer"
func normalizeType(headerType string) string {
	return cases.Title(language.English, cases.Compact).String(strings.ToLower(headerType))
}

func (writer *Writer) WriteHeader(header *Header) error {
	writer.header = header

	lines := []string{"##fileformat=VCFv4.2"}

	// Date of file creation
	if !writer.NoDate {
		cT := time.Now()
		lines = append(lines, fmt.Sprintf("##fileDate=%d%02d%02d", cT.Year(), cT.Month(), cT.Day()))
	}

	for _, other := range header.Other {
		if strings.HasPrefix(other, "fileformat=") || strings.HasPrefix(other, "fileDate=") {
			continue
		}
		lines = append(lines, "##"+other)
	}

	// FILTER header lines
	for _, id := range header.FilterOrder {
		filter := header.Filter[id]
		lines = append(lines, fmt.Sprintf("##FILTER=<ID=%s,Description=\"%s\">", filter.Id, filter.Description))
	}

	// INFO header lines
	for _, id := range header.InfoOrder {
		info := header.Info[id]
		lines = append(lines, fmt.Sprintf("##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">", info.Id, info.Number, normalizeType(info.Type), info.Description))
	}

	// FORMAT header lines
	for _, id := range header.FormatOrder {
		format := header.Format[id]
		lines = append(lines, fmt.Sprintf("##FORMAT=<ID=%s,Number=%s,Type=%s,Description=\"%s\">", format.Id, format.Number, normalizeType(format.Type), format.Description))
	}

	// ALT header lines
	for _, id := range header.AltOrder {
		alt := header.Alt[id]
		lines = append(lines, fmt.Sprintf("##ALT=<ID=%s,Description=\"%s\">", alt.Id, alt.Description))
	}

	// Write the contig fields
	for _, contig := range header.Contig {
		if contig.Length > 0 {
			lines = append(lines, fmt.Sprintf("##contig=<ID=%s,length=%d>", contig.Id, contig.Length))
		} else {
			lines = append(lines, fmt.Sprintf("##contig=<ID=%s>", contig.Id))
		}
	}

	// Write the column headers
	columnHeaders := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}
	if len(header.Samples) > 0 {
		columnHeaders = append(columnHeaders, "FORMAT")
		columnHeaders = append(columnHeaders, header.Samples...)
	}
	lines = append(lines, strings.Join(columnHeaders, "\t"))

	for _, line := range lines {
		if err := writer.writeLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (writer *Writer) Write(variant *Variant) error {
	return writer.writeLine(variant.String())
}

// Flush the buffered output and close the file
func (writer *Writer) Close() error {
	err := writer.output.Flush()
	if writer.closer != nil {
		if nerr := writer.closer.Close(); nerr != nil && err == nil {
			err = nerr
		}
	}
	return err
}

// Convert a variant to a VCF line
func (v *Variant) String() string {
	infoSlice := []string{}
	for _, key := range v.InfoOrder {
		value := v.Info[key]
		if v.Header != nil && v.Header.Info[key].Type == "Flag" {
			infoSlice = append(infoSlice, key)
			continue
		}
		if len(value) == 0 {
			infoSlice = append(infoSlice, key)
			continue
		}
		infoSlice = append(infoSlice, fmt.Sprintf("%s=%s", key, strings.Join(value, ",")))
	}

	filter := missingValue
	if v.Filter != nil {
		filter = joinValues(v.Filter, ";")
	}

	columns := []string{
		v.Chromosome,
		fmt.Sprint(v.Pos),
		v.Id,
		v.Ref,
		joinValues(v.Alt, ","),
		v.Qual,
		filter,
		joinValues(infoSlice, ";"),
	}

	if len(v.Calls) > 0 {
		columns = append(columns, strings.Join(v.FormatKeys, ":"))
		for i := range v.Calls {
			columns = append(columns, v.Calls[i].format(v.FormatKeys))
		}
	}
	return strings.Join(columns, "\t")
}

// Convert a call to its sample column
func (call *Call) format(keys []string) string {
	sampleArray := make([]string, len(keys))
	for i, key := range keys {
		switch key {
		case "GT":
			sampleArray[i] = call.Genotype.String()
		case "FILTER":
			if call.Status == nil {
				sampleArray[i] = joinValues(call.Content[key], ",")
				continue
			}
			sampleArray[i] = joinValues(call.Status, ",")
		default:
			sampleArray[i] = joinValues(call.Content[key], ",")
		}
	}
	return strings.Join(sampleArray, ":")
}
