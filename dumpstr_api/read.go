package dumpstr_api

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/nvnieuwk/dumpstr/internal/fileio"
)

// RecordReader yields the header and then the records of a VCF file
// Read returns io.EOF after the last record
type RecordReader interface {
	Header() *Header
	Read() (*Variant, error)
}

// Reader reads a plain or compressed VCF file one record at a time
type Reader struct {
	header       *Header
	scanner      *bufio.Scanner
	closer       io.Closer
	lineNumber   int
	MuteWarnings bool
}

var headerLineRegex = regexp.MustCompile(`^##(?P<headerType>[^=]*)=<(?P<content>.*)>$`)

// Open the VCF file and parse its header
func Open(file string, muteWarnings bool) (*Reader, error) {
	input, err := fileio.Open(file)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(input, muteWarnings)
	if err != nil {
		input.Close()
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	reader.closer = input
	return reader, nil
}

// NewReader parses the header from input and returns a reader positioned at the first record
func NewReader(input io.Reader, muteWarnings bool) (*Reader, error) {
	scanner := bufio.NewScanner(input)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	reader := &Reader{
		header:       newHeader(),
		scanner:      scanner,
		MuteWarnings: muteWarnings,
	}

	for scanner.Scan() {
		reader.lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, "#") {
			return nil, fmt.Errorf("line %d: record found before the #CHROM line", reader.lineNumber)
		}
		if reader.header.parse(line) {
			return reader, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("no #CHROM line found, is this a VCF file?")
}

func (reader *Reader) Header() *Header {
	return reader.header
}

// Read the next record, io.EOF when there are none left
func (reader *Reader) Read() (*Variant, error) {
	for reader.scanner.Scan() {
		reader.lineNumber++
		line := strings.TrimRight(reader.scanner.Text(), "\r")
		if line == "" {
			continue
		}
		variant, err := reader.createVariant(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", reader.lineNumber, err)
		}
		return variant, nil
	}
	if err := reader.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (reader *Reader) Close() error {
	if reader.closer == nil {
		return nil
	}
	return reader.closer.Close()
}

// Parse the line and add it to the Variant struct
func (reader *Reader) createVariant(line string) (*Variant, error) {
	header := reader.header
	data := strings.Split(line, "\t")
	if len(data) < 8 {
		return nil, fmt.Errorf("expected at least 8 columns, found %d", len(data))
	}
	if len(data) > 9 && len(data) != 9+len(header.Samples) {
		return nil, fmt.Errorf("expected %d columns, found %d", 9+len(header.Samples), len(data))
	}

	variant := newVariant()
	variant.Header = header
	variant.Chromosome = data[0]

	var err error
	variant.Pos, err = strconv.ParseInt(data[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position '%s'", data[1])
	}
	variant.Id = data[2]
	variant.Ref = data[3]
	if data[4] != missingValue {
		variant.Alt = strings.Split(data[4], ",")
	}
	variant.Qual = data[5]
	if data[6] != missingValue {
		variant.Filter = strings.Split(data[6], ";")
	}

	if data[7] != missingValue {
		for _, i := range strings.Split(data[7], ";") {
			split := strings.SplitN(i, "=", 2)
			field := split[0]
			value := ""
			if len(split) > 1 {
				value = split[1]
			}
			variant.SetInfo(field, reader.parseInfoFormat(field, value, header.Info)...)
		}
	}

	if len(data) < 10 {
		return variant, nil
	}

	formatKeys := strings.Split(data[8], ":")
	if formatKeys[0] != "GT" {
		return nil, fmt.Errorf("the first FORMAT field must be GT, found '%s'", formatKeys[0])
	}
	variant.FormatKeys = formatKeys
	for index, value := range data[9:] {
		call := Call{
			Sample:  header.Samples[index],
			Content: map[string][]string{},
		}
		values := strings.Split(value, ":")
		call.Genotype, err = parseGenotype(values[0])
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", call.Sample, err)
		}
		for _, allele := range call.Genotype.Alleles {
			if allele > len(variant.Alt) {
				return nil, fmt.Errorf("sample %s: allele %d not in ALT", call.Sample, allele)
			}
		}
		for idx := 1; idx < len(formatKeys) && idx < len(values); idx++ {
			key := formatKeys[idx]
			call.Content[key] = reader.parseInfoFormat(key, values[idx], header.Format)
		}
		variant.Calls = append(variant.Calls, call)
	}

	return variant, nil
}

// Parse the value of the INFO or FORMAT field and return it as a slice of strings
func (reader *Reader) parseInfoFormat(field string, value string, infoFormatLines map[string]HeaderLineIdNumberTypeDescription) []string {
	headerLine, ok := infoFormatLines[field]
	if !ok {
		if !reader.MuteWarnings {
			logger.Warnf("Field %s not found in header, defaulting to Type 'String' and Number '1'", field)
		}
		headerLine = HeaderLineIdNumberTypeDescription{
			Id:     field,
			Number: "1",
			Type:   "String",
		}
		infoFormatLines[field] = headerLine
	}

	if headerLine.Type == "Flag" {
		return []string{}
	}

	infoNumber, err := strconv.ParseInt(headerLine.Number, 0, 64)
	if err != nil || infoNumber < 1 {
		infoNumber = -1
	}
	return strings.SplitN(value, ",", int(infoNumber))
}

// Parse the header line and add it to the Header struct
// Returns true once the #CHROM line has been parsed
func (header *Header) parse(line string) bool {
	if strings.HasPrefix(line, "#CHROM") {
		columns := strings.Split(line, "\t")
		if len(columns) > 9 {
			header.Samples = columns[9:]
		}
		return true
	}

	matches := headerLineRegex.FindStringSubmatch(line)
	if len(matches) == 0 {
		header.Other = append(header.Other, strings.TrimPrefix(line, "##"))
		return false
	}

	headerType := matches[1]
	content := matches[2]
	contentMap := convertLineToMap(content)

	switch headerType {
	case "INFO":
		header.SetInfo(HeaderLineIdNumberTypeDescription{
			Id:          contentMap["id"],
			Number:      contentMap["number"],
			Type:        contentMap["type"],
			Description: unquote(contentMap["description"]),
		})
	case "FORMAT":
		header.SetFormat(HeaderLineIdNumberTypeDescription{
			Id:          contentMap["id"],
			Number:      contentMap["number"],
			Type:        contentMap["type"],
			Description: unquote(contentMap["description"]),
		})
	case "ALT":
		if _, ok := header.Alt[contentMap["id"]]; !ok {
			header.AltOrder = append(header.AltOrder, contentMap["id"])
		}
		header.Alt[contentMap["id"]] = HeaderLineIdDescription{
			Id:          contentMap["id"],
			Description: unquote(contentMap["description"]),
		}
	case "FILTER":
		header.SetFilter(HeaderLineIdDescription{
			Id:          contentMap["id"],
			Description: unquote(contentMap["description"]),
		})
	case "contig":
		var length int64
		if value, ok := contentMap["length"]; ok {
			length, _ = strconv.ParseInt(value, 10, 64)
		}
		header.Contig = append(header.Contig, HeaderLineIdLength{
			Id:     contentMap["id"],
			Length: length,
		})
	default:
		header.Other = append(header.Other, strings.TrimPrefix(line, "##"))
	}
	return false
}

// convertLineToMap converts the header line contents to a map suitable to transform to a struct
func convertLineToMap(line string) map[string]string {
	data := map[string]string{}
	word := ""
	key := ""
	quote := ""
	for _, letter := range strings.Split(line, "") {
		if letter == "=" && key == "" && quote == "" {
			key = strings.ToLower(word)
			word = ""
			continue
		} else if letter == "," && quote == "" {
			data[key] = word
			key = ""
			word = ""
			continue
		}

		word += letter

		if letter == quote {
			quote = ""
		} else if quote == "" && (letter == "\"" || letter == "'") {
			quote = letter
		}
	}
	data[key] = word

	return data
}

func unquote(value string) string {
	return strings.Trim(value, "\"'")
}

// Create a new header struct
func newHeader() *Header {
	return &Header{
		Info:    map[string]HeaderLineIdNumberTypeDescription{},
		Format:  map[string]HeaderLineIdNumberTypeDescription{},
		Alt:     map[string]HeaderLineIdDescription{},
		Filter:  map[string]HeaderLineIdDescription{},
		Contig:  []HeaderLineIdLength{},
		Other:   []string{},
		Samples: []string{},
	}
}

// Initialize a new Variant
func newVariant() *Variant {
	return &Variant{
		Info: map[string][]string{},
	}
}
