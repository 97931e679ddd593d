package dumpstr_api

// Add or replace an INFO header line
func (header *Header) SetInfo(line HeaderLineIdNumberTypeDescription) {
	if _, ok := header.Info[line.Id]; !ok {
		header.InfoOrder = append(header.InfoOrder, line.Id)
	}
	header.Info[line.Id] = line
}

// Add or replace a FORMAT header line
func (header *Header) SetFormat(line HeaderLineIdNumberTypeDescription) {
	if _, ok := header.Format[line.Id]; !ok {
		header.FormatOrder = append(header.FormatOrder, line.Id)
	}
	header.Format[line.Id] = line
}

// Add or replace a FILTER header line
func (header *Header) SetFilter(line HeaderLineIdDescription) {
	if _, ok := header.Filter[line.Id]; !ok {
		header.FilterOrder = append(header.FilterOrder, line.Id)
	}
	header.Filter[line.Id] = line
}

// Whether a FORMAT field is declared
func (header *Header) HasFormat(id string) bool {
	_, ok := header.Format[id]
	return ok
}

// Whether an INFO field is declared
func (header *Header) HasInfo(id string) bool {
	_, ok := header.Info[id]
	return ok
}

// Create a copy of the header that can be changed without touching the input header
func (header *Header) copy() *Header {
	newHeader := newHeader()
	for _, id := range header.InfoOrder {
		newHeader.SetInfo(header.Info[id])
	}
	for _, id := range header.FormatOrder {
		newHeader.SetFormat(header.Format[id])
	}
	for _, id := range header.FilterOrder {
		newHeader.SetFilter(header.Filter[id])
	}
	for _, id := range header.AltOrder {
		newHeader.AltOrder = append(newHeader.AltOrder, id)
		newHeader.Alt[id] = header.Alt[id]
	}
	newHeader.Contig = append(newHeader.Contig, header.Contig...)
	newHeader.Other = append(newHeader.Other, header.Other...)
	newHeader.Samples = append(newHeader.Samples, header.Samples...)
	return newHeader
}

// The INFO fields recomputed for every emitted locus
var statisticsInfo = []HeaderLineIdNumberTypeDescription{
	{Id: "AC", Number: "A", Type: "Integer", Description: "Alternate allele counts"},
	{Id: "REFAC", Number: "1", Type: "Integer", Description: "Reference allele count"},
	{Id: "HET", Number: "1", Type: "Float", Description: "Heterozygosity"},
	{Id: "HWEP", Number: "1", Type: "Float", Description: "HWE p-value for obs. vs. exp het rate"},
	{Id: "HRUN", Number: "1", Type: "Integer", Description: "Length of longest homopolymer run"},
}

var callFilterFormat = HeaderLineIdNumberTypeDescription{
	Id:          "FILTER",
	Number:      "1",
	Type:        "String",
	Description: "Call-level filter",
}

// rewriteHeader returns the output header: the FILTER lines are replaced by
// the locus filters, the call FILTER field and the statistics are declared
func rewriteHeader(header *Header, locusFilters []LocusFilter) *Header {
	output := header.copy()

	output.Filter = map[string]HeaderLineIdDescription{}
	output.FilterOrder = nil
	for _, filter := range locusFilters {
		output.SetFilter(HeaderLineIdDescription{
			Id:          filter.Name(),
			Description: filter.Description(),
		})
	}

	if !output.HasFormat(callFilterFormat.Id) {
		output.SetFormat(callFilterFormat)
	}
	for _, line := range statisticsInfo {
		output.SetInfo(line)
	}
	return output
}
