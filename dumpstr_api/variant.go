package dumpstr_api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvnieuwk/dumpstr/strutils"
)

// Call statuses besides the filter reasons
const (
	StatusPass   = "PASS"
	StatusNoCall = "NOCALL"
)

// Parse a GT value like "0/1", "1|2", "1" or "./."
func parseGenotype(value string) (Genotype, error) {
	gt := Genotype{}
	if value == "" || value == missingValue {
		return gt, nil
	}
	sep := "/"
	if strings.Contains(value, "|") {
		sep = "|"
		gt.Phased = true
	}
	for _, allele := range strings.Split(value, sep) {
		if allele == missingValue {
			gt.Alleles = append(gt.Alleles, -1)
			continue
		}
		index, err := strconv.Atoi(allele)
		if err != nil || index < 0 {
			return gt, fmt.Errorf("invalid genotype '%s'", value)
		}
		gt.Alleles = append(gt.Alleles, index)
	}
	return gt, nil
}

// A genotype is missing when any of its alleles is missing
func (gt Genotype) Missing() bool {
	if len(gt.Alleles) == 0 {
		return true
	}
	for _, allele := range gt.Alleles {
		if allele < 0 {
			return true
		}
	}
	return false
}

// Return a missing genotype with the same ploidy, diploid when unknown
func (gt Genotype) cleared() Genotype {
	ploidy := len(gt.Alleles)
	if ploidy == 0 {
		ploidy = 2
	}
	alleles := make([]int, ploidy)
	for i := range alleles {
		alleles[i] = -1
	}
	return Genotype{Alleles: alleles, Phased: gt.Phased}
}

func (gt Genotype) String() string {
	if len(gt.Alleles) == 0 {
		return missingValue
	}
	sep := "/"
	if gt.Phased {
		sep = "|"
	}
	alleles := make([]string, len(gt.Alleles))
	for i, allele := range gt.Alleles {
		if allele < 0 {
			alleles[i] = missingValue
		} else {
			alleles[i] = strconv.Itoa(allele)
		}
	}
	return strings.Join(alleles, sep)
}

// Float returns the first value of a numeric FORMAT field of the call
func (call *Call) Float(field string) (float64, bool) {
	return stringToFloat(call.Content[field])
}

func (call *Call) copy() Call {
	content := make(map[string][]string, len(call.Content))
	for key, values := range call.Content {
		content[key] = append([]string(nil), values...)
	}
	return Call{
		Sample: call.Sample,
		Genotype: Genotype{
			Alleles: append([]int(nil), call.Genotype.Alleles...),
			Phased:  call.Genotype.Phased,
		},
		Content: content,
		Status:  append([]string(nil), call.Status...),
	}
}

// Create a deep copy of the variant; only the header is shared
func (variant *Variant) copy() *Variant {
	info := make(map[string][]string, len(variant.Info))
	for key, values := range variant.Info {
		info[key] = append([]string(nil), values...)
	}
	calls := make([]Call, len(variant.Calls))
	for i := range variant.Calls {
		calls[i] = variant.Calls[i].copy()
	}
	var filter []string
	if variant.Filter != nil {
		filter = append([]string{}, variant.Filter...)
	}
	return &Variant{
		Chromosome: variant.Chromosome,
		Pos:        variant.Pos,
		Id:         variant.Id,
		Ref:        variant.Ref,
		Alt:        append([]string(nil), variant.Alt...),
		Qual:       variant.Qual,
		Filter:     filter,
		Header:     variant.Header,
		Info:       info,
		InfoOrder:  append([]string(nil), variant.InfoOrder...),
		FormatKeys: append([]string(nil), variant.FormatKeys...),
		Calls:      calls,
	}
}

// Set an INFO field, keeping its position when already present
func (variant *Variant) SetInfo(field string, values ...string) {
	if _, ok := variant.Info[field]; !ok {
		variant.InfoOrder = append(variant.InfoOrder, field)
	}
	variant.Info[field] = values
}

// Add a locus filter name, replacing an unset or PASS status
func (variant *Variant) AddFilter(name string) {
	if len(variant.Filter) == 1 && variant.Filter[0] == StatusPass {
		variant.Filter = nil
	}
	variant.Filter = append(variant.Filter, name)
}

// NumCalled returns the number of calls with a non-missing genotype
func (variant *Variant) NumCalled() int {
	called := 0
	for i := range variant.Calls {
		if !variant.Calls[i].Genotype.Missing() {
			called++
		}
	}
	return called
}

// Convert the variant to the view the statistics work on
func (variant *Variant) locus() *strutils.Locus {
	locus := &strutils.Locus{
		Alleles: append([]string{variant.Ref}, variant.Alt...),
	}
	for i := range variant.Calls {
		gt := variant.Calls[i].Genotype
		if gt.Missing() {
			continue
		}
		locus.Genotypes = append(locus.Genotypes, gt.Alleles)
	}
	return locus
}

// The repeat unit length from PERIOD (HipSTR) or the MOTIF/RU fields
func (variant *Variant) period() (int, bool) {
	if period, ok := stringToInt(variant.Info["PERIOD"]); ok {
		return period, true
	}
	for _, field := range []string{"MOTIF", "RU"} {
		if motif, ok := variant.Info[field]; ok && len(motif) > 0 && motif[0] != missingValue {
			return len(motif[0]), true
		}
	}
	return 0, false
}
