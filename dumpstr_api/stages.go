package dumpstr_api

import (
	"github.com/nvnieuwk/dumpstr/strutils"
)

// ApplyCallFilters returns a copy of variant in which every call carries its
// call-level status. Missing calls become NOCALL, failing calls are cleared
// and get every reason that fired. samples is updated for all called calls.
func ApplyCallFilters(variant *Variant, callFilters []CallFilter, samples *SampleStats) *Variant {
	output := variant.copy()

	hasFilter := false
	for _, key := range output.FormatKeys {
		if key == "FILTER" {
			hasFilter = true
		}
	}
	if !hasFilter && len(output.Calls) > 0 {
		output.FormatKeys = append(output.FormatKeys, "FILTER")
	}

	for i := range output.Calls {
		call := &output.Calls[i]
		if call.Genotype.Missing() {
			if len(call.Genotype.Alleles) > 0 {
				call.Genotype = call.Genotype.cleared()
			}
			call.Status = []string{StatusNoCall}
			continue
		}

		var failed []CallFilterKind
		for _, filter := range callFilters {
			if filter.Fails(call) {
				failed = appendKind(failed, filter.Kind)
			}
		}

		if len(failed) > 0 {
			samples.recordFailure(call.Sample, failed)
			call.Status = make([]string, len(failed))
			for r, kind := range failed {
				call.Status[r] = CallFilterReasons[kind]
			}
			call.Genotype = call.Genotype.cleared()
			for key := range call.Content {
				call.Content[key] = []string{missingValue}
			}
			continue
		}

		dp, _ := call.Float("DP")
		samples.recordPass(call.Sample, dp)
		call.Status = []string{StatusPass}
	}
	return output
}

// Add kind unless it is already present
func appendKind(kinds []CallFilterKind, kind CallFilterKind) []CallFilterKind {
	for _, k := range kinds {
		if k == kind {
			return kinds
		}
	}
	return append(kinds, kind)
}

// ApplyLocusFilters evaluates the locus filters on a call-filtered variant.
// It returns the annotated copy of the variant and whether it should be
// emitted.
//
// When drop is set the first failing filter excludes the locus, nothing is
// counted and retained loci keep an unset FILTER column. Otherwise every
// failing filter is added to the FILTER column and counted, and loci without
// failures are marked PASS and counted.
func ApplyLocusFilters(variant *Variant, locusFilters []LocusFilter, drop bool, loci *LocusStats) (*Variant, bool) {
	output := variant.copy()
	output.Filter = nil
	locus := output.locus()

	var failed []string
	for _, filter := range locusFilters {
		if !filter.Fails(output, locus) {
			continue
		}
		if drop {
			logger.Debugf("Dropping %s:%d, failed %s", output.Chromosome, output.Pos, filter.Name())
			return nil, false
		}
		failed = append(failed, filter.Name())
	}

	for _, name := range failed {
		output.AddFilter(name)
		loci.recordFailure(name)
	}
	if len(failed) == 0 && !drop {
		output.Filter = []string{StatusPass}
		loci.recordPass(output.NumCalled())
	}
	return output, true
}

// RecomputeStatistics returns a copy of variant with the locus statistics
// HRUN, HET, HWEP, AC and REFAC recomputed from its calls
func RecomputeStatistics(variant *Variant, useLength bool) *Variant {
	output := variant.copy()
	locus := output.locus()

	output.SetInfo("HRUN", intsToStrings([]int{strutils.HomopolymerRun(output.Ref)})...)
	output.SetInfo("HET", floatToInfo(strutils.Heterozygosity(locus, useLength)))
	output.SetInfo("HWEP", floatToInfo(strutils.HWEPValue(locus, useLength)))
	ac, refac := strutils.AlleleCounts(locus)
	if len(ac) > 0 {
		output.SetInfo("AC", intsToStrings(ac)...)
	} else {
		output.SetInfo("AC", missingValue)
	}
	output.SetInfo("REFAC", intsToStrings([]int{refac})...)
	return output
}
