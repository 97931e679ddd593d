package strutils

import (
	"gonum.org/v1/gonum/floats"
)

// Undefined is reported for heterozygosity and HWE p-values of loci without
// completed calls
const Undefined = -1

// HomopolymerRun returns the length of the longest run of one repeated
// symbol in seq
func HomopolymerRun(seq string) int {
	longest := 0
	current := 0
	for i := 0; i < len(seq); i++ {
		if i > 0 && seq[i] == seq[i-1] {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// Heterozygosity returns the expected heterozygosity 1 - Σ p² of the locus,
// computed over allele lengths instead of allele sequences when useLength is set
func Heterozygosity(locus *Locus, useLength bool) float64 {
	if locus.NumCalled() == 0 {
		return Undefined
	}
	freqs := locus.frequencies(useLength)
	if freqs == nil {
		return Undefined
	}
	return 1 - floats.Dot(freqs, freqs)
}

// AlleleCounts returns the alternate allele counts and the reference allele
// count derived from the allele frequencies and 2N. Both are truncated toward
// zero and the reference count is not derived from the alternate counts, so
// the two need not add up to 2N.
func AlleleCounts(locus *Locus) ([]int, int) {
	aaf := locus.AlternateFrequencies()
	counts := make([]int, len(aaf))
	if locus.NumCalled() == 0 {
		return counts, 0
	}

	chroms := float64(2 * locus.NumCalled())
	for i, freq := range aaf {
		counts[i] = int(freq * chroms)
	}
	return counts, int((1 - floats.Sum(aaf)) * chroms)
}
