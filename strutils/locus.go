// Package strutils holds the population statistics that are recomputed for
// every STR locus: homopolymer runs, heterozygosity, the exact
// Hardy-Weinberg test and allele counts.
package strutils

import (
	"gonum.org/v1/gonum/floats"
)

// Locus is the view of one STR record the statistics work on
type Locus struct {
	// The allele sequences, reference allele first
	Alleles []string

	// The genotypes of all completed calls, as indices into Alleles
	Genotypes [][]int
}

// NumCalled returns the number of completed calls at the locus
func (locus *Locus) NumCalled() int {
	return len(locus.Genotypes)
}

// classes maps every allele to an allele class. Without length collapsing
// each allele is its own class, otherwise alleles of equal length share one.
func (locus *Locus) classes(useLength bool) ([]int, int) {
	classOf := make([]int, len(locus.Alleles))
	if !useLength {
		for i := range classOf {
			classOf[i] = i
		}
		return classOf, len(classOf)
	}

	byLength := map[int]int{}
	for i, allele := range locus.Alleles {
		class, ok := byLength[len(allele)]
		if !ok {
			class = len(byLength)
			byLength[len(allele)] = class
		}
		classOf[i] = class
	}
	return classOf, len(byLength)
}

// classCounts counts the allele copies of every class over all completed calls
func (locus *Locus) classCounts(useLength bool) []float64 {
	classOf, n := locus.classes(useLength)
	counts := make([]float64, n)
	for _, gt := range locus.Genotypes {
		for _, allele := range gt {
			if allele < 0 || allele >= len(classOf) {
				continue
			}
			counts[classOf[allele]]++
		}
	}
	return counts
}

// frequencies returns the class frequencies, nil when no allele was observed
func (locus *Locus) frequencies(useLength bool) []float64 {
	counts := locus.classCounts(useLength)
	total := floats.Sum(counts)
	if total == 0 {
		return nil
	}
	for i := range counts {
		counts[i] /= total
	}
	return counts
}

// AlternateFrequencies returns the frequency of every alternate allele among
// the called allele copies
func (locus *Locus) AlternateFrequencies() []float64 {
	freqs := locus.frequencies(false)
	if len(locus.Alleles) < 2 {
		return []float64{}
	}
	if freqs == nil {
		return make([]float64, len(locus.Alleles)-1)
	}
	return freqs[1:]
}
