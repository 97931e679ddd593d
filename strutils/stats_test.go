package strutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeLocus builds a locus with the given number of 0/0, 0/1 and 1/1 calls
func makeLocus(homRef, het, homAlt int) *Locus {
	locus := &Locus{Alleles: []string{"ACACAC", "ACACACAC"}}
	for i := 0; i < homRef; i++ {
		locus.Genotypes = append(locus.Genotypes, []int{0, 0})
	}
	for i := 0; i < het; i++ {
		locus.Genotypes = append(locus.Genotypes, []int{0, 1})
	}
	for i := 0; i < homAlt; i++ {
		locus.Genotypes = append(locus.Genotypes, []int{1, 1})
	}
	return locus
}

func TestHomopolymerRun(t *testing.T) {
	assert.Equal(t, 4, HomopolymerRun("AAATGGGG"))
	assert.Equal(t, 1, HomopolymerRun("ATGC"))
	assert.Equal(t, 0, HomopolymerRun(""))
	assert.Equal(t, 1, HomopolymerRun("A"))
	assert.Equal(t, 6, HomopolymerRun("TTTTTTACACAC"))
	assert.Equal(t, 3, HomopolymerRun("ACGTTT"))
}

func TestHeterozygosity(t *testing.T) {
	t.Run("should return the undefined sentinel without calls", func(t *testing.T) {
		assert.Equal(t, float64(Undefined), Heterozygosity(makeLocus(0, 0, 0), false))
		assert.Equal(t, float64(Undefined), Heterozygosity(makeLocus(0, 0, 0), true))
	})

	t.Run("should compute 1 - sum of squared allele frequencies", func(t *testing.T) {
		assert.InDelta(t, 0.5, Heterozygosity(makeLocus(25, 50, 25), false), 1e-12)
		assert.InDelta(t, 0.0, Heterozygosity(makeLocus(10, 0, 0), false), 1e-12)
		// frequencies 0.75 / 0.25
		assert.InDelta(t, 0.375, Heterozygosity(makeLocus(1, 1, 0), false), 1e-12)
	})

	t.Run("should collapse alleles of equal length", func(t *testing.T) {
		locus := &Locus{
			Alleles:   []string{"ACAC", "AGAC", "ACACAC"},
			Genotypes: [][]int{{0, 1}, {0, 1}},
		}
		assert.InDelta(t, 0.5, Heterozygosity(locus, false), 1e-12)
		assert.InDelta(t, 0.0, Heterozygosity(locus, true), 1e-12)

		locus.Genotypes = [][]int{{0, 2}, {1, 2}}
		assert.InDelta(t, 0.625, Heterozygosity(locus, false), 1e-12)
		assert.InDelta(t, 0.5, Heterozygosity(locus, true), 1e-12)
	})
}

func TestHWEPValue(t *testing.T) {
	t.Run("should return the undefined sentinel without calls", func(t *testing.T) {
		assert.Equal(t, float64(Undefined), HWEPValue(makeLocus(0, 0, 0), false))
	})

	t.Run("should be close to 1 for genotypes at equilibrium", func(t *testing.T) {
		assert.InDelta(t, 1.0, HWEPValue(makeLocus(25, 50, 25), false), 1e-6)
		assert.InDelta(t, 1.0, HWEPValue(makeLocus(25, 50, 25), true), 1e-6)
	})

	t.Run("should be close to 0 when all calls are homozygous", func(t *testing.T) {
		p := HWEPValue(makeLocus(50, 0, 50), false)
		assert.True(t, p >= 0)
		assert.InDelta(t, 0.0, p, 1e-6)
	})

	t.Run("should be 1 for a monomorphic locus", func(t *testing.T) {
		assert.Equal(t, 1.0, HWEPValue(makeLocus(10, 0, 0), false))
	})

	t.Run("should match the biallelic exact test for a small table", func(t *testing.T) {
		// n_A = 3, n_a = 1, N = 2: P(1 het) = 1, no other table is possible
		assert.InDelta(t, 1.0, HWEPValue(makeLocus(1, 1, 0), false), 1e-9)
		// n_A = 2, n_a = 2, N = 2: P(0 het) = 1/3, P(2 het) = 2/3
		assert.InDelta(t, 1.0/3, HWEPValue(makeLocus(1, 0, 1), false), 1e-9)
		assert.InDelta(t, 1.0, HWEPValue(makeLocus(0, 2, 0), false), 1e-9)
	})

	t.Run("should handle more than two allele classes", func(t *testing.T) {
		locus := &Locus{Alleles: []string{"AC", "ACAC", "ACACAC"}}
		for i := 0; i < 10; i++ {
			locus.Genotypes = append(locus.Genotypes, []int{0, 1}, []int{1, 2}, []int{0, 2})
		}
		p := HWEPValue(locus, false)
		assert.True(t, p > 0 && p <= 1)

		homozygous := &Locus{Alleles: locus.Alleles}
		for i := 0; i < 20; i++ {
			homozygous.Genotypes = append(homozygous.Genotypes, []int{0, 0}, []int{1, 1}, []int{2, 2})
		}
		assert.InDelta(t, 0.0, HWEPValue(homozygous, false), 1e-6)
	})

	t.Run("should be reproducible when falling back to permutations", func(t *testing.T) {
		alleles := []string{"A", "AA", "AAA", "AAAA", "AAAAA", "AAAAAA", "AAAAAAA", "AAAAAAAA"}
		locus := &Locus{Alleles: alleles}
		for i := 0; i < 400; i++ {
			locus.Genotypes = append(locus.Genotypes, []int{i % len(alleles), (i * 3) % len(alleles)})
		}
		p1 := HWEPValue(locus, false)
		p2 := HWEPValue(locus, false)
		assert.Equal(t, p1, p2)
		assert.True(t, p1 >= 0 && p1 <= 1)
	})

	t.Run("should skip haploid calls", func(t *testing.T) {
		locus := makeLocus(25, 50, 25)
		locus.Genotypes = append(locus.Genotypes, []int{1}, []int{1}, []int{1})
		assert.InDelta(t, 1.0, HWEPValue(locus, false), 1e-6)
	})
}

func TestAlleleCounts(t *testing.T) {
	t.Run("should return zero counts without calls", func(t *testing.T) {
		ac, refac := AlleleCounts(makeLocus(0, 0, 0))
		assert.Equal(t, []int{0}, ac)
		assert.Equal(t, 0, refac)
	})

	t.Run("should count alleles exactly when frequencies are representable", func(t *testing.T) {
		ac, refac := AlleleCounts(makeLocus(25, 50, 25))
		assert.Equal(t, []int{100}, ac)
		assert.Equal(t, 100, refac)
	})

	t.Run("should count every alternate allele", func(t *testing.T) {
		locus := &Locus{
			Alleles:   []string{"AC", "ACAC", "ACACAC"},
			Genotypes: [][]int{{0, 1}, {1, 2}, {2, 2}, {0, 0}},
		}
		ac, refac := AlleleCounts(locus)
		assert.Equal(t, []int{2, 3}, ac)
		assert.Equal(t, 3, refac)
	})
}

// Allele counts are truncated from frequency × 2N rather than rounded, and
// the reference count is computed on its own, so the counts can fall short
// of 2N.
func TestAlleleCountsTruncation(t *testing.T) {
	cases := []struct {
		homRef, het, homAlt int
		ac, refac           int
	}{
		// 29/100 * 100 = 28.999999999999996
		{homRef: 21, het: 29, homAlt: 0, ac: 28, refac: 71},
		// 15/22 * 22 = 14.999999999999998
		{homRef: 3, het: 1, homAlt: 7, ac: 14, refac: 7},
		// (1 - 5/6) * 6 = 0.9999999999999998
		{homRef: 0, het: 1, homAlt: 2, ac: 5, refac: 0},
	}
	for _, c := range cases {
		locus := makeLocus(c.homRef, c.het, c.homAlt)
		ac, refac := AlleleCounts(locus)
		assert.Equal(t, []int{c.ac}, ac)
		assert.Equal(t, c.refac, refac)
		assert.NotEqual(t, 2*locus.NumCalled(), ac[0]+refac)
	}
}
