package strutils

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

const (
	// Maximum number of partial genotype tables visited by the exact test
	// before switching to the permutation estimate
	hweEnumerationBudget = 2000000

	// Number of allele permutations used by the estimate
	hwePermutations = 10000

	hweSeed = 20170815

	// Tables within this log-likelihood distance of the observed table are
	// considered equally likely
	hweTolerance = 1e-7
)

// genotypeTable holds the diploid genotype counts of a locus over its allele
// classes. counts[i*k+j] with i <= j counts the genotypes i/j.
type genotypeTable struct {
	k       int
	n       int
	alleles []int
	counts  []int
}

// newGenotypeTable builds the table of the diploid completed calls, dropping
// classes that were never observed
func newGenotypeTable(locus *Locus, useLength bool) *genotypeTable {
	classOf, n := locus.classes(useLength)

	alleleCounts := make([]int, n)
	for _, gt := range locus.Genotypes {
		if !isDiploid(gt, len(classOf)) {
			continue
		}
		alleleCounts[classOf[gt[0]]]++
		alleleCounts[classOf[gt[1]]]++
	}

	compact := make([]int, n)
	table := &genotypeTable{}
	for class, count := range alleleCounts {
		if count == 0 {
			compact[class] = -1
			continue
		}
		compact[class] = table.k
		table.alleles = append(table.alleles, count)
		table.k++
	}

	table.counts = make([]int, table.k*table.k)
	for _, gt := range locus.Genotypes {
		if !isDiploid(gt, len(classOf)) {
			continue
		}
		table.add(compact[classOf[gt[0]]], compact[classOf[gt[1]]])
	}
	return table
}

func isDiploid(gt []int, numAlleles int) bool {
	if len(gt) != 2 {
		return false
	}
	for _, allele := range gt {
		if allele < 0 || allele >= numAlleles {
			return false
		}
	}
	return true
}

func (table *genotypeTable) add(a, b int) {
	if a > b {
		a, b = b, a
	}
	table.counts[a*table.k+b]++
	table.n++
}

// logFactorials returns ln(i!) for i in [0, n]
func logFactorials(n int) []float64 {
	lnFact := make([]float64, n+1)
	for i := 2; i <= n; i++ {
		lnFact[i] = lnFact[i-1] + math.Log(float64(i))
	}
	return lnFact
}

// score returns the part of the log-probability of a table that depends on
// the genotype counts: H·ln2 - Σ ln(g_ij!)
func (table *genotypeTable) score(lnFact []float64) float64 {
	score := 0.0
	for i := 0; i < table.k; i++ {
		for j := i; j < table.k; j++ {
			g := table.counts[i*table.k+j]
			if i != j {
				score += float64(g) * math.Ln2
			}
			score -= lnFact[g]
		}
	}
	return score
}

// constant returns the part of the log-probability of a table that only
// depends on the allele counts: ln(N!) + Σ ln(n_i!) - ln((2N)!)
func (table *genotypeTable) constant(lnFact []float64) float64 {
	terms := make([]float64, 0, len(table.alleles)+2)
	terms = append(terms, lnFact[table.n], -lnFact[2*table.n])
	for _, count := range table.alleles {
		terms = append(terms, lnFact[count])
	}
	return floats.Sum(terms)
}

// HWEPValue returns the p-value of an exact test of Hardy-Weinberg
// equilibrium, computed over allele length classes when useLength is set.
//
// The p-value is the total probability, conditional on the observed allele
// counts, of all genotype tables that are at most as likely as the observed
// one. Tables are enumerated exhaustively; loci with too many possible
// tables fall back to a seeded permutation estimate so the result stays
// reproducible. Only diploid calls take part in the test.
func HWEPValue(locus *Locus, useLength bool) float64 {
	if locus.NumCalled() == 0 {
		return Undefined
	}
	table := newGenotypeTable(locus, useLength)
	if table.k < 2 {
		return 1
	}

	lnFact := logFactorials(2 * table.n)
	threshold := table.score(lnFact) + hweTolerance
	constant := table.constant(lnFact)

	enumerator := &hweEnumerator{
		k:         table.k,
		remaining: append([]int(nil), table.alleles...),
		lnFact:    lnFact,
		threshold: threshold,
		constant:  constant,
		budget:    hweEnumerationBudget,
	}
	enumerator.fill(0, 1, 0)
	if !enumerator.aborted {
		return math.Min(enumerator.pvalue, 1)
	}
	return table.permutationPValue(lnFact, threshold)
}

type hweEnumerator struct {
	k         int
	remaining []int
	lnFact    []float64
	threshold float64
	constant  float64
	budget    int
	visited   int
	aborted   bool
	pvalue    float64
}

// fill chooses the heterozygote count of classes i and j, then moves on to
// the next pair. Once all heterozygotes of class i are fixed, the rest of
// its copies must form homozygotes.
func (e *hweEnumerator) fill(i, j int, score float64) {
	if e.aborted {
		return
	}
	e.visited++
	if e.visited > e.budget {
		e.aborted = true
		return
	}

	if j == e.k {
		r := e.remaining[i]
		if r%2 != 0 {
			return
		}
		score -= e.lnFact[r/2]
		if i == e.k-1 {
			if score <= e.threshold {
				e.pvalue += math.Exp(e.constant + score)
			}
			return
		}
		e.remaining[i] = 0
		e.fill(i+1, i+2, score)
		e.remaining[i] = r
		return
	}

	max := e.remaining[i]
	if e.remaining[j] < max {
		max = e.remaining[j]
	}
	for g := 0; g <= max; g++ {
		e.remaining[i] -= g
		e.remaining[j] -= g
		e.fill(i, j+1, score+float64(g)*math.Ln2-e.lnFact[g])
		e.remaining[i] += g
		e.remaining[j] += g
		if e.aborted {
			return
		}
	}
}

// permutationPValue estimates the p-value by randomly pairing the observed
// allele copies into genotypes
func (table *genotypeTable) permutationPValue(lnFact []float64, threshold float64) float64 {
	pool := make([]int, 0, 2*table.n)
	for class, count := range table.alleles {
		for c := 0; c < count; c++ {
			pool = append(pool, class)
		}
	}

	rng := rand.New(rand.NewSource(hweSeed))
	permuted := &genotypeTable{
		k:       table.k,
		alleles: table.alleles,
		counts:  make([]int, len(table.counts)),
	}
	hits := 0
	for p := 0; p < hwePermutations; p++ {
		for i := len(pool) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			pool[i], pool[j] = pool[j], pool[i]
		}
		for i := range permuted.counts {
			permuted.counts[i] = 0
		}
		permuted.n = 0
		for i := 0; i+1 < len(pool); i += 2 {
			permuted.add(pool[i], pool[i+1])
		}
		if permuted.score(lnFact) <= threshold {
			hits++
		}
	}
	return float64(hits) / hwePermutations
}
