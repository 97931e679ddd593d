package dumpstr_api

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Per-sample call statistics
type SampleCounts struct {
	// Number of calls with status PASS
	NumCalls int

	// Sum of DP over the PASS calls
	TotalDP float64

	// Number of failed calls per call filter reason, indexed like CallFilterReasons
	Reasons [len(CallFilterReasons)]int
}

// Mean DP over the PASS calls, 0 without calls
func (counts *SampleCounts) MeanDP() float64 {
	if counts.NumCalls == 0 {
		return 0
	}
	return counts.TotalDP / float64(counts.NumCalls)
}

// SampleStats holds the call statistics of every sample, in header order
type SampleStats struct {
	samples []string
	counts  map[string]*SampleCounts
}

func newSampleStats(samples []string) *SampleStats {
	stats := &SampleStats{
		samples: append([]string(nil), samples...),
		counts:  make(map[string]*SampleCounts, len(samples)),
	}
	for _, sample := range samples {
		stats.counts[sample] = &SampleCounts{}
	}
	return stats
}

func (stats *SampleStats) get(sample string) *SampleCounts {
	counts, ok := stats.counts[sample]
	if !ok {
		counts = &SampleCounts{}
		stats.counts[sample] = counts
		stats.samples = append(stats.samples, sample)
	}
	return counts
}

// Count a completed call
func (stats *SampleStats) recordPass(sample string, dp float64) {
	counts := stats.get(sample)
	counts.NumCalls++
	counts.TotalDP += dp
}

// Count every reason of a failed call once
func (stats *SampleStats) recordFailure(sample string, reasons []CallFilterKind) {
	counts := stats.get(sample)
	for _, reason := range reasons {
		counts.Reasons[reason]++
	}
}

// The statistics of one sample
func (stats *SampleStats) Get(sample string) SampleCounts {
	if counts, ok := stats.counts[sample]; ok {
		return *counts
	}
	return SampleCounts{}
}

// Write the per-sample log: one row per sample with its call count, mean
// coverage and the number of calls failing each reason
func (stats *SampleStats) Write(output io.Writer) error {
	header := []string{"sample", "numcalls", "meanDP"}
	header = append(header, CallFilterReasons[:]...)
	lines := []string{strings.Join(header, "\t")}

	for _, sample := range stats.samples {
		counts := stats.counts[sample]
		items := []string{sample, strconv.Itoa(counts.NumCalls), floatToString(counts.MeanDP())}
		for _, count := range counts.Reasons {
			items = append(items, strconv.Itoa(count))
		}
		lines = append(lines, strings.Join(items, "\t"))
	}
	_, err := io.WriteString(output, strings.Join(lines, "\n")+"\n")
	return err
}

// LocusStats holds the locus statistics of a run
type LocusStats struct {
	// Number of loci read
	Processed int

	// Number of loci left out of the output
	Dropped int

	// Number of loci emitted as PASS
	Pass int

	// Sum of the completed calls over the PASS loci
	TotalCalls int

	names  []string
	failed map[string]int
}

func newLocusStats(filterNames []string) *LocusStats {
	stats := &LocusStats{
		names:  append([]string(nil), filterNames...),
		failed: make(map[string]int, len(filterNames)),
	}
	for _, name := range filterNames {
		stats.failed[name] = 0
	}
	return stats
}

func (stats *LocusStats) recordFailure(name string) {
	stats.failed[name]++
}

func (stats *LocusStats) recordPass(numCalled int) {
	stats.Pass++
	stats.TotalCalls += numCalled
}

// Number of loci that failed the named filter
func (stats *LocusStats) Failed(name string) int {
	return stats.failed[name]
}

// Mean number of completed calls per PASS locus, 0 without PASS loci
func (stats *LocusStats) MeanSamplesPerPassingLocus() float64 {
	if stats.Pass == 0 {
		return 0
	}
	return float64(stats.TotalCalls) / float64(stats.Pass)
}

// Write the per-locus log: the mean samples per passing locus, then the
// number of loci per filter status
func (stats *LocusStats) Write(output io.Writer) error {
	lines := []string{
		fmt.Sprintf("MeanSamplesPerPassingSTR\t%s", floatToString(stats.MeanSamplesPerPassingLocus())),
		fmt.Sprintf("FILTER:%s\t%d", StatusPass, stats.Pass),
	}
	for _, name := range stats.names {
		lines = append(lines, fmt.Sprintf("FILTER:%s\t%d", name, stats.failed[name]))
	}
	_, err := io.WriteString(output, strings.Join(lines, "\n")+"\n")
	return err
}

// writeLog creates file and lets write fill it
func writeLog(file string, write func(io.Writer) error) (err error) {
	output, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer func() {
		if nerr := output.Close(); nerr != nil && err == nil {
			err = nerr
		}
	}()
	return write(output)
}
