package intervals

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/nvnieuwk/dumpstr/internal/fileio"
)

// RegionSet is a named collection of intervals, keyed by chromosome. It is
// read-only once loaded.
type RegionSet struct {
	// The name the set is reported under
	Name string

	// Flattened intervals sorted by start for every chromosome
	Regions map[string][]Interval
}

// NewRegionSet sorts and flattens the given intervals into a RegionSet.
func NewRegionSet(name string, regions map[string][]Interval) *RegionSet {
	set := &RegionSet{Name: name, Regions: map[string][]Interval{}}
	for chrom, ivals := range regions {
		ivals = append([]Interval(nil), ivals...)
		SortByStart(ivals)
		set.Regions[chrom] = Flatten(ivals)
	}
	return set
}

// FromBedFile loads a RegionSet from a BED file. The file may be plain,
// BGZF or gzip compressed. Comment, track and browser lines are skipped.
func FromBedFile(name string, filename string) (*RegionSet, error) {
	input, err := fileio.Open(filename)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	regions := map[string][]Interval{}
	scanner := bufio.NewScanner(input)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" ||
			strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") {
			continue
		}
		data := strings.Split(line, "\t")
		if len(data) < 3 {
			return nil, fmt.Errorf("%s:%d: expected at least 3 columns, found %d", filename, lineNumber, len(data))
		}
		start, err := strconv.ParseInt(data[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid start: %w", filename, lineNumber, err)
		}
		end, err := strconv.ParseInt(data[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid end: %w", filename, lineNumber, err)
		}
		if end < start {
			return nil, fmt.Errorf("%s:%d: end %d before start %d", filename, lineNumber, end, start)
		}
		regions[data[0]] = append(regions[data[0]], Interval{Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewRegionSet(name, regions), nil
}

// Overlaps reports whether the 1-based position on chrom lies in any interval
// of the set. Chromosome names match with or without a "chr" prefix.
func (set *RegionSet) Overlaps(chrom string, position int64) bool {
	ivals, ok := set.Regions[chrom]
	if !ok {
		if strings.HasPrefix(chrom, "chr") {
			ivals, ok = set.Regions[strings.TrimPrefix(chrom, "chr")]
		} else {
			ivals, ok = set.Regions["chr"+chrom]
		}
		if !ok {
			return false
		}
	}
	return Overlap(ivals, position-1)
}
