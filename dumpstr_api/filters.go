package dumpstr_api

import (
	"fmt"

	"github.com/nvnieuwk/dumpstr/intervals"
	"github.com/nvnieuwk/dumpstr/strutils"
)

// The kinds of call-level filters
type CallFilterKind int

const (
	LowCallDepth CallFilterKind = iota
	HighCallDepth
	LowCallQuality
	HighFlankIndelRate
	HighStutterRate
)

// CallFilterReasons lists the reason reported by every call-level filter,
// indexed by CallFilterKind. The sample log has one column per reason.
var CallFilterReasons = [...]string{
	LowCallDepth:       "LowCallDepth",
	HighCallDepth:      "HighCallDepth",
	LowCallQuality:     "LowCallQ",
	HighFlankIndelRate: "CallFlankIndels",
	HighStutterRate:    "CallStutter",
}

// A call-level filter
type CallFilter struct {
	Kind      CallFilterKind
	Threshold float64
}

// The reason reported for calls failing the filter
func (filter CallFilter) Reason() string {
	return CallFilterReasons[filter.Kind]
}

// Fails reports whether the call fails the filter. Calls without the
// required values never fail.
func (filter CallFilter) Fails(call *Call) bool {
	switch filter.Kind {
	case LowCallDepth:
		dp, ok := call.Float("DP")
		return ok && dp < filter.Threshold
	case HighCallDepth:
		dp, ok := call.Float("DP")
		return ok && dp > filter.Threshold
	case LowCallQuality:
		q, ok := call.Float("Q")
		return ok && q < filter.Threshold
	case HighFlankIndelRate:
		return rateExceeds(call, "DFLANKINDEL", filter.Threshold)
	case HighStutterRate:
		return rateExceeds(call, "DSTUTTER", filter.Threshold)
	}
	return false
}

// Whether the fraction of reads in field over DP is above threshold
func rateExceeds(call *Call, field string, threshold float64) bool {
	dp, ok := call.Float("DP")
	if !ok || dp <= 0 {
		return false
	}
	count, ok := call.Float(field)
	return ok && count/dp > threshold
}

// The kinds of locus-level filters
type LocusFilterKind int

const (
	MinCallrate LocusFilterKind = iota
	MinHWEP
	MinHeterozygosity
	MaxHeterozygosity
	LongHomopolymerRun
	RegionOverlap
)

var locusFilterNames = [...]string{
	MinCallrate:        "MinLocusCallrate",
	MinHWEP:            "MinLocusHWEP",
	MinHeterozygosity:  "MinLocusHet",
	MaxHeterozygosity:  "MaxLocusHet",
	LongHomopolymerRun: "LocusHrun",
}

// A locus-level filter
type LocusFilter struct {
	Kind      LocusFilterKind
	Threshold float64
	UseLength bool

	// The region set of a RegionOverlap filter
	Regions *intervals.RegionSet
}

// The name written to the FILTER column of failing loci
func (filter LocusFilter) Name() string {
	if filter.Kind == RegionOverlap {
		return filter.Regions.Name
	}
	return locusFilterNames[filter.Kind]
}

// The description of the FILTER header line
func (filter LocusFilter) Description() string {
	lengths := ""
	if filter.UseLength {
		lengths = " (alleles collapsed by length)"
	}
	switch filter.Kind {
	case MinCallrate:
		return fmt.Sprintf("Locus call rate below %v", filter.Threshold)
	case MinHWEP:
		return fmt.Sprintf("Locus HWE p-value below %v%s", filter.Threshold, lengths)
	case MinHeterozygosity:
		return fmt.Sprintf("Locus heterozygosity below %v%s", filter.Threshold, lengths)
	case MaxHeterozygosity:
		return fmt.Sprintf("Locus heterozygosity above %v%s", filter.Threshold, lengths)
	case LongHomopolymerRun:
		return "Locus reference allele contains a long homopolymer run"
	case RegionOverlap:
		return fmt.Sprintf("Locus overlaps a region of %s", filter.Regions.Name)
	}
	return ""
}

// Fails reports whether the call-filtered variant fails the filter. locus
// is the statistics view of the same variant.
func (filter LocusFilter) Fails(variant *Variant, locus *strutils.Locus) bool {
	switch filter.Kind {
	case MinCallrate:
		if len(variant.Calls) == 0 {
			return filter.Threshold > 0
		}
		return float64(variant.NumCalled())/float64(len(variant.Calls)) < filter.Threshold
	case MinHWEP:
		return strutils.HWEPValue(locus, filter.UseLength) < filter.Threshold
	case MinHeterozygosity:
		return strutils.Heterozygosity(locus, filter.UseLength) < filter.Threshold
	case MaxHeterozygosity:
		return strutils.Heterozygosity(locus, filter.UseLength) > filter.Threshold
	case LongHomopolymerRun:
		return longHomopolymerRun(variant)
	case RegionOverlap:
		return filter.Regions.Overlaps(variant.Chromosome, variant.Pos)
	}
	return false
}

// Repeats with a unit of up to 4bp fail on a run of 5 or more, longer units
// fail on a run at least as long as the unit
func longHomopolymerRun(variant *Variant) bool {
	period, ok := variant.period()
	if !ok {
		return false
	}
	hrun := strutils.HomopolymerRun(variant.Ref)
	if period <= 4 {
		return hrun >= 5
	}
	return hrun >= period
}

// Registry holds the filters of a run in the order they are applied
type Registry struct {
	CallFilters  []CallFilter
	LocusFilters []LocusFilter
}

// NewRegistry builds the call and locus filters from the config and checks
// that the input header declares every field they need
func NewRegistry(config *Config, header *Header) (*Registry, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	registry := &Registry{}
	if err := registry.buildCallFilters(config, header); err != nil {
		return nil, err
	}
	if err := registry.buildLocusFilters(config, header); err != nil {
		return nil, err
	}
	return registry, nil
}

func requireFormat(header *Header, flag string, fields ...string) error {
	for _, field := range fields {
		if !header.HasFormat(field) {
			return configErrorf("%s needs the FORMAT field %s, which is not in the VCF header", flag, field)
		}
	}
	return nil
}

func (registry *Registry) buildCallFilters(config *Config, header *Header) error {
	if config.MinCallDP != nil {
		if err := requireFormat(header, "--min-call-DP", "DP"); err != nil {
			return err
		}
		registry.CallFilters = append(registry.CallFilters, CallFilter{Kind: LowCallDepth, Threshold: float64(*config.MinCallDP)})
	}
	if config.MaxCallDP != nil {
		if err := requireFormat(header, "--max-call-DP", "DP"); err != nil {
			return err
		}
		registry.CallFilters = append(registry.CallFilters, CallFilter{Kind: HighCallDepth, Threshold: float64(*config.MaxCallDP)})
	}
	if config.MinCallQ != nil {
		if err := requireFormat(header, "--min-call-Q", "Q"); err != nil {
			return err
		}
		registry.CallFilters = append(registry.CallFilters, CallFilter{Kind: LowCallQuality, Threshold: *config.MinCallQ})
	}
	if config.MaxCallFlankIndel != nil {
		if err := requireFormat(header, "--max-call-flank-indel", "DP", "DFLANKINDEL"); err != nil {
			return err
		}
		registry.CallFilters = append(registry.CallFilters, CallFilter{Kind: HighFlankIndelRate, Threshold: *config.MaxCallFlankIndel})
	}
	if config.MaxCallStutter != nil {
		if err := requireFormat(header, "--max-call-stutter", "DP", "DSTUTTER"); err != nil {
			return err
		}
		registry.CallFilters = append(registry.CallFilters, CallFilter{Kind: HighStutterRate, Threshold: *config.MaxCallStutter})
	}
	return nil
}

func (registry *Registry) buildLocusFilters(config *Config, header *Header) error {
	add := func(kind LocusFilterKind, threshold *float64) {
		if threshold == nil {
			return
		}
		registry.LocusFilters = append(registry.LocusFilters, LocusFilter{
			Kind:      kind,
			Threshold: *threshold,
			UseLength: config.UseLength,
		})
	}
	add(MinCallrate, config.MinLocusCallrate)
	add(MinHWEP, config.MinLocusHwep)
	add(MinHeterozygosity, config.MinLocusHet)
	add(MaxHeterozygosity, config.MaxLocusHet)

	if config.FilterHrun {
		if !header.HasInfo("PERIOD") && !header.HasInfo("MOTIF") && !header.HasInfo("RU") {
			return configErrorf("--filter-hrun needs one of the INFO fields PERIOD, MOTIF or RU, none is in the VCF header")
		}
		registry.LocusFilters = append(registry.LocusFilters, LocusFilter{Kind: LongHomopolymerRun})
	}

	regions, err := config.RegionFilters()
	if err != nil {
		return err
	}
	seen := map[string]bool{StatusPass: true}
	for _, filter := range registry.LocusFilters {
		seen[filter.Name()] = true
	}
	for _, region := range regions {
		if seen[region.Name] {
			return configErrorf("duplicate filter name %s", region.Name)
		}
		seen[region.Name] = true
		set, err := intervals.FromBedFile(region.Name, region.File)
		if err != nil {
			return configErrorf("failed to load region filter %s: %v", region.Name, err)
		}
		registry.LocusFilters = append(registry.LocusFilters, LocusFilter{Kind: RegionOverlap, Regions: set})
	}
	return nil
}

// The names of all locus filters in registration order
func (registry *Registry) LocusFilterNames() []string {
	names := make([]string, len(registry.LocusFilters))
	for i, filter := range registry.LocusFilters {
		names[i] = filter.Name()
	}
	return names
}
