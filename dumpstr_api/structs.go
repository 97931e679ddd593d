package dumpstr_api

// The struct representing the header of the input VCF file in a parseable format
type Header struct {
	// Object containing the INFO fields with their ID, Number, Type and Description
	// The ID is the key of the map, InfoOrder keeps the declaration order
	Info      map[string]HeaderLineIdNumberTypeDescription
	InfoOrder []string

	// Object containing the FORMAT fields with their ID, Number, Type and Description
	// The ID is the key of the map, FormatOrder keeps the declaration order
	Format      map[string]HeaderLineIdNumberTypeDescription
	FormatOrder []string

	// Object containing the ALT fields with their ID and Description
	Alt      map[string]HeaderLineIdDescription
	AltOrder []string

	// Object containing the FILTER fields with their ID and Description
	Filter      map[string]HeaderLineIdDescription
	FilterOrder []string

	// List of all contigs in the VCF file with their ID and Length
	Contig []HeaderLineIdLength

	// List of all other meta lines, without the leading ##
	Other []string

	// List of all samples in the VCF file
	Samples []string
}

// A struct representing a header line in the VCF file with its ID and Description
type HeaderLineIdDescription struct {
	// The ID of the header line
	Id string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID, Number, Type and Description
type HeaderLineIdNumberTypeDescription struct {
	// The ID of the header line
	Id string

	// The number of values in the header line
	// Can be any integer, "A", "G", "R" or "."
	// A = one value per alternate allele
	// G = one value per possible genotype
	// R = one value per possible allele
	// . = the number varies, is unkown or is unbounded
	Number string

	// The type of the header line
	// Can be "Integer", "Float", "Flag", "String" or "Character"
	Type string

	// The description of the header line
	Description string
}

// A struct representing a header line in the VCF file with its ID and Length
type HeaderLineIdLength struct {
	// The ID of the header line
	Id string

	// The length of the contig, 0 when not declared
	Length int64
}

// A struct representing one STR locus of the input VCF file
type Variant struct {
	// The chromosome of the variant
	Chromosome string

	// The 1-based position of the variant
	Pos int64

	// The ID of the variant
	Id string

	// The reference allele of the variant
	Ref string

	// The alternate alleles of the variant, empty for a monomorphic locus
	Alt []string

	// The Phred-scaled quality score of the variant
	Qual string

	// The filter status of the variant
	// nil means unset, otherwise "PASS" or the names of all failing filters
	Filter []string

	// A pointer to the header of the VCF that contains this variant
	Header *Header

	// The INFO values of the variant, InfoOrder keeps the field order
	Info      map[string][]string
	InfoOrder []string

	// The FORMAT keys of the variant in column order, always starting with GT
	FormatKeys []string

	// One call per sample, in the order of the header samples
	Calls []Call
}

// A struct representing the call of one sample at one locus
type Call struct {
	// The sample name of the call
	Sample string

	// The called genotype
	Genotype Genotype

	// The content of the FORMAT fields other than GT
	Content map[string][]string

	// The call-level filter status
	// nil until the call filters ran, then "NOCALL", "PASS" or all failing reasons
	Status []string
}

// A struct representing a genotype as allele indices
type Genotype struct {
	// The called alleles, -1 for a missing allele
	Alleles []int

	// Whether the alleles are phased
	Phased bool
}

//
// Config structs
//

// The struct representing all options of a run
// It can be filled from a YAML or TOML file and from the command line
type Config struct {
	// The input VCF file
	Vcf string `yaml:"vcf" toml:"vcf"`

	// Prefix of the output files
	Out string `yaml:"out" toml:"out"`

	// Call-level filters, nil when not set
	MinCallDP         *int     `yaml:"min_call_DP" toml:"min_call_DP"`
	MaxCallDP         *int     `yaml:"max_call_DP" toml:"max_call_DP"`
	MinCallQ          *float64 `yaml:"min_call_Q" toml:"min_call_Q"`
	MaxCallFlankIndel *float64 `yaml:"max_call_flank_indel" toml:"max_call_flank_indel"`
	MaxCallStutter    *float64 `yaml:"max_call_stutter" toml:"max_call_stutter"`

	// Locus-level filters, nil when not set
	MinLocusCallrate *float64 `yaml:"min_locus_callrate" toml:"min_locus_callrate"`
	MinLocusHwep     *float64 `yaml:"min_locus_hwep" toml:"min_locus_hwep"`
	MinLocusHet      *float64 `yaml:"min_locus_het" toml:"min_locus_het"`
	MaxLocusHet      *float64 `yaml:"max_locus_het" toml:"max_locus_het"`

	// Compute heterozygosity and HWE over allele lengths
	UseLength bool `yaml:"use_length" toml:"use_length"`

	// Comma-separated BED files and their filter names
	FilterRegions      string `yaml:"filter_regions" toml:"filter_regions"`
	FilterRegionsNames string `yaml:"filter_regions_names" toml:"filter_regions_names"`

	// Filter loci with long homopolymer runs
	FilterHrun bool `yaml:"filter_hrun" toml:"filter_hrun"`

	// Drop filtered loci instead of annotating them
	DropFiltered bool `yaml:"drop_filtered" toml:"drop_filtered"`

	// Only process this many records, nil for all
	NumRecords *int `yaml:"num_records" toml:"num_records"`

	// Write a BGZF compressed output VCF
	Bgzip bool `yaml:"bgzip" toml:"bgzip"`

	// Don't add the current date to the output VCF header
	NoDate bool `yaml:"nodate" toml:"nodate"`

	// Don't warn about fields missing from the header
	MuteWarnings bool `yaml:"mute_warnings" toml:"mute_warnings"`

	// Log every locus decision
	Verbose bool `yaml:"verbose" toml:"verbose"`
}
