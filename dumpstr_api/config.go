package dumpstr_api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	cli "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

// ErrConfig is wrapped by every configuration error. Configuration errors are
// always detected before the first record is processed.
var ErrConfig = errors.New("invalid configuration")

func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Read the configuration file (if any), apply the command line flags on top and validate
func ReadConfig(Cctx *cli.Context) (*Config, error) {
	config := &Config{}
	if file := Cctx.String("config"); file != "" {
		fileConfig, err := ReadConfigFile(file)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}

	config.applyFlags(Cctx)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReadConfigFile parses a YAML (.yaml, .yml) or TOML (.toml) configuration file
func ReadConfigFile(file string) (*Config, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open the config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		if _, err := toml.Decode(string(content), &config); err != nil {
			return nil, fmt.Errorf("failed to parse the config file: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.UnmarshalStrict(content, &config); err != nil {
			return nil, fmt.Errorf("failed to parse the config file: %w", err)
		}
	default:
		return nil, configErrorf("unsupported config file extension %q, use .yaml, .yml or .toml", filepath.Ext(file))
	}
	return &config, nil
}

// Override the config with every flag that was set explicitly
func (config *Config) applyFlags(Cctx *cli.Context) {
	setString := func(name string, target *string) {
		if Cctx.IsSet(name) {
			*target = Cctx.String(name)
		}
	}
	setBool := func(name string, target *bool) {
		if Cctx.IsSet(name) {
			*target = Cctx.Bool(name)
		}
	}
	setInt := func(name string, target **int) {
		if Cctx.IsSet(name) {
			value := Cctx.Int(name)
			*target = &value
		}
	}
	setFloat := func(name string, target **float64) {
		if Cctx.IsSet(name) {
			value := Cctx.Float64(name)
			*target = &value
		}
	}

	setString("vcf", &config.Vcf)
	setString("out", &config.Out)

	setInt("min-call-DP", &config.MinCallDP)
	setInt("max-call-DP", &config.MaxCallDP)
	setFloat("min-call-Q", &config.MinCallQ)
	setFloat("max-call-flank-indel", &config.MaxCallFlankIndel)
	setFloat("max-call-stutter", &config.MaxCallStutter)

	setFloat("min-locus-callrate", &config.MinLocusCallrate)
	setFloat("min-locus-hwep", &config.MinLocusHwep)
	setFloat("min-locus-het", &config.MinLocusHet)
	setFloat("max-locus-het", &config.MaxLocusHet)
	setBool("use-length", &config.UseLength)
	setString("filter-regions", &config.FilterRegions)
	setString("filter-regions-names", &config.FilterRegionsNames)
	setBool("filter-hrun", &config.FilterHrun)
	setBool("drop-filtered", &config.DropFiltered)

	setInt("num-records", &config.NumRecords)

	setBool("bgzip", &config.Bgzip)
	setBool("nodate", &config.NoDate)
	setBool("mute-warnings", &config.MuteWarnings)
	setBool("verbose", &config.Verbose)
}

// Validate checks all thresholds that don't depend on the input VCF
func (config *Config) Validate() error {
	if config.Vcf == "" {
		return configErrorf("no input VCF given (--vcf)")
	}
	if config.Out == "" {
		return configErrorf("no output prefix given (--out)")
	}

	if config.MinCallDP != nil && *config.MinCallDP < 0 {
		return configErrorf("invalid --min-call-DP %d, must be >= 0", *config.MinCallDP)
	}
	if config.MaxCallDP != nil {
		if *config.MaxCallDP < 0 {
			return configErrorf("invalid --max-call-DP %d, must be >= 0", *config.MaxCallDP)
		}
		if config.MinCallDP != nil && *config.MaxCallDP <= *config.MinCallDP {
			return configErrorf("--max-call-DP must be > --min-call-DP")
		}
	}

	unitRange := []struct {
		flag  string
		value *float64
	}{
		{"--min-call-Q", config.MinCallQ},
		{"--max-call-flank-indel", config.MaxCallFlankIndel},
		{"--max-call-stutter", config.MaxCallStutter},
		{"--min-locus-callrate", config.MinLocusCallrate},
		{"--min-locus-hwep", config.MinLocusHwep},
		{"--min-locus-het", config.MinLocusHet},
		{"--max-locus-het", config.MaxLocusHet},
	}
	for _, option := range unitRange {
		if option.value != nil && (*option.value < 0 || *option.value > 1) {
			return configErrorf("%s must be between 0 and 1", option.flag)
		}
	}
	if config.MinLocusHet != nil && config.MaxLocusHet != nil && *config.MaxLocusHet <= *config.MinLocusHet {
		return configErrorf("--max-locus-het must be > --min-locus-het")
	}

	if config.NumRecords != nil && *config.NumRecords < 0 {
		return configErrorf("invalid --num-records %d, must be >= 0", *config.NumRecords)
	}

	if _, err := config.RegionFilters(); err != nil {
		return err
	}
	return nil
}

// A region filter as given on the command line
type RegionFilterInput struct {
	Name string
	File string
}

// RegionFilters pairs the region filter files with their names. Unnamed
// files are numbered from 0.
func (config *Config) RegionFilters() ([]RegionFilterInput, error) {
	if config.FilterRegions == "" {
		if config.FilterRegionsNames != "" {
			return nil, configErrorf("--filter-regions-names given without --filter-regions")
		}
		return nil, nil
	}

	files := strings.Split(config.FilterRegions, ",")
	var names []string
	if config.FilterRegionsNames != "" {
		names = strings.Split(config.FilterRegionsNames, ",")
		if len(names) != len(files) {
			return nil, configErrorf("length of --filter-regions-names must match --filter-regions")
		}
	} else {
		for i := range files {
			names = append(names, strconv.Itoa(i))
		}
	}

	regions := make([]RegionFilterInput, len(files))
	for i := range files {
		regions[i] = RegionFilterInput{Name: names[i], File: files[i]}
	}
	return regions, nil
}

// Path of the output VCF file
func (config *Config) OutputVcf() string {
	if config.Bgzip {
		return config.Out + ".vcf.gz"
	}
	return config.Out + ".vcf"
}

// Path of the per-sample log
func (config *Config) SampleLog() string {
	return config.Out + ".samplog.tab"
}

// Path of the per-locus log
func (config *Config) LocusLog() string {
	return config.Out + ".loclog.tab"
}

// The record cutoff, -1 when all records are processed
func (config *Config) MaxRecords() int {
	if config.NumRecords == nil {
		return -1
	}
	return *config.NumRecords
}
