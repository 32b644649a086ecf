package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// keyTypes lists the integer types accepted by --key-type. Wider types are not
// offered: their whole domain cannot be bucketed in memory.
var keyTypes = []string{"int8", "uint8", "int16", "uint16", "int32", "uint32", "int64"}

// Config controls how records are read and sorted. It is loaded from an
// optional YAML file and then overridden by command-line flags.
type Config struct {
	// KeyField is the 1-based index of the field holding the integer key.
	KeyField int `yaml:"key_field"`

	// Delimiter separates fields. When empty, fields are separated by runs of
	// whitespace.
	Delimiter string `yaml:"delimiter"`

	// Min and Max declare the inclusive key range. They must be set together,
	// and not together with KeyType.
	Min *int64 `yaml:"min"`
	Max *int64 `yaml:"max"`

	// KeyType sorts over the whole domain of the named integer type instead of
	// a declared range.
	KeyType string `yaml:"key_type"`

	// Jobs is the number of inputs sorted concurrently.
	Jobs int `yaml:"jobs"`

	// MaxBuckets caps the size of the histogram a single sort may allocate.
	MaxBuckets int `yaml:"max_buckets"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when neither a file nor a flag
// sets a value.
func DefaultConfig() Config {
	return Config{
		KeyField:   1,
		Jobs:       runtime.GOMAXPROCS(0),
		MaxBuckets: 1 << 24,
		LogLevel:   "warn",
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults. Unknown
// fields are rejected so that typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// flagValues holds the flags that override Config fields.
type flagValues struct {
	keyField   int
	delimiter  string
	min, max   int64
	keyType    string
	jobs       int
	maxBuckets int
	logLevel   string
}

func (v *flagValues) register(flagSet *pflag.FlagSet) {
	flagSet.IntVarP(&v.keyField, "key-field", "k", 1, "1-based index of the field holding the integer key")
	flagSet.StringVarP(&v.delimiter, "delimiter", "d", "", "field delimiter (default: runs of whitespace)")
	flagSet.Int64Var(&v.min, "min", 0, "smallest key that may occur")
	flagSet.Int64Var(&v.max, "max", 0, "largest key that may occur")
	flagSet.StringVarP(&v.keyType, "key-type", "t", "", "sort over the whole domain of this type: "+strings.Join(keyTypes, ", "))
	flagSet.IntVarP(&v.jobs, "jobs", "j", 0, "number of inputs sorted concurrently (default: GOMAXPROCS)")
	flagSet.IntVar(&v.maxBuckets, "max-buckets", 0, "largest histogram a sort may allocate (default 16777216)")
	flagSet.StringVar(&v.logLevel, "log-level", "", "log level: debug, info, warn or error (default warn)")
}

// apply overrides the fields of cfg whose flags were set explicitly.
func (v *flagValues) apply(cfg *Config, flagSet *pflag.FlagSet) {
	if flagSet.Changed("key-field") {
		cfg.KeyField = v.keyField
	}
	if flagSet.Changed("delimiter") {
		cfg.Delimiter = v.delimiter
	}
	if flagSet.Changed("min") {
		cfg.Min = &v.min
	}
	if flagSet.Changed("max") {
		cfg.Max = &v.max
	}
	if flagSet.Changed("key-type") {
		cfg.KeyType = v.keyType
	}
	if flagSet.Changed("jobs") {
		cfg.Jobs = v.jobs
	}
	if flagSet.Changed("max-buckets") {
		cfg.MaxBuckets = v.maxBuckets
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = v.logLevel
	}
}

// Validate reports every problem with the configuration in a single error.
func (c Config) Validate() error {
	var problems []string
	if c.KeyField < 1 {
		problems = append(problems, "key field must be at least 1")
	}
	if c.Jobs < 1 {
		problems = append(problems, "jobs must be at least 1")
	}
	if c.MaxBuckets < 2 {
		problems = append(problems, "max buckets must be at least 2")
	}
	switch {
	case (c.Min == nil) != (c.Max == nil):
		problems = append(problems, "min and max must be set together")
	case c.Min != nil && c.KeyType != "":
		problems = append(problems, "a key range and a key type are mutually exclusive")
	case c.Min == nil && c.KeyType == "":
		problems = append(problems, "either a key range (min and max) or a key type is required")
	}
	if c.KeyType != "" && !slices.Contains(keyTypes, c.KeyType) {
		problems = append(problems, "unknown key type "+c.KeyType)
	}
	if _, err := c.level(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return errors.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
