package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration for the generate command.
// Pointer fields distinguish "unset" from zero values; any flag given on
// the command line overrides the file.
//
//	max_nodes: 1000
//	max_children: 8
//	seed: 42
//	strategy: rejection
//	output: tree.json
type Config struct {
	MaxNodes    *int    `yaml:"max_nodes"`
	MaxChildren *int    `yaml:"max_children"`
	Seed        *uint64 `yaml:"seed"`
	Strategy    *string `yaml:"strategy"`
	MaxAttempts *int    `yaml:"max_attempts"`
	Output      *string `yaml:"output"`
	Encoding    *string `yaml:"encoding"`
	Database    *string `yaml:"db"`
}

// LoadConfig reads and parses a config file.
// Returns an error if the file doesn't exist, is malformed or contains
// unknown fields (typos).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil // empty file: nothing to override
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &cfg, nil
}

// apply copies config values into opts for every flag the user did not set.
// Reports whether the config supplied a seed.
func (c *Config) apply(opts *GenerateOptions, flags *pflag.FlagSet) (seedSet bool) {
	setInt := func(flag string, dst *int, v *int) {
		if v != nil && !flags.Changed(flag) {
			*dst = *v
		}
	}
	setString := func(flag string, dst *string, v *string) {
		if v != nil && !flags.Changed(flag) {
			*dst = *v
		}
	}

	setInt("nodes", &opts.Nodes, c.MaxNodes)
	setInt("max-children", &opts.MaxChildren, c.MaxChildren)
	setInt("max-attempts", &opts.MaxAttempts, c.MaxAttempts)
	setString("strategy", &opts.Strategy, c.Strategy)
	setString("output", &opts.Output, c.Output)
	setString("encoding", &opts.Encoding, c.Encoding)
	setString("db", &opts.Database, c.Database)

	if c.Seed != nil && !flags.Changed("seed") {
		opts.Seed = *c.Seed
		return true
	}
	return false
}
