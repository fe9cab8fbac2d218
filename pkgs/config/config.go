// Package config loads project configuration: compilation rules and
// lexer settings kept in a .pyjs.yaml or .pyjs.json file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// SupportedMajor is the configuration format major version this build reads
const SupportedMajor = "v1"

// FileNames are searched in order by Find
var FileNames = []string{".pyjs.yaml", ".pyjs.yml", ".pyjs.json"}

//go:embed schema.json
var schemaJSON string

// Format is a configuration file encoding
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks the encoding from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

// Config is the project configuration
type Config struct {
	Version  string       `json:"version" yaml:"version"`
	TabWidth int          `json:"tabWidth,omitempty" yaml:"tabWidth,omitempty"`
	Rules    []scope.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{Version: SupportedMajor + ".0.0", TabWidth: 4}
}

// RuleSet builds the immutable rule set for compilation
func (c *Config) RuleSet() *scope.RuleSet {
	return scope.NewRuleSet(c.Rules...)
}

// WithRules returns a copy of c with extra rules appended
func (c *Config) WithRules(rules ...scope.Rule) *Config {
	out := *c
	out.Rules = append(append([]scope.Rule(nil), c.Rules...), rules...)
	return &out
}

// Load reads and validates a configuration file
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for a configuration file in dir and its parents
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Parse decodes and validates configuration data. YAML is converted to
// JSON first so both encodings go through the same schema.
func Parse(data []byte, format Format) (*Config, error) {
	jsonData := data
	if format == FormatYAML {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if raw == nil {
			raw = map[string]interface{}{}
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("config is not representable as JSON: %w", err)
		}
		jsonData = converted
	}

	if err := validate(jsonData); err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.TabWidth = 0
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.TabWidth == 0 {
		cfg.TabWidth = Default().TabWidth
	}

	version := cfg.Version
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if major := semver.Major(version); major != SupportedMajor {
		return nil, fmt.Errorf("unsupported config version %q (this build reads %s)", cfg.Version, SupportedMajor)
	}
	cfg.Version = semver.Canonical(version)
	return cfg, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		compiler.Formats = map[string]func(interface{}) bool{
			"semver": func(v interface{}) bool {
				s, ok := v.(string)
				if !ok {
					return true // type validation happens separately
				}
				if !strings.HasPrefix(s, "v") {
					s = "v" + s
				}
				return semver.IsValid(s)
			},
		}

		url := "schema://pyjs-config.json"
		if err := compiler.AddResource(url, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(url)
	})
	return compiledSchema, schemaErr
}

func validate(jsonData []byte) error {
	schema, err := configSchema()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("config does not match schema: %s", describe(ve))
		}
		return err
	}
	return nil
}

// describe flattens a validation error tree to its leaf messages
func describe(ve *jsonschema.ValidationError) string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + ve.Message
	}
	parts := make([]string, 0, len(ve.Causes))
	for _, c := range ve.Causes {
		parts = append(parts, describe(c))
	}
	return strings.Join(parts, "; ")
}
