// Package config loads the YAML configuration controlling logging, output
// formatting, and the location of the external reference tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/uywa/nutrienergia/internal/logging"
	"github.com/uywa/nutrienergia/internal/units"
)

// Environment variable overrides.
const (
	EnvLogLevel  = "NUTRIENERGIA_LOG_LEVEL"
	EnvLogFormat = "NUTRIENERGIA_LOG_FORMAT"
	EnvParamsDir = "NUTRIENERGIA_PARAMS_DIR"
)

// Top-level YAML keys used for shallow merge.
const (
	keyLogging = "logging"
	keyOutput  = "output"
	keyParams  = "params"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config
// sections. Keys not in this list are silently ignored during merge.
var knownTopLevelKeys = map[string]bool{
	keyLogging: true,
	keyOutput:  true,
	keyParams:  true,
}

// LoggingConfig is the logging section.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ToLoggingConfig converts the section to the logging package's config.
func (c LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{Level: c.Level, Format: c.Format, File: c.File}
}

// OutputConfig is the output section.
type OutputConfig struct {
	// Decimals for reported energy values and exported tables.
	Decimals int `yaml:"decimals"`
	// Unit is the display energy unit (kcal, kJ, MJ).
	Unit string `yaml:"unit"`
	// Format is the default output format (table, json, csv).
	Format string `yaml:"format"`
}

// ParamsConfig locates the external reference tables.
type ParamsConfig struct {
	// Dir holds the reference tables (stage parameters, requirements,
	// ingredient map).
	Dir string `yaml:"dir"`
	// Requirements is the nutrient-requirement table file name.
	Requirements string `yaml:"requirements"`
	// Ingredients is the ingredient→family map file name.
	Ingredients string `yaml:"ingredients"`
	// StageParams is the per-stage parameter table file name.
	StageParams string `yaml:"stage_params"`
	// CatalogConstraint pins the equation catalog version range this
	// installation's reference data was validated against.
	CatalogConstraint string `yaml:"catalog_constraint"`
}

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Params  ParamsConfig  `yaml:"params"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: logging.FormatConsole},
		Output:  OutputConfig{Decimals: 0, Unit: string(units.Kcal), Format: "table"},
		Params: ParamsConfig{
			Dir:               "params",
			Requirements:      "nutrients_requirements.csv",
			Ingredients:       "ingredients_map.csv",
			StageParams:       "pig_grow.csv",
			CatalogConstraint: "^1.0.0",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nutrienergia", "config.yaml")
}

// Load builds a Config from defaults, an optional YAML file, and environment
// overrides, in that precedence order. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path != "" {
		if err := shallowMergeYAML(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvParamsDir); v != "" {
		cfg.Params.Dir = v
	}

	return cfg, nil
}

// Validate rejects configurations the rest of the program cannot honor.
func (c *Config) Validate() error {
	if c.Output.Decimals < 0 {
		return fmt.Errorf("output.decimals must be >= 0, got %d", c.Output.Decimals)
	}
	switch units.Unit(c.Output.Unit) {
	case units.Kcal, units.KJ, units.MJ:
	default:
		return fmt.Errorf("output.unit must be kcal, kJ or MJ, got %q", c.Output.Unit)
	}
	switch c.Output.Format {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("output.format must be table, json or csv, got %q", c.Output.Format)
	}
	return nil
}

// RequirementsPath returns the full path of the requirements table.
func (c *Config) RequirementsPath() string {
	return filepath.Join(c.Params.Dir, c.Params.Requirements)
}

// IngredientsPath returns the full path of the ingredient map.
func (c *Config) IngredientsPath() string {
	return filepath.Join(c.Params.Dir, c.Params.Ingredients)
}

// StageParamsPath returns the full path of the stage parameter table.
func (c *Config) StageParamsPath() string {
	return filepath.Join(c.Params.Dir, c.Params.StageParams)
}

// shallowMergeYAML loads a YAML file and merges its known top-level keys
// onto the target. Sections present in the overlay replace the target's
// section entirely; absent sections are left unchanged.
func shallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in shallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return err
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", overlayPath, err)
	}
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling config section %q: %w", key, marshalErr)
		}

		var unmarshalErr error
		switch key {
		case keyLogging:
			unmarshalErr = yaml.Unmarshal(sectionBytes, &target.Logging)
		case keyOutput:
			unmarshalErr = yaml.Unmarshal(sectionBytes, &target.Output)
		case keyParams:
			unmarshalErr = yaml.Unmarshal(sectionBytes, &target.Params)
		}
		if unmarshalErr != nil {
			return fmt.Errorf("parsing config section %q: %w", key, unmarshalErr)
		}
	}
	return nil
}
