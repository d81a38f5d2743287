// Package config holds the scrubdeck server configuration: where to
// listen, how to log, and the dataset conventions (key column, default
// chart columns, similarity threshold) the dashboard applies.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/quality"
)

// DefaultConfigFile is looked up when no --config flag is given.
const DefaultConfigFile = "scrubdeck.yml"

// Config represents the full server configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"` // empty disables file logging
	Console  bool   `yaml:"console"`
	Cleanup  bool   `yaml:"cleanup"` // truncate the log file on startup
}

// ServerConfig represents the HTTP listener configuration.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// DataConfig represents dataset conventions.
type DataConfig struct {
	// KeyColumn is the designated identifying column for summary metrics.
	KeyColumn string `yaml:"key_column"`
	// CaseColumns are the columns the text-case chart plots by default.
	CaseColumns []string `yaml:"case_columns"`
	// SimilarityThreshold is the default fuzzy-match threshold in [0,1].
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	// IndexColumn treats the first CSV column of uploads as a row index.
	IndexColumn bool `yaml:"index_column"`
}

// LoadDefaultConfig returns the configuration used when no file exists.
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:   "info",
			Console: true,
			Cleanup: true,
		},
		Server: ServerConfig{
			Address: "0.0.0.0",
			Port:    2852,
		},
		Data: DataConfig{
			KeyColumn:           quality.KeyColumn,
			CaseColumns:         quality.DefaultCaseColumns,
			SimilarityThreshold: quality.DefaultSimilarityThreshold,
		},
	}
}

// LoadConfig loads configuration from a file, filling unset dataset
// fields from the defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(ErrFileReadFailed, err, "failed to read config file")
	}

	cfg := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(ErrFileParseFailed, err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(ErrValidationFailed, err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Newf(ErrInvalidPort, "port %d outside valid range", c.Server.Port)
	}
	if c.Data.SimilarityThreshold < 0 || c.Data.SimilarityThreshold > 1 {
		return errors.Newf(ErrInvalidThreshold, "similarity threshold %v outside [0,1]", c.Data.SimilarityThreshold)
	}
	if c.Data.KeyColumn == "" {
		return errors.New(ErrKeyColumnRequired, "key column must be set")
	}
	return nil
}
