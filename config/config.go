// Package config loads the annotator configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration of the annotator tool.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds the CoreNLP server and model configuration.
type EngineConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	POSModel  string        `yaml:"pos_model"`
	NERModel  string        `yaml:"ner_model"`
	CacheSize int           `yaml:"cache_size"` // 0 disables the cache
	Serialize bool          `yaml:"serialize"`  // force one request at a time
}

// StorageConfig holds the document repository location: a directory of
// JSON docs or a SQLite file.
type StorageConfig struct {
	DocPath string `yaml:"doc_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`

	// File, when set, receives the log in addition to stderr, rotated at
	// MaxSizeMB megabytes.
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DefaultConfig returns the default configuration. The model paths are the
// classpath locations of the English models shipped with CoreNLP.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			URL:       "http://localhost:9000",
			Timeout:   60 * time.Second,
			POSModel:  "edu/stanford/nlp/models/pos-tagger/english-left3words-distsim.tagger",
			NERModel:  "edu/stanford/nlp/models/ner/english.all.3class.distsim.crf.ser.gz",
			CacheSize: 256,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// Load loads configuration from a YAML file. Missing fields keep their
// default; a missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Engine.URL)
	switch {
	case c.Engine.URL == "":
		errs = append(errs, errors.New("engine.url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("engine.url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("engine.url: unsupported scheme %q", u.Scheme))
	}

	if c.Engine.Timeout < 0 {
		errs = append(errs, errors.New("engine.timeout must not be negative"))
	}

	if c.Engine.CacheSize < 0 {
		errs = append(errs, errors.New("engine.cache_size must not be negative"))
	}

	if c.Engine.POSModel == "" {
		errs = append(errs, errors.New("engine.pos_model is required"))
	}

	if c.Engine.NERModel == "" {
		errs = append(errs, errors.New("engine.ner_model is required"))
	}

	if c.Logging.MaxSizeMB < 0 {
		errs = append(errs, errors.New("logging.max_size_mb must not be negative"))
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog.Level. The empty string is info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging.level: unknown level %q", level)
}
