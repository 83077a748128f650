package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is sent to upstream sites that do not set their own
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds the grabber's own settings. The site list is not part of it;
// it comes from the JSON file given on the command line.
type Config struct {
	// Root directory for <slug>/<channel>.m3u8 files
	OutputDir string `yaml:"output_dir"`

	// BoltDB file for run history; empty disables persistence
	DBPath string `yaml:"db_path"`

	// node_exporter textfile path; empty disables the dump
	MetricsTextfile string `yaml:"metrics_textfile"`

	// Logging settings
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// Upstream HTTP settings
	HTTP struct {
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"http"`
}

var (
	validLevels  = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.OutputDir == "" {
		errors = append(errors, "Output directory is required")
	}
	if !validLevels[strings.ToUpper(c.Log.Level)] {
		errors = append(errors, "Log level must be one of: DEBUG, INFO, WARN, ERROR")
	}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errors = append(errors, "Log format must be one of: text, json")
	}
	// Zero means no timeout
	if c.HTTP.Timeout < 0 {
		errors = append(errors, "HTTP timeout must not be negative")
	}
	if c.HTTP.UserAgent == "" {
		errors = append(errors, "HTTP user agent is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.OutputDir = "."
	cfg.DBPath = ""
	cfg.MetricsTextfile = ""

	cfg.Log.Level = "INFO"
	cfg.Log.Format = "text"

	cfg.HTTP.Timeout = 0
	cfg.HTTP.UserAgent = DefaultUserAgent

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if present) and applies environment variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("GRABBER_CONFIG_FILE")
	if configPath == "" {
		configPath = "grabber.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envParser collects every malformed variable instead of stopping at the first
type envParser struct {
	errors []string
}

func (p *envParser) parseString(envName string, target *string) {
	if val := os.Getenv(envName); val != "" {
		*target = val
	}
}

// parseDuration parses a duration environment variable; zero is allowed
func (p *envParser) parseDuration(envName string, target *time.Duration) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: invalid duration format (use '30s', '1m', etc.)", envName))
		return
	}
	if duration < 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must not be negative", envName))
		return
	}

	*target = duration
}

// parseEnum parses an enum environment variable from a set of valid values
func (p *envParser) parseEnum(envName string, target *string, normalize func(string) string, validValues map[string]bool) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	normalized := normalize(val)
	if !validValues[normalized] {
		var validList []string
		for k := range validValues {
			validList = append(validList, k)
		}
		p.errors = append(p.errors, fmt.Sprintf("%s must be one of: %s", envName, strings.Join(validList, ", ")))
		return
	}

	*target = normalized
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	parser := &envParser{}

	parser.parseString("OUTPUT_DIR", &cfg.OutputDir)
	parser.parseString("DB_PATH", &cfg.DBPath)
	parser.parseString("METRICS_TEXTFILE", &cfg.MetricsTextfile)
	parser.parseEnum("LOG_LEVEL", &cfg.Log.Level, strings.ToUpper, validLevels)
	parser.parseEnum("LOG_FORMAT", &cfg.Log.Format, strings.ToLower, validFormats)
	parser.parseDuration("HTTP_TIMEOUT", &cfg.HTTP.Timeout)
	parser.parseString("USER_AGENT", &cfg.HTTP.UserAgent)

	if len(parser.errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(parser.errors, "\n  - "))
	}

	return nil
}

// Print outputs the configuration to stdout
func (c *Config) Print() {
	fmt.Printf("outputDir: %v\n", c.OutputDir)
	fmt.Printf("dbPath: %v\n", c.DBPath)
	fmt.Printf("metricsTextfile: %v\n", c.MetricsTextfile)
	fmt.Printf("logLevel: %v\n", c.Log.Level)
	fmt.Printf("logFormat: %v\n", c.Log.Format)
	fmt.Printf("httpTimeout: %v\n", c.HTTP.Timeout)
	fmt.Printf("userAgent: %v\n", c.HTTP.UserAgent)
}
