// Package config loads Subly's runtime configuration.
//
// Values are layered, later sources winning: built-in defaults, the YAML
// file, a .env file, then the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables
const (
	EnvConfigFile = "SUBLY_CONFIG"
	EnvDataDir    = "SUBLY_DATA_DIR"
	EnvDBPath     = "SUBLY_DB_PATH"
	EnvLogLevel   = "SUBLY_LOG_LEVEL"
	EnvLogFormat  = "SUBLY_LOG_FORMAT"
)

const (
	appDirName     = "Subly"
	configFileName = "config.yaml"
	dbFileName     = "subly.db"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application settings
type Config struct {
	DataDir   string `yaml:"data_dir,omitempty"`
	DBPath    string `yaml:"db_path,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// LookupFunc reads one environment variable
type LookupFunc func(key string) (string, bool)

// Default returns the built-in configuration. DBPath is derived from
// DataDir when left empty.
func Default() Config {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, appDirName)
	}
	return Config{
		DataDir:   dataDir,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the configuration from the environment, the optional .env file
// at envFile and the YAML file it points to.
func Load(envFile string) (*Config, error) {
	return load(envFile, os.LookupEnv)
}

func load(envFile string, lookupEnv LookupFunc) (*Config, error) {
	lookup, err := withDotenv(envFile, lookupEnv)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}

	path := filepath.Join(cfg.DataDir, configFileName)
	if v, ok := lookup(EnvConfigFile); ok && v != "" {
		path = v
	}
	fileCfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		cfg.merge(*fileCfg)
	}

	cfg.applyEnv(lookup)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, dbFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// withDotenv layers the .env file under the real environment
func withDotenv(envFile string, lookupEnv LookupFunc) (LookupFunc, error) {
	if envFile == "" {
		return lookupEnv, nil
	}
	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lookupEnv, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// LoadFile reads a YAML config file. A missing file yields nil, nil.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) merge(other Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
}

func (c *Config) applyEnv(lookup LookupFunc) {
	env := Config{}
	for key, dst := range map[string]*string{
		EnvDataDir:   &env.DataDir,
		EnvDBPath:    &env.DBPath,
		EnvLogLevel:  &env.LogLevel,
		EnvLogFormat: &env.LogFormat,
	} {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	c.merge(env)
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}
	return nil
}
