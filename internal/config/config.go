// Package config loads nasal-ls settings from YAML.
package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "NASAL_LS_CONFIG"

// Config holds the server settings.
type Config struct {
	// LogFile receives the server log. Empty disables logging.
	LogFile string `yaml:"log_file"`
	// Extensions selects the files indexed from disk.
	Extensions []string `yaml:"extensions"`
	// RetainClosed keeps files and their symbols indexed after didClose.
	RetainClosed bool `yaml:"retain_closed"`
	// Workers bounds parallel file reads when indexing a directory.
	Workers int `yaml:"workers"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Extensions:   []string{".nas"},
		RetainClosed: false,
		Workers:      runtime.NumCPU(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if len(c.Extensions) == 0 {
		c.Extensions = Default().Extensions
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c, nil
}

// Resolve picks the config path from flag, then the environment.
func Resolve(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvPath)
}
