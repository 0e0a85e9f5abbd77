package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/regwatch/regwatch-mcp/internal/watcher"
)

// ConfigFile is the optional project-level config file name.
const ConfigFile = "regwatch.yaml"

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
}

type Config struct {
	DBPath    string         `yaml:"db_path"`
	SeedDir   string         `yaml:"seed_dir"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"`
	HTTPAddr  string         `yaml:"http_addr"`
	HTTPToken string         `yaml:"http_token"`
	API       APIConfig      `yaml:"api"`
	Watch     watcher.Config `yaml:"watch"`
}

func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".regwatch")

	return &Config{
		DBPath:    filepath.Join(dataDir, "laws.db"),
		SeedDir:   filepath.Join(dataDir, "seed"),
		LogLevel:  "info",
		LogFormat: "text",
		HTTPAddr:  "127.0.0.1:8790",
		API: APIConfig{
			BaseURL: "",
			Key:     "",
		},
		Watch: watcher.Config{
			Enabled:        false,
			DebounceWindow: 300 * time.Millisecond,
			MaxBatchSize:   100,
			IncludePatterns: []string{
				"**/*.json",
			},
			ExcludePatterns: []string{
				"**/.*",
				"**/*.tmp",
			},
		},
	}
}

// Load builds the effective config: defaults, then the YAML file at path
// (or regwatch.yaml in the working directory when path is empty, if it
// exists), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(ConfigFile); err == nil {
			path = ConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REGWATCH_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("REGWATCH_SEED_DIR"); v != "" {
		c.SeedDir = v
	}
	if v := os.Getenv("REGWATCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REGWATCH_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("REGWATCH_HTTP_TOKEN"); v != "" {
		c.HTTPToken = v
	}
	if v := os.Getenv("REGWATCH_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("REGWATCH_API_KEY"); v != "" {
		c.API.Key = v
	}
}

func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(filepath.Dir(c.DBPath), 0700)
}
