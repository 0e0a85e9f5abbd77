package watcher

import "time"

type Config struct {
	Enabled         bool          `yaml:"enabled"`
	DebounceWindow  time.Duration `yaml:"debounce_window"`
	MaxBatchSize    int           `yaml:"max_batch_size"`
	IncludePatterns []string      `yaml:"include_patterns"`
	ExcludePatterns []string      `yaml:"exclude_patterns"`
}

func DefaultConfig() Config {
	return Config{
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
	}
}
