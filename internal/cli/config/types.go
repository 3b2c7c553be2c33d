// Package config loads eesnip settings.
//
// Values are layered from lowest to highest precedence: built-in defaults,
// an eesnip.yaml file, EESNIP_ environment variables, and command-line flags
// that were explicitly set.
package config

import (
	"runtime"
	"time"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect  string      `koanf:"dialect"`
	Header   bool        `koanf:"header"`
	Output   string      `koanf:"output"`
	LogLevel string      `koanf:"log_level"`
	Verbose  bool        `koanf:"verbose"`
	Jobs     int         `koanf:"jobs"`
	Serve    ServeConfig `koanf:"serve"`
	Watch    WatchConfig `koanf:"watch"`
	Renames  []Rename    `koanf:"renames"`
}

// ServeConfig holds settings for the HTTP translate service.
type ServeConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Rename adds a member rename on top of the selected dialect.
// From is "Receiver.member"; To is the new member name.
type Rename struct {
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// Default configuration values.
const (
	DefaultDialect  = "python"
	DefaultOutput   = "auto" // text on a terminal, markdown otherwise
	DefaultLogLevel = "warn"
	DefaultPort     = 8765

	DefaultDebounce = 200 * time.Millisecond
)

// DefaultJobs is the default number of batch workers.
func DefaultJobs() int {
	return runtime.NumCPU()
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Dialect:  DefaultDialect,
		Output:   DefaultOutput,
		LogLevel: DefaultLogLevel,
		Jobs:     DefaultJobs(),
		Serve:    ServeConfig{Port: DefaultPort},
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}
