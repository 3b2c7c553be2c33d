package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/eesnip/pkg/dialect"
)

var outputModes = map[string]struct{}{
	"auto": {}, "text": {}, "markdown": {}, "json": {},
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	if _, err := c.ResolveDialect(); err != nil {
		return err
	}
	if _, ok := outputModes[c.Output]; !ok {
		return fmt.Errorf("invalid output %q: want auto, text, markdown or json", c.Output)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// ResolveDialect returns the configured dialect with any extra renames applied.
func (c *Config) ResolveDialect() (*dialect.Dialect, error) {
	base, err := dialect.Lookup(c.Dialect)
	if err != nil {
		return nil, err
	}
	if len(c.Renames) == 0 {
		return base, nil
	}

	renames := make(map[string]string, len(c.Renames))
	for _, r := range c.Renames {
		renames[r.From] = r.To
	}
	d, err := dialect.Extend(base, renames)
	if err != nil {
		return nil, fmt.Errorf("invalid renames: %w", err)
	}
	return d, nil
}

// Level returns the log level, forced to debug by Verbose.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: want debug, info, warn or error", s)
	}
	return l, nil
}
