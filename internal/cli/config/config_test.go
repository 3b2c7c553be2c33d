package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "eesnip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dialect", "", "")
	fs.Bool("header", false, "")
	fs.StringP("output", "o", "", "")
	fs.String("log-level", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Int("jobs", 0, "")
	fs.Int("port", 0, "")
	fs.Bool("write", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultJobs(), cfg.Jobs)
	assert.Equal(t, DefaultPort, cfg.Serve.Port)
	assert.False(t, cfg.Header)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	ResetConfig()

	writeConfig(t, dir, `
dialect: python
header: true
jobs: 2
serve:
  port: 9000
renames:
  - from: Export.toDrive
    to: export_to_drive
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "eesnip.yaml", GetConfigFileUsed())
	assert.True(t, cfg.Header)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, 9000, cfg.Serve.Port)
	require.Len(t, cfg.Renames, 1)
	assert.Equal(t, Rename{From: "Export.toDrive", To: "export_to_drive"}, cfg.Renames[0])

	d, err := cfg.ResolveDialect()
	require.NoError(t, err)
	to, ok := d.MemberRename("Export", "toDrive")
	assert.True(t, ok)
	assert.Equal(t, "export_to_drive", to)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	ResetConfig()

	path := writeConfig(t, t.TempDir(), "output: json\n")
	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, path, GetConfigFileUsed())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	ResetConfig()

	writeConfig(t, dir, "header: true\nserve:\n  port: 9000\n")
	t.Setenv("EESNIP_HEADER", "false")
	t.Setenv("EESNIP_SERVE_PORT", "9100")
	t.Setenv("EESNIP_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.False(t, cfg.Header)
	assert.Equal(t, 9100, cfg.Serve.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	ResetConfig()

	t.Setenv("EESNIP_OUTPUT", "markdown")
	t.Setenv("EESNIP_JOBS", "3")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--output=json", "--port=9200", "--write"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output, "changed flag wins")
	assert.Equal(t, 9200, cfg.Serve.Port)
	assert.Equal(t, 3, cfg.Jobs, "unchanged flag does not override env")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"unknown dialect", "dialect: cobol\n", "unknown dialect"},
		{"bad output", "output: html\n", "invalid output"},
		{"bad log level", "log_level: loud\n", "invalid log_level"},
		{"zero jobs", "jobs: 0\n", "jobs must be at least 1"},
		{"port range", "serve:\n  port: 70000\n", "out of range"},
		{"bad rename", "renames:\n  - from: addLayer\n    to: add_layer\n", "invalid renames"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			ResetConfig()
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Nil(t, GetCurrentConfig())
		})
	}
}

func TestConfig_Level(t *testing.T) {
	cfg := Default()
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	cfg.LogLevel = "info"
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	cfg.Verbose = true
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestGetLogger(t *testing.T) {
	fallback := GetLogger(context.Background())
	require.NotNil(t, fallback)
	assert.False(t, fallback.Enabled(context.Background(), slog.LevelError))

	logger := NewLogger(Default(), os.Stderr)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestLoadConfig_Debounce(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)

	writeConfig(t, dir, "watch:\n  debounce: 1s\n")
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)

	t.Setenv("EESNIP_WATCH_DEBOUNCE", "750ms")
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)

	t.Setenv("EESNIP_WATCH_DEBOUNCE", "-1s")
	_, err = LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.debounce")
}
