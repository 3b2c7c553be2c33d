package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/eesnip/internal/cli/config"
	"github.com/leapstack-labs/eesnip/internal/cli/output"
	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Dialect  *dialect.Dialect
}

// NewCommandContext resolves the configuration, logger, renderer and dialect
// for cmd.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	d, err := cfg.ResolveDialect()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dialect: %w", err)
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
		Dialect:  d,
	}, nil
}

// TranslateOptions returns the transpile options for this command.
func (c *CommandContext) TranslateOptions() transpile.Options {
	return transpile.Options{
		Dialect: c.Dialect,
		Header:  c.Cfg.Header,
		Logger:  c.Logger,
	}
}

// warn reports each unsupported statement of res on the diagnostics writer.
func (c *CommandContext) warn(name string, res *transpile.Result) {
	for _, w := range res.Warnings {
		c.Renderer.Warn("%s:%d:%d: unsupported %s left unchanged", name, w.Pos.Line, w.Pos.Column, w.Category)
	}
}

// getConfig returns the loaded configuration, or the defaults when the
// command runs without the root command's setup.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
