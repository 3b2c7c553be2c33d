package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/eesnip/internal/watch"
	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-translate snippets when they change",
		Long: `Watch a directory tree and translate every .js snippet into a .py file next
to it, first once for all existing files and then each time one is saved.`,
		Example: `  eesnip watch scripts/
  eesnip watch scripts/ --debounce 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}

	cmd.Flags().Duration("debounce", 0, "Delay before translating a changed file (default: 200ms)")
	return cmd
}

func runWatch(cmd *cobra.Command, dir string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	w := watch.New(dir, watch.Options{
		Translate: cmdCtx.TranslateOptions(),
		Debounce:  cmdCtx.Cfg.Watch.Debounce,
		OnTranslate: func(src, dst string, res *transpile.Result, err error) {
			if err != nil {
				r.Warn("%s: %v", src, err)
				return
			}
			cmdCtx.warn(src, res)
			r.Success("%s -> %s", src, dst)
		},
	})

	r.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	return w.Run(ctx)
}
