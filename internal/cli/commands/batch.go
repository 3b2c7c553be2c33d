package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/eesnip/internal/cli/output"
	"github.com/leapstack-labs/eesnip/internal/watch"
	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	OutDir string
}

// BatchFileResult is the outcome of translating one file.
type BatchFileResult struct {
	Source   string `json:"source"`
	Output   string `json:"output,omitempty"`
	Warnings int    `json:"warnings"`
	Error    string `json:"error,omitempty"`
}

// BatchJSONOutput is the JSON output of the batch command.
type BatchJSONOutput struct {
	Files  []BatchFileResult `json:"files"`
	Failed int               `json:"failed"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Translate many snippets in parallel",
		Long: `Translate every given snippet file and write the result next to it as <name>.py,
or into --out-dir when set.

Files are translated concurrently, bounded by --jobs. A file that fails to
translate does not stop the others; the command fails at the end if any did.`,
		Example: `  # Translate all snippets in a directory
  eesnip batch scripts/*.js

  # Write into a separate directory with 4 workers
  eesnip batch scripts/*.js --out-dir py --jobs 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Directory for translated files")
	cmd.Flags().IntP("jobs", "j", 0, "Number of files translated concurrently (default: number of CPUs)")
	return cmd
}

func runBatch(cmd *cobra.Command, files []string, opts *BatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := checkCollisions(files, opts.OutDir); err != nil {
		return err
	}

	results := make([]BatchFileResult, len(files))
	tOpts := cmdCtx.TranslateOptions()
	var warnMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(cmdCtx.Cfg.Jobs)
	for i, src := range files {
		i, src := i, src // per-iteration copies (Go <1.22 loop semantics)
		g.Go(func() error {
			dst, res, err := translateTo(src, opts.OutDir, tOpts)
			results[i] = BatchFileResult{Source: src, Output: dst}
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Warnings = len(res.Warnings)
			warnMu.Lock()
			cmdCtx.warn(src, res)
			warnMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	cmdCtx.Logger.Debug("batch finished", "files", len(files), "failed", failed)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(BatchJSONOutput{Files: results, Failed: failed}); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderBatchTable(r, results).RenderMarkdown()
	default:
		renderBatchTable(r, results).Render()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to translate", failed, len(files))
	}
	return nil
}

// outputFor returns the file written for src: next to it, or in outDir.
func outputFor(src, outDir string) string {
	dst := watch.OutputPath(src)
	if outDir == "" {
		return dst
	}
	return filepath.Join(outDir, filepath.Base(dst))
}

// checkCollisions rejects inputs that would write the same output file.
func checkCollisions(files []string, outDir string) error {
	seen := make(map[string]string, len(files))
	for _, src := range files {
		dst := outputFor(src, outDir)
		key := filepath.Clean(dst)
		if abs, err := filepath.Abs(dst); err == nil {
			key = abs
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s and %s would both write %s", prev, src, dst)
		}
		seen[key] = src
	}
	return nil
}

// translateTo translates src and writes the result into outDir, or next to
// src when outDir is empty.
func translateTo(src, outDir string, opts transpile.Options) (string, *transpile.Result, error) {
	return watch.TranslateTo(src, outputFor(src, outDir), opts)
}

func renderBatchTable(r *output.Renderer, results []BatchFileResult) table.Writer {
	t := newTable(r.Writer(), "Source", "Output", "Warnings", "Status")
	for _, res := range results {
		status := "ok"
		if res.Error != "" {
			status = "error: " + strings.TrimSpace(res.Error)
		}
		t.AppendRow([]any{res.Source, res.Output, res.Warnings, status})
	}
	return t
}
