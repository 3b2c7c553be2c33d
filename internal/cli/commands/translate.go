package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/eesnip/internal/cli/output"
	"github.com/leapstack-labs/eesnip/internal/watch"
	"github.com/leapstack-labs/eesnip/pkg/rewrite"
	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

// TranslateOptions holds options for the translate command.
type TranslateOptions struct {
	Write bool // write <file>.py instead of printing
}

// TranslateJSONOutput is the JSON output of the translate command.
type TranslateJSONOutput struct {
	File     string            `json:"file"`
	Output   string            `json:"output"`
	Warnings []rewrite.Warning `json:"warnings"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	opts := &TranslateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a code-editor snippet to Python",
		Long: `Translate an Earth Engine code-editor snippet into the Python client dialect.

The snippet is read from the file argument, or from stdin when it is omitted.
Statements that cannot be translated are kept as written between marker
comments and reported as warnings on stderr.`,
		Example: `  # Print the translation
  eesnip translate ndvi.js

  # Write ndvi.py next to the snippet
  eesnip translate ndvi.js --write

  # Translate from stdin with the import header
  cat ndvi.js | eesnip translate --header`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the translation to <file>.py")
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, opts *TranslateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if opts.Write {
		if len(args) == 0 {
			return fmt.Errorf("--write needs a file argument")
		}
		dst, res, err := watch.TranslateFile(args[0], cmdCtx.TranslateOptions())
		if err != nil {
			return fmt.Errorf("translate failed: %w", err)
		}
		cmdCtx.warn(args[0], res)
		r.Success("wrote %s", dst)
		return nil
	}

	name := "<stdin>"
	var src []byte
	if len(args) == 1 {
		name = args[0]
		src, err = os.ReadFile(name)
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	res, err := transpile.TranslateWithOptions(string(src), cmdCtx.TranslateOptions())
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	switch {
	case r.EffectiveMode() == output.ModeJSON:
		return r.JSON(TranslateJSONOutput{File: name, Output: res.Output, Warnings: res.Warnings})
	case output.Mode(cmdCtx.Cfg.Output) == output.ModeMarkdown:
		// Only an explicit markdown request fences the code; auto stays pipe-friendly.
		r.Println("```python")
		r.Printf("%s", res.Output)
		r.Println("```")
	default:
		r.Printf("%s", res.Output)
	}
	cmdCtx.warn(name, res)
	return nil
}
