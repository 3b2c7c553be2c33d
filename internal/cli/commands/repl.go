package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

const (
	replPrompt         = "eesnip> "
	replContinuePrompt = "   ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Translate snippets interactively",
		Long: `Start an interactive session. Type or paste a snippet; an empty line
translates everything entered since the last translation.`,
		Example: `  eesnip repl
  eesnip repl --header`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".eesnip_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "eesnip REPL (dialect: %s)\n", cmdCtx.Dialect.Name)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	s := newREPLSession(cmdCtx, cmd.OutOrStdout(), cmd.ErrOrStderr())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			s.flush()
			break
		}
		if s.handle(line) {
			break
		}
		rl.SetPrompt(s.prompt())
	}
	return nil
}

// replSession is the line-driven state of one REPL.
type replSession struct {
	cmdCtx *CommandContext
	opts   transpile.Options
	out    io.Writer
	errOut io.Writer
	buf    strings.Builder
}

func newREPLSession(cmdCtx *CommandContext, out, errOut io.Writer) *replSession {
	return &replSession{cmdCtx: cmdCtx, opts: cmdCtx.TranslateOptions(), out: out, errOut: errOut}
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return replContinuePrompt
	}
	return replPrompt
}

func (s *replSession) reset() { s.buf.Reset() }

// handle processes one input line and reports whether the session should end.
func (s *replSession) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
		return s.dotCommand(trimmed)
	}
	if trimmed == "" {
		s.flush()
		return false
	}
	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	return false
}

// flush translates and clears the buffered snippet.
func (s *replSession) flush() {
	if s.buf.Len() == 0 {
		return
	}
	snippet := s.buf.String()
	s.buf.Reset()

	res, err := transpile.TranslateWithOptions(snippet, s.opts)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprint(s.out, res.Output)
	for _, w := range res.Warnings {
		_, _ = fmt.Fprintf(s.errOut, "warning: %s\n", w)
	}
	_, _ = fmt.Fprintln(s.out)
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.out)
	case ".header":
		s.opts.Header = !s.opts.Header
		state := "off"
		if s.opts.Header {
			state = "on"
		}
		_, _ = fmt.Fprintf(s.out, "header %s\n", state)
	case ".rules":
		t := newTable(s.out, "Group", "From", "To")
		for _, rule := range s.opts.Dialect.Rules() {
			t.AppendRow([]any{rule.Group, rule.From, rule.To})
		}
		t.Render()
	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .header         Toggle the import header
  .rules          List the dialect's rewrite rules
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - An empty line translates the snippet entered so far
  - Ctrl-C discards the current snippet
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".header"),
		readline.PcItem(".rules"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
