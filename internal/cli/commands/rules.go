package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/eesnip/internal/cli/output"
	"github.com/leapstack-labs/eesnip/pkg/dialect"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group  string // Filter by group
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [dialect]",
		Short: "List the rewrite rules of a dialect",
		Long: `List every rewrite rule of a target dialect: dropped declaration keywords,
call-site renames, literal and operator spellings, inlined callbacks, and the
constructs that are reported as unsupported.

Without an argument the configured dialect is listed. Renames from the
configuration file are included.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
  - JSON or YAML: Machine-readable format`,
		Example: `  # List the configured dialect's rules
  eesnip rules

  # Only call-site renames
  eesnip rules --group member

  # Output as YAML
  eesnip rules python --format yaml`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return dialect.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("group", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			dialect.GroupDeclaration, dialect.GroupMember, dialect.GroupLiteral,
			dialect.GroupOperator, dialect.GroupCallback, dialect.GroupUnsupported,
		}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Dialect string             `json:"dialect" yaml:"dialect"`
	Rules   []dialect.RuleInfo `json:"rules" yaml:"rules"`
	Count   int                `json:"count" yaml:"count"`
}

func listRules(cmd *cobra.Command, args []string, opts *RulesOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	d := cmdCtx.Dialect
	if len(args) == 1 && args[0] != d.Name {
		if d, err = dialect.Lookup(args[0]); err != nil {
			return err
		}
	}

	rules := filterRules(d.Rules(), opts.Group)
	result := RulesJSONOutput{Dialect: d.Name, Rules: rules, Count: len(rules)}

	if opts.Format == "yaml" {
		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode rules: %w", err)
		}
		r.Printf("%s", out)
		return nil
	}
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, d.Name, rules)
	default:
		return listRulesText(r, d.Name, rules)
	}
}

func filterRules(rules []dialect.RuleInfo, group string) []dialect.RuleInfo {
	if group == "" {
		return rules
	}
	var filtered []dialect.RuleInfo
	for _, rule := range rules {
		if rule.Group == group {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

// listRulesText outputs rules as a styled table.
func listRulesText(r *output.Renderer, name string, rules []dialect.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Rewrite Rules: %s (%d)", name, len(rules))))
	r.Println("")

	t := newTable(r.Writer(), "Group", "From", "To", "Description")
	for _, rule := range rules {
		t.AppendRow([]any{rule.Group, rule.From, rule.To, rule.Description})
	}
	t.Render()

	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("Groups: %s", groupSummary(rules))))
	r.Println("")
	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, name string, rules []dialect.RuleInfo) error {
	r.Printf("# Rewrite Rules: %s\n\n", name)

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = rule.Group
			r.Println("## " + capitalizeFirst(currentGroup))
			r.Println("")
		}
		if rule.To != "" {
			r.Printf("- `%s` -> `%s` (%s)\n", rule.From, rule.To, rule.Description)
		} else {
			r.Printf("- `%s` (%s)\n", rule.From, rule.Description)
		}
	}

	r.Println("")
	return nil
}

func groupSummary(rules []dialect.RuleInfo) string {
	counts := make(map[string]int)
	for _, rule := range rules {
		counts[rule.Group]++
	}
	groups := make([]string, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	s := ""
	for i, g := range groups {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s %d", g, counts[g])
	}
	return s
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
