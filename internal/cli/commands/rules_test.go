package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/eesnip/internal/cli/testutil"
	"github.com/leapstack-labs/eesnip/pkg/dialect"
)

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [dialect]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	for _, flag := range []string{"group", "format"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRules_Markdown(t *testing.T) {
	out, _, err := runCommand(t, NewRulesCommand(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "# Rewrite Rules: python")
	assert.Contains(t, out, "## Member")
	assert.Contains(t, out, "`Map.addLayer(...)` -> `Map.add_ee_layer(...)`")
	assert.Contains(t, out, "## Unsupported")
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
}

func TestRules_JSONGroupFilter(t *testing.T) {
	out, _, err := runCommand(t, NewRulesCommand(), "", "--format", "json", "--group", dialect.GroupLiteral)
	require.NoError(t, err)

	var got RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "python", got.Dialect)
	assert.Equal(t, 4, got.Count)
	for _, rule := range got.Rules {
		assert.Equal(t, dialect.GroupLiteral, rule.Group)
	}
}

func TestRules_YAML(t *testing.T) {
	out, _, err := runCommand(t, NewRulesCommand(), "", "python", "-f", "yaml", "-g", dialect.GroupOperator)
	require.NoError(t, err)

	var got RulesJSONOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, len(got.Rules), got.Count)
	assert.Contains(t, got.Rules, dialect.RuleInfo{
		Group: dialect.GroupOperator, From: "&&", To: "and", Description: "operator spelling",
	})
}

func TestRules_Text(t *testing.T) {
	out, _, err := runCommand(t, NewRulesCommand(), "", "--format", "text", "-g", dialect.GroupDeclaration)
	require.NoError(t, err)
	assert.Contains(t, out, "Rewrite Rules: python (3)")
	assert.Contains(t, out, "var x = e")
	assert.Contains(t, out, "declaration 3")
	testutil.AssertNoANSI(t, out)
}

func TestRules_UnknownDialect(t *testing.T) {
	_, _, err := runCommand(t, NewRulesCommand(), "", "cobol")
	require.Error(t, err)
}
