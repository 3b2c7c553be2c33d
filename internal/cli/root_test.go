package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eesnip/internal/cli/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"version", "translate", "batch", "repl", "watch", "serve", "rules", "completion"}
	for _, name := range want {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"config", "dialect", "header", "output", "log-level", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_TranslateWithFlags(t *testing.T) {
	out, _, err := execute(t, "var a = true;\n", "translate", "--header")
	require.NoError(t, err)
	assert.Equal(t, "import ee\nee.Initialize()\n\na = True\n", out)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("header: true\nrenames:\n  - from: Map.addLayer\n    to: addLayer\n"), 0644))

	out, _, err := execute(t, "Map.addLayer(img);\n", "--config", cfgPath, "translate")
	require.NoError(t, err)
	assert.Equal(t, "import ee\nee.Initialize()\n\nMap.addLayer(img)\n", out)

	// Flags win over the file.
	out, _, err = execute(t, "Map.addLayer(img);\n", "--config", cfgPath, "--header=false", "translate")
	require.NoError(t, err)
	assert.Equal(t, "Map.addLayer(img)\n", out)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "", "--dialect", "cobol", "translate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootCmd_VerboseLogsToStderr(t *testing.T) {
	_, errOut, err := execute(t, "var a = 1;\n", "-v", "translate")
	require.NoError(t, err)
	assert.Contains(t, errOut, "translated snippet")
}

func TestRootCmd_Completion(t *testing.T) {
	out, _, err := execute(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "eesnip")
}
