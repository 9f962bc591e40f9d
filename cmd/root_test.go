package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/breathe-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	resetFlags(cmd)

	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through package-level variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// withConfig writes body to a temporary config file and returns its path.
func withConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// noConfig returns a config path that does not exist, so defaults apply.
func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.toml")
}

func TestRootCmd_BareExecution(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	if rootCmd.Use != "breathe" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "breathe")
	}
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	if !strings.Contains(stdout, "breathe") {
		t.Error("help output should contain 'breathe'")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"config", "json", "debug", "log-file"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	for _, name := range []string{"start", "patterns", "plan", "config", "mcp"} {
		if _, _, err := rootCmd.Find([]string{name}); err != nil {
			t.Errorf("subcommand %q should be registered: %v", name, err)
		}
	}
}

func TestPatternsCmd_Text(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--config", noConfig(t), "patterns")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Patterns (4)")
	assert.Contains(t, stdout, "* grounding")
	assert.Contains(t, stdout, "4-7-8")
	assert.Contains(t, stdout, "4 cycles")
	assert.Contains(t, stdout, "5m0s")
}

func TestPatternsCmd_JSON(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--config", noConfig(t), "--json", "patterns")
	require.NoError(t, err)

	var got struct {
		Patterns []domain.Pattern `json:"patterns"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, "grounding", got.Patterns[0].ID)
	assert.Equal(t, 7, got.Patterns[3].Hold)
}

func TestPatternsCmd_YAML(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--config", noConfig(t), "patterns", "--yaml")
	require.NoError(t, err)

	var got map[string][]domain.Pattern
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	require.Len(t, got["patterns"], 4)
	assert.Equal(t, "focus", got["patterns"][2].ID)
	assert.Equal(t, 4, got["patterns"][2].HoldEmpty)
}

func TestPatternsCmd_JSONAndYAML(t *testing.T) {
	_, _, err := executeCmd(rootCmd, "--config", noConfig(t), "--json", "patterns", "--yaml")
	assert.Error(t, err)
}

func TestPatternsCmd_CustomPattern(t *testing.T) {
	path := withConfig(t, `
default_pattern = "box"

[[patterns]]
id = "box"
title = "Box"
inhale = 4
hold = 4
exhale = 4
hold_empty = 4
cycles = 3
`)

	stdout, _, err := executeCmd(rootCmd, "--config", path, "patterns")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Patterns (5)")
	assert.Contains(t, stdout, "* box")
	assert.Contains(t, stdout, "4-4-4-4")
	assert.Contains(t, stdout, "3 cycles")
}

func TestPatternsCmd_DegenerateCustomPattern(t *testing.T) {
	path := withConfig(t, `
[[patterns]]
id = "broken"
inhale = 0
exhale = 4
duration = "1m"
`)

	_, _, err := executeCmd(rootCmd, "--config", path, "patterns")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDegeneratePattern), "got %v", err)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	path := withConfig(t, `
[selection]
min_duration = "5m"
max_duration = "1m"
`)

	_, _, err := executeCmd(rootCmd, "--config", path, "patterns")
	assert.Error(t, err)
}

func TestRootCmd_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "breathe.log")

	_, _, err := executeCmd(rootCmd, "--config", noConfig(t), "--debug", "--log-file", logPath, "patterns")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG: loaded 4 patterns")
}

func TestConfigCmd(t *testing.T) {
	path := noConfig(t)

	t.Run("path", func(t *testing.T) {
		stdout, _, err := executeCmd(rootCmd, "--config", path, "config", "path")
		require.NoError(t, err)
		assert.Equal(t, path, strings.TrimSpace(stdout))
	})

	t.Run("show", func(t *testing.T) {
		stdout, _, err := executeCmd(rootCmd, "--config", path, "config", "show")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Default pattern:  grounding")
		assert.Contains(t, stdout, "1m0s to 10m0s, step 1m0s")
		assert.Contains(t, stdout, "Notifications:    on")
	})
}
