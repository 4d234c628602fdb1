package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/unitfield/internal/cli"
	"github.com/rshade/unitfield/internal/config"
)

// setupCLITest isolates the config directory and global state.
// It returns the config directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLocale, "")
	t.Setenv(config.EnvDB, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	// Each Execute reads the global config afresh, like a new process.
	config.ResetGlobalConfigForTest()
	return stdout.String(), stderr.String(), err
}

// decodeJSON unmarshals CLI JSON output into v.
func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

// dbPath returns a fresh database path under the test's config directory.
func dbPath(home string) string {
	return filepath.Join(home, "records", "test.db")
}
