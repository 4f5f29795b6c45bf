package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := execute(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "spirit.db")
	script := filepath.Join(dir, "square.sp")
	require.NoError(t, os.WriteFile(script, []byte(`
# squares
def sq = fn x -> @ @ mul x x
@ sq 12
`), 0o644))

	stdout, _, err := runCLI(t, "run", "-p", "--store-driver", "sqlite3", "--store-dsn", dsn, script)
	require.NoError(t, err)
	assert.Equal(t, "Nil\n144\n", stdout)

	stdout, _, err = runCLI(t, "defs", "--store-driver", "sqlite3", "--store-dsn", dsn)
	require.NoError(t, err)
	assert.Equal(t, "def sq = fn x -> @ @ mul x x\n", stdout)

	stdout, _, err = runCLI(t, "run", "-e", "-p", "--store-driver", "sqlite3", "--store-dsn", dsn, "@ sq 3", "@ print 4")
	require.NoError(t, err)
	assert.Equal(t, "9\n4\nNil\n", stdout)

	stdout, stderr, err := runCLI(t, "run", "-e", "-p", "let x = 1 in")
	assert.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "let x = 1 in:1:13: unexpected end of input")
	assert.Contains(t, stderr, "^ unexpected here")
}

func TestReplCommandReadsPipedInput(t *testing.T) {
	rootCmd.SetIn(strings.NewReader("@ @ add 2 2\nlet x = 1 in\n"))
	defer rootCmd.SetIn(nil)

	stdout, _, err := runCLI(t, "repl", "--store-driver", "")
	require.NoError(t, err)
	assert.Equal(t, ">> 4\n>> ERROR : [  1:13] unexpected end of input\n>> ", stdout)
}

func TestFailedCommandReleasesStoreAndLog(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "run", "-e",
		"--store-driver", "sqlite3", "--store-dsn", filepath.Join(dir, "spirit.db"),
		"--log-level", "info", "--log-file", filepath.Join(dir, "spirit.log"),
		"@ 1 2")
	assert.Error(t, err)
	assert.Nil(t, app.store)
	assert.Nil(t, app.logCloser)

	_, _, err = runCLI(t, "run", "-e", "--store-driver", "", "--log-file", "", "1")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "--store-driver", "")
	require.NoError(t, err)
	assert.Equal(t, "spirit version 'vdev' unknown unknown\n", stdout)
}

func TestHistoryNeedsStore(t *testing.T) {
	_, _, err := runCLI(t, "history", "--store-driver", "")
	assert.ErrorIs(t, err, errNoStore)
}
