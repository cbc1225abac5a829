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

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(context.Background(), append([]string{"albot"}, args...))
	return out.String(), err
}

func TestCLI_Hello(t *testing.T) {
	out, err := runApp(t, "hello", "Python")
	require.NoError(t, err)
	assert.Equal(t, "```python\nprint(\"Hello, World!\")\n```\n", out)
}

func TestCLI_HelloUnknown(t *testing.T) {
	_, err := runApp(t, "hello", "brainfuck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"brainfuck"`)

	_, err = runApp(t, "hello")
	require.Error(t, err)
}

func TestCLI_Langs(t *testing.T) {
	out, err := runApp(t, "langs")
	require.NoError(t, err)

	langs := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, langs, 23)
	assert.Equal(t, "arm", langs[0])
	assert.Equal(t, "swift", langs[len(langs)-1])
}

func TestCLI_RunWithoutTransport(t *testing.T) {
	t.Setenv("ALBOT_DISCORD_TOKEN", "")
	t.Setenv("ALBOT_TELEGRAM_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte("command_prefix = \"!\"\n"), 0o600))

	_, err := runApp(t, "--config", path, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transport configured")
}

func TestCLI_MissingConfigFile(t *testing.T) {
	_, err := runApp(t, "--config", filepath.Join(t.TempDir(), "missing.hcl"), "langs")
	require.Error(t, err)
}
