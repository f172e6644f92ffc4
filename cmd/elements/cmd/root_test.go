package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
name: counter demo
steps:
  - mount: {id: c, tag: x-counter, attrs: {count: "1"}}
  - group:
      - set: {id: c, property: count, value: 2}
      - set: {id: c, property: count, value: 5}
  - set: {id: c, property: count, value: 5}
  - set: {id: c, property: missing, value: 1}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPlay(t *testing.T) {
	path := writeScenario(t, scenarioYAML)

	out, err := run(t, "play", path)
	require.NoError(t, err)
	require.Contains(t, out, "# counter demo")
	require.Contains(t, out, "== step 1: mount x-counter as c (renders: 1)")
	require.Contains(t, out, "== step 2: group of 2 (renders: 1)")
	require.Contains(t, out, "<output>5</output>")
	require.Contains(t, out, "== step 3: set c.count = 5 (renders: 0)")
	require.Contains(t, out, `! scenario.set [config] tag=x-counter`)
}

func TestPlayDiff(t *testing.T) {
	path := writeScenario(t, scenarioYAML)

	out, err := run(t, "play", "--diff", path)
	require.NoError(t, err)
	require.Contains(t, out, "+<x-counter")
	require.Contains(t, out, "-<x-counter")
	require.Contains(t, out, "(no change)")
}

func TestPlayErrors(t *testing.T) {
	_, err := run(t, "play")
	require.Error(t, err, "scenario argument is required")

	_, err = run(t, "play", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = run(t, "play", writeScenario(t, "steps:\n  - detach: ghost\n"))
	require.Error(t, err)
}

func TestPlayRequiresNewerVersion(t *testing.T) {
	path := writeScenario(t, "requires: v2.0.0\nsteps: []\n")
	cfg := filepath.Join(t.TempDir(), "elements.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("version: v1.0.0\n"), 0o644))

	_, err := run(t, "--config", cfg, "play", path)
	require.ErrorContains(t, err, "requires v2.0.0")
}

func TestTypes(t *testing.T) {
	out, err := run(t, "types")
	require.NoError(t, err)
	require.Contains(t, out, "TAG")
	require.Contains(t, out, "x-counter")
	require.Contains(t, out, "*demo.Counter")
	require.Contains(t, out, "user-name, tags")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "elements version dev\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "types")
	require.ErrorContains(t, err, "log.level")
}
