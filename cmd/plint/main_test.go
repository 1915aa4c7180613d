package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"plint/internal/config"
	"plint/internal/diagfmt"
)

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, cleanup := newRootCmd()
	defer cleanup()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	return dir
}

func TestCheckJSON(t *testing.T) {
	dir := project(t, map[string]string{
		config.FileName: "[output]\nformat = \"json\"\n[cache]\nenabled = false\n",
		"ok.php":        "<?php\necho strlen(\"abc\");\n",
		"bad.php":       "<?php\nundefined_function();\n",
	})
	out, err := run(t, "check", "--config", filepath.Join(dir, config.FileName), "--ui", "off", dir)
	require.ErrorIs(t, err, errChecksFailed)

	var doc diagfmt.Output
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	require.Len(t, doc.Files, 2)
	require.Equal(t, 1, doc.Errors)
}

func TestCheckCleanRunSucceeds(t *testing.T) {
	dir := project(t, map[string]string{
		config.FileName: "",
		"main.php":      "<?php\n/*. int .*/ function twice(/*. int .*/ $n) { return 2 * $n; }\necho twice(2);\n",
	})
	out, err := run(t, "check", "--config", filepath.Join(dir, config.FileName), "--no-cache", "--ui", "off",
		"--format", "short", filepath.Join(dir, "main.php"))
	require.NoError(t, err, out)
}

func TestCheckRejectsBadFlag(t *testing.T) {
	dir := project(t, map[string]string{config.FileName: "", "main.php": "<?php\n"})
	_, err := run(t, "check", "--config", filepath.Join(dir, config.FileName), "--format", "xml", dir)
	require.ErrorContains(t, err, "[output].format")
}

func TestApplyFlags(t *testing.T) {
	root, cleanup := newRootCmd()
	defer cleanup()
	check, _, err := root.Find([]string{"check"})
	require.NoError(t, err)
	require.NoError(t, check.ParseFlags([]string{
		"--modules", "core,spl",
		"--warnings-as-errors",
		"--exclude", "vendor/**",
		"--no-cache",
		"--tab-width", "4",
	}))

	cfg := config.Default()
	cfg.Files.Exclude = []string{"build/**"}
	require.NoError(t, applyFlags(check, &cfg))
	require.Equal(t, []string{"core", "spl"}, cfg.Analysis.Modules)
	require.True(t, cfg.Analysis.WarningsAsErrors)
	require.Equal(t, []string{"build/**", "vendor/**"}, cfg.Files.Exclude)
	require.False(t, cfg.Cache.Enabled)
	require.Equal(t, 4, cfg.Output.TabWidth)
	// untouched flags keep the file's value
	require.Equal(t, "pretty", cfg.Output.Format)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := readUIMode("sometimes")
	require.Error(t, err)
}

func TestWantsProgress(t *testing.T) {
	require.True(t, wantsProgress(uiModeOn, 3, false))
	require.False(t, wantsProgress(uiModeOn, 1, false))
	require.False(t, wantsProgress(uiModeOn, 3, true))
	require.False(t, wantsProgress(uiModeOff, 3, false))
	t.Setenv("CI", "true")
	require.False(t, wantsProgress(uiModeAuto, 3, false))
}

func TestCleanRemovesResults(t *testing.T) {
	dir := project(t, map[string]string{
		config.FileName:         "",
		"cache/results/ab/x.mp": "stale",
	})
	cfg := filepath.Join(dir, config.FileName)
	cacheDir := filepath.Join(dir, "cache")

	out, err := run(t, "clean", "--config", cfg, "--cache-dir", cacheDir)
	require.NoError(t, err)
	require.Contains(t, out, "removed")
	require.NoDirExists(t, filepath.Join(cacheDir, "results"))

	out, err = run(t, "clean", "--config", cfg, "--cache-dir", cacheDir)
	require.NoError(t, err)
	require.Equal(t, "cache is empty\n", out)
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, "plint", payload.Tool)
	require.Contains(t, payload.Modules, "core")
}
