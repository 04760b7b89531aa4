package main_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBinary compiles the doclink binary into t.TempDir().
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "doclink"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join(projectRoot(t), "cmd", "doclink")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(out))
	return bin
}

// projectRoot walks up from this file's directory to the one holding go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, parent, dir, "could not find project root")
		dir = parent
	}
}

// importFixture builds the binary and imports the Kit manifest into a fresh
// repo directory.
func importFixture(t *testing.T) (bin, repoDir string) {
	t.Helper()
	bin = buildBinary(t)
	repoDir = t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repoDir, ".git"), 0o755))

	manifest := filepath.Join(projectRoot(t), "internal", "manifest", "testdata", "kit.yaml")
	cmd := exec.Command(bin, "import", manifest)
	cmd.Dir = repoDir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "import failed: %s", string(out))
	require.FileExists(t, filepath.Join(repoDir, ".doclink", "hierarchy.db"))
	return bin, repoDir
}

func run(t *testing.T, bin, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func runJSON(t *testing.T, bin, dir string, args ...string) map[string]any {
	t.Helper()
	stdout, _, err := run(t, bin, dir, args...)
	if err != nil && stdout == "" {
		t.Fatalf("%v failed with no output: %v", args, err)
	}
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result), "invalid JSON output: %s", stdout)
	return result
}

func TestImport_RefusesExistingDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin, repoDir := importFixture(t)
	manifest := filepath.Join(projectRoot(t), "internal", "manifest", "testdata", "kit.yaml")

	_, stderr, err := run(t, bin, repoDir, "import", manifest)
	require.Error(t, err)
	assert.Contains(t, stderr, "already exists")

	_, stderr, err = run(t, bin, repoDir, "import", "--force", manifest)
	require.NoError(t, err, stderr)
	assert.Contains(t, stderr, "Imported")
}

func TestResolve_JSON(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin, repoDir := importFixture(t)

	result := runJSON(t, bin, repoDir, "resolve", "Kit/Widget-struct/draw()")
	assert.Equal(t, "resolve", result["command"])
	node, ok := result["results"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "draw()", node["name"])
	assert.Equal(t, "method", node["kind"])
	assert.Equal(t, "/documentation/Kit/Widget-struct/draw()", node["path"])
}

func TestResolve_Diagnostic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin, repoDir := importFixture(t)

	result := runJSON(t, bin, repoDir, "resolve", "Kit/Widget-enum")
	assert.NotEmpty(t, result["error"])
	diag, ok := result["diagnostic"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "unknown_disambiguation", diag["kind"])
	candidates, ok := diag["candidates"].([]any)
	require.True(t, ok)
	assert.Len(t, candidates, 2)
}

func TestResolve_From(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin, repoDir := importFixture(t)

	result := runJSON(t, bin, repoDir, "resolve", "--from", "/documentation/Kit/Widget-struct", "draw()")
	node, ok := result["results"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/documentation/Kit/Widget-struct/draw()", node["path"])
}

func TestPaths_Text(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin, repoDir := importFixture(t)

	stdout, _, err := run(t, bin, repoDir, "--format", "text", "paths")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(strings.TrimSpace(stdout), "{"), "text format should not produce JSON")
	assert.Contains(t, stdout, "/documentation/KitDocs/GettingStarted\n")
	assert.Contains(t, stdout, "/tutorials/BuildingWidgets\n")
	assert.NotContains(t, stdout, "Internal\n")
}

func TestResolve_MissingDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	dir := t.TempDir()

	result := runJSON(t, bin, dir, "resolve", "Kit")
	assert.Contains(t, result["error"], "database not found")
}
