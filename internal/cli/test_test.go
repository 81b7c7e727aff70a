package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScenarios copies the harness scenarios and golden files into a temp dir.
func copyScenarios(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(harnessScenarios, name+".yaml"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), data, 0644))

		golden, err := os.ReadFile(filepath.Join(harnessScenarios, "..", "golden", name+".golden"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", name+".golden"), golden, 0644))
	}
	return dir
}

func TestTestCommand_AllPass(t *testing.T) {
	dir := copyScenarios(t, "level_up", "game_over", "reset_during_showing")

	out, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ level_up")
	assert.Contains(t, out, "✓ game_over")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := copyScenarios(t, "level_up")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "level_up.golden"), []byte("@0 > start\n"), 0644))

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ level_up")
	assert.Contains(t, out, "timeline does not match golden file")
}

func TestTestCommand_Update(t *testing.T) {
	dir := copyScenarios(t, "level_up")
	goldenPath := filepath.Join(dir, "golden", "level_up.golden")
	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	require.NoError(t, os.Remove(goldenPath))

	_, _, err = execute(t, "", "test", "--update", dir)
	require.NoError(t, err)

	got, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestTestCommand_Filter(t *testing.T) {
	dir := copyScenarios(t, "level_up", "game_over")

	out, _, err := execute(t, "", "test", "--filter", "game*", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "level_up")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_LoadErrorCountsAsFailure(t *testing.T) {
	dir := copyScenarios(t, "game_over")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := copyScenarios(t, "game_over")

	out, _, err := execute(t, "", "test", "--format", "json", dir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "game_over", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_EmptyDir(t *testing.T) {
	out, _, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, _, err := execute(t, "", "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}
