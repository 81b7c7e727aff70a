package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func TestSimulate_PrintsTimeline(t *testing.T) {
	out, _, err := execute(t, "", "simulate", filepath.Join(harnessScenarios, "level_up.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario: level_up")
	assert.Contains(t, out, "@1000 pulse_on red index=0\n")
	assert.Contains(t, out, "@3800 > submit blue\n")
	assert.Contains(t, out, "Final: Showing, score 2, high score 0, sequence 3")
	assert.Contains(t, out, "✓ PASS")
}

func TestSimulate_JSON(t *testing.T) {
	out, _, err := execute(t, "", "simulate", "--format", "json", filepath.Join(harnessScenarios, "game_over.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name   string `json:"name"`
			Result struct {
				Pass  bool `json:"pass"`
				Final struct {
					Phase     string `json:"phase"`
					HighScore int    `json:"high_score"`
				} `json:"final"`
				Summary struct {
					Mismatches int `json:"mismatches"`
				} `json:"summary"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "game_over", resp.Data.Name)
	assert.True(t, resp.Data.Result.Pass)
	assert.Equal(t, "Idle", resp.Data.Result.Final.Phase)
	assert.Equal(t, 1, resp.Data.Result.Final.HighScore)
	assert.Equal(t, 1, resp.Data.Result.Summary.Mismatches)
}

func TestSimulate_FailingScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fails.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: fails
description: expects the wrong phase
generator: [red]
steps:
  - start
  - expect: {phase: GameOver}
`), 0644))

	out, _, err := execute(t, "", "simulate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ FAIL")
	assert.Contains(t, out, "expect phase: want GameOver, got Showing")
}

func TestSimulate_MissingFile(t *testing.T) {
	out, _, err := execute(t, "", "simulate", "/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E_NOT_FOUND]")
}

func TestSimulate_InvalidScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\n"), 0644))

	_, _, err := execute(t, "", "simulate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestSimulate_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "simulate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
