package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePresetsFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadPresets_MissingFileReturnsBalancedDefaults(t *testing.T) {
	mgr, retry, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, presetValues[PresetBalanced], mgr.For(StageIdea))
	assert.Equal(t, DefaultRetryConfig(), retry.IdeaGenerator)
}

func TestLoadPresets_AppliesPresetAndStageOverrides(t *testing.T) {
	path := writePresetsFile(t, `
preset: creative
temperature_overrides:
  evaluation: 0.3
`)

	mgr, _, err := LoadPresets(path)

	require.NoError(t, err)
	assert.Equal(t, presetValues[PresetCreative], mgr.For(StageIdea))
	assert.Equal(t, 0.3, mgr.For(StageEvaluation))
}

func TestLoadPresets_MergesRetryOverridesOntoDefaults(t *testing.T) {
	path := writePresetsFile(t, `
preset: balanced
retry_overrides:
  critic:
    max_retries: 5
    initial_delay: 2s
    jitter: false
`)

	_, retry, err := LoadPresets(path)

	require.NoError(t, err)
	assert.Equal(t, 5, retry.Critic.MaxRetries)
	assert.Equal(t, 2*time.Second, retry.Critic.InitialDelay)
	assert.Equal(t, DefaultRetryConfig(), retry.Advocate)
}

func TestLoadPresets_ExpandsEnvironmentVariablesBeforeParsing(t *testing.T) {
	t.Setenv("MADSPARK_PRESET", "wild")
	path := writePresetsFile(t, "preset: ${MADSPARK_PRESET}\n")

	mgr, _, err := LoadPresets(path)

	require.NoError(t, err)
	assert.Equal(t, presetValues[PresetWild], mgr.For(StageIdea))
}

func TestLoadPresets_InvalidYAMLReturnsError(t *testing.T) {
	path := writePresetsFile(t, "preset: [this is not a scalar\n")

	_, _, err := LoadPresets(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}
