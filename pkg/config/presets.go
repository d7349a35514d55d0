package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// PresetsYAMLConfig is the YAML shape of a presets file: a base
// temperature preset, optional per-stage temperature overrides, and
// optional per-agent RetryConfig overrides. The loading and
// defaults-merging shape (read file, expand env vars, unmarshal,
// mergo.Merge onto built-in defaults) mirrors loader.go's loadYAML/load
// pattern, scoped to just the presets a single agent pipeline run needs.
type PresetsYAMLConfig struct {
	Preset      Preset                `yaml:"preset"`
	Temperature map[StageName]float64 `yaml:"temperature_overrides"`
	Retry       AgentRetryConfig      `yaml:"retry_overrides"`
}

// LoadPresets reads a YAML presets file from path, expands environment
// variables the same way loadYAML does, and returns a TemperatureManager
// plus an AgentRetryConfig with any YAML overrides merged onto
// DefaultRetryConfig via mergo. A missing file is not an error: it
// returns the balanced preset and all-default retry config, since
// presets are optional tuning knobs, not required configuration.
func LoadPresets(path string) (*TemperatureManager, AgentRetryConfig, error) {
	defaultRetry := AgentRetryConfig{
		IdeaGenerator: DefaultRetryConfig(),
		Critic:        DefaultRetryConfig(),
		Advocate:      DefaultRetryConfig(),
		Skeptic:       DefaultRetryConfig(),
		Improver:      DefaultRetryConfig(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTemperatureManager(PresetBalanced), defaultRetry, nil
		}
		return nil, AgentRetryConfig{}, NewLoadError(path, err)
	}

	data = ExpandEnv(data)

	var yamlCfg PresetsYAMLConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, AgentRetryConfig{}, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	preset := yamlCfg.Preset
	if preset == "" {
		preset = PresetBalanced
	}
	mgr := NewTemperatureManager(preset)
	for stage, temp := range yamlCfg.Temperature {
		mgr.WithOverride(stage, temp)
	}

	retry := defaultRetry
	if err := mergo.Merge(&retry, yamlCfg.Retry, mergo.WithOverride); err != nil {
		return nil, AgentRetryConfig{}, fmt.Errorf("failed to merge retry overrides: %w", err)
	}

	return mgr, retry, nil
}
