// Package config loads the tunables a simulation run needs —
// NPCUpdateParams, DriveParameters, and world sizing — from a YAML
// file, the way the teacher's internal/reflex loads its rule files
// (gopkg.in/yaml.v3), with environment-variable overrides loaded via
// github.com/joho/godotenv + os.Getenv exactly as cmd/bud/main.go
// wires its own runtime configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vthunder/emberworld/internal/drives"
	"github.com/vthunder/emberworld/internal/episode"
	"github.com/vthunder/emberworld/internal/selection"
	"github.com/vthunder/emberworld/internal/types"
)

// Config is the full set of tunables a simulation run needs.
type Config struct {
	WorldSize        float32         `yaml:"world_size"`
	PerceptionRadius float32         `yaml:"perception_radius"`
	TicksPerGen      uint32          `yaml:"ticks_per_generation"`
	Drive            DriveConfig     `yaml:"drive"`
	Selection        SelectionConfig `yaml:"selection"`
	Episode          EpisodeConfig   `yaml:"episode"`
}

// DriveConfig mirrors drives.Parameters in YAML-friendly form.
type DriveConfig struct {
	BaseGrowthRate  float32            `yaml:"base_growth_rate"`
	IntensityFactor float32            `yaml:"intensity_factor"`
	GrowthModifier  map[string]float32 `yaml:"growth_modifier"`
}

// SelectionConfig mirrors selection.Criteria in YAML-friendly form.
type SelectionConfig struct {
	FamiliarityPreference float32 `yaml:"familiarity_preference"`
	SocialPreference      float32 `yaml:"social_preference"`
	Randomness            float32 `yaml:"randomness"`
}

// EpisodeConfig mirrors episode.Tuning in YAML-friendly form.
type EpisodeConfig struct {
	SignificanceThreshold float32 `yaml:"significance_threshold"`
	MaxSequenceGap        uint64  `yaml:"max_sequence_gap"`
	MinSequenceLength     int     `yaml:"min_sequence_length"`
}

// Default returns the baseline configuration used when no YAML file
// is supplied.
func Default() Config {
	return Config{
		WorldSize:        1000,
		PerceptionRadius: 15,
		TicksPerGen:      1000,
		Drive: DriveConfig{
			BaseGrowthRate:  0.2,
			IntensityFactor: 0.5,
		},
		Selection: SelectionConfig{
			FamiliarityPreference: 0.3,
			SocialPreference:      0.3,
			Randomness:            0.1,
		},
		Episode: EpisodeConfig{
			SignificanceThreshold: 0.3,
			MaxSequenceGap:        5,
			MinSequenceLength:     2,
		},
	}
}

// Load reads a YAML config from path, falling back to Default if path
// is empty. It then applies any EMBERWORLD_-prefixed environment
// variable overrides, loading a .env file first via godotenv if one
// is present (a missing .env is not an error).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envFloat("EMBERWORLD_WORLD_SIZE"); ok {
		cfg.WorldSize = v
	}
	if v, ok := envFloat("EMBERWORLD_PERCEPTION_RADIUS"); ok {
		cfg.PerceptionRadius = v
	}
	if v, ok := envFloat("EMBERWORLD_RANDOMNESS"); ok {
		cfg.Selection.Randomness = v
	}
}

func envFloat(name string) (float32, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

// DriveParameters converts the YAML-friendly config into drives.Parameters.
func (c Config) DriveParameters() drives.Parameters {
	modifier := make(map[types.DriveKind]float32, len(c.Drive.GrowthModifier))
	for k, v := range c.Drive.GrowthModifier {
		modifier[types.DriveKind(k)] = v
	}
	return drives.Parameters{
		BaseGrowthRate:  c.Drive.BaseGrowthRate,
		IntensityFactor: c.Drive.IntensityFactor,
		GrowthModifier:  modifier,
	}
}

// SelectionCriteria converts the YAML-friendly config into selection.Criteria.
func (c Config) SelectionCriteria() selection.Criteria {
	return selection.Criteria{
		FamiliarityPreference: c.Selection.FamiliarityPreference,
		SocialPreference:      c.Selection.SocialPreference,
		Randomness:            c.Selection.Randomness,
	}
}

// EpisodeTuning converts the YAML-friendly config into episode.Tuning.
func (c Config) EpisodeTuning() episode.Tuning {
	return episode.Tuning{
		SignificanceThreshold: c.Episode.SignificanceThreshold,
		MaxSequenceGap:        c.Episode.MaxSequenceGap,
		MinSequenceLength:     c.Episode.MinSequenceLength,
	}
}
