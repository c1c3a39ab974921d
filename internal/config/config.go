// Package config implements the typed configuration surface §6 and §9
// prescribe in place of the source's ad-hoc dictionary.
//
// Grounded on the retrieval pack's own viper+yaml.v3 pairing
// (niceyeti-tabular's tabular/reinforcement/learning.go imports both
// directly): yaml.v3's Decoder.KnownFields(true) gives the "unknown
// fields are rejected" requirement a strict parse can't get from viper
// alone, and viper then overlays CCBS_-prefixed environment variables on
// top of the parsed file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/ccbs/internal/highlevel"
	"github.com/elektrokombinacija/ccbs/internal/hvalue"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/policy"
)

// Config is the typed record of every option in §6's EXTERNAL INTERFACES
// table.
type Config struct {
	AgentSize                 float64 `yaml:"agent_size"`
	Precision                 float64 `yaml:"precision"`
	TimeLimitSeconds          float64 `yaml:"timelimit"`
	HLHType                   int     `yaml:"hlh_type"`
	UsePrecalculatedHeuristic bool    `yaml:"use_precalculated_heuristic"`
	UseDisjointSplitting      bool    `yaml:"use_disjoint_splitting"`
	UseCardinal               bool    `yaml:"use_cardinal"`
	UseCorridorSymmetry       bool    `yaml:"use_corridor_symmetry"`
	UseTargetSymmetry         bool    `yaml:"use_target_symmetry"`
	StepLimit                 int     `yaml:"step_limit"`
}

// Default returns the safe-default configuration (§9: "safe defaults").
func Default() Config {
	return Config{
		AgentSize:                 0.3,
		Precision:                 1e-6,
		TimeLimitSeconds:          30,
		HLHType:                   0,
		UsePrecalculatedHeuristic: true,
	}
}

// Load reads a YAML configuration file at path over the defaults,
// rejecting any field the Config struct does not declare, then overlays
// CCBS_-prefixed environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %s has an unknown or malformed field: %w", path, err)
	}

	v := viper.New()
	v.SetEnvPrefix("CCBS")
	v.AutomaticEnv()
	applyEnvOverrides(v, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if v.IsSet("agent_size") {
		cfg.AgentSize = v.GetFloat64("agent_size")
	}
	if v.IsSet("precision") {
		cfg.Precision = v.GetFloat64("precision")
	}
	if v.IsSet("timelimit") {
		cfg.TimeLimitSeconds = v.GetFloat64("timelimit")
	}
	if v.IsSet("hlh_type") {
		cfg.HLHType = v.GetInt("hlh_type")
	}
	if v.IsSet("use_precalculated_heuristic") {
		cfg.UsePrecalculatedHeuristic = v.GetBool("use_precalculated_heuristic")
	}
	if v.IsSet("use_disjoint_splitting") {
		cfg.UseDisjointSplitting = v.GetBool("use_disjoint_splitting")
	}
	if v.IsSet("use_cardinal") {
		cfg.UseCardinal = v.GetBool("use_cardinal")
	}
	if v.IsSet("use_corridor_symmetry") {
		cfg.UseCorridorSymmetry = v.GetBool("use_corridor_symmetry")
	}
	if v.IsSet("use_target_symmetry") {
		cfg.UseTargetSymmetry = v.GetBool("use_target_symmetry")
	}
	if v.IsSet("step_limit") {
		cfg.StepLimit = v.GetInt("step_limit")
	}
}

// Validate rejects a radius outside (0,0.5] before any search runs (§7).
func (c Config) Validate() error {
	if c.AgentSize <= 0 || c.AgentSize > 0.5 {
		return fmt.Errorf("%w: agent_size %v outside (0,0.5]", instance.ErrInvalidInput, c.AgentSize)
	}
	return nil
}

// ToOptions builds the high-level search options this configuration
// describes. branchingPolicy may be nil, in which case Search falls back
// to the deterministic heuristic scorer (§4.I).
func (c Config) ToOptions(branchingPolicy policy.Scorer) highlevel.Options {
	return highlevel.Options{
		Radius:               c.AgentSize,
		Precision:            c.Precision,
		TimeLimit:            time.Duration(c.TimeLimitSeconds * float64(time.Second)),
		StepLimit:            c.StepLimit,
		HLHType:              hvalue.Type(c.HLHType),
		UseDisjointSplitting: c.UseDisjointSplitting,
		UseCardinal:          c.UseCardinal,
		UseCorridorSymmetry:  c.UseCorridorSymmetry,
		UseTargetSymmetry:    c.UseTargetSymmetry,
		Policy:               branchingPolicy,
	}
}
