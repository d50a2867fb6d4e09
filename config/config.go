// Package config loads the movement engine's timing tunables from an
// optional YAML file, falling back to the defaults documented in spec §4.5.
// The teacher has no equivalent file — its analogous constants (dwell
// formula, smoothing pauses) are inlined in sim/runner.go and driver/batch.go
// — but other_examples/inference-sim-inference-sim depends on
// gopkg.in/yaml.v3 for exactly this kind of scenario/engine config, which is
// the library adopted here.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Engine holds the movement engine's timing parameters (spec §4.5).
type Engine struct {
	// SmoothFactor is the minimum simulated time between consecutive
	// admissions into (or departures from) a segment.
	SmoothFactor float64 `yaml:"smooth_factor"`

	// ColdStartDelay is the extra traversal delay applied the first time a
	// stopped vehicle moves again.
	ColdStartDelay float64 `yaml:"cold_start_delay"`

	// MinimalTick is the token non-zero delay used to force serialization
	// of chained events. LoadEngine rejects a value that is not strictly
	// positive; it is not checked against SmoothFactor (the defaults pair a
	// 0.001 tick with no smoothing).
	MinimalTick float64 `yaml:"minimal_tick"`

	// Horizon is the default simulated-clock cutoff a scenario runs until,
	// used by cmd/simulate when no explicit horizon flag is given.
	Horizon float64 `yaml:"horizon"`

	// Seed seeds any randomized scenario generation (vehiclegen, sampled
	// routing).
	Seed int64 `yaml:"seed"`
}

// DefaultEngine returns the documented defaults: no smoothing, no cold
// start, a minimal tick of 0.001 simulated time units, and a generous
// horizon.
func DefaultEngine() Engine {
	return Engine{
		SmoothFactor:   0,
		ColdStartDelay: 0,
		MinimalTick:    0.001,
		Horizon:        1000,
		Seed:           1,
	}
}

// LoadEngine reads a YAML engine-tunables file at path, filling unset
// fields from DefaultEngine. An empty path returns the defaults unchanged.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "open engine config %q", path)
	}
	defer f.Close()

	// Decode into a struct of pointers so that omitted keys don't clobber
	// the defaults with YAML's zero values.
	var raw struct {
		SmoothFactor   *float64 `yaml:"smooth_factor"`
		ColdStartDelay *float64 `yaml:"cold_start_delay"`
		MinimalTick    *float64 `yaml:"minimal_tick"`
		Horizon        *float64 `yaml:"horizon"`
		Seed           *int64   `yaml:"seed"`
	}
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil {
		return cfg, errors.Wrapf(err, "decode engine config %q", path)
	}
	if raw.SmoothFactor != nil {
		cfg.SmoothFactor = *raw.SmoothFactor
	}
	if raw.ColdStartDelay != nil {
		cfg.ColdStartDelay = *raw.ColdStartDelay
	}
	if raw.MinimalTick != nil {
		cfg.MinimalTick = *raw.MinimalTick
	}
	if raw.Horizon != nil {
		cfg.Horizon = *raw.Horizon
	}
	if raw.Seed != nil {
		cfg.Seed = *raw.Seed
	}
	if cfg.MinimalTick <= 0 {
		return cfg, errors.New("minimal_tick must be strictly positive")
	}
	return cfg, nil
}
