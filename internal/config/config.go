package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"liquidation-planner/internal/model"
)

var validate = validator.New()

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load impact parameters from a preset YAML (e.g. examples/presets/*.yaml).
	// If both ParamsFile and Params are provided, Params overrides ParamsFile field by field.
	ParamsFile string         `yaml:"params_file"`
	Problem    ProblemConfig  `yaml:"problem"`
	Params     ParamsConfig   `yaml:"params"`
	Solver     SolverConfig   `yaml:"solver"`
	Strategy   StrategyConfig `yaml:"strategy"`
	Log        LogConfig      `yaml:"log"`
}

type ProblemConfig struct {
	Periods   int `yaml:"periods" validate:"gte=1"`
	Inventory int `yaml:"inventory" validate:"gte=0"`
}

type ParamsConfig struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Alpha       float64 `yaml:"alpha" validate:"gte=1"`
	Beta        float64 `yaml:"beta" validate:"gte=1"`
	Gamma       float64 `yaml:"gamma" validate:"gt=0"`
	Eta         float64 `yaml:"eta" validate:"gt=0"`
	Psi         float64 `yaml:"psi" validate:"gt=0"`
	Sigma       float64 `yaml:"sigma" default:"0.3" validate:"gt=0"`
	Tau         float64 `yaml:"tau" default:"0.5" validate:"gt=0"`
}

type SolverConfig struct {
	Workers              int  `yaml:"workers" default:"1" validate:"gte=1"`
	LogSpace             bool `yaml:"log_space"`
	StrictOverflow       bool `yaml:"strict_overflow"`
	ReplayFromPeriodZero bool `yaml:"replay_from_period_zero"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name" default:"optimal" validate:"oneof=optimal twap"`
	Params map[string]any `yaml:"params"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but neither fills defaults nor validates it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If params_file is set, load it and merge in any explicit overrides from c.Params.
	if c.ParamsFile != "" {
		presetPath := c.ParamsFile
		if !filepath.IsAbs(presetPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), presetPath)
			if _, err := os.Stat(cand); err == nil {
				presetPath = cand
			}
		}
		loaded, err := LoadPreset(presetPath)
		if err != nil {
			return nil, err
		}
		c.Params = MergeParams(loaded, c.Params)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	// Semantic checks live on the model so the solver and the config agree.
	if _, err := model.NewProblem(c.Problem.Periods, c.Problem.Inventory, c.Params.ToModelParams()); err != nil {
		return fmt.Errorf("problem config invalid: %w", err)
	}
	return nil
}

func (c *Config) ToProblem() model.Problem {
	return model.Problem{
		Periods:   c.Problem.Periods,
		Inventory: c.Problem.Inventory,
		Params:    c.Params.ToModelParams().WithDefaults(),
	}
}

func (p ParamsConfig) ToModelParams() model.ImpactParams {
	return model.ImpactParams{
		Alpha: p.Alpha,
		Beta:  p.Beta,
		Gamma: p.Gamma,
		Eta:   p.Eta,
		Psi:   p.Psi,
		Sigma: p.Sigma,
		Tau:   p.Tau,
	}
}

type presetFileWrapper struct {
	Params ParamsConfig `yaml:"params"`
}

// LoadPreset reads a preset file of the form `params: {...}`.
func LoadPreset(path string) (ParamsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ParamsConfig{}, err
	}
	var w presetFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ParamsConfig{}, fmt.Errorf("preset %s: %w", path, err)
	}
	return w.Params, nil
}

// MergeParams overlays non-zero fields from override onto base.
// This is used when loading a preset file and then applying overrides from the request.
func MergeParams(base, override ParamsConfig) ParamsConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.Alpha != 0 {
		out.Alpha = override.Alpha
	}
	if override.Beta != 0 {
		out.Beta = override.Beta
	}
	if override.Gamma != 0 {
		out.Gamma = override.Gamma
	}
	if override.Eta != 0 {
		out.Eta = override.Eta
	}
	if override.Psi != 0 {
		out.Psi = override.Psi
	}
	if override.Sigma != 0 {
		out.Sigma = override.Sigma
	}
	if override.Tau != 0 {
		out.Tau = override.Tau
	}
	return out
}
