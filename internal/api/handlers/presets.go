package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"liquidation-planner/internal/api/models"
	"liquidation-planner/internal/config"
)

// PresetHandler serves the parameter presets found in a directory of YAML files
type PresetHandler struct {
	dir string
	log zerolog.Logger
}

// NewPresetHandler creates a preset handler reading from dir
func NewPresetHandler(dir string, log zerolog.Logger) *PresetHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Debug().Str("dir", dir).Msg("using preset directory")
	return &PresetHandler{dir: dir, log: log}
}

func (h *PresetHandler) Dir() string { return h.dir }

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []models.PresetInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.log.Warn().Err(err).Str("dir", h.dir).Msg("failed to read preset directory")
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		p, err := h.Load(id)
		if err != nil {
			h.log.Warn().Err(err).Str("preset", id).Msg("skipping invalid preset")
			continue
		}
		name := p.Name
		if name == "" {
			name = id
		}
		presets = append(presets, models.PresetInfo{
			ID:          id,
			Name:        name,
			Description: p.Description,
			File:        filepath.Join(h.dir, entry.Name()),
			Params:      fromParamsConfig(p),
		})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// Load reads one preset by ID (the file name without .yaml).
func (h *PresetHandler) Load(id string) (config.ParamsConfig, error) {
	if id == "" || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return config.ParamsConfig{}, fmt.Errorf("%w: %q", errPresetNotFound, id)
	}
	path := filepath.Join(h.dir, id+".yaml")
	if _, err := os.Stat(path); err != nil {
		return config.ParamsConfig{}, fmt.Errorf("%w: %q", errPresetNotFound, id)
	}
	return config.LoadPreset(path)
}

func fromParamsConfig(p config.ParamsConfig) models.ImpactParams {
	return models.ImpactParams{
		Alpha: p.Alpha,
		Beta:  p.Beta,
		Gamma: p.Gamma,
		Eta:   p.Eta,
		Psi:   p.Psi,
		Sigma: p.Sigma,
		Tau:   p.Tau,
	}
}

func toParamsConfig(p models.ImpactParams) config.ParamsConfig {
	return config.ParamsConfig{
		Alpha: p.Alpha,
		Beta:  p.Beta,
		Gamma: p.Gamma,
		Eta:   p.Eta,
		Psi:   p.Psi,
		Sigma: p.Sigma,
		Tau:   p.Tau,
	}
}
