package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/sim"
)

type ExportData struct {
	Preset     string             `json:"preset"`
	Integrator string             `json:"integrator"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Totals     sim.FrameStats     `json:"totals"`
	Metrics    map[string]float64 `json:"metrics"`
	Frames     []sim.FrameStats   `json:"frames"`
}

// ExportJSON writes a run summary and its frame counters to w.
func ExportJSON(w io.Writer, cfg *config.Config, result *sim.Result) error {
	data := ExportData{
		Preset:     cfg.Name,
		Integrator: cfg.Integrator,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Steps:      result.StepsTaken,
		Totals:     result.Totals(),
		Metrics:    result.Metrics,
		Frames:     result.Frames,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
