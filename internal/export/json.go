package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/diffdrive/internal/sim"
	"github.com/san-kum/diffdrive/internal/storage"
)

type ExportData struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Program    string             `json:"program"`
	Radius     float64            `json:"radius"`
	Separation float64            `json:"separation"`
	Height     float64            `json:"height"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][3]float64       `json:"states"`
	Controls   [][2]float64       `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewExportData flattens a stored run into rows of (x, y, theta) and
// (phi_l, phi_r).
func NewExportData(meta *storage.RunMetadata, states []sim.State, controls []sim.Control, times []float64) ExportData {
	data := ExportData{
		ID:         meta.ID,
		Name:       meta.Name,
		Program:    meta.Program,
		Radius:     meta.Radius,
		Separation: meta.Separation,
		Height:     meta.Height,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      meta.Steps,
		Times:      times,
		States:     make([][3]float64, len(states)),
		Controls:   make([][2]float64, len(controls)),
		Metrics:    meta.Metrics,
	}

	for i, s := range states {
		data.States[i] = [3]float64{s.X, s.Y, s.Theta}
	}
	for i, c := range controls {
		data.Controls[i] = [2]float64{c.Left, c.Right}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
