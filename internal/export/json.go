package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/poelab/internal/runtime"
)

type traceJSON struct {
	Scenario string                         `json:"scenario"`
	Dt       float64                        `json:"dt"`
	Steps    int                            `json:"steps"`
	Times    []float64                      `json:"times"`
	Bodies   map[string][]runtime.BodyState `json:"bodies"`
	Metrics  map[string]float64             `json:"metrics,omitempty"`
}

// WriteJSON writes the trace grouped by body.
func WriteJSON(w io.Writer, t *Trace) error {
	data := traceJSON{
		Scenario: t.Scenario,
		Dt:       t.Dt,
		Steps:    t.Len(),
		Times:    t.Times,
		Bodies:   make(map[string][]runtime.BodyState),
		Metrics:  t.Metrics,
	}
	if data.Times == nil {
		data.Times = []float64{}
	}
	for _, frame := range t.Frames {
		for id, st := range frame {
			data.Bodies[id] = append(data.Bodies[id], st)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteFile writes the trace to path with write, creating or truncating it.
func WriteFile(path string, t *Trace, write func(io.Writer, *Trace) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file, t); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
