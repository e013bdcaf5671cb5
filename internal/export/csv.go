package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"time", "id", "x", "y", "vx", "vy", "speed", "angle", "effective_friction"}

// WriteCSV writes one row per body per tick.
func WriteCSV(w io.Writer, t *Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, frame := range t.Frames {
		at := formatFloat(t.Times[i])
		for _, id := range frame.IDs() {
			st := frame[id]
			row := []string{
				at,
				id,
				formatFloat(st.Position.X),
				formatFloat(st.Position.Y),
				formatFloat(st.Velocity.X),
				formatFloat(st.Velocity.Y),
				formatFloat(st.Speed),
				formatFloat(st.Angle),
				formatFloat(st.EffectiveFriction),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
