package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/oscilab/internal/oscillator"
)

var csvHeader = []string{"time", "x", "v", "a", "ec", "ep", "et", "theta"}

// WriteCSV writes one row per sample with six decimal places.
func WriteCSV(w io.Writer, samples []oscillator.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			format(s.Time),
			format(s.Position),
			format(s.Velocity),
			format(s.Acceleration),
			format(s.Kinetic),
			format(s.Potential),
			format(s.Total),
			format(s.Angle),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	RunMetadata
	Trace []oscillator.Snapshot `json:"trace"`
}

// WriteJSON writes the run metadata together with its full trace.
func WriteJSON(w io.Writer, meta RunMetadata, samples []oscillator.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Trace: samples})
}
