// Package series keeps the bounded rolling time series drawn by the charts.
package series

import "github.com/san-kum/oscilab/internal/oscillator"

// DefaultCapacity is the number of samples a chart keeps on screen.
const DefaultCapacity = 100

// Column selects one quantity of the series.
type Column int

const (
	Time Column = iota
	Position
	Velocity
	Acceleration
	Kinetic
	Potential
	Total
)

var columnNames = map[Column]string{
	Time:         "time",
	Position:     "position",
	Velocity:     "velocity",
	Acceleration: "acceleration",
	Kinetic:      "kinetic",
	Potential:    "potential",
	Total:        "total",
}

func (c Column) String() string { return columnNames[c] }

// Columns lists every column in table order.
func Columns() []Column {
	return []Column{Time, Position, Velocity, Acceleration, Kinetic, Potential, Total}
}

// Rolling is a fixed-capacity FIFO of snapshots. Once full, each append
// evicts the oldest sample.
type Rolling struct {
	buf   []oscillator.Snapshot
	start int
	size  int
}

func New(capacity int) *Rolling {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Rolling{buf: make([]oscillator.Snapshot, capacity)}
}

func (r *Rolling) Len() int { return r.size }
func (r *Rolling) Cap() int { return len(r.buf) }

func (r *Rolling) Append(s oscillator.Snapshot) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = s
		r.size++
		return
	}
	r.buf[r.start] = s
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Rolling) Clear() {
	r.start, r.size = 0, 0
}

// At returns the i-th oldest sample.
func (r *Rolling) At(i int) oscillator.Snapshot {
	return r.buf[(r.start+i)%len(r.buf)]
}

// Last returns the newest sample.
func (r *Rolling) Last() (oscillator.Snapshot, bool) {
	if r.size == 0 {
		return oscillator.Snapshot{}, false
	}
	return r.At(r.size - 1), true
}

// Samples copies the series oldest first.
func (r *Rolling) Samples() []oscillator.Snapshot {
	out := make([]oscillator.Snapshot, r.size)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Column copies one quantity oldest first.
func (r *Rolling) Column(c Column) []float64 {
	out := make([]float64, r.size)
	for i := range out {
		out[i] = Value(r.At(i), c)
	}
	return out
}

// Value picks column c out of a snapshot.
func Value(s oscillator.Snapshot, c Column) float64 {
	switch c {
	case Time:
		return s.Time
	case Position:
		return s.Position
	case Velocity:
		return s.Velocity
	case Acceleration:
		return s.Acceleration
	case Kinetic:
		return s.Kinetic
	case Potential:
		return s.Potential
	case Total:
		return s.Total
	}
	return 0
}
