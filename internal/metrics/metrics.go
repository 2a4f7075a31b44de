// Package metrics summarises simulation frames: scalar metrics over a run and
// bounded per-series history for charts.
package metrics

import "time"

// FrameStats is what one simulation frame reports.
type FrameStats struct {
	Frame         uint64
	Time          time.Duration
	Population    int
	Floor         int
	Joints        int
	Contacts      int
	KineticEnergy float64
	GravityPass   bool
	Spawned       int
	Culled        int
}

type Metric interface {
	Name() string
	Observe(s FrameStats)
	Value() float64
	Reset()
}

// History is a fixed-capacity ring of samples, oldest first on read.
type History struct {
	buf  []float64
	head int
	full bool
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

func (h *History) Push(v float64) {
	h.buf[h.head] = v
	h.head++
	if h.head == len(h.buf) {
		h.head = 0
		h.full = true
	}
}

func (h *History) Len() int {
	if h.full {
		return len(h.buf)
	}
	return h.head
}

func (h *History) Values() []float64 {
	if !h.full {
		out := make([]float64, h.head)
		copy(out, h.buf[:h.head])
		return out
	}
	out := make([]float64, 0, len(h.buf))
	out = append(out, h.buf[h.head:]...)
	return append(out, h.buf[:h.head]...)
}

func (h *History) Last() float64 {
	if h.Len() == 0 {
		return 0
	}
	i := h.head - 1
	if i < 0 {
		i = len(h.buf) - 1
	}
	return h.buf[i]
}

func (h *History) Reset() {
	h.head = 0
	h.full = false
}

const (
	SeriesPopulation = "population"
	SeriesEnergy     = "energy"
	SeriesContacts   = "contacts"
	SeriesJoints     = "joints"
)

// Recorder feeds every frame to its metrics and keeps a history per series.
type Recorder struct {
	metrics []Metric
	series  map[string]*History
	last    FrameStats
	frames  int
}

func NewRecorder(capacity int, ms ...Metric) *Recorder {
	return &Recorder{
		metrics: ms,
		series: map[string]*History{
			SeriesPopulation: NewHistory(capacity),
			SeriesEnergy:     NewHistory(capacity),
			SeriesContacts:   NewHistory(capacity),
			SeriesJoints:     NewHistory(capacity),
		},
	}
}

// DefaultRecorder carries the metrics the front-ends display.
func DefaultRecorder(capacity int) *Recorder {
	return NewRecorder(capacity,
		NewEnergy(),
		NewEnergyDrift(),
		NewContactRate(),
		NewFloorStability(),
		NewGravityRate(),
	)
}

func (r *Recorder) Observe(s FrameStats) {
	for _, m := range r.metrics {
		m.Observe(s)
	}
	r.series[SeriesPopulation].Push(float64(s.Population))
	r.series[SeriesEnergy].Push(s.KineticEnergy)
	r.series[SeriesContacts].Push(float64(s.Contacts))
	r.series[SeriesJoints].Push(float64(s.Joints))
	r.last = s
	r.frames++
}

func (r *Recorder) Series(name string) []float64 {
	h, ok := r.series[name]
	if !ok {
		return nil
	}
	return h.Values()
}

func (r *Recorder) Last() FrameStats  { return r.last }
func (r *Recorder) Frames() int       { return r.frames }
func (r *Recorder) Metrics() []Metric { return r.metrics }

// Values returns every metric's current value by name.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	for _, h := range r.series {
		h.Reset()
	}
	r.last = FrameStats{}
	r.frames = 0
}
