package sim

import "log/slog"

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(snap *Snapshot)
	Value() float64
	Reset()
}

// Observer is notified after every frame of a run.
type Observer interface {
	OnFrame(snap *Snapshot)
}

// FrameStats counts what happened during one frame.
type FrameStats struct {
	Frame     int     `csv:"frame" json:"frame"`
	Time      float64 `csv:"time" json:"time"`
	Dt        float64 `csv:"dt" json:"dt"`
	Active    int     `csv:"active" json:"active"`
	Inactive  int     `csv:"inactive" json:"inactive"`
	Captured  int     `csv:"captured" json:"captured"`
	Respawned int     `csv:"respawned" json:"respawned"`
	Clamped   int     `csv:"clamped" json:"clamped"`
	Recovered int     `csv:"recovered" json:"recovered"`
}

// LogValue implements slog.LogValuer for structured logging.
func (f FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", f.Frame),
		slog.Float64("time", f.Time),
		slog.Int("active", f.Active),
		slog.Int("inactive", f.Inactive),
		slog.Int("captured", f.Captured),
		slog.Int("respawned", f.Respawned),
		slog.Int("clamped", f.Clamped),
		slog.Int("recovered", f.Recovered),
	)
}

type Result struct {
	Frames     []FrameStats
	Metrics    map[string]float64
	Final      Snapshot
	StepsTaken int
}

// Totals sums the per-frame counters of r.
func (r *Result) Totals() FrameStats {
	var t FrameStats
	for _, f := range r.Frames {
		t.Captured += f.Captured
		t.Respawned += f.Respawned
		t.Clamped += f.Clamped
		t.Recovered += f.Recovered
	}
	if n := len(r.Frames); n > 0 {
		last := r.Frames[n-1]
		t.Frame, t.Time = last.Frame, last.Time
		t.Active, t.Inactive = last.Active, last.Inactive
	}
	return t
}
