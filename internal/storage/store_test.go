package storage

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.FrameStats{
			{Frame: 1, Time: 0.1, Dt: 0.1, Active: 2, Captured: 1, Respawned: 1},
			{Frame: 2, Time: 0.2, Dt: 0.1, Active: 1, Inactive: 1, Captured: 1},
		},
		Metrics: map[string]float64{"capture_rate": 1},
		Final: sim.Snapshot{
			Frame: 2,
			Dim:   3,
			Particles: []sim.ParticleView{
				{Index: 0, Role: physics.RoleDisk, Alive: true, Pos: dynamo.Vec{X: 3, Y: 4}, Speed: 0.2, Distance: 5},
				{Index: 1, Role: physics.RoleOrbital, Alive: false, Pos: dynamo.Vec{Z: 0.5}, Distance: 0.5},
			},
		},
		StepsTaken: 2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Seed = 42

	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != cfg.Name {
		t.Errorf("expected preset %q, got %q", cfg.Name, meta.Preset)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Totals.Captured != 2 {
		t.Errorf("expected 2 total captures, got %d", meta.Totals.Captured)
	}
	if meta.Metrics["capture_rate"] != 1 {
		t.Errorf("expected capture_rate 1, got %f", meta.Metrics["capture_rate"])
	}
	if meta.Config == nil || meta.Config.Force != cfg.Force {
		t.Errorf("expected config to round trip, got %+v", meta.Config)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].Inactive != 1 || frames[1].Time != 0.2 {
		t.Errorf("unexpected frame %+v", frames[1])
	}

	particles, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(particles) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(particles))
	}
	if particles[0].Role != "disk" || !particles[0].Alive || particles[0].Distance != 5 {
		t.Errorf("unexpected particle %+v", particles[0])
	}
	if particles[1].Role != "orbital" || particles[1].Alive {
		t.Errorf("unexpected particle %+v", particles[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	cfg := config.DefaultConfig()
	first, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadFrames("nope"); err == nil {
		t.Error("expected error for missing frames")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	if err := ExportJSON(&buf, cfg, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Steps != 2 || len(data.Frames) != 2 {
		t.Errorf("unexpected export %+v", data)
	}
	if data.Totals.Respawned != 1 {
		t.Errorf("expected 1 respawn, got %d", data.Totals.Respawned)
	}
}
