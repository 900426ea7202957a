package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	particlesFile = "particles.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dimensions int                `json:"dimensions"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Particles  int                `json:"particles"`
	Integrator string             `json:"integrator"`
	Totals     sim.FrameStats     `json:"totals"`
	Metrics    map[string]float64 `json:"metrics"`
	Config     *config.Config     `json:"config"`
}

// ParticleRow is one particle of the final snapshot, flattened for CSV.
type ParticleRow struct {
	Index       int     `csv:"index"`
	Role        string  `csv:"role"`
	Alive       bool    `csv:"alive"`
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Z           float64 `csv:"z"`
	VX          float64 `csv:"vx"`
	VY          float64 `csv:"vy"`
	VZ          float64 `csv:"vz"`
	Speed       float64 `csv:"speed"`
	Distance    float64 `csv:"distance"`
	Temperature float64 `csv:"temperature"`
}

func rowsOf(snap *sim.Snapshot) []*ParticleRow {
	rows := make([]*ParticleRow, 0, len(snap.Particles))
	for _, p := range snap.Particles {
		rows = append(rows, &ParticleRow{
			Index:       p.Index,
			Role:        p.Role.String(),
			Alive:       p.Alive,
			X:           p.Pos.X,
			Y:           p.Pos.Y,
			Z:           p.Pos.Z,
			VX:          p.Vel.X,
			VY:          p.Vel.Y,
			VZ:          p.Vel.Z,
			Speed:       p.Speed,
			Distance:    p.Distance,
			Temperature: p.Temperature,
		})
	}
	return rows
}

// Save writes cfg and result as a new run and returns its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     cfg.Name,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dimensions: cfg.Dimensions,
		Dt:         cfg.Dt,
		Steps:      result.StepsTaken,
		Particles:  cfg.Population(),
		Integrator: cfg.Integrator,
		Totals:     result.Totals(),
		Metrics:    result.Metrics,
		Config:     cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	frames := make([]*sim.FrameStats, len(result.Frames))
	for i := range result.Frames {
		frames[i] = &result.Frames[i]
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), &frames); err != nil {
		return "", fmt.Errorf("write frames: %w", err)
	}

	rows := rowsOf(&result.Final)
	if err := writeCSV(filepath.Join(runDir, particlesFile), &rows); err != nil {
		return "", fmt.Errorf("write particles: %w", err)
	}

	return runID, nil
}

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the per-frame counters of a run.
func (s *Store) LoadFrames(runID string) ([]sim.FrameStats, error) {
	var rows []*sim.FrameStats
	if err := readCSV(filepath.Join(s.baseDir, runID, framesFile), &rows); err != nil {
		return nil, err
	}

	frames := make([]sim.FrameStats, len(rows))
	for i, r := range rows {
		frames[i] = *r
	}
	return frames, nil
}

// LoadParticles reads the final particle states of a run.
func (s *Store) LoadParticles(runID string) ([]*ParticleRow, error) {
	var rows []*ParticleRow
	if err := readCSV(filepath.Join(s.baseDir, runID, particlesFile), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(rows, f)
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.UnmarshalFile(f, out)
}
