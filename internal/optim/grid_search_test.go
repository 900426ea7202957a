package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Disk.Count = 10
	cfg.Orbital.Count = 10
	return cfg
}

func TestGridSearchPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"k", "dt"}, [][]float64{{0.1, 0.2}, {0.01, 0.02, 0.05}})
	if err != nil {
		t.Fatal(err)
	}

	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["k"] != 0.1 || points[0]["dt"] != 0.01 {
		t.Errorf("unexpected first point %v", points[0])
	}
	if points[5]["k"] != 0.2 || points[5]["dt"] != 0.05 {
		t.Errorf("unexpected last point %v", points[5])
	}
}

func TestNewGridSearchRejectsUnknown(t *testing.T) {
	if _, err := NewGridSearch([]string{"mass"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := NewGridSearch([]string{"k"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
}

func TestGridSearchRespawnProbability(t *testing.T) {
	g, err := NewGridSearch([]string{"respawn_probability"}, [][]float64{{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	g.Maximize = true

	best, trials, err := g.Search(context.Background(), smallConfig(), 200, "active_fraction")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 2 {
		t.Fatalf("expected 2 trials, got %d", len(trials))
	}
	// captured orbital particles come back at once with p = 1
	if trials[1].Value < trials[0].Value {
		t.Errorf("p=1 active fraction %f below p=0 %f", trials[1].Value, trials[0].Value)
	}
	if best.Value != trials[1].Value {
		t.Errorf("expected best %f, got %f", trials[1].Value, best.Value)
	}
}

func TestGridSearchSkipsInvalid(t *testing.T) {
	g, err := NewGridSearch([]string{"capture_radius"}, [][]float64{{-1, 0.5}})
	if err != nil {
		t.Fatal(err)
	}

	best, trials, err := g.Search(context.Background(), smallConfig(), 20, "stability")
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(trials[0].Err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected invalid config error, got %v", trials[0].Err)
	}
	if best.Params["capture_radius"] != 0.5 {
		t.Errorf("expected the valid point to win, got %v", best.Params)
	}
}
