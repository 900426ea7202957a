package viz

import (
	"math"
	"math/rand/v2"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/dynamo"
	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	numStars         = 300
	ringSegments     = 64
	lensingRingScale = 1.8
	bigStarSize      = 0.15
)

// Star is a background point. It never interacts with particles.
type Star struct {
	Pos  dynamo.Vec
	Size float64
}

// Scene draws snapshots of one simulation. The starfield has its own
// random stream so drawing never perturbs the physics.
type Scene struct {
	Camera *Camera
	Trails bool
	stars  []Star
}

// NewScene sizes the view to the outermost spawn band of cfg.
func NewScene(cfg *config.Config) *Scene {
	extent := SceneExtent(cfg)
	seed := uint64(cfg.Seed)
	rng := rand.New(rand.NewPCG(seed^0x5bd1e995, seed))

	return &Scene{
		Camera: NewCamera(extent, cfg.Dimensions == 3),
		Trails: true,
		stars:  starfield(rng, cfg.Dimensions, extent),
	}
}

// SceneExtent is the largest radius any particle is spawned at, padded.
func SceneExtent(cfg *config.Config) float64 {
	extent := max(
		cfg.Disk.InitialBand.Max,
		cfg.Disk.RespawnBand.Max,
		cfg.Orbital.InitialBand.Max,
		cfg.Orbital.SpawnBand.Max,
	)
	return 1.2 * max(extent, 2*cfg.Force.CaptureRadius)
}

// Stars returns the background stars at their unlensed positions.
func (s *Scene) Stars() []Star { return s.stars }

// 3D stars sit on a sphere of radius 3*extent. 2D stars fill the view.
func starfield(rng *rand.Rand, dim int, extent float64) []Star {
	stars := make([]Star, numStars)
	for i := range stars {
		var pos dynamo.Vec
		if dim == 3 {
			phi := rng.Float64() * 2 * math.Pi
			theta := rng.Float64() * math.Pi
			r := 3 * extent
			pos = dynamo.Vec{
				X: r * math.Sin(theta) * math.Cos(phi),
				Y: r * math.Sin(theta) * math.Sin(phi),
				Z: r * math.Cos(theta),
			}
		} else {
			pos = dynamo.Planar((2*rng.Float64()-1)*extent, (2*rng.Float64()-1)*extent)
		}
		stars[i] = Star{Pos: pos, Size: 0.05 + 0.1*rng.Float64()}
	}
	return stars
}

// Lensed returns where a star appears with lensing on. Stars within three
// capture radii, or deflected by 0.7 or more, are hidden.
func Lensed(st Star, captureRadius float64) (Star, bool) {
	r := dynamo.Norm(st.Pos)
	if r <= 3*captureRadius {
		return st, false
	}
	deflection := 1.5 * captureRadius / r
	if deflection >= 0.7 {
		return st, false
	}
	dir := r3.Scale(1/r, st.Pos)
	return Star{
		Pos:  r3.Sub(st.Pos, r3.Scale(deflection, dir)),
		Size: st.Size * (1 + 2*deflection),
	}, true
}

// Draw clears c and renders snap onto it.
func (s *Scene) Draw(c *Canvas, snap *sim.Snapshot) {
	c.Clear()
	sw, sh := c.DotsX(), c.DotsY()

	for _, st := range s.stars {
		if snap.Lensing {
			var ok bool
			if st, ok = Lensed(st, snap.CaptureRadius); !ok {
				continue
			}
		}
		x, y, _, ok := s.Camera.Project(st.Pos, sw, sh)
		if !ok {
			continue
		}
		if st.Size > bigStarSize {
			c.Block(x, y)
		} else {
			c.Set(x, y)
		}
	}

	s.drawRing(c, snap.CaptureRadius)
	if snap.Lensing {
		s.drawRing(c, lensingRingScale*snap.CaptureRadius)
	}

	for _, p := range snap.Particles {
		if !p.Alive {
			continue
		}
		if s.Trails {
			s.drawPath(c, p.Trail)
		}
		x, y, _, ok := s.Camera.Project(p.Pos, sw, sh)
		if !ok {
			continue
		}
		switch p.Role {
		case physics.RoleOrbital:
			c.Block(x, y)
			c.Tint(x, y, string(CurrentTheme.Primary))
		default:
			c.Set(x, y)
			c.Tint(x, y, TemperatureColor(p.Temperature))
		}
	}
}

// drawRing draws a circle of radius r in the disk plane.
func (s *Scene) drawRing(c *Canvas, r float64) {
	pts := make([]dynamo.Vec, ringSegments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ringSegments
		pts[i] = dynamo.Planar(r*math.Cos(a), r*math.Sin(a))
	}
	s.drawPath(c, pts)
}

func (s *Scene) drawPath(c *Canvas, pts []dynamo.Vec) {
	sw, sh := c.DotsX(), c.DotsY()
	var px, py int
	prev := false
	for _, p := range pts {
		x, y, _, ok := s.Camera.Project(p, sw, sh)
		if ok && prev {
			c.DrawLine(px, py, x, y)
		} else if ok {
			c.Set(x, y)
		}
		px, py, prev = x, y, ok
	}
}
