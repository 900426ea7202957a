package viz

import (
	"math"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera projects world positions onto the dot grid of a canvas. Extent is
// the world distance from the origin that fills half the shorter side at
// Zoom 1.
type Camera struct {
	Distance         float64
	Near             float64
	Extent           float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

// NewCamera looks down the Z axis; tilted cameras view the disk plane at an
// angle.
func NewCamera(extent float64, tilted bool) *Camera {
	c := &Camera{Distance: 4 * extent, Near: 0.1, Extent: extent, Zoom: 1.0}
	if tilted {
		c.RotX = -1.1
	}
	return c
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p dynamo.Vec) dynamo.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts a world position to dot coordinates on a sw x sh grid.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec, sw, sh int) (int, int, float64, bool) {
	rot := r3.Scale(c.Zoom, c.RotatePoint(p))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := float64(min(sw, sh))
	pScale := minDim / (2 * c.Extent)
	sx := int(math.Round(rot.X*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*scale*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}
