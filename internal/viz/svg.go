package viz

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/accretion/internal/physics"
	"github.com/san-kum/accretion/internal/sim"
)

// CanvasToSVG writes the lit dots of a braille canvas as circles.
func CanvasToSVG(w io.Writer, canvas *Canvas, scale float64) error {
	bw := bufio.NewWriter(w)
	width := float64(canvas.DotsX()) * scale
	height := float64(canvas.DotsY()) * scale

	svgHeader(bw, width, height)
	fmt.Fprintf(bw, "<g fill=\"%s\">\n", CurrentTheme.Text)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.DotsY(); y++ {
		for x := 0; x < canvas.DotsX(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

// SnapshotSVG renders snap through the scene's camera as a vector image.
// Disk particles are colored by temperature, orbital particles by the
// theme's primary color.
func SnapshotSVG(w io.Writer, scene *Scene, snap *sim.Snapshot, width, height int) error {
	bw := bufio.NewWriter(w)
	svgHeader(bw, float64(width), float64(height))
	cam := scene.Camera

	bw.WriteString("<g fill=\"#ffffff\" opacity=\"0.8\">\n")
	for _, st := range scene.stars {
		if snap.Lensing {
			var ok bool
			if st, ok = Lensed(st, snap.CaptureRadius); !ok {
				continue
			}
		}
		x, y, _, ok := cam.Project(st.Pos, width, height)
		if !ok {
			continue
		}
		fmt.Fprintf(bw, "<circle cx=\"%d\" cy=\"%d\" r=\"%.1f\"/>\n", x, y, 1+8*st.Size)
	}
	bw.WriteString("</g>\n")

	pxPerUnit := float64(min(width, height)) / (2 * cam.Extent) * cam.Zoom
	fmt.Fprintf(bw, "<circle cx=\"%d\" cy=\"%d\" r=\"%.1f\" fill=\"#000000\" stroke=\"%s\" stroke-width=\"2\"/>\n",
		width/2, height/2, snap.CaptureRadius*pxPerUnit, CurrentTheme.Horizon)
	if snap.Lensing {
		fmt.Fprintf(bw, "<circle cx=\"%d\" cy=\"%d\" r=\"%.1f\" fill=\"none\" stroke=\"#3366ff\" stroke-opacity=\"0.3\" stroke-width=\"6\"/>\n",
			width/2, height/2, lensingRingScale*snap.CaptureRadius*pxPerUnit)
	}

	for _, p := range snap.Particles {
		if !p.Alive {
			continue
		}
		color := string(CurrentTheme.Primary)
		radius := 2.5
		if p.Role == physics.RoleDisk {
			color = TemperatureColor(p.Temperature)
			radius = 1.5
		}

		if scene.Trails && len(p.Trail) > 1 {
			bw.WriteString("<polyline fill=\"none\" stroke-opacity=\"0.4\" stroke=\"" + color + "\" points=\"")
			for _, q := range p.Trail {
				x, y, _, _ := cam.Project(q, width, height)
				fmt.Fprintf(bw, "%d,%d ", x, y)
			}
			bw.WriteString("\"/>\n")
		}

		x, y, _, ok := cam.Project(p.Pos, width, height)
		if !ok {
			continue
		}
		fmt.Fprintf(bw, "<circle cx=\"%d\" cy=\"%d\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, radius, color)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func svgHeader(bw *bufio.Writer, width, height float64) {
	width, height = math.Ceil(width), math.Ceil(height)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, CurrentTheme.Background)
}
