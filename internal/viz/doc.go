// Package viz draws simulation snapshots in the terminal and as SVG.
//
// A [Scene] owns the camera and the background starfield and renders a
// [sim.Snapshot] onto a braille [Canvas]. [Model] is the interactive
// Bubble Tea view built on top of it.
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	Up/Down - Speed up / slow down
//	L       - Toggle lensing
//	[ ]     - Lower / raise orbital respawn probability
//	x y z   - Rotate camera
//	+ -     - Zoom
//	R       - Reset particles
//	Q       - Quit
//
// Lensing only changes what is drawn: stars are pulled towards the hole by
// 1.5 R / r and a faint ring is drawn at 1.8 R.
package viz
