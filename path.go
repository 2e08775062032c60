package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// pathMode selects which generator feeds the tracer.
type pathMode int

const (
	// pathModeDemo traces a slowly rotating Lissajous figure.
	pathModeDemo pathMode = iota
	// pathModePointer traces the recent track of the mouse cursor.
	pathModePointer
)

// pathGenerator rebuilds the waypoint path every frame. The simulator core
// only reads the result; the generator owns the phase and the pointer trail.
type pathGenerator struct {
	mode  pathMode
	phase float64
	trail []point
	path  []point
}

func newPathGenerator(mode pathMode) *pathGenerator {
	return &pathGenerator{
		mode:  mode,
		trail: make([]point, 0, pointerTrailLen),
		path:  make([]point, 0, demoPathPoints),
	}
}

// toggle switches between the demo figure and pointer following.
func (p *pathGenerator) toggle() {
	if p.mode == pathModeDemo {
		p.mode = pathModePointer
	} else {
		p.mode = pathModeDemo
	}
}

// frame returns this frame's waypoint path. The slice is reused between
// frames and valid until the next call.
func (p *pathGenerator) frame(dtMillis float64) []point {
	if p.mode == pathModePointer {
		mx, my := ebiten.CursorPosition()
		return p.pointerPath(pt(float64(mx), float64(my)))
	}
	return p.demoPath(dtMillis)
}

// demoPath samples one cycle of a Lissajous figure, advancing its phase with
// elapsed time so the figure precesses.
func (p *pathGenerator) demoPath(dtMillis float64) []point {
	p.phase += dtMillis * demoPhasePerMs
	cx, cy := float64(w)/2, float64(h)/2
	ax := cx * (1 - demoMarginFrac*2)
	ay := cy * (1 - demoMarginFrac*2)
	p.path = p.path[:0]
	for i := 0; i < demoPathPoints; i++ {
		t := 2 * math.Pi * float64(i) / demoPathPoints
		p.path = append(p.path, pt(
			cx+ax*math.Sin(demoFreqX*t+p.phase),
			cy+ay*math.Sin(demoFreqY*t),
		))
	}
	return p.path
}

// pointerPath appends the cursor position to a bounded trail and returns the
// trail oldest-first, so the beam keeps retracing the recent pointer track.
// Positions outside the screen are ignored; near-duplicates are collapsed so
// an idle pointer does not fill the trail with one spot.
func (p *pathGenerator) pointerPath(pos point) []point {
	if pos.x >= 0 && pos.x < w && pos.y >= 0 && pos.y < h {
		if len(p.trail) == 0 || p.trail[len(p.trail)-1].distance(pos) > 1 {
			if len(p.trail) == pointerTrailLen {
				copy(p.trail, p.trail[1:])
				p.trail = p.trail[:pointerTrailLen-1]
			}
			p.trail = append(p.trail, pos)
		}
	}
	return p.trail
}
