package main

import "fmt"

// segment is one stretch of beam travel within a frame.
type segment struct {
	from, to point
}

// beamTracer sweeps the simulated electron beam along the frame's waypoint
// path at finite speed. Position and cursor persist across frames; a frame
// that runs out of time resumes from the same spot next frame.
type beamTracer struct {
	pos    point
	cursor int

	speed       float64
	center      point
	epsilon     float64
	maxSegments int

	segs []segment
}

// newBeamTracer places the beam at the screen center with an empty cursor.
func newBeamTracer(center point, speed float64, maxSegments int) *beamTracer {
	return &beamTracer{
		pos:         center,
		speed:       speed,
		center:      center,
		epsilon:     arrivalEpsilon,
		maxSegments: maxSegments,
		segs:        make([]segment, 0, maxSegments),
	}
}

// trace consumes up to dtMillis of beam time against the waypoint path and
// returns the segments actually traveled. The returned slice is reused on the
// next call. A non-finite coordinate in the path or in a computed endpoint is
// returned as an error: it signals a path-generation bug upstream that must
// not be allowed to contaminate the persistence buffer.
func (t *beamTracer) trace(path []point, dtMillis float64) ([]segment, error) {
	t.segs = t.segs[:0]
	if len(path) > 0 {
		// The path may have shrunk since last frame.
		t.cursor %= len(path)
	} else {
		t.cursor = 0
	}
	if dtMillis <= 0 || t.speed <= 0 {
		return t.segs, nil
	}

	remaining := dtMillis
	// arrivals counts waypoints epsilon-reached this frame, not loop
	// iterations. Tracing stops once every waypoint of the current path has
	// been reached, so a frame draws at most one full pass; waypoints the
	// budget could not reach keep their turn for the next frame.
	arrivals := 0
	maxArrivals := len(path)
	if maxArrivals < 1 {
		maxArrivals = 1
	}

	for remaining > 0 && len(t.segs) < t.maxSegments {
		target := t.center
		if len(path) > 0 {
			target = path[t.cursor]
		}
		if !target.isFinite() {
			return nil, fmt.Errorf("waypoint %d is not finite: (%g, %g)", t.cursor, target.x, target.y)
		}

		d := t.pos.distance(target)
		if d < t.epsilon {
			arrivals++
			if len(path) > 0 {
				t.cursor = (t.cursor + 1) % len(path)
			}
			if arrivals >= maxArrivals {
				break
			}
			continue
		}

		budget := t.speed * remaining
		draw := d
		spent := d / t.speed
		if budget < d {
			// The budget runs out mid-segment; this frame is over.
			draw = budget
			spent = remaining
		}
		dir := target.sub(t.pos).mul(1 / d)
		next := t.pos.add(dir.mul(draw))
		if !next.isFinite() {
			return nil, fmt.Errorf("beam endpoint is not finite after waypoint %d: (%g, %g)", t.cursor, next.x, next.y)
		}
		t.segs = append(t.segs, segment{from: t.pos, to: next})
		t.pos = next
		remaining -= spent
	}
	return t.segs, nil
}
