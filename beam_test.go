package main

import (
	"math"
	"testing"
)

func approxPoint(p, q point, tol float64) bool {
	return math.Abs(p.x-q.x) <= tol && math.Abs(p.y-q.y) <= tol
}

func TestTraceZeroBudget(t *testing.T) {
	tr := newBeamTracer(pt(0, 0), 10, 64)
	tr.cursor = 0
	segs, err := tr.trace([]point{pt(100, 0)}, 0)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("zero budget emitted %d segments", len(segs))
	}
	if !approxPoint(tr.pos, pt(0, 0), 0) || tr.cursor != 0 {
		t.Errorf("zero budget changed beam state: pos=%v cursor=%d", tr.pos, tr.cursor)
	}
}

func TestTracePartialSegment(t *testing.T) {
	// 10 px/ms for 5 ms covers half the 100 px distance.
	tr := newBeamTracer(pt(0, 0), 10, 64)
	segs, err := tr.trace([]point{pt(100, 0)}, 5)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if !approxPoint(segs[0].from, pt(0, 0), 1e-9) || !approxPoint(segs[0].to, pt(50, 0), 1e-9) {
		t.Errorf("segment = %+v, want (0,0)-(50,0)", segs[0])
	}
	if !approxPoint(tr.pos, pt(50, 0), 1e-9) {
		t.Errorf("beam position = %v, want (50,0)", tr.pos)
	}
	if tr.cursor != 0 {
		t.Errorf("cursor advanced to %d before reaching the waypoint", tr.cursor)
	}
}

func TestTraceReachesWaypointAndTerminates(t *testing.T) {
	// 20 ms at 10 px/ms reaches the single waypoint in 10 ms; the leftover
	// budget must not loop forever on the already-reached target.
	tr := newBeamTracer(pt(0, 0), 10, 64)
	segs, err := tr.trace([]point{pt(100, 0)}, 20)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if !approxPoint(segs[0].to, pt(100, 0), 1e-9) {
		t.Errorf("segment end = %v, want (100,0)", segs[0].to)
	}
	if !approxPoint(tr.pos, pt(100, 0), 1e-9) {
		t.Errorf("beam position = %v, want (100,0)", tr.pos)
	}
	if tr.cursor != 0 {
		t.Errorf("cursor = %d, want 0 on a single-element path", tr.cursor)
	}
}

func TestTraceSingleFullPassPerFrame(t *testing.T) {
	// Surplus budget after the last waypoint must not start a second pass:
	// one frame draws each leg of the path at most once.
	path := []point{pt(10, 0), pt(20, 0)}
	tr := newBeamTracer(pt(0, 0), 10, 64)
	segs, err := tr.trace(path, 100)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) != len(path) {
		t.Fatalf("got %d segments, want %d (one per leg)", len(segs), len(path))
	}
	if !approxPoint(segs[len(segs)-1].to, pt(20, 0), 1e-9) {
		t.Errorf("last segment ends at %v, want (20,0)", segs[len(segs)-1].to)
	}
	if !approxPoint(tr.pos, pt(20, 0), 1e-9) {
		t.Errorf("beam position = %v, want (20,0)", tr.pos)
	}
	if tr.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after completing the pass", tr.cursor)
	}
}

func TestTraceEmptyPathConvergesToCenter(t *testing.T) {
	center := pt(256, 256)
	tr := newBeamTracer(center, 2, 64)
	tr.pos = pt(0, 0)

	lastDist := tr.pos.distance(center)
	for frame := 0; frame < 200; frame++ {
		segs, err := tr.trace(nil, 5)
		if err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		for _, s := range segs {
			if s.from == s.to {
				t.Fatalf("frame %d: zero-length segment %+v", frame, s)
			}
			if !s.to.isFinite() {
				t.Fatalf("frame %d: non-finite endpoint %+v", frame, s.to)
			}
		}
		d := tr.pos.distance(center)
		if d > lastDist+1e-9 {
			t.Fatalf("frame %d: beam moved away from center: %v > %v", frame, d, lastDist)
		}
		lastDist = d
	}
	if lastDist > arrivalEpsilon {
		t.Errorf("beam did not converge to center: distance %v", lastDist)
	}
}

func TestTraceSegmentCeiling(t *testing.T) {
	const ceiling = 4
	tr := newBeamTracer(pt(0, 0), 1000, ceiling)
	// A long zigzag the budget could cover entirely if not capped.
	path := make([]point, 32)
	for i := range path {
		path[i] = pt(float64(i*50), float64((i%2)*50))
	}
	segs, err := tr.trace(path, 1e6)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) > ceiling {
		t.Fatalf("emitted %d segments, ceiling is %d", len(segs), ceiling)
	}

	// Tracing resumes where it stopped, losing no waypoints.
	cursorBefore := tr.cursor
	posBefore := tr.pos
	segs, err = tr.trace(path, 1e6)
	if err != nil {
		t.Fatalf("resumed trace: %v", err)
	}
	if len(segs) == 0 {
		t.Fatal("resumed trace emitted nothing")
	}
	if segs[0].from != posBefore {
		t.Errorf("resumed trace started at %v, want %v", segs[0].from, posBefore)
	}
	if tr.cursor == cursorBefore && len(path) > ceiling {
		t.Errorf("cursor did not advance on resume")
	}
}

func TestTraceVisitsEveryWaypoint(t *testing.T) {
	path := []point{pt(100, 100), pt(400, 100), pt(400, 400), pt(100, 400)}
	tr := newBeamTracer(pt(256, 256), 50, 256)

	visited := make(map[int]bool)
	for frame := 0; frame < 50 && len(visited) < len(path); frame++ {
		before := tr.cursor
		if _, err := tr.trace(path, 16); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		// Every cursor advance means the waypoint at the old index was
		// reached; advances are always +1 mod len, so none can be skipped.
		for c := before; c != tr.cursor; c = (c + 1) % len(path) {
			visited[c] = true
		}
	}
	if len(visited) != len(path) {
		t.Errorf("visited %d of %d waypoints: %v", len(visited), len(path), visited)
	}
}

func TestTraceSkipsCoincidentWaypoint(t *testing.T) {
	tr := newBeamTracer(pt(0, 0), 10, 64)
	tr.pos = pt(50, 50)
	// First waypoint equals the beam position; it must be skipped without a
	// direction-less segment.
	segs, err := tr.trace([]point{pt(50, 50), pt(60, 50)}, 10)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if !approxPoint(segs[0].to, pt(60, 50), 1e-9) {
		t.Errorf("segment end = %v, want (60,50)", segs[0].to)
	}
}

func TestTraceNonFiniteWaypointFails(t *testing.T) {
	tests := []struct {
		name string
		p    point
	}{
		{"nan x", pt(math.NaN(), 0)},
		{"nan y", pt(0, math.NaN())},
		{"inf x", pt(math.Inf(1), 0)},
		{"neg inf y", pt(0, math.Inf(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newBeamTracer(pt(0, 0), 10, 64)
			if _, err := tr.trace([]point{tt.p}, 5); err == nil {
				t.Errorf("trace accepted non-finite waypoint %+v", tt.p)
			}
		})
	}
}

func TestTraceCursorReducedOnShrunkenPath(t *testing.T) {
	tr := newBeamTracer(pt(0, 0), 10, 64)
	tr.cursor = 5
	segs, err := tr.trace([]point{pt(10, 0), pt(20, 0), pt(30, 0)}, 1)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(segs) == 0 {
		t.Fatal("no segments after path shrank")
	}
	if tr.cursor < 0 || tr.cursor >= 3 {
		t.Errorf("cursor %d out of range for path length 3", tr.cursor)
	}
}
