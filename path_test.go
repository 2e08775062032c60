package main

import "testing"

func TestDemoPathStaysOnScreen(t *testing.T) {
	p := newPathGenerator(pathModeDemo)
	for frame := 0; frame < 100; frame++ {
		path := p.demoPath(16)
		if len(path) != demoPathPoints {
			t.Fatalf("frame %d: path has %d points, want %d", frame, len(path), demoPathPoints)
		}
		for i, wp := range path {
			if !wp.isFinite() {
				t.Fatalf("frame %d: waypoint %d not finite: %v", frame, i, wp)
			}
			if wp.x < 0 || wp.x >= w || wp.y < 0 || wp.y >= h {
				t.Fatalf("frame %d: waypoint %d off screen: %v", frame, i, wp)
			}
		}
	}
}

func TestDemoPathPrecesses(t *testing.T) {
	p := newPathGenerator(pathModeDemo)
	first := append([]point(nil), p.demoPath(16)...)
	second := p.demoPath(16)
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("figure did not precess between frames")
	}
}

func TestPointerPathBoundedTrail(t *testing.T) {
	p := newPathGenerator(pathModePointer)
	for i := 0; i < pointerTrailLen*3; i++ {
		p.pointerPath(pt(float64(i*2%w), float64(i*3%h)))
	}
	if len(p.trail) > pointerTrailLen {
		t.Errorf("trail grew to %d, cap is %d", len(p.trail), pointerTrailLen)
	}
}

func TestPointerPathIgnoresOffscreenAndIdle(t *testing.T) {
	p := newPathGenerator(pathModePointer)
	p.pointerPath(pt(-5, 10))
	p.pointerPath(pt(10, h+5))
	if len(p.trail) != 0 {
		t.Fatalf("offscreen positions recorded: %v", p.trail)
	}
	p.pointerPath(pt(100, 100))
	p.pointerPath(pt(100.2, 100.2)) // under the dedup distance
	if len(p.trail) != 1 {
		t.Errorf("idle pointer filled trail: %d entries", len(p.trail))
	}
}

func TestToggleSwitchesModes(t *testing.T) {
	p := newPathGenerator(pathModeDemo)
	p.toggle()
	if p.mode != pathModePointer {
		t.Errorf("mode after toggle = %v, want pointer", p.mode)
	}
	p.toggle()
	if p.mode != pathModeDemo {
		t.Errorf("mode after second toggle = %v, want demo", p.mode)
	}
}
