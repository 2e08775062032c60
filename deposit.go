package main

import "math"

// segmentQuad returns the four corners of the thin quad covered by a segment:
// both endpoints offset perpendicular to the travel direction by the beam
// radius. The segment must have nonzero length.
func segmentQuad(s segment, radius float64) [4]point {
	dir := s.to.sub(s.from)
	length := dir.length()
	n := pt(-dir.y/length, dir.x/length).mul(radius)
	return [4]point{
		s.from.add(n),
		s.to.add(n),
		s.to.sub(n),
		s.from.sub(n),
	}
}

// rasterizeSegment emits every grid cell covered by the segment's quad. The
// cell test projects the pixel center onto the segment axis and its normal,
// which is exact for the rectangle segmentQuad describes. Zero-length
// segments carry no direction and are skipped.
func rasterizeSegment(s segment, radius float64, width, height int, emit func(x, y int)) {
	dir := s.to.sub(s.from)
	length := dir.length()
	if length == 0 {
		return
	}
	dir = dir.mul(1 / length)

	quad := segmentQuad(s, radius)
	lox, hix := quad[0].x, quad[0].x
	loy, hiy := quad[0].y, quad[0].y
	for _, c := range quad[1:] {
		lox = math.Min(lox, c.x)
		hix = math.Max(hix, c.x)
		loy = math.Min(loy, c.y)
		hiy = math.Max(hiy, c.y)
	}
	minX := int(math.Floor(lox))
	maxX := int(math.Ceil(hix))
	minY := int(math.Floor(loy))
	maxY := int(math.Ceil(hiy))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > width-1 {
		maxX = width - 1
	}
	if maxY > height-1 {
		maxY = height - 1
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			rel := pt(float64(x)+0.5, float64(y)+0.5).sub(s.from)
			along := rel.dot(dir)
			if along < 0 || along > length {
				continue
			}
			if math.Abs(dir.cross(rel)) > radius {
				continue
			}
			emit(x, y)
		}
	}
}

// depositSegments accumulates the frame's traced segments into the current
// grid. Runs after the decay pass has written its result there; overlapping
// quads simply add.
func depositSegments(buf *persistenceBuffer, segs []segment, radius float64, amount float32) {
	for _, s := range segs {
		rasterizeSegment(s, radius, buf.width, buf.height, func(x, y int) {
			buf.deposit(x, y, amount)
		})
	}
}

// cellDeposit is one additive write destined for the OpenCL device, in the
// index-list form the solver uploads.
type cellDeposit struct {
	index  int32
	amount float32
}

// depositAccumulator combines a frame's overlapping quad writes into at most
// one entry per cell, so the device kernel can apply them without atomics.
// Since all amounts are positive, adding the combined total and clamping once
// matches the CPU path's per-write saturation.
type depositAccumulator struct {
	scratch []float32
	touched []int32
	list    []cellDeposit
}

func newDepositAccumulator(size int) *depositAccumulator {
	return &depositAccumulator{
		scratch: make([]float32, size),
		touched: make([]int32, 0, size),
	}
}

// collect rasterizes the frame's segments into a combined deposit list. The
// returned slice is reused on the next call.
func (a *depositAccumulator) collect(segs []segment, radius float64, width, height int, amount float32) []cellDeposit {
	a.touched = a.touched[:0]
	for _, s := range segs {
		rasterizeSegment(s, radius, width, height, func(x, y int) {
			idx := int32(y*width + x)
			if a.scratch[idx] == 0 {
				a.touched = append(a.touched, idx)
			}
			a.scratch[idx] += amount
		})
	}
	a.list = a.list[:0]
	for _, idx := range a.touched {
		a.list = append(a.list, cellDeposit{index: idx, amount: a.scratch[idx]})
		a.scratch[idx] = 0
	}
	return a.list
}

// gridOffset is one cell of the precomputed beam tip stamp.
type gridOffset struct {
	dx, dy int
}

// beamFootprint is the circular stamp used to highlight the beam tip.
var beamFootprint = precomputeBeamFootprint(beamTipRad)

func precomputeBeamFootprint(radius int) []gridOffset {
	footprint := make([]gridOffset, 0, (2*radius+1)*(2*radius+1))
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= r2 {
				footprint = append(footprint, gridOffset{dx: x, dy: y})
			}
		}
	}
	return footprint
}
