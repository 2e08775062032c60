package main

import "math"

// persistenceBuffer holds the two intensity grids of the phosphor screen.
// One grid is the current frame's write target, the other holds the previous
// frame's finished image; the roles exchange exactly once per frame.
type persistenceBuffer struct {
	width, height int
	grids         [2][]float32
	front         int
}

// newPersistenceBuffer allocates both grids zeroed.
func newPersistenceBuffer(width, height int) *persistenceBuffer {
	return &persistenceBuffer{
		width:  width,
		height: height,
		grids: [2][]float32{
			make([]float32, width*height),
			make([]float32, width*height),
		},
	}
}

// current returns the grid being written this frame.
func (b *persistenceBuffer) current() []float32 {
	return b.grids[b.front]
}

// previous returns the grid finished last frame.
func (b *persistenceBuffer) previous() []float32 {
	return b.grids[b.front^1]
}

// swap exchanges the current and previous roles. Called once per frame after
// decay and deposit have both completed.
func (b *persistenceBuffer) swap() {
	b.front ^= 1
}

// decayFactor converts a per-millisecond decay rate into the multiplicative
// factor for an elapsed span of dt milliseconds.
func decayFactor(rate, dtMillis float64) float32 {
	if dtMillis <= 0 {
		return 1
	}
	return float32(math.Pow(rate, dtMillis))
}

// decayRows writes previous*factor into the current grid for rows [y0, y1).
// Row-ranged so the worker pool can split the pass.
func (b *persistenceBuffer) decayRows(factor float32, y0, y1 int) {
	prev := b.previous()
	curr := b.current()
	start := y0 * b.width
	end := y1 * b.width
	for i := start; i < end; i++ {
		curr[i] = prev[i] * factor
	}
}

// deposit adds amount to the current grid at the given cell, saturating at
// the intensity ceiling. Out-of-bounds cells are ignored.
func (b *persistenceBuffer) deposit(x, y int, amount float32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	v := b.grids[b.front][idx] + amount
	if v > intensityCeiling {
		v = intensityCeiling
	}
	b.grids[b.front][idx] = v
}

// fill sets every cell of the current grid to v. Test and startup helper.
func (b *persistenceBuffer) fill(v float32) {
	curr := b.current()
	for i := range curr {
		curr[i] = v
	}
}
