package main

import (
	"fmt"
	"math"

	"github.com/crazy3lf/colorconv"
)

// toneMapper converts the finished intensity grid into displayable RGBA
// bytes. The power-law curve is precomputed into a lookup table, indexed by
// intensity clamped to [0, 1]; the beam color scales each channel. The
// mapper holds no frame-to-frame state beyond its reusable pixel slice.
type toneMapper struct {
	width, height int
	lut           [toneTableSize]float64
	colorR        float64
	colorG        float64
	colorB        float64
	pixels        []byte
}

// newToneMapper builds the gamma lookup table and resolves the beam hue to
// its RGB deposit color.
func newToneMapper(width, height int, gamma, hue float64) (*toneMapper, error) {
	if gamma <= 0 {
		return nil, fmt.Errorf("gamma must be positive, got %g", gamma)
	}
	r, g, b, err := colorconv.HSVToRGB(hue, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("resolving beam hue %g: %w", hue, err)
	}
	tm := &toneMapper{
		width:  width,
		height: height,
		colorR: float64(r) / 255,
		colorG: float64(g) / 255,
		colorB: float64(b) / 255,
		pixels: make([]byte, width*height*4),
	}
	for i := range tm.lut {
		tm.lut[i] = math.Pow(float64(i)/(toneTableSize-1), gamma)
	}
	return tm, nil
}

// tone returns the display brightness in [0, 1] for a stored intensity.
func (tm *toneMapper) tone(v float32) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		v = 1
	}
	return tm.lut[int(float64(v)*(toneTableSize-1))]
}

// renderRows tone-maps rows [y0, y1) of src into the pixel slice. Read-only
// on src; row-ranged so the worker pool can split the pass.
func (tm *toneMapper) renderRows(src []float32, y0, y1 int) {
	start := y0 * tm.width
	end := y1 * tm.width
	for i := start; i < end; i++ {
		t := tm.tone(src[i])
		base := i * 4
		tm.pixels[base] = byte(t*tm.colorR*255 + 0.5)
		tm.pixels[base+1] = byte(t*tm.colorG*255 + 0.5)
		tm.pixels[base+2] = byte(t*tm.colorB*255 + 0.5)
		tm.pixels[base+3] = 255
	}
}

// beamColor32 returns the deposit color as float32 channels for the GPU path.
func (tm *toneMapper) beamColor32() [3]float32 {
	return [3]float32{float32(tm.colorR), float32(tm.colorG), float32(tm.colorB)}
}
