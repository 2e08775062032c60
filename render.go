package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw presents the just-finished persistence buffer: tone-mapped pixels,
// the beam tip hot spot, and the optional debug overlay. Read-only with
// respect to the simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.gpu != nil {
		if pixels := g.gpu.PixelBytes(); len(pixels) == w*h*4 {
			screen.WritePixels(pixels)
		}
	} else {
		src := g.buffer.previous()
		g.pool.run(func(y0, y1 int) {
			g.tone.renderRows(src, y0, y1)
		})
		screen.WritePixels(g.tone.pixels)
	}

	g.drawBeamTip(screen)

	if *debugFlag {
		fps := ebiten.ActualFPS()
		tps := ebiten.ActualTPS()
		if tps < 0 {
			tps = 0
		}
		simMS := g.lastSimDuration.Seconds() * 1000
		debugMsg := fmt.Sprintf("FPS: %.1f (%.1f TPS)\nFrame dt: %.2f ms\nSegments: %d\nSim: %.2f ms",
			fps, tps, g.lastDT, g.lastSegments, simMS)
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return w, h }

// drawBeamTip overlays the hot spot at the beam's current position.
func (g *Game) drawBeamTip(screen *ebiten.Image) {
	bx := clampCoord(int(g.tracer.pos.x), 0, w-1)
	by := clampCoord(int(g.tracer.pos.y), 0, h-1)
	tip := color.RGBA{
		R: byte(min(255, int(g.tone.colorR*255)+128)),
		G: byte(min(255, int(g.tone.colorG*255)+128)),
		B: byte(min(255, int(g.tone.colorB*255)+128)),
		A: 255,
	}
	for _, offset := range beamFootprint {
		cx := bx + offset.dx
		cy := by + offset.dy
		if cx >= 0 && cx < w && cy >= 0 && cy < h {
			screen.Set(cx, cy, tip)
		}
	}
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
