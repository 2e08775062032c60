package main

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game owns the simulator state and drives one full frame cycle per tick:
// decay, trace, deposit, swap in Update, then present in Draw.
type Game struct {
	buffer *persistenceBuffer
	tracer *beamTracer
	tone   *toneMapper
	paths  *pathGenerator
	clock  frameClock
	pool   *rowPool

	decayRate  float64
	beamRadius float64
	beamAmount float32

	lastDT          float64
	lastSegments    int
	lastSimDuration time.Duration

	gpu           *phosphorSolver
	gpuDeposits   *depositAccumulator
	verifySync    bool
	verifyScratch []float32
}

// newGame validates the flag configuration and constructs a fully
// initialized simulator.
func newGame() (*Game, error) {
	if *decayRateFlag <= 0 || *decayRateFlag > 1 {
		return nil, fmt.Errorf("decay rate must be in (0, 1], got %g", *decayRateFlag)
	}
	if *beamSpeedFlag <= 0 {
		return nil, fmt.Errorf("beam speed must be positive, got %g", *beamSpeedFlag)
	}
	if *beamRadiusFlag <= 0 {
		return nil, fmt.Errorf("beam radius must be positive, got %g", *beamRadiusFlag)
	}

	tone, err := newToneMapper(w, h, *gammaFlag, *beamHueFlag)
	if err != nil {
		return nil, err
	}

	mode := pathModeDemo
	if *pointerFlag {
		mode = pathModePointer
	}
	g := &Game{
		buffer:     newPersistenceBuffer(w, h),
		tracer:     newBeamTracer(pt(float64(w)/2, float64(h)/2), *beamSpeedFlag, maxSegmentsPerFrame),
		tone:       tone,
		paths:      newPathGenerator(mode),
		pool:       newRowPool(h),
		decayRate:  *decayRateFlag,
		beamRadius: *beamRadiusFlag,
		beamAmount: beamIntensity,
		verifySync: *verifyOpenCLSyncFlag,
	}

	if *useOpenCLFlag {
		solver, err := newPhosphorSolver(w, h, *gammaFlag, tone.beamColor32(), *preferFP16Flag)
		if err != nil {
			log.Fatalf("OpenCL initialization failed: %v", err)
		}
		log.Printf("OpenCL solver enabled (device: %s)", solver.DeviceName())
		g.gpu = solver
		g.gpuDeposits = newDepositAccumulator(w * h)
		if g.verifySync {
			g.verifyScratch = make([]float32, w*h)
		}
	}
	g.pool.start()
	return g, nil
}

// Update runs one frame cycle. A tracer error aborts the run loop: a
// non-finite waypoint must not reach the persistence buffer.
func (g *Game) Update() error {
	dt := g.clock.tick()
	if dt > maxFrameMillis {
		dt = maxFrameMillis
	}
	g.lastDT = dt

	g.handleControls()

	path := g.paths.frame(dt)
	factor := decayFactor(g.decayRate, dt)
	simStart := time.Now()

	// Decay first: same-frame deposits must not be attenuated. The GPU path
	// orders its kernels the same way inside Frame.
	if g.gpu == nil {
		g.pool.run(func(y0, y1 int) {
			g.buffer.decayRows(factor, y0, y1)
		})
	}

	segs, err := g.tracer.trace(path, dt)
	if err != nil {
		return fmt.Errorf("tracing beam path: %w", err)
	}
	g.lastSegments = len(segs)

	if g.gpu != nil {
		if err := g.stepGPU(factor, segs); err != nil {
			return err
		}
	} else {
		depositSegments(g.buffer, segs, g.beamRadius, g.beamAmount)
		g.buffer.swap()
	}
	g.lastSimDuration = time.Since(simStart)
	return nil
}

// stepGPU runs the frame's decay, deposit, and tone mapping on the OpenCL
// device. With -verify-opencl-sync the CPU buffers mirror every pass and the
// device result is cross-checked against them.
func (g *Game) stepGPU(factor float32, segs []segment) error {
	deposits := g.gpuDeposits.collect(segs, g.beamRadius, w, h, g.beamAmount)
	if err := g.gpu.Frame(factor, deposits); err != nil {
		return fmt.Errorf("stepping OpenCL solver: %w", err)
	}
	if !g.verifySync {
		return nil
	}
	g.pool.run(func(y0, y1 int) {
		g.buffer.decayRows(factor, y0, y1)
	})
	depositSegments(g.buffer, segs, g.beamRadius, g.beamAmount)
	g.buffer.swap()
	if err := g.gpu.ReadIntensity(g.verifyScratch); err != nil {
		return fmt.Errorf("reading OpenCL buffer for verification: %w", err)
	}
	host := g.buffer.previous()
	for i, hv := range host {
		if diff := math.Abs(float64(g.verifyScratch[i] - hv)); diff > gpuVerifyTolerance {
			return fmt.Errorf("OpenCL sync mismatch at cell %d: device=%f host=%f diff=%f",
				i, g.verifyScratch[i], hv, diff)
		}
	}
	return nil
}

// handleControls processes runtime hotkeys.
func (g *Game) handleControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.paths.toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.buffer.fill(0)
		g.buffer.swap()
		g.buffer.fill(0)
		g.buffer.swap()
	}
}
