package main

import "time"

// Simulation and rendering configuration constants. These values define the
// phosphor grid size, the beam and decay tuning defaults, and the per-frame
// work ceilings for the vector display simulation.
const (
	w, h        = 512, 512
	windowScale = 2

	// defaultDecayRate is the multiplicative attenuation applied to stored
	// intensity per elapsed millisecond. 1.0 freezes the image.
	defaultDecayRate = 0.992

	// defaultBeamSpeed is how far the beam travels per millisecond, in pixels.
	defaultBeamSpeed = 3.0

	// defaultBeamRadius is the half-width of a traced segment quad, in pixels.
	defaultBeamRadius = 1.25

	// defaultGamma is the tone-curve exponent applied at present time.
	// Values below 1 brighten the midtones.
	defaultGamma = 0.55

	// defaultBeamHue selects the deposit color; 120 degrees is the green of a
	// P1 phosphor.
	defaultBeamHue = 120.0

	// beamIntensity is the intensity added per deposited cell per segment.
	beamIntensity = 0.55

	// intensityCeiling bounds the additive accumulation so overlapping
	// deposits saturate instead of growing without bound.
	intensityCeiling = 4.0

	// maxSegmentsPerFrame caps the number of segments the tracer may emit in
	// one frame. Tracing resumes from the same cursor next frame when hit.
	maxSegmentsPerFrame = 2048

	// arrivalEpsilon is the distance below which a waypoint counts as reached.
	arrivalEpsilon = 1e-3

	// maxFrameMillis clamps the per-frame time budget so a stalled process
	// cannot dump an enormous budget into a single frame.
	maxFrameMillis = 100.0

	toneTableSize = 4096

	beamTipRad = 2

	// Demo path tuning: a Lissajous figure resampled every frame.
	demoPathPoints  = 96
	demoFreqX       = 3.0
	demoFreqY       = 2.0
	demoMarginFrac  = 0.12
	demoPhasePerMs  = 0.00035
	pointerTrailLen = 64

	pgoRecordDuration = 15 * time.Second

	// gpuVerifyTolerance is the allowed per-cell deviation between the
	// OpenCL buffers and the CPU mirror; loose enough to cover fp16 storage.
	gpuVerifyTolerance = 1e-2
)
