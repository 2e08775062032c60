package main

import "flag"

// Command-line flags that override the tuning constants and control optional
// rendering and runtime behavior.
var (
	// decayRateFlag sets the per-millisecond phosphor decay rate (0-1].
	decayRateFlag = flag.Float64("decay-rate", defaultDecayRate, "phosphor decay rate per millisecond (0-1]")

	// beamSpeedFlag sets the beam travel speed in pixels per millisecond.
	beamSpeedFlag = flag.Float64("beam-speed", defaultBeamSpeed, "beam speed in pixels per millisecond")

	// beamRadiusFlag sets the half-width of deposited segments in pixels.
	beamRadiusFlag = flag.Float64("beam-radius", defaultBeamRadius, "beam half-width in pixels")

	// beamHueFlag selects the phosphor color as an HSV hue in degrees.
	beamHueFlag = flag.Float64("beam-hue", defaultBeamHue, "beam color hue in degrees (120 = P1 green)")

	// gammaFlag sets the tone-mapping exponent used at present time.
	gammaFlag = flag.Float64("gamma", defaultGamma, "tone-mapping exponent (<1 brightens midtones)")

	// pointerFlag starts in pointer-follow mode instead of the demo figure.
	pointerFlag = flag.Bool("pointer", false, "trace the mouse cursor trail instead of the demo figure")

	// debugFlag enables the FPS and frame timing overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and frame timing overlay")

	// useOpenCLFlag off-loads decay, deposit, and tone mapping to OpenCL.
	// Requires building with -tags opencl.
	useOpenCLFlag = flag.Bool("opencl", false, "run the phosphor passes on an OpenCL device (requires -tags opencl)")

	// preferFP16Flag stores the OpenCL intensity grids as 16-bit floats on
	// devices that support half precision.
	preferFP16Flag = flag.Bool("prefer-fp16", true, "use 16-bit floats for the OpenCL solver when supported")

	// verifyOpenCLSyncFlag cross-checks the OpenCL buffers against a CPU
	// mirror every frame.
	verifyOpenCLSyncFlag = flag.Bool("verify-opencl-sync", false, "compare OpenCL buffers against a CPU mirror after each frame")

	// recordDefaultPGO runs the demo figure for 15s while capturing default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "run the demo figure for 15s while capturing default.pgo")
)
