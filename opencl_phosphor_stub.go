//go:build !opencl

package main

import "errors"

type phosphorSolver struct{}

func newPhosphorSolver(width, height int, gamma float64, beamColor [3]float32, preferFP16 bool) (*phosphorSolver, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *phosphorSolver) Frame(factor float32, deposits []cellDeposit) error {
	return errors.New("OpenCL solver unavailable")
}

func (s *phosphorSolver) PixelBytes() []byte { return nil }

func (s *phosphorSolver) ReadIntensity(dst []float32) error {
	return errors.New("OpenCL solver unavailable")
}

func (s *phosphorSolver) Close() {}

func (s *phosphorSolver) DeviceName() string { return "" }
