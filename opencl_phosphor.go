//go:build opencl

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// phosphorSolver runs the phosphor passes on an OpenCL device. The two
// intensity grids live on the device and ping-pong there; the host uploads
// only the frame's combined deposit list and reads back only the tone-mapped
// pixel bytes. With -prefer-fp16 the grids are stored as binary16 on devices
// whose compiler accepts the half-precision build.
type phosphorSolver struct {
	context       *cl.Context
	queue         *cl.CommandQueue
	program       *cl.Program
	decayKernel   *cl.Kernel
	depositKernel *cl.Kernel
	toneKernel    *cl.Kernel

	grids     [2]*cl.MemObject
	front     int
	pixelBuf  *cl.MemObject
	indexBuf  *cl.MemObject
	amountBuf *cl.MemObject

	width, height int
	fp16          bool
	deviceName    string

	pixels    []byte
	idxStage  []int32
	amtStage  []float32
	halfStage []uint16
}

const phosphorKernelSource = `#ifdef USE_FP16
#pragma OPENCL EXTENSION cl_khr_fp16 : enable
typedef half real_t;
#else
typedef float real_t;
#endif

__kernel void decay_step(
    const int size,
    const float factor,
    __global const real_t* prev,
    __global real_t* curr)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    curr[idx] = (real_t)((float)prev[idx] * factor);
}

__kernel void deposit_cells(
    __global real_t* curr,
    __global const int* indices,
    __global const float* amounts,
    const int count,
    const float ceiling)
{
    int gid = get_global_id(0);
    if (gid >= count) {
        return;
    }
    int idx = indices[gid];
    float v = (float)curr[idx] + amounts[gid];
    if (v > ceiling) {
        v = ceiling;
    }
    curr[idx] = (real_t)v;
}

__kernel void tone_map(
    const int size,
    const float gamma,
    const float cr,
    const float cg,
    const float cb,
    __global const real_t* buffer,
    __global uchar4* pixels)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    float v = clamp((float)buffer[idx], 0.0f, 1.0f);
    float t = pow(v, gamma);
    pixels[idx] = (uchar4)(
        convert_uchar_sat(t * cr * 255.0f + 0.5f),
        convert_uchar_sat(t * cg * 255.0f + 0.5f),
        convert_uchar_sat(t * cb * 255.0f + 0.5f),
        255);
}`

func newPhosphorSolver(width, height int, gamma float64, beamColor [3]float32, preferFP16 bool) (*phosphorSolver, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}

	fp16 := false
	program, err := buildPhosphorProgram(context, device, preferFP16)
	if err == nil && preferFP16 {
		fp16 = true
	}
	if err != nil {
		if preferFP16 {
			// Half precision not supported; fall back to single precision.
			log.Printf("fp16 build rejected, using fp32 buffers: %v", err)
			program, err = buildPhosphorProgram(context, device, false)
		}
		if err != nil {
			queue.Release()
			context.Release()
			return nil, err
		}
	}

	s := &phosphorSolver{
		context:    context,
		queue:      queue,
		program:    program,
		width:      width,
		height:     height,
		fp16:       fp16,
		deviceName: device.Name(),
	}

	if s.decayKernel, err = program.CreateKernel("decay_step"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating decay kernel: %w", err)
	}
	if s.depositKernel, err = program.CreateKernel("deposit_cells"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating deposit kernel: %w", err)
	}
	if s.toneKernel, err = program.CreateKernel("tone_map"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating tone map kernel: %w", err)
	}

	size := width * height
	gridBytes := size * 4
	if fp16 {
		gridBytes = size * 2
	}
	for i := range s.grids {
		if s.grids[i], err = context.CreateEmptyBuffer(cl.MemReadWrite, gridBytes); err != nil {
			s.Close()
			return nil, fmt.Errorf("allocating intensity buffer %d: %w", i, err)
		}
	}
	if s.pixelBuf, err = context.CreateEmptyBuffer(cl.MemWriteOnly, size*4); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating pixel buffer: %w", err)
	}
	if s.indexBuf, err = context.CreateEmptyBuffer(cl.MemReadOnly, size*int(unsafe.Sizeof(int32(0)))); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating deposit index buffer: %w", err)
	}
	if s.amountBuf, err = context.CreateEmptyBuffer(cl.MemReadOnly, size*int(unsafe.Sizeof(float32(0)))); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating deposit amount buffer: %w", err)
	}

	// Both grids start as dark phosphor.
	zeros := make([]byte, gridBytes)
	for i := range s.grids {
		if _, err := s.queue.EnqueueWriteBuffer(s.grids[i], true, 0, gridBytes, unsafe.Pointer(&zeros[0]), nil); err != nil {
			s.Close()
			return nil, fmt.Errorf("zeroing intensity buffer %d: %w", i, err)
		}
	}

	if err := s.decayKernel.SetArgs(
		int32(size),
		float32(1),
		s.grids[1],
		s.grids[0],
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting decay kernel arguments: %w", err)
	}
	if err := s.depositKernel.SetArgs(
		s.grids[0],
		s.indexBuf,
		s.amountBuf,
		int32(0),
		float32(intensityCeiling),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting deposit kernel arguments: %w", err)
	}
	if err := s.toneKernel.SetArgs(
		int32(size),
		float32(gamma),
		beamColor[0],
		beamColor[1],
		beamColor[2],
		s.grids[0],
		s.pixelBuf,
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting tone map kernel arguments: %w", err)
	}

	s.pixels = make([]byte, size*4)
	s.idxStage = make([]int32, 0, size)
	s.amtStage = make([]float32, 0, size)
	if fp16 {
		s.halfStage = make([]uint16, size)
	}
	return s, nil
}

func buildPhosphorProgram(context *cl.Context, device *cl.Device, fp16 bool) (*cl.Program, error) {
	program, err := context.CreateProgramWithSource([]string{phosphorKernelSource})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	options := ""
	if fp16 {
		options = "-D USE_FP16=1"
	}
	if err := program.BuildProgram([]*cl.Device{device}, options); err != nil {
		program.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	return program, nil
}

// Frame runs one full cycle on the device: decay the previous grid into the
// current one, apply the frame's deposits, tone-map into pixel bytes, and
// swap the grid roles. Only the pixels cross back to the host.
func (s *phosphorSolver) Frame(factor float32, deposits []cellDeposit) error {
	size := s.width * s.height
	curr := s.grids[s.front]
	prev := s.grids[s.front^1]

	if err := s.decayKernel.SetArgFloat32(1, factor); err != nil {
		return fmt.Errorf("setting decay factor: %w", err)
	}
	if err := s.decayKernel.SetArgBuffer(2, prev); err != nil {
		return fmt.Errorf("binding previous grid: %w", err)
	}
	if err := s.decayKernel.SetArgBuffer(3, curr); err != nil {
		return fmt.Errorf("binding current grid: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.decayKernel, nil, []int{size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing decay kernel: %w", err)
	}

	if len(deposits) > 0 {
		s.idxStage = s.idxStage[:0]
		s.amtStage = s.amtStage[:0]
		for _, d := range deposits {
			s.idxStage = append(s.idxStage, d.index)
			s.amtStage = append(s.amtStage, d.amount)
		}
		idxBytes := len(s.idxStage) * int(unsafe.Sizeof(int32(0)))
		if _, err := s.queue.EnqueueWriteBuffer(s.indexBuf, false, 0, idxBytes, unsafe.Pointer(&s.idxStage[0]), nil); err != nil {
			return fmt.Errorf("writing deposit indices: %w", err)
		}
		if _, err := s.queue.EnqueueWriteBufferFloat32(s.amountBuf, false, 0, s.amtStage, nil); err != nil {
			return fmt.Errorf("writing deposit amounts: %w", err)
		}
		if err := s.depositKernel.SetArgBuffer(0, curr); err != nil {
			return fmt.Errorf("binding deposit grid: %w", err)
		}
		if err := s.depositKernel.SetArgInt32(3, int32(len(deposits))); err != nil {
			return fmt.Errorf("setting deposit count: %w", err)
		}
		if _, err := s.queue.EnqueueNDRangeKernel(s.depositKernel, nil, []int{len(deposits)}, nil, nil); err != nil {
			return fmt.Errorf("enqueueing deposit kernel: %w", err)
		}
	}

	if err := s.toneKernel.SetArgBuffer(5, curr); err != nil {
		return fmt.Errorf("binding tone map grid: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.toneKernel, nil, []int{size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing tone map kernel: %w", err)
	}

	if _, err := s.queue.EnqueueReadBuffer(s.pixelBuf, true, 0, len(s.pixels), unsafe.Pointer(&s.pixels[0]), nil); err != nil {
		return fmt.Errorf("reading pixel buffer: %w", err)
	}

	s.front ^= 1
	return nil
}

// PixelBytes returns the most recent tone-mapped frame as RGBA bytes.
func (s *phosphorSolver) PixelBytes() []byte {
	return s.pixels
}

// ReadIntensity copies the just-finished intensity grid into dst, expanding
// binary16 storage when the fp16 path is active. Used by the sync
// verification flag.
func (s *phosphorSolver) ReadIntensity(dst []float32) error {
	size := s.width * s.height
	if len(dst) != size {
		return fmt.Errorf("intensity destination has %d cells, want %d", len(dst), size)
	}
	finished := s.grids[s.front^1]
	if s.fp16 {
		byteLen := size * 2
		if _, err := s.queue.EnqueueReadBuffer(finished, true, 0, byteLen, unsafe.Pointer(&s.halfStage[0]), nil); err != nil {
			return fmt.Errorf("reading fp16 grid: %w", err)
		}
		unpackFloat16(dst, s.halfStage)
		return nil
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(finished, true, 0, dst, nil); err != nil {
		return fmt.Errorf("reading fp32 grid: %w", err)
	}
	return nil
}

func (s *phosphorSolver) Close() {
	if s.amountBuf != nil {
		s.amountBuf.Release()
		s.amountBuf = nil
	}
	if s.indexBuf != nil {
		s.indexBuf.Release()
		s.indexBuf = nil
	}
	if s.pixelBuf != nil {
		s.pixelBuf.Release()
		s.pixelBuf = nil
	}
	for i := range s.grids {
		if s.grids[i] != nil {
			s.grids[i].Release()
			s.grids[i] = nil
		}
	}
	if s.toneKernel != nil {
		s.toneKernel.Release()
		s.toneKernel = nil
	}
	if s.depositKernel != nil {
		s.depositKernel.Release()
		s.depositKernel = nil
	}
	if s.decayKernel != nil {
		s.decayKernel.Release()
		s.decayKernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *phosphorSolver) DeviceName() string {
	return s.deviceName
}
