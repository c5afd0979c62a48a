package utils

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
)

// DeviceContext owns one OCCA device plus every kernel and buffer built on
// it. All resources are scoped to the context: Free releases everything, so
// a deferred Free covers every exit path of a solve.
type DeviceContext struct {
	Device  *gocca.OCCADevice
	kernels map[string]*gocca.OCCAKernel
	memory  map[string]*gocca.OCCAMemory
}

// Device modes are OCCA property strings, e.g. {"mode": "CUDA", "device_id": 0}
// or {"mode": "Serial"}.
func NewDeviceContext(deviceProps string) (dc *DeviceContext, err error) {
	var (
		device *gocca.OCCADevice
	)
	if device, err = gocca.NewDevice(deviceProps); err != nil {
		return nil, fmt.Errorf("unable to create device %s: %w", deviceProps, err)
	}
	dc = &DeviceContext{
		Device:  device,
		kernels: make(map[string]*gocca.OCCAKernel),
		memory:  make(map[string]*gocca.OCCAMemory),
	}
	return
}

// devicePreamble is prepended to every kernel source
const devicePreamble = `
typedef double real_t;
typedef long int_t;
`

func (dc *DeviceContext) BuildKernel(kernelSource, kernelName string) (kernel *gocca.OCCAKernel, err error) {
	fullSource := devicePreamble + "\n" + kernelSource
	if kernel, err = dc.Device.BuildKernelFromString(fullSource, kernelName, nil); err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}
	dc.kernels[kernelName] = kernel
	return
}

// RunKernel executes a built kernel; launch dimensions come from the
// kernel's own @outer/@inner loop bounds.
func (dc *DeviceContext) RunKernel(name string, args ...interface{}) error {
	kernel, exists := dc.kernels[name]
	if !exists {
		return fmt.Errorf("kernel %s not found", name)
	}
	return kernel.RunWithArgs(args...)
}

// AllocFloat64 allocates an n-element real buffer under name.
func (dc *DeviceContext) AllocFloat64(name string, n int) *gocca.OCCAMemory {
	mem := dc.Device.Malloc(int64(n*8), nil, nil)
	dc.memory[name] = mem
	return mem
}

// AllocInt64 allocates an n-element integer buffer under name.
func (dc *DeviceContext) AllocInt64(name string, n int) *gocca.OCCAMemory {
	mem := dc.Device.Malloc(int64(n*8), nil, nil)
	dc.memory[name] = mem
	return mem
}

func (dc *DeviceContext) WriteFloat64(name string, data []float64) {
	if len(data) == 0 {
		return
	}
	dc.memory[name].CopyFrom(unsafe.Pointer(&data[0]), int64(len(data)*8))
}

func (dc *DeviceContext) ReadFloat64(name string, data []float64) {
	if len(data) == 0 {
		return
	}
	dc.memory[name].CopyTo(unsafe.Pointer(&data[0]), int64(len(data)*8))
}

func (dc *DeviceContext) WriteInt64(name string, data []int64) {
	if len(data) == 0 {
		return
	}
	dc.memory[name].CopyFrom(unsafe.Pointer(&data[0]), int64(len(data)*8))
}

// GetMemory returns a device memory handle by name
func (dc *DeviceContext) GetMemory(name string) *gocca.OCCAMemory {
	return dc.memory[name]
}

// Finish blocks until all queued device work has completed.
func (dc *DeviceContext) Finish() {
	dc.Device.Finish()
}

// Free releases all allocated resources
func (dc *DeviceContext) Free() {
	for _, kernel := range dc.kernels {
		if kernel != nil {
			kernel.Free()
		}
	}
	for _, mem := range dc.memory {
		if mem != nil {
			mem.Free()
		}
	}
	if dc.Device != nil {
		dc.Device.Free()
	}
}
