package main

/*
#include <stdlib.h>
#include "neuron_runtime.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	"neuronshim/internal/runtime"
	"neuronshim/pkg/types"
)

// addrs ties each live handle id to the one-byte C allocation whose address
// is the NeuronRuntime value C callers hold. Integer ids never become
// pointers, and the address stays valid until release frees it.
var addrs sync.Map // unsafe.Pointer -> uintptr

func toHandle(id uintptr) C.NeuronRuntime {
	p := C.malloc(1)
	addrs.Store(p, id)
	return C.NeuronRuntime(p)
}

func fromHandle(h C.NeuronRuntime) uintptr {
	if h == nil {
		return 0
	}
	v, ok := addrs.Load(unsafe.Pointer(h))
	if !ok {
		return 0
	}
	return v.(uintptr)
}

// dropHandle unbinds h and frees its address. Unknown pointers yield 0.
func dropHandle(h C.NeuronRuntime) uintptr {
	if h == nil {
		return 0
	}
	p := unsafe.Pointer(h)
	v, ok := addrs.LoadAndDelete(p)
	if !ok {
		return 0
	}
	C.free(p)
	return v.(uintptr)
}

func ret(c types.ErrorCode) C.int { return C.int(c) }

// guard turns a panic escaping into C into OpFailed.
func guard(op string, rc *C.int) {
	if p := recover(); p != nil {
		log := shim().Logger()
		log.Error().Interface("panic", p).Str("op", op).Msg("recovered panic in C call")
		*rc = ret(types.OpFailed)
	}
}

// bytesOf views C memory as a Go slice without copying. A nil pointer yields
// a nil slice.
func bytesOf(p unsafe.Pointer, n C.size_t) []byte {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), int(n))
}

//export NeuronRuntime_create
func NeuronRuntime_create(config *C.RuntimeConfig, out *C.NeuronRuntime) (rc C.int) {
	defer guard("create", &rc)
	var cfg *types.RuntimeConfig
	if config != nil {
		cfg = &types.RuntimeConfig{Flags: uint32(config.flags), Suppress: uint32(config.suppress)}
	}
	if out == nil {
		return ret(types.UnexpectedNull)
	}
	id, err := create(cfg)
	if err != nil {
		return ret(code(err))
	}
	*out = toHandle(id)
	return ret(types.NoError)
}

//export NeuronRuntime_release
func NeuronRuntime_release(h C.NeuronRuntime) (rc C.int) {
	defer guard("release", &rc)
	return ret(code(release(dropHandle(h))))
}

//export NeuronRuntime_loadNetworkFromFile
func NeuronRuntime_loadNetworkFromFile(h C.NeuronRuntime, path *C.char) (rc C.int) {
	defer guard("loadNetworkFromFile", &rc)
	if path == nil {
		return ret(types.UnexpectedNull)
	}
	return ret(code(lookup(fromHandle(h)).LoadNetworkFromFile(C.GoString(path))))
}

//export NeuronRuntime_loadNetworkFromBuffer
func NeuronRuntime_loadNetworkFromBuffer(h C.NeuronRuntime, buffer unsafe.Pointer, size C.size_t) (rc C.int) {
	defer guard("loadNetworkFromBuffer", &rc)
	return ret(code(lookup(fromHandle(h)).LoadNetworkFromBuffer(bytesOf(buffer, size))))
}

//export NeuronRuntime_setInput
func NeuronRuntime_setInput(h C.NeuronRuntime, index C.int, buffer unsafe.Pointer, size C.size_t, padding C.int) (rc C.int) {
	defer guard("setInput", &rc)
	return ret(code(lookup(fromHandle(h)).SetInput(int(index), bytesOf(buffer, size), int(padding))))
}

//export NeuronRuntime_setOutput
func NeuronRuntime_setOutput(h C.NeuronRuntime, index C.int, buffer unsafe.Pointer, size C.size_t, padding C.int) (rc C.int) {
	defer guard("setOutput", &rc)
	return ret(code(lookup(fromHandle(h)).SetOutput(int(index), bytesOf(buffer, size), int(padding))))
}

//export NeuronRuntime_getInputCount
func NeuronRuntime_getInputCount(h C.NeuronRuntime, count *C.uint32_t) (rc C.int) {
	defer guard("getInputCount", &rc)
	return countInto(lookup(fromHandle(h)), count, (*runtime.Runtime).InputCount)
}

//export NeuronRuntime_getOutputCount
func NeuronRuntime_getOutputCount(h C.NeuronRuntime, count *C.uint32_t) (rc C.int) {
	defer guard("getOutputCount", &rc)
	return countInto(lookup(fromHandle(h)), count, (*runtime.Runtime).OutputCount)
}

func countInto(r *runtime.Runtime, count *C.uint32_t, fn func(*runtime.Runtime) (uint32, error)) C.int {
	if r == nil || count == nil {
		return ret(types.UnexpectedNull)
	}
	n, err := fn(r)
	if err != nil {
		return ret(code(err))
	}
	*count = C.uint32_t(n)
	return ret(types.NoError)
}

//export NeuronRuntime_getInputSize
func NeuronRuntime_getInputSize(h C.NeuronRuntime, index C.int, size *C.size_t) (rc C.int) {
	defer guard("getInputSize", &rc)
	return sizeInto(lookup(fromHandle(h)), int(index), size, (*runtime.Runtime).InputSize)
}

//export NeuronRuntime_getOutputSize
func NeuronRuntime_getOutputSize(h C.NeuronRuntime, index C.int, size *C.size_t) (rc C.int) {
	defer guard("getOutputSize", &rc)
	return sizeInto(lookup(fromHandle(h)), int(index), size, (*runtime.Runtime).OutputSize)
}

func sizeInto(r *runtime.Runtime, index int, size *C.size_t, fn func(*runtime.Runtime, int) (uint64, error)) C.int {
	if r == nil || size == nil {
		return ret(types.UnexpectedNull)
	}
	n, err := fn(r, index)
	if err != nil {
		return ret(code(err))
	}
	*size = C.size_t(n)
	return ret(types.NoError)
}

//export NeuronRuntime_getInputInfo
func NeuronRuntime_getInputInfo(h C.NeuronRuntime, index C.int, info *C.NeuronTensorInfo) (rc C.int) {
	defer guard("getInputInfo", &rc)
	return infoInto(lookup(fromHandle(h)), int(index), info, (*runtime.Runtime).InputInfo)
}

//export NeuronRuntime_getOutputInfo
func NeuronRuntime_getOutputInfo(h C.NeuronRuntime, index C.int, info *C.NeuronTensorInfo) (rc C.int) {
	defer guard("getOutputInfo", &rc)
	return infoInto(lookup(fromHandle(h)), int(index), info, (*runtime.Runtime).OutputInfo)
}

// infoInto zeroes info before querying, so a failed query leaves no stale data.
func infoInto(r *runtime.Runtime, index int, info *C.NeuronTensorInfo, fn func(*runtime.Runtime, int) (types.TensorInfo, error)) C.int {
	if r == nil || info == nil {
		return ret(types.UnexpectedNull)
	}
	*info = C.NeuronTensorInfo{}
	ti, err := fn(r, index)
	if err != nil {
		return ret(code(err))
	}
	for i, d := range ti.Dimensions {
		info.dimensions[i] = C.uint32_t(d)
	}
	info.dimensionCount = C.uint32_t(ti.DimensionCount)
	info._type = C.uint32_t(ti.Type)
	info.scale = C.float(ti.Scale)
	info.zeroPoint = C.int32_t(ti.ZeroPoint)
	info.sizeBytes = C.size_t(ti.SizeBytes)
	return ret(types.NoError)
}

//export NeuronRuntime_inference
func NeuronRuntime_inference(h C.NeuronRuntime) (rc C.int) {
	defer guard("inference", &rc)
	return ret(code(lookup(fromHandle(h)).Inference()))
}

//export NeuronRuntime_setQoSOption
func NeuronRuntime_setQoSOption(h C.NeuronRuntime, qos *C.QoSOptions) (rc C.int) {
	defer guard("setQoSOption", &rc)
	var opts *types.QoSOptions
	if qos != nil {
		opts = &types.QoSOptions{
			Priority:   types.Priority(qos.priority),
			BoostValue: uint32(qos.boostValue),
			AbortTime:  uint64(qos.abortTime),
			Deadline:   uint64(qos.deadline),
		}
	}
	return ret(code(lookup(fromHandle(h)).SetQoSOption(opts)))
}

//export NeuronRuntime_getProfiledQoSData
func NeuronRuntime_getProfiledQoSData(h C.NeuronRuntime, qos *C.QoSOptions) (rc C.int) {
	defer guard("getProfiledQoSData", &rc)
	if qos == nil {
		return ret(code(lookup(fromHandle(h)).ProfiledQoSData(nil)))
	}
	var opts types.QoSOptions
	err := lookup(fromHandle(h)).ProfiledQoSData(&opts)
	qos.profiledQoSData = nil
	qos.profiledQoSDataSize = C.uint32_t(opts.ProfiledQoSDataSize)
	return ret(code(err))
}
