package types

// MaxTensorDims is the fixed dimension capacity of TensorInfo.
const MaxTensorDims = 8

// TensorInfo mirrors NeuronTensorInfo. The shim only ever fills SizeBytes; the
// remaining fields stay zero because adapters do not expose quantization metadata.
type TensorInfo struct {
	Dimensions     [MaxTensorDims]uint32
	DimensionCount uint32
	// Type is 0 = float32, 1 = uint8, 2 = int8 in the vendor encoding.
	Type      uint32
	Scale     float32
	ZeroPoint int32
	SizeBytes uint64
}
