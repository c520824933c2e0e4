package backend

// MaxTensors bounds the binding table of every adapter.
const MaxTensors = 32

// ElementType is the engine-neutral tensor element type.
type ElementType int

const (
	Unknown ElementType = iota
	Float32
	Uint8
	Int8
	Uint16
	Int16
	Int32
	Int64
	Float16
	Float64
	Bool
)

// Size is the byte width of one element. Unknown types are sized as 4 bytes.
func (t ElementType) Size() int {
	switch t {
	case Uint8, Int8, Bool:
		return 1
	case Uint16, Int16, Float16:
		return 2
	case Float32, Int32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 4
	}
}

// ByteSize is elemSize times the product of dims. Dynamic (non-positive)
// dimensions count as 1.
func ByteSize(elemSize int, dims []int64) int {
	total := elemSize
	for _, d := range dims {
		if d <= 0 {
			d = 1
		}
		total *= int(d)
	}
	return total
}

// TensorMeta describes one model input or output after load.
type TensorMeta struct {
	Name  string
	Type  ElementType
	Shape []int64
	Size  int
}

// NewTensorMeta computes Size from the shape and type.
func NewTensorMeta(name string, typ ElementType, shape []int64) TensorMeta {
	return TensorMeta{Name: name, Type: typ, Shape: shape, Size: ByteSize(typ.Size(), shape)}
}

// SizingShape replaces dynamic dimensions with 1 so a concrete tensor can be
// allocated for them.
func SizingShape(shape []int64) []int64 {
	out := make([]int64, len(shape))
	for i, d := range shape {
		if d <= 0 {
			d = 1
		}
		out[i] = d
	}
	return out
}
