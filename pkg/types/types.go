// Package types mirrors the public data types of the Neuron runtime C API so that
// both the exported C surface and Go callers share one definition.
package types

import "fmt"

// ErrorCode is the vendor NeuronRuntimeError enumeration. The numeric values are
// part of the ABI and must never change.
type ErrorCode int32

const (
	NoError            ErrorCode = 0
	BadData            ErrorCode = 1
	BadState           ErrorCode = 2
	UnexpectedNull     ErrorCode = 3
	Incomplete         ErrorCode = 4
	OutputInsufficient ErrorCode = 5
	Unavailable        ErrorCode = 6
	OpFailed           ErrorCode = 7
	Unmappable         ErrorCode = 8
)

var codeNames = map[ErrorCode]string{
	NoError:            "NEURONRUNTIME_NO_ERROR",
	BadData:            "NEURONRUNTIME_BAD_DATA",
	BadState:           "NEURONRUNTIME_BAD_STATE",
	UnexpectedNull:     "NEURONRUNTIME_UNEXPECTED_NULL",
	Incomplete:         "NEURONRUNTIME_INCOMPLETE",
	OutputInsufficient: "NEURONRUNTIME_OUTPUT_INSUFFICIENT",
	Unavailable:        "NEURONRUNTIME_UNAVAILABLE",
	OpFailed:           "NEURONRUNTIME_OP_FAILED",
	Unmappable:         "NEURONRUNTIME_UNMAPPABLE",
}

func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("NEURONRUNTIME_ERROR(%d)", int32(c))
}

// Label is the short lowercase form used for metric labels and CLI output.
func (c ErrorCode) Label() string {
	switch c {
	case NoError:
		return "ok"
	case BadData:
		return "bad_data"
	case BadState:
		return "bad_state"
	case UnexpectedNull:
		return "unexpected_null"
	case Incomplete:
		return "incomplete"
	case OutputInsufficient:
		return "output_insufficient"
	case Unavailable:
		return "unavailable"
	case OpFailed:
		return "op_failed"
	case Unmappable:
		return "unmappable"
	default:
		return "unknown"
	}
}
