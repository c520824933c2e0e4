package types

// Priority is the QoS priority hint. The shim accepts it and ignores it.
type Priority uint32

const (
	PriorityLow  Priority = 0
	PriorityMed  Priority = 1
	PriorityHigh Priority = 2
)

// QoSOptions mirrors the vendor QoS struct.
type QoSOptions struct {
	Priority Priority
	// BoostValue is a 0..100 frequency scaling hint.
	BoostValue uint32
	// AbortTime and Deadline are nanoseconds; 0 disables them.
	AbortTime uint64
	Deadline  uint64
	// ProfiledQoSData is opaque vendor profiling data. The shim never produces any.
	ProfiledQoSData     []byte
	ProfiledQoSDataSize uint32
}

// Suppression bits for RuntimeConfig.Suppress.
const (
	SuppressNone uint32 = 0
	SuppressMDLA uint32 = 1 << 0
	SuppressVPU  uint32 = 1 << 1
)

// RuntimeConfig is passed to NeuronRuntime_create. Flags are reserved and the
// suppression mask has no meaning without the vendor accelerator.
type RuntimeConfig struct {
	Flags    uint32
	Suppress uint32
}
