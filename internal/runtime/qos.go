package runtime

import "neuronshim/pkg/types"

// SetQoSOption accepts and ignores QoS hints. It succeeds for any handle,
// including nil and released ones.
func (r *Runtime) SetQoSOption(qos *types.QoSOptions) error {
	_ = qos
	return observe("set_qos", nil)
}

// ProfiledQoSData reports that no profiling data exists by clearing the
// profiled fields of qos. Like SetQoSOption it never fails.
func (r *Runtime) ProfiledQoSData(qos *types.QoSOptions) error {
	if qos != nil {
		qos.ProfiledQoSData = nil
		qos.ProfiledQoSDataSize = 0
	}
	return observe("get_profiled_qos", nil)
}
