package types

import "fmt"

// InvalidChannelConfigError reports a channel configuration a node does not
// support, either because it is outside the declared min/max bounds or
// because the node's own validator rejected it.
type InvalidChannelConfigError struct {
	Config ChannelConfig
	Info   AudioNodeInfo
	Detail error
}

func (e *InvalidChannelConfigError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("invalid channel configuration %+v on node %q: %v", e.Config, e.Info.DebugName, e.Detail)
	}
	return fmt.Sprintf("invalid channel configuration %+v on node %q: supported inputs [%d, %d], outputs [%d, %d]",
		e.Config, e.Info.DebugName,
		e.Info.NumMinSupportedInputs, e.Info.NumMaxSupportedInputs,
		e.Info.NumMinSupportedOutputs, e.Info.NumMaxSupportedOutputs)
}

func (e *InvalidChannelConfigError) Unwrap() error { return e.Detail }

// ActivationFailedError reports that a node failed to produce its real-time
// processor. NodeID is nil when the node was not yet inserted into a graph.
type ActivationFailedError struct {
	NodeID *NodeID
	Cause  error
}

func (e *ActivationFailedError) Error() string {
	if e.NodeID != nil {
		return fmt.Sprintf("node %s failed to activate: %v", *e.NodeID, e.Cause)
	}
	return fmt.Sprintf("node failed to activate: %v", e.Cause)
}

func (e *ActivationFailedError) Unwrap() error { return e.Cause }
