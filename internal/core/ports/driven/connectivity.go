package driven

import "context"

// NetState is the outcome of a reachability probe.
type NetState int

const (
	// NetUnknown means the probe could not tell; callers proceed
	// optimistically.
	NetUnknown NetState = iota

	// NetOnline means the backend host answered the probe.
	NetOnline

	// NetOffline means the device is definitely disconnected.
	NetOffline
)

// Connectivity reports current network reachability. Probes must be
// cheap: they gate every analysis call.
type Connectivity interface {
	State(ctx context.Context) NetState
}
