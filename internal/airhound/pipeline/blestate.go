package pipeline

import "sync/atomic"

// ConnState is the per-BLE-connection state machine: Advertising ->
// Connecting -> Connected -> Advertising, driven by GATT events from
// whatever adapter owns the real radio.
type ConnState int32

const (
	ConnAdvertising ConnState = iota
	ConnConnecting
	ConnConnected
)

func (s ConnState) String() string {
	switch s {
	case ConnConnecting:
		return "Connecting"
	case ConnConnected:
		return "Connected"
	default:
		return "Advertising"
	}
}

// ConnStateCell is a lock-free holder for ConnState.
type ConnStateCell struct {
	v int32
}

// Set stores a new state.
func (c *ConnStateCell) Set(s ConnState) { atomic.StoreInt32(&c.v, int32(s)) }

// Get loads the current state.
func (c *ConnStateCell) Get() ConnState { return ConnState(atomic.LoadInt32(&c.v)) }

// OnConnect transitions Advertising/Connecting -> Connected and reports
// whether the transition happened from a non-Connected state (i.e.
// whether the caller should increment the client count).
func (c *ConnStateCell) OnConnect() bool {
	prev := ConnState(atomic.SwapInt32(&c.v, int32(ConnConnected)))
	return prev != ConnConnected
}

// OnDisconnect transitions back to Advertising and reports whether it
// was previously Connected, so the caller knows whether to decrement
// the client count.
func (c *ConnStateCell) OnDisconnect() bool {
	prev := ConnState(atomic.SwapInt32(&c.v, int32(ConnAdvertising)))
	return prev == ConnConnected
}
