// Package loopback provides an in-memory Serial and GattNotifier used by
// the pipeline tests.
package loopback

import (
	"bytes"
	"sync"
)

// Pipe is an in-memory, goroutine-safe io.ReadWriter: writes append to
// an internal buffer, reads drain it. It satisfies transport.Serial.
type Pipe struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (p *Pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Write(b)
}

// Read drains from the buffer.
func (p *Pipe) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Read(b)
}

// Bytes returns (and does not consume) a copy of the buffered contents.
func (p *Pipe) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.buf.Bytes()...)
}

// Notifier is an in-memory GattNotifier: Notify appends the chunk to a
// slice of recorded notifications rather than writing to a real radio.
type Notifier struct {
	mu        sync.Mutex
	chunks    [][]byte
	connected bool
}

// NewNotifier creates a Notifier that reports Connected() == true.
func NewNotifier() *Notifier {
	return &Notifier{connected: true}
}

// Notify records chunk.
func (n *Notifier) Notify(chunk []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chunks = append(n.chunks, append([]byte(nil), chunk...))
	return nil
}

// Connected reports the simulated connection state.
func (n *Notifier) Connected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.connected
}

// SetConnected toggles the simulated connection state.
func (n *Notifier) SetConnected(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.connected = v
}

// Chunks returns a copy of every chunk recorded so far.
func (n *Notifier) Chunks() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]byte(nil), n.chunks...)
}
