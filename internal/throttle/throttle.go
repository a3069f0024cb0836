// Package throttle implements the attack debounce: a request is rejected
// when it arrives within the window of the previously accepted one.
// Rejected requests are dropped, not queued.
package throttle

import "sync"

type Gate struct {
	mu       sync.Mutex
	windowMs int64
	lastMs   int64
	primed   bool
}

func New(windowMs int64) *Gate {
	return &Gate{windowMs: windowMs}
}

// Allow reports whether a request at nowMs is accepted and records it if so.
func (g *Gate) Allow(nowMs int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.primed && nowMs-g.lastMs < g.windowMs {
		return false
	}
	g.lastMs = nowMs
	g.primed = true
	return true
}

// Reset forgets the last accepted request.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.primed = false
	g.lastMs = 0
}
