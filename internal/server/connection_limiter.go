package server

import "sync/atomic"

// ConnectionLimiter caps total concurrent WebSocket connections per instance.
// Uses atomic operations for lock-free counting.
type ConnectionLimiter struct {
	current atomic.Int64
	max     int64
}

// NewConnectionLimiter creates a limiter with the specified maximum connections.
func NewConnectionLimiter(max int64) *ConnectionLimiter {
	return &ConnectionLimiter{max: max}
}

// Acquire attempts to acquire a connection slot.
// Returns true if successful, false if at capacity.
func (l *ConnectionLimiter) Acquire() bool {
	for {
		current := l.current.Load()
		if current >= l.max {
			return false
		}
		if l.current.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

// Release releases a connection slot.
func (l *ConnectionLimiter) Release() {
	l.current.Add(-1)
}

// Current returns the current number of connections.
func (l *ConnectionLimiter) Current() int64 {
	return l.current.Load()
}
