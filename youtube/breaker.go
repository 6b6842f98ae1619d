package youtube

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open.
var ErrCircuitOpen = errors.New("remote api circuit open")

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// breaker is a single-circuit breaker guarding the Data API. After
// threshold consecutive transport failures it fails fast for the
// recovery period, then lets one probe request through.
type breaker struct {
	mu        sync.Mutex
	state     circuitState
	failures  int
	openedAt  time.Time
	threshold int
	recovery  time.Duration
}

func newBreaker(threshold int, recovery time.Duration) *breaker {
	return &breaker{threshold: threshold, recovery: recovery}
}

// allow reports whether a request may proceed.
func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case circuitClosed:
		return nil
	case circuitOpen:
		if time.Since(b.openedAt) >= b.recovery {
			b.state = circuitHalfOpen
			return nil
		}
		return ErrCircuitOpen
	case circuitHalfOpen:
		// One probe at a time; further requests wait for its outcome.
		return ErrCircuitOpen
	}
	return nil
}

func (b *breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.state = circuitClosed
}

func (b *breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == circuitHalfOpen {
		b.state = circuitOpen
		b.openedAt = time.Now()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = circuitOpen
		b.openedAt = time.Now()
	}
}
