package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc is invoked outside the breaker lock after every transition.
type StateChangeFunc func(name string, from, to CircuitState)

// CircuitBreakerConfig tunes one breaker. A disabled breaker admits every
// call and never changes state.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	OnStateChange    StateChangeFunc
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig replaces non-positive limits with defaults.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// CircuitBreaker guards one upstream dependency.
type CircuitBreaker struct {
	mu sync.Mutex

	name             string
	enabled          bool
	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int
	onStateChange    StateChangeFunc

	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
	halfOpenSuccesses   int
	now                 func() time.Time
}

func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg = NormalizeCircuitBreakerConfig(cfg)

	return &CircuitBreaker{
		name:             name,
		enabled:          cfg.Enabled,
		failureThreshold: cfg.FailureThreshold,
		openTimeout:      cfg.OpenTimeout,
		halfOpenMaxReq:   cfg.HalfOpenMaxReq,
		onStateChange:    cfg.OnStateChange,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

func (b *CircuitBreaker) Name() string {
	return b.name
}

func (b *CircuitBreaker) Enabled() bool {
	return b.enabled
}

func (b *CircuitBreaker) Allow() error {
	if !b.enabled {
		return nil
	}
	b.mu.Lock()
	from := b.state

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.toHalfOpen()
	}

	if b.state == CircuitStateHalfOpen {
		if b.halfOpenInFlight >= b.halfOpenMaxReq {
			to := b.state
			b.mu.Unlock()
			b.notify(from, to)
			return ErrCircuitOpen
		}
		b.halfOpenInFlight++
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if !b.enabled {
		return
	}
	b.mu.Lock()
	from := b.state

	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures = 0
	case CircuitStateHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.halfOpenMaxReq && b.halfOpenInFlight == 0 {
			b.toClosed()
		}
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if !b.enabled {
		return
	}
	b.mu.Lock()
	from := b.state

	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.failureThreshold {
			b.toOpen()
		}
	case CircuitStateHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		b.toOpen()
	case CircuitStateOpen:
		b.openedAt = b.now()
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

// Record feeds the outcome of one guarded call; transient decides which errors count.
func (b *CircuitBreaker) Record(err error, transient func(error) bool) {
	if err != nil && (transient == nil || transient(err)) {
		b.RecordFailure()
		return
	}
	b.RecordSuccess()
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}

	return b.state
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from == to || b.onStateChange == nil {
		return
	}
	b.onStateChange(b.name, from, to)
}

func (b *CircuitBreaker) toClosed() {
	b.state = CircuitStateClosed
	b.consecutiveFailures = 0
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) toOpen() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}

func (b *CircuitBreaker) toHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}
