package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrBreakerOpen is returned by Call while the breaker is open.
var ErrBreakerOpen = errors.New("breaker open")

type BreakerState uint8

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Breaker fast-fails calls to a flaky dependency. The SMTP mailer sits behind
// one so a downed mail server cannot stall every alert worker; the low-stock
// sweep checks State and skips its tick while the breaker is open.
//
// Closed trips open after `trip` consecutive failures. Open turns half-open
// once the cooldown has passed. Half-open closes again after `reclose`
// consecutive successes; a single failure reopens it.
type Breaker struct {
	name     string
	trip     int
	reclose  int
	cooldown time.Duration

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
}

// NewMailerBreaker is the breaker guarding outbound alert mail: trip after 5
// straight failures, probe after a minute, close after 2 good sends.
func NewMailerBreaker() *Breaker {
	return NewBreaker("mailer", 5, 2, time.Minute)
}

func NewBreaker(name string, trip, reclose int, cooldown time.Duration) *Breaker {
	if trip < 1 {
		trip = 1
	}
	if reclose < 1 {
		reclose = 1
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &Breaker{name: name, trip: trip, reclose: reclose, cooldown: cooldown}
}

// State reports the current state, moving open to half-open once the
// cooldown has passed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// current must be called under b.mu.
func (b *Breaker) current() BreakerState {
	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.cooldown {
		b.transition(BreakerHalfOpen)
	}
	return b.state
}

// Call runs fn unless the breaker is open, and feeds the outcome back into
// the state machine.
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.current() == BreakerOpen {
		b.mu.Unlock()
		return ErrBreakerOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(err == nil)
	return err
}

// record must be called under b.mu.
func (b *Breaker) record(ok bool) {
	switch {
	case ok && b.state == BreakerHalfOpen:
		b.successes++
		if b.successes >= b.reclose {
			b.transition(BreakerClosed)
		}
	case ok:
		b.failures = 0
	case b.state == BreakerHalfOpen:
		// Probe failed — back to open for another cooldown
		b.transition(BreakerOpen)
	default:
		b.failures++
		if b.failures >= b.trip {
			b.transition(BreakerOpen)
		}
	}
}

// transition must be called under b.mu.
func (b *Breaker) transition(to BreakerState) {
	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == BreakerOpen {
		b.openedAt = time.Now()
	}
	log.Info().
		Str("breaker", b.name).
		Stringer("from", from).
		Stringer("to", to).
		Msg("breaker state change")
}
