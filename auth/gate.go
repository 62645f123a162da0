package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultRefreshTimeout bounds a renewal call when the caller does not set one.
const DefaultRefreshTimeout = 15 * time.Second

// GateState is the state of a Gate.
type GateState int

const (
	Idle GateState = iota
	Refreshing
)

func (s GateState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Refreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("GateState(%d)", int(s))
	}
}

// Continuation resumes a parked request with a fresh token or the refresh failure.
type Continuation func(token string, err error)

// RefreshFunc performs one renewal and returns the new access token.
type RefreshFunc func(ctx context.Context) (string, error)

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithRefreshTimeout bounds each renewal call.
func WithRefreshTimeout(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithRefreshHook registers a callback invoked after each renewal with its
// outcome and the number of waiters it resolved.
func WithRefreshHook(hook func(err error, waiters int)) GateOption {
	return func(g *Gate) { g.hook = hook }
}

type waiter struct {
	resume Continuation
}

// Gate lets at most one renewal run at a time. Requests that hit an expired
// token while a renewal is outstanding are parked and resumed in arrival order
// once it resolves. State and queue change together under mu.
type Gate struct {
	mu      sync.Mutex
	state   GateState
	waiters []*waiter

	refresh RefreshFunc
	current func() string
	timeout time.Duration
	hook    func(err error, waiters int)
}

// NewGate creates an idle gate. current reports the access token presently stored.
func NewGate(refresh RefreshFunc, current func() string, opts ...GateOption) *Gate {
	g := &Gate{
		refresh: refresh,
		current: current,
		timeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State reports whether a renewal is outstanding.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending reports how many continuations are parked.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.waiters)
}

// Enqueue parks k until a fresh token is available. stale is the token the
// failed request carried. If the gate is idle and the stored token has already
// moved past stale, k runs immediately with the stored token and no renewal
// starts. If the store is empty because an earlier renewal failed, k fails
// with ErrSessionExpired, again without a renewal. Otherwise k is queued, and a renewal starts if none is outstanding.
//
// The returned function withdraws k if it has not been resumed yet and reports
// whether it did; a withdrawn continuation is never called.
func (g *Gate) Enqueue(stale string, k Continuation) (withdraw func() bool) {
	w := &waiter{resume: k}

	g.mu.Lock()
	if g.state == Idle {
		cur := g.current()
		switch {
		case cur != "" && cur != stale:
			g.mu.Unlock()
			log.Debug().Msg("Token already renewed, resuming without refresh")
			k(cur, nil)
			return func() bool { return false }
		case cur == "" && stale != "":
			// The session this token belonged to has already ended.
			g.mu.Unlock()
			log.Debug().Msg("Session already cleared, failing without refresh")
			k("", ErrSessionExpired)
			return func() bool { return false }
		}
		g.state = Refreshing
		g.waiters = append(g.waiters, w)
		g.mu.Unlock()
		go g.run()
	} else {
		g.waiters = append(g.waiters, w)
		n := len(g.waiters)
		g.mu.Unlock()
		log.Debug().Int("waiters", n).Msg("Refresh in flight, request parked")
	}

	return func() bool { return g.remove(w) }
}

func (g *Gate) remove(w *waiter) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, x := range g.waiters {
		if x == w {
			g.waiters = append(g.waiters[:i], g.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// run performs the renewal detached from any single caller, then resumes every
// waiter in FIFO order from this goroutine.
func (g *Gate) run() {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	token, err := g.refresh(ctx)
	cancel()
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		err = fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.state = Idle
	g.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Int("waiters", len(waiters)).Msg("Refresh failed, failing parked requests")
	} else {
		log.Debug().Int("waiters", len(waiters)).Msg("Refresh succeeded, replaying parked requests")
	}
	if g.hook != nil {
		g.hook(err, len(waiters))
	}

	for _, w := range waiters {
		w.resume(token, err)
	}
}
