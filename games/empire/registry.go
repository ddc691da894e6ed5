/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// Registry maps game codes to live sessions. Lookups never contend with each
// other, and creating one session never blocks access to another.
type Registry struct {
	sessions sync.Map // code -> *Session
	count    atomic.Int64

	newCode  func() (string, error)
	newToken func() (string, error)
	newRand  func() *rand.Rand
	now      func() time.Time
}

// Option customises a Registry.
type Option func(*Registry)

// WithCodeGenerator replaces the game code source.
func WithCodeGenerator(fn func() (string, error)) Option {
	return func(r *Registry) {
		r.newCode = fn
	}
}

// WithRand sets the source of each new session's random number generator.
func WithRand(fn func() *rand.Rand) Option {
	return func(r *Registry) {
		r.newRand = fn
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(r *Registry) {
		r.now = fn
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		newCode:  NewCode,
		newToken: NewToken,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create registers a fresh session under an unused code. A colliding code is
// regenerated; an existing session is never replaced.
func (r *Registry) Create() (*Session, error) {
	secret, err := r.newToken()
	if err != nil {
		return nil, err
	}

	for {
		code, err := r.newCode()
		if err != nil {
			return nil, err
		}
		code = NormalizeCode(code)

		s := newSession(code, secret, r.newRand(), r.now)
		if _, loaded := r.sessions.LoadOrStore(code, s); loaded {
			continue
		}

		r.count.Add(1)

		return s, nil
	}
}

// Lookup finds a session by code, ignoring case and surrounding space.
func (r *Registry) Lookup(code string) (*Session, error) {
	v, ok := r.sessions.Load(NormalizeCode(code))
	if !ok {
		return nil, ErrSessionNotFound
	}

	return v.(*Session), nil
}

// Remove drops a session. Its code may be handed out again afterwards.
func (r *Registry) Remove(code string) bool {
	if _, loaded := r.sessions.LoadAndDelete(NormalizeCode(code)); !loaded {
		return false
	}

	r.count.Add(-1)

	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return int(r.count.Load())
}

// Reap removes every session idle since before cutoff and returns their codes.
func (r *Registry) Reap(cutoff time.Time) []string {
	var reaped []string

	r.sessions.Range(func(key, value any) bool {
		s := value.(*Session)
		if s.LastActive().Before(cutoff) && r.sessions.CompareAndDelete(key, s) {
			r.count.Add(-1)
			reaped = append(reaped, key.(string))
		}

		return true
	})

	return reaped
}

// RunReaper reaps sessions idle for longer than idle until ctx is done.
// onReap, if set, is called with each removed code.
func (r *Registry) RunReaper(ctx context.Context, idle time.Duration, onReap func(code string)) {
	if idle <= 0 {
		return
	}

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, code := range r.Reap(r.now().Add(-idle)) {
				if onReap != nil {
					onReap(code)
				}
			}
		}
	}
}
