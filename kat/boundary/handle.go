// Package boundary guards the state that primitive implementations share
// across calls. Reference implementations draw their randomness from one
// process-wide randombytes() generator, so at most one verification may touch
// it at a time. Handle owns that generator; a Session is the exclusive lease a
// verification holds while it runs.
package boundary

import (
	"context"
	"errors"
	"sync/atomic"

	"katwalk/crypto/drbg"
)

var (
	ErrReleased = errors.New("boundary: session already released")
	ErrUnseeded = errors.New("boundary: generator not seeded")
)

// Handle is the single owner of the shared generator. The zero value is not
// usable; call New.
type Handle struct {
	slot   chan struct{}
	busy   atomic.Bool
	leases atomic.Uint64

	// rng is only touched by the holder of slot.
	rng *drbg.CTR
}

func New() *Handle {
	return &Handle{slot: make(chan struct{}, 1)}
}

// Acquire blocks until no other session is outstanding or ctx is done.
func (h *Handle) Acquire(ctx context.Context) (*Session, error) {
	select {
	case h.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return h.lease(), nil
}

// TryAcquire leases the handle only if it is free.
func (h *Handle) TryAcquire() (*Session, bool) {
	select {
	case h.slot <- struct{}{}:
		return h.lease(), true
	default:
		return nil, false
	}
}

func (h *Handle) lease() *Session {
	h.busy.Store(true)
	h.leases.Add(1)
	return &Session{h: h}
}

// Busy reports whether a session is outstanding.
func (h *Handle) Busy() bool { return h.busy.Load() }

// Leases is the number of sessions granted so far.
func (h *Handle) Leases() uint64 { return h.leases.Load() }

// Session is an exclusive lease on a Handle. It must be released exactly once
// and is not safe for concurrent use.
type Session struct {
	h        *Handle
	released bool
}

// Release returns the lease. Releasing twice is a no-op.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	s.h.busy.Store(false)
	<-s.h.slot
}

// Reseed reinstantiates the shared generator from a 48-byte entropy input,
// the way a KAT generator calls randombytes_init before each test case.
func (s *Session) Reseed(seed []byte) error {
	if s.released {
		return ErrReleased
	}
	if s.h.rng == nil {
		rng, err := drbg.New(seed)
		if err != nil {
			return err
		}
		s.h.rng = rng
		return nil
	}
	return s.h.rng.Reseed(seed)
}

// Read draws from the shared generator, like one randombytes() call.
func (s *Session) Read(p []byte) (int, error) {
	if s.released {
		return 0, ErrReleased
	}
	if s.h.rng == nil {
		return 0, ErrUnseeded
	}
	return s.h.rng.Read(p)
}
