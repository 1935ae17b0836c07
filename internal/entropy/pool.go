// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package entropy

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Pool is a continuously-mixed entropy accumulator. The zero value is not
// usable; construct one with [NewPool].
//
// All methods are safe for concurrent use: callers serialize on an internal
// mutex, and output never depends on caller identity.
type Pool struct {
	mu    sync.Mutex
	state [sha256.Size]byte

	counter uint64

	// bits is a conservative lower bound on bits accumulated since the pool
	// was constructed, reduced by every [Pool.Bytes] call (never below zero)
	// so estimates never double-count.
	bits atomic.Uint64

	stop chan struct{}
	once sync.Once
}

// NewPool constructs a [Pool] seeded from the OS CSPRNG. It returns an error
// only if the system RNG cannot be read, which indicates a broken host.
func NewPool() (*Pool, error) {
	p := &Pool{stop: make(chan struct{})}
	if _, err := io.ReadFull(rand.Reader, p.state[:]); err != nil {
		return nil, err
	}
	p.bits.Store(256)
	return p, nil
}

// Stir mixes arbitrary volunteered bytes (keystroke timing, mouse movement,
// caller-supplied seed material) into the pool's running state. It never
// blocks on I/O.
func (p *Pool) Stir(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := sha256.New()
	h.Write(p.state[:])
	h.Write(data)
	copy(p.state[:], h.Sum(nil))

	// Volunteered bytes are assumed low-quality; credit one bit per 8 bytes,
	// capped so a single call cannot claim unbounded entropy.
	credit := uint64(len(data) / 8)
	if credit > 32 {
		credit = 32
	}
	p.bits.Add(credit)
}

// Run starts a background collector that periodically stirs high-resolution
// timing and process-counter data into the pool until ctx is cancelled or
// [Pool.Close] is called. Run spawns exactly one goroutine and returns
// immediately; callers do not need to wait on it.
func (p *Pool) Run(ctx context.Context) {
	go p.collect(ctx)
}

func (p *Pool) collect(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var buf [8]byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			binary.LittleEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
			p.Stir(buf[:])
			p.Stir([]byte{byte(runtime.NumGoroutine())})
			p.bits.Add(1)
		}
	}
}

// Close stops the background collector started by [Pool.Run]. Close is
// idempotent and safe to call even if Run was never invoked.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.stop) })
}

// Bytes returns n bytes of output, squeezed from the pool's running state.
//
// Each squeeze computes output = SHA-256(state ‖ counter), then folds state
// forward as state = SHA-256(state ‖ output), so no two calls ever reuse the
// same keystream and a captured output cannot be used to recover prior
// outputs.
func (p *Pool) Bytes(n int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, 0, n)
	for len(out) < n {
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], p.counter)
		p.counter++

		h := sha256.New()
		h.Write(p.state[:])
		h.Write(ctr[:])
		squeeze := h.Sum(nil)

		fold := sha256.New()
		fold.Write(p.state[:])
		fold.Write(squeeze)
		copy(p.state[:], fold.Sum(nil))

		out = append(out, squeeze...)
	}

	if p.bits.Load() >= uint64(n*8) {
		p.bits.Add(-uint64(n * 8))
	} else {
		p.bits.Store(0)
	}

	return out[:n]
}

// EstimateBits returns a conservative lower bound on the number of entropy
// bits accumulated since the pool was constructed or last drained by
// [Pool.Bytes]. Consumers that require high-assurance randomness (e.g. a
// rescue-code generator) may block until this exceeds a threshold.
func (p *Pool) EstimateBits() uint64 {
	return p.bits.Load()
}
