// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package entropy_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sqrl/internal/entropy"
)

func TestPool_BytesLength(t *testing.T) {
	p, err := entropy.NewPool()
	require.NoError(t, err)

	for _, n := range []int{0, 1, 16, 32, 100} {
		out := p.Bytes(n)
		require.Len(t, out, n)
	}
}

func TestPool_BytesForwardSecret(t *testing.T) {
	p, err := entropy.NewPool()
	require.NoError(t, err)

	a := p.Bytes(32)
	b := p.Bytes(32)
	require.False(t, bytes.Equal(a, b), "successive squeezes must differ")
}

func TestPool_ConcurrentCallersSerialize(t *testing.T) {
	p, err := entropy.NewPool()
	require.NoError(t, err)

	seen := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := p.Bytes(16)
			mu.Lock()
			defer mu.Unlock()
			seen[string(out)] = true
		}()
	}
	wg.Wait()

	require.Len(t, seen, 50, "every concurrent caller must receive distinct output")
}

func TestPool_StirAffectsFutureOutput(t *testing.T) {
	p, err := entropy.NewPool()
	require.NoError(t, err)

	before := p.EstimateBits()
	p.Stir([]byte("volunteered entropy from a keystroke"))
	after := p.EstimateBits()

	require.Greater(t, after, before, "stirring volunteered bytes must credit entropy")
}

func TestPool_EstimateBitsAccumulatesAndDrains(t *testing.T) {
	p, err := entropy.NewPool()
	require.NoError(t, err)

	before := p.EstimateBits()
	require.GreaterOrEqual(t, before, uint64(256))

	p.Bytes(32) // drains 256 bits
	after := p.EstimateBits()
	require.Less(t, after, before)
}

func TestPool_RunAndClose(t *testing.T) {
	p, err := entropy.NewPool()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Run(ctx)
	time.Sleep(120 * time.Millisecond)
	p.Close()

	// Close is idempotent.
	p.Close()
}
