/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package identity_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/identity"
	"dirpx.dev/listfx/identity/mode"
)

type orderKey struct {
	Shop string
	Seq  int
}

func newLRU(t *testing.T, size int) *identity.Allocator {
	t.Helper()
	a, err := identity.New(mode.LRU, size)
	require.NoError(t, err)
	return a
}

func TestLRU_CounterStartsAtOne(t *testing.T) {
	a := newLRU(t, 0)
	assert.Equal(t, int64(1), a.Identity(10000, "u1"))
	assert.Equal(t, int64(2), a.Identity(10000, "u2"))
	assert.Equal(t, int64(1), a.Identity(10000, "u1"))
	assert.Equal(t, 2, a.Len())
}

// TestLRU_RouteScopesKeys verifies equal keys under different routes get
// distinct ids.
func TestLRU_RouteScopesKeys(t *testing.T) {
	a := newLRU(t, 0)
	x := a.Identity(10000, "same")
	y := a.Identity(10001, "same")
	assert.NotEqual(t, x, y)
}

func TestLRU_EvictionReallocates(t *testing.T) {
	a := newLRU(t, 2)
	first := a.Identity(10000, "a")
	a.Identity(10000, "b")
	a.Identity(10000, "c") // evicts "a"
	assert.Equal(t, 2, a.Len())
	assert.NotEqual(t, first, a.Identity(10000, "a"))
}

func TestNilKey(t *testing.T) {
	for _, m := range []mode.Mode{mode.LRU, mode.Hash} {
		a, err := identity.New(m, 0)
		require.NoError(t, err)
		assert.Equal(t, apis.NoID, a.Identity(10000, nil), m.String())
	}
}

// TestNonComparableKeys verifies slices and maps are canonicalised rather than
// panicking, and equal contents map to one id.
func TestNonComparableKeys(t *testing.T) {
	for _, m := range []mode.Mode{mode.LRU, mode.Hash} {
		a, err := identity.New(m, 0)
		require.NoError(t, err)

		x := a.Identity(10000, []string{"a", "b"})
		y := a.Identity(10000, []string{"a", "b"})
		z := a.Identity(10000, []string{"b", "a"})
		assert.Equal(t, x, y, m.String())
		assert.NotEqual(t, x, z, m.String())
		assert.NotEqual(t, apis.NoID, a.Identity(10000, map[string]int{"k": 1}))
	}
}

func TestHash_StableAcrossAllocators(t *testing.T) {
	a, err := identity.New(mode.Hash, 0)
	require.NoError(t, err)
	b, err := identity.New(mode.Hash, 0)
	require.NoError(t, err)

	k := orderKey{Shop: "s", Seq: 7}
	assert.Equal(t, a.Identity(10003, k), b.Identity(10003, k))
	assert.NotEqual(t, a.Identity(10003, k), a.Identity(10004, k))
	assert.GreaterOrEqual(t, a.Identity(10003, k), int64(0))
	assert.Zero(t, a.Len())
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := identity.New(mode.Mode(9), 0)
	assert.ErrorIs(t, err, identity.ErrUnknownMode)
}

// TestLRU_Concurrent checks that racing allocations for one key agree.
func TestLRU_Concurrent(t *testing.T) {
	a := newLRU(t, 0)
	workers := runtime.GOMAXPROCS(0) * 4
	ids := make([]int64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			ids[i] = a.Identity(10000, orderKey{Shop: "s", Seq: 1})
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("worker %d got id %d, want %d", i, ids[i], ids[0])
		}
	}
}
