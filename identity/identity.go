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

// Package identity turns (RouteID, business key) pairs into int64 item ids.
package identity

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cespare/xxhash"
	lru "github.com/hashicorp/golang-lru/v2"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/identity/mode"
	"dirpx.dev/listfx/metrics"
	uref "dirpx.dev/listfx/utils/reflect"
)

// DefaultSize is the LRU capacity used when none is configured.
const DefaultSize = 3000

// ErrUnknownMode is returned for a mode.Mode the allocator does not implement.
var ErrUnknownMode = errors.New("identity: unknown mode")

// Compile-time check that *Allocator implements apis.IdentityAllocator.
var _ apis.IdentityAllocator = (*Allocator)(nil)

type slot struct {
	route apis.RouteID
	key   any
}

// hashed stands in for business keys that cannot be map keys.
type hashed uint64

// Allocator hands out item ids.
//
// In LRU mode ids come from a counter starting at 1 and are remembered in a
// bounded table; the same pair returns the same id while it stays in the
// table. In Hash mode the id is a hash of the pair and nothing is stored.
// Neither mode ever returns apis.NoID for a non-nil key.
type Allocator struct {
	mode  mode.Mode
	size  int
	mu    sync.Mutex
	cache *lru.Cache[slot, int64]
	next  int64
}

// New builds an allocator. size <= 0 selects DefaultSize.
func New(m mode.Mode, size int) (*Allocator, error) {
	a := &Allocator{mode: m}
	switch m {
	case mode.LRU:
		if size <= 0 {
			size = DefaultSize
		}
		c, err := lru.New[slot, int64](size)
		if err != nil {
			return nil, err
		}
		a.cache, a.size = c, size
	case mode.Hash:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, m)
	}
	return a, nil
}

// Mode returns the allocation mode.
func (a *Allocator) Mode() mode.Mode { return a.mode }

// Size returns the LRU capacity; 0 in Hash mode.
func (a *Allocator) Size() int { return a.size }

// Identity returns the id for key under route, or apis.NoID for a nil key.
func (a *Allocator) Identity(route apis.RouteID, key any) int64 {
	if key == nil {
		return apis.NoID
	}
	if !uref.Hashable(key) {
		key = hashed(xxhash.Sum64String(fmt.Sprintf("%#v", key)))
	}
	if a.mode == mode.Hash {
		return hashID(route, key)
	}

	s := slot{route: route, key: key}

	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.cache.Get(s); ok {
		return id
	}
	a.next++
	id := a.next
	a.cache.Add(s, id)
	metrics.IdentitiesAllocated.WithLabelValues("lru").Inc()
	return id
}

// Len returns the number of remembered pairs; always 0 in Hash mode.
func (a *Allocator) Len() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.Len()
}

func hashID(route apis.RouteID, key any) int64 {
	buf := binary.BigEndian.AppendUint32(make([]byte, 0, 64), uint32(route))
	switch k := key.(type) {
	case string:
		buf = append(buf, 's')
		buf = append(buf, k...)
	case hashed:
		buf = append(buf, 'h')
		buf = binary.BigEndian.AppendUint64(buf, uint64(k))
	default:
		buf = append(buf, 'v')
		buf = fmt.Appendf(buf, "%T:%#v", key, key)
	}
	metrics.IdentitiesAllocated.WithLabelValues("hash").Inc()
	return int64(xxhash.Sum64(buf) & math.MaxInt64)
}
