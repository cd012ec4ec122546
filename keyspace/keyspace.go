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

// Package keyspace allocates RouteIDs for route keys.
package keyspace

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/errs"
	"dirpx.dev/listfx/logging"
	"dirpx.dev/listfx/metrics"
	uref "dirpx.dev/listfx/utils/reflect"
)

// Compile-time check that *KeySpace implements apis.KeySpace.
var _ apis.KeySpace = (*KeySpace)(nil)

// KeySpace hands out RouteIDs starting at apis.FirstRouteID. Reads are
// lock-free; the first sight of a key takes a mutex so two goroutines racing
// on the same new key agree on one id.
type KeySpace struct {
	mu   sync.Mutex
	ids  *xsync.MapOf[any, apis.RouteID]
	next apis.RouteID
}

// New returns an empty KeySpace.
func New() *KeySpace {
	return &KeySpace{
		ids:  xsync.NewMapOf[any, apis.RouteID](),
		next: apis.FirstRouteID,
	}
}

// IDFor returns the RouteID for key, allocating one on first sight.
// Unstable keys are rejected with an errs.ErrUnstableKey configuration error.
func (k *KeySpace) IDFor(key any) (apis.RouteID, error) {
	if key != nil && uref.Hashable(key) {
		if id, ok := k.ids.Load(key); ok {
			return id, nil
		}
	}

	if err := uref.Stable(key); err != nil {
		return 0, errs.Config(errs.ErrUnstableKey, reflect.TypeOf(key),
			"key %s of type %T cannot identify a route (%v); use constants, strings, named value types or reflect.Type",
			describe(key), key, err).WithCause(err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if id, ok := k.ids.Load(key); ok {
		return id, nil
	}
	id := k.next
	k.next++
	k.ids.Store(key, id)

	metrics.RouteIDsAllocated.Inc()
	logging.For("keyspace").Debug("route id allocated",
		zap.Int32("id", int32(id)),
		zap.String("key", describe(key)),
		zap.String("type", fmt.Sprintf("%T", key)))
	return id, nil
}

// Lookup returns the RouteID already allocated for key.
func (k *KeySpace) Lookup(key any) (apis.RouteID, bool) {
	if key == nil || !uref.Hashable(key) {
		return 0, false
	}
	return k.ids.Load(key)
}

// Entries returns a snapshot ordered by id.
func (k *KeySpace) Entries() []apis.KeyEntry {
	out := make([]apis.KeyEntry, 0, k.ids.Size())
	k.ids.Range(func(key any, id apis.RouteID) bool {
		out = append(out, apis.KeyEntry{Key: key, ID: id})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of allocated ids.
func (k *KeySpace) Count() int {
	return k.ids.Size()
}

func describe(key any) string {
	if t, ok := key.(reflect.Type); ok {
		return t.String()
	}
	s := fmt.Sprintf("%v", key)
	if len(s) > 64 {
		s = s[:61] + "..."
	}
	return s
}
