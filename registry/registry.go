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

package registry

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"dirpx.dev/listfx/apis"
	uref "dirpx.dev/listfx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("listfx(registry): nil reflect.Type provided")
	// ErrNilRouter is returned when a nil router is provided.
	ErrNilRouter = errors.New("listfx(registry): nil router provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different router.
	ErrConflictingRegistration = errors.New("listfx(registry): conflicting type registration")
)

// New constructs an empty type table.
func New() apis.Registry {
	r := &registry{m: xsync.NewMapOf[reflect.Type, apis.Router]()}
	r.ifaces.Store(&[]apis.Entry{})
	return r
}

// registry is a Registry backed by xsync.MapOf for lock-free lookups.
type registry struct {
	// mu guards the write path and the ordered snapshot.
	mu sync.Mutex
	// m maps reflect.Type to its router.
	m *xsync.MapOf[reflect.Type, apis.Router]
	// order keeps registration order for Entries.
	order []apis.Entry
	// ifaces is a copy-on-write list of interface registrations.
	ifaces atomic.Pointer[[]apis.Entry]
}

// Register associates t with r. It is idempotent for the same (type, router)
// pair.
func (r *registry) Register(t reflect.Type, rt apis.Router) error {
	if t == nil {
		return ErrNilType
	}
	if rt == nil {
		return ErrNilRouter
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(t); ok {
		if uref.Same(old, rt) {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(t); ok {
		if uref.Same(old, rt) {
			return nil
		}
		return ErrConflictingRegistration
	}

	e := apis.Entry{Type: t, Router: rt}
	r.m.Store(t, rt)
	r.order = append(r.order, e)
	if t.Kind() == reflect.Interface {
		prev := *r.ifaces.Load()
		next := make([]apis.Entry, len(prev), len(prev)+1)
		copy(next, prev)
		next = append(next, e)
		r.ifaces.Store(&next)
	}
	return nil
}

// Lookup returns the router registered for exactly t.
func (r *registry) Lookup(t reflect.Type) (apis.Router, bool) {
	if t == nil {
		return nil, false
	}
	return r.m.Load(t)
}

// Interfaces returns interface registrations in registration order. The
// returned slice must not be modified.
func (r *registry) Interfaces() []apis.Entry {
	return *r.ifaces.Load()
}

// Entries returns a snapshot in registration order.
func (r *registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]apis.Entry, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	return r.m.Size()
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.order = nil
	r.ifaces.Store(&[]apis.Entry{})
}
