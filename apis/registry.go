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

package apis

import "reflect"

// Registry maps registered Go types to their routers.
// Keep it minimal so implementations can be lock-free on reads.
type Registry interface {
	// Register associates t with r. Re-registering the same router is a no-op;
	// a different router for t is an error.
	Register(t reflect.Type, r Router) error
	// Lookup returns the router registered for exactly t.
	Lookup(t reflect.Type) (Router, bool)
	// Interfaces returns the registered interface types in registration order.
	Interfaces() []Entry
	// Entries returns a snapshot in registration order.
	Entries() []Entry
	// Count returns the number of registered types.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, router) association in a Registry snapshot.
type Entry struct {
	Type   reflect.Type
	Router Router
}

// RendererTable binds RouteIDs to renderers.
type RendererTable interface {
	Register(id RouteID, r Renderer) error
	Resolve(id RouteID) (Renderer, bool)
	Entries() []RendererEntry
	Count() int
	Reset()
}

// RendererEntry is a single (id, renderer) association.
type RendererEntry struct {
	ID       RouteID
	Renderer Renderer
}
