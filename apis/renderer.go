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

// Holder is the host-side container a renderer draws into. It remembers the
// RouteID it was created for so lifecycle events can find their renderer.
type Holder interface {
	RouteID() RouteID
}

// Renderer creates and binds holders for one visual representation.
//
// RouteKey must return a stable value (see utils/reflect.Stable); two
// renderers returning equal keys are the same route.
type Renderer interface {
	RouteKey() any
	CreateHolder(parent any, id RouteID) (Holder, error)
	// Bind draws item into h. payloads is empty for a full bind.
	Bind(h Holder, item any, position int, payloads []any)
	ContentEquals(old, new any) bool
	// ChangePayload describes what changed between old and new, or nil when
	// a full rebind is required.
	ChangePayload(old, new any) any
	// IdentityKey returns the item's business key, if it has one.
	IdentityKey(item any) (any, bool)
	OnRecycled(h Holder)
	OnAttached(h Holder)
	OnDetached(h Holder)
}

// IdentityDeclarer is implemented by renderers that know statically whether
// they provide identity keys.
type IdentityDeclarer interface {
	HasIdentityKey() bool
}

// Variant is implemented by items that route as another value, e.g. a
// wrapper standing in for the value it wraps. The returned value is what
// routers and renderers see.
type Variant interface {
	RouteAs() any
}
