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

// Router selects the renderer for items of one registered type.
// A Router is immutable once built.
type Router interface {
	// ItemType is the type the router was built for.
	ItemType() reflect.Type
	// Select returns the renderer for item, or false when no mapping exists.
	Select(item any) (Renderer, bool)
	// IdentityKey extracts the router-level identity key, if configured.
	IdentityKey(item any) (any, bool)
	// HasIdentity reports whether a router-level identity extractor is set.
	HasIdentity() bool
	// Renderers lists every renderer the router can select, in mapping order.
	Renderers() []Renderer
}
