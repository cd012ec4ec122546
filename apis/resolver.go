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

import (
	"reflect"
)

// Resolver coordinates strategies to find the router for values and types.
// Typical chain: Declared -> Exact -> Inherited.
type Resolver interface {
	// Resolve returns the router for v.
	Resolve(v any) (Router, bool)

	// ResolveType returns the router for values of type t.
	ResolveType(t reflect.Type) (Router, bool)

	// Invalidate drops anything memoised; called after every registration.
	Invalidate()
}
