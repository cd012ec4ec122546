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

package strategy

import (
	"reflect"

	"dirpx.dev/listfx/apis"
	uref "dirpx.dev/listfx/utils/reflect"
)

// NewInheritedStrategy creates an apis.Strategy that falls back to the types
// an item can stand in for: its pointee and embedded types first (nearest
// first, see utils/reflect.Ancestors), then registered interfaces it
// implements, in registration order.
//
// The walk is not memoised here; wrap the chain in resolver.NewCaching.
func NewInheritedStrategy(reg apis.Registry) apis.Strategy {
	return &inheritedStrategy{reg: reg}
}

type inheritedStrategy struct {
	reg apis.Registry
}

var _ apis.Strategy = (*inheritedStrategy)(nil)

func (s *inheritedStrategy) TryResolve(v any) (apis.Router, bool) {
	if v == nil {
		return nil, false
	}
	return s.TryResolveType(reflect.TypeOf(v))
}

func (s *inheritedStrategy) TryResolveType(t reflect.Type) (apis.Router, bool) {
	if t == nil || s.reg == nil {
		return nil, false
	}
	for _, a := range uref.Ancestors(t) {
		if r, ok := s.reg.Lookup(a); ok {
			return r, true
		}
	}
	for _, e := range s.reg.Interfaces() {
		if t.Implements(e.Type) {
			return e.Router, true
		}
	}
	return nil, false
}
