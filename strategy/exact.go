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
)

// NewExactStrategy creates an apis.Strategy that finds routers registered for
// exactly the item's dynamic type.
func NewExactStrategy(reg apis.Registry) apis.Strategy {
	return &exactStrategy{reg: reg}
}

type exactStrategy struct {
	reg apis.Registry
}

var _ apis.Strategy = (*exactStrategy)(nil)

// TryResolve looks up v's type in the registry.
func (s *exactStrategy) TryResolve(v any) (apis.Router, bool) {
	if v == nil {
		return nil, false
	}
	return s.TryResolveType(reflect.TypeOf(v))
}

// TryResolveType looks up t in the registry.
func (s *exactStrategy) TryResolveType(t reflect.Type) (apis.Router, bool) {
	if t == nil || s.reg == nil {
		return nil, false
	}
	return s.reg.Lookup(t)
}
