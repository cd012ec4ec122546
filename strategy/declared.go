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

// NewDeclaredStrategy creates an apis.Strategy for items implementing
// apis.Variant.
func NewDeclaredStrategy(reg apis.Registry) apis.Strategy {
	return &declaredStrategy{reg: reg}
}

// declaredStrategy is a zero-cost fast path: if v implements apis.Variant,
// look up the type of the value it stands for and stop the chain.
type declaredStrategy struct {
	reg apis.Registry
}

// Ensure declaredStrategy implements apis.Strategy.
var _ apis.Strategy = (*declaredStrategy)(nil)

// TryResolve checks if v implements apis.Variant and looks up the type of
// the value it routes as.
func (s *declaredStrategy) TryResolve(v any) (apis.Router, bool) {
	if v == nil || s.reg == nil {
		return nil, false
	}
	if d, ok := v.(apis.Variant); ok {
		if as := d.RouteAs(); as != nil {
			return s.reg.Lookup(reflect.TypeOf(as))
		}
	}
	return nil, false
}

// TryResolveType always returns false: Variant requires an instance.
func (*declaredStrategy) TryResolveType(reflect.Type) (apis.Router, bool) {
	return nil, false
}
