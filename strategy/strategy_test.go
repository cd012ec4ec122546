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

package strategy_test

import (
	"reflect"
	"testing"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/registry"
	"dirpx.dev/listfx/strategy"
)

type stubRouter struct{ name string }

func (s *stubRouter) ItemType() reflect.Type           { return nil }
func (s *stubRouter) Select(any) (apis.Renderer, bool) { return nil, false }
func (s *stubRouter) IdentityKey(any) (any, bool)      { return nil, false }
func (s *stubRouter) HasIdentity() bool                { return false }
func (s *stubRouter) Renderers() []apis.Renderer       { return nil }

type Animal struct{ Name string }

type Dog struct {
	Animal
	Breed string
}

type Puppy struct {
	*Dog
}

type Named interface{ Label() string }
type Labeled interface{ Label() string }

type Rock struct{}

func (Rock) Label() string { return "rock" }

// wrapped routes as the value it wraps.
type wrapped struct{ v any }

func (w wrapped) RouteAs() any { return w.v }

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

func TestDeclaredStrategy(t *testing.T) {
	reg := registry.New()
	animal := &stubRouter{name: "animal"}
	_ = reg.Register(typeOf[Animal](), animal)
	s := strategy.NewDeclaredStrategy(reg)

	if got, ok := s.TryResolve(wrapped{v: Animal{}}); !ok || got != animal {
		t.Fatalf("TryResolve(wrapped) = (%v,%v), want (animal,true)", got, ok)
	}
	if _, ok := s.TryResolve(wrapped{}); ok {
		t.Fatalf("TryResolve(wrapped{nil}): want miss")
	}
	if _, ok := s.TryResolve(Animal{}); ok {
		t.Fatalf("TryResolve(Animal): non-variant must fall through")
	}
	if _, ok := s.TryResolveType(typeOf[wrapped]()); ok {
		t.Fatalf("TryResolveType: requires an instance")
	}
}

func TestExactStrategy(t *testing.T) {
	reg := registry.New()
	dog := &stubRouter{name: "dog"}
	_ = reg.Register(typeOf[Dog](), dog)
	s := strategy.NewExactStrategy(reg)

	if got, ok := s.TryResolve(Dog{}); !ok || got != dog {
		t.Fatalf("TryResolve(Dog) = (%v,%v)", got, ok)
	}
	if _, ok := s.TryResolve(&Dog{}); ok {
		t.Fatalf("TryResolve(*Dog): exact must not unwrap")
	}
	if _, ok := s.TryResolve(nil); ok {
		t.Fatalf("TryResolve(nil): want miss")
	}
}

// TestInheritedStrategy_NearestFirst verifies embedded types are found
// breadth-first and before interfaces.
func TestInheritedStrategy_NearestFirst(t *testing.T) {
	reg := registry.New()
	animal := &stubRouter{name: "animal"}
	dog := &stubRouter{name: "dog"}
	_ = reg.Register(typeOf[Animal](), animal)
	s := strategy.NewInheritedStrategy(reg)

	cases := []struct {
		name string
		val  any
		want apis.Router
	}{
		{"embedded", Dog{}, animal},
		{"pointer to embedding", &Dog{}, animal},
		{"embedded pointer", Puppy{}, animal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := s.TryResolve(tc.val); !ok || got != tc.want {
				t.Fatalf("TryResolve(%T) = (%v,%v), want %v", tc.val, got, ok, tc.want)
			}
		})
	}

	_ = reg.Register(typeOf[Dog](), dog)
	if got, _ := s.TryResolve(Puppy{}); got != dog {
		t.Fatalf("Puppy: want nearest ancestor Dog, got %v", got)
	}
}

func TestInheritedStrategy_InterfacesInRegistrationOrder(t *testing.T) {
	reg := registry.New()
	named := &stubRouter{name: "named"}
	labeled := &stubRouter{name: "labeled"}
	_ = reg.Register(typeOf[Named](), named)
	_ = reg.Register(typeOf[Labeled](), labeled)
	s := strategy.NewInheritedStrategy(reg)

	if got, ok := s.TryResolve(Rock{}); !ok || got != named {
		t.Fatalf("TryResolve(Rock) = (%v,%v), want first registered interface", got, ok)
	}
	if _, ok := s.TryResolve(42); ok {
		t.Fatalf("TryResolve(42): want miss")
	}
}
