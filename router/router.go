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

// Package router builds the per-type routers that pick a renderer for an item.
//
// A route is built once and never changes:
//
//	r, err := router.New[Message]().
//		Match(func(m Message) any { return m.Kind }).
//		Identity(func(m Message) any { return m.ID }).
//		Map(KindText, textRenderer).
//		Map(KindImage, imageRenderer).
//		Build()
//
// Types with a single renderer skip the match step entirely:
//
//	r, err := router.Single[Header](headerRenderer)
package router

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/listfx/apis"
	uref "dirpx.dev/listfx/utils/reflect"
)

var (
	// ErrEmpty is returned by Build when no renderer was mapped.
	ErrEmpty = errors.New("listfx(router): no renderers mapped")
	// ErrNilRenderer is returned by Build when a mapping has a nil renderer.
	ErrNilRenderer = errors.New("listfx(router): nil renderer")
	// ErrUnhashableKey is returned by Build when a dispatch key cannot be a
	// map key.
	ErrUnhashableKey = errors.New("listfx(router): unhashable dispatch key")
	// ErrNoMatcher is returned by Build when several renderers are mapped but
	// no Match function was set.
	ErrNoMatcher = errors.New("listfx(router): several renderers need a Match function")
)

// single is the dispatch key of single-renderer routes.
type single struct{}

// Builder assembles a route for items of type T.
type Builder[T any] struct {
	match    func(T) any
	identity func(T) any
	keys     []any
	table    map[any]apis.Renderer
	err      error
}

// New starts a route for items of type T.
func New[T any]() *Builder[T] {
	return &Builder[T]{table: make(map[any]apis.Renderer)}
}

// Match sets the dispatch-key extractor. A nil key selects nothing.
func (b *Builder[T]) Match(fn func(T) any) *Builder[T] {
	b.match = fn
	return b
}

// Identity sets the identity-key extractor shared by all of the route's
// renderers. A nil key means the item has no identity.
func (b *Builder[T]) Identity(fn func(T) any) *Builder[T] {
	b.identity = fn
	return b
}

// Map routes items whose dispatch key equals key to r. Mapping a key twice
// keeps the last renderer.
func (b *Builder[T]) Map(key any, r apis.Renderer) *Builder[T] {
	if b.err != nil {
		return b
	}
	if r == nil {
		b.err = fmt.Errorf("%w for key %v", ErrNilRenderer, key)
		return b
	}
	if key == nil || !uref.Hashable(key) {
		b.err = fmt.Errorf("%w: %#v", ErrUnhashableKey, key)
		return b
	}
	if _, ok := b.table[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.table[key] = r
	return b
}

// Build validates the mapping and returns an immutable router. The builder
// may be reused afterwards without affecting the built router.
func (b *Builder[T]) Build() (apis.Router, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.table) == 0 {
		return nil, ErrEmpty
	}

	match := b.match
	if match == nil {
		if len(b.keys) > 1 {
			return nil, ErrNoMatcher
		}
		only := b.keys[0]
		match = func(T) any { return only }
	}

	r := &route[T]{
		itemType:  reflect.TypeFor[T](),
		match:     match,
		identity:  b.identity,
		table:     make(map[any]apis.Renderer, len(b.table)),
		renderers: make([]apis.Renderer, 0, len(b.keys)),
	}
	seen := make(map[apis.Renderer]struct{}, len(b.keys))
	for _, k := range b.keys {
		rd := b.table[k]
		r.table[k] = rd
		if !uref.Hashable(rd) {
			r.renderers = append(r.renderers, rd)
			continue
		}
		if _, dup := seen[rd]; !dup {
			seen[rd] = struct{}{}
			r.renderers = append(r.renderers, rd)
		}
	}
	return r, nil
}

// Single builds a route with exactly one renderer.
func Single[T any](r apis.Renderer) (apis.Router, error) {
	return New[T]().Map(single{}, r).Build()
}

// MustSingle is like Single but panics on error.
func MustSingle[T any](r apis.Renderer) apis.Router {
	rt, err := Single[T](r)
	if err != nil {
		panic(err)
	}
	return rt
}

// route is the immutable apis.Router produced by Builder.
type route[T any] struct {
	itemType  reflect.Type
	match     func(T) any
	identity  func(T) any
	table     map[any]apis.Renderer
	renderers []apis.Renderer
}

var _ apis.Router = (*route[int])(nil)

func (r *route[T]) ItemType() reflect.Type { return r.itemType }

func (r *route[T]) HasIdentity() bool { return r.identity != nil }

func (r *route[T]) Renderers() []apis.Renderer {
	out := make([]apis.Renderer, len(r.renderers))
	copy(out, r.renderers)
	return out
}

func (r *route[T]) Select(item any) (apis.Renderer, bool) {
	v, ok := r.as(item)
	if !ok {
		return nil, false
	}
	key := r.match(v)
	if key == nil || !uref.Hashable(key) {
		return nil, false
	}
	rd, ok := r.table[key]
	return rd, ok
}

func (r *route[T]) IdentityKey(item any) (any, bool) {
	if r.identity == nil {
		return nil, false
	}
	v, ok := r.as(item)
	if !ok {
		return nil, false
	}
	key := r.identity(v)
	return key, key != nil
}

// as converts item to T directly, through apis.Variant, or through pointer
// dereference and embedded fields when the item was routed here by
// inheritance.
func (r *route[T]) as(item any) (T, bool) {
	if v, ok := item.(T); ok {
		return v, true
	}
	if d, ok := item.(apis.Variant); ok {
		if v, ok := d.RouteAs().(T); ok {
			return v, true
		}
	}
	var zero T
	p, ok := uref.Project(item, r.itemType)
	if !ok {
		return zero, false
	}
	v, ok := p.(T)
	return v, ok
}
