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

// Package renderer provides ready-made apis.Renderer building blocks.
//
// Embed Base in a struct that implements RouteKey, CreateHolder and Bind to
// get default diffing and lifecycle behaviour, or fill in a Func for a
// renderer made of callbacks.
package renderer

import (
	"reflect"

	"dirpx.dev/listfx/apis"
	uref "dirpx.dev/listfx/utils/reflect"
	"dirpx.dev/listfx/watch"
)

// Holder is the stock apis.Holder, carrying a view of type V and what was
// last bound into it.
type Holder[V any] struct {
	ID       apis.RouteID
	View     V
	Item     any
	Position int
}

// RouteID implements apis.Holder.
func (h *Holder[V]) RouteID() apis.RouteID { return h.ID }

// Base supplies the optional parts of apis.Renderer for items of type T:
// value equality for content, watcher-derived payloads, no identity key and
// no-op lifecycle hooks.
type Base[T any] struct {
	Watchers watch.Set[T]
}

// Watch registers property watchers used by ChangePayload and ApplyPayloads.
func (b *Base[T]) Watch(w ...watch.Watcher[T]) {
	b.Watchers.Add(w...)
}

func (b *Base[T]) ContentEquals(old, new any) bool {
	return uref.Equal(old, new)
}

func (b *Base[T]) ChangePayload(old, new any) any {
	o, ok := As[T](old)
	if !ok {
		return nil
	}
	n, ok := As[T](new)
	if !ok {
		return nil
	}
	return b.Watchers.Payload(o, n)
}

// ApplyPayloads runs the watchers named in payloads against target and
// reports whether any ran. Call it first in Bind and fall back to a full
// bind on false.
func (b *Base[T]) ApplyPayloads(target any, item any, payloads []any) bool {
	if len(payloads) == 0 || b.Watchers.Len() == 0 {
		return false
	}
	it, ok := As[T](item)
	if !ok {
		return false
	}
	return b.Watchers.Apply(target, it, payloads)
}

func (b *Base[T]) IdentityKey(any) (any, bool) { return nil, false }
func (b *Base[T]) OnRecycled(apis.Holder)      {}
func (b *Base[T]) OnAttached(apis.Holder)      {}
func (b *Base[T]) OnDetached(apis.Holder)      {}

// As converts item to T directly, through apis.Variant or, for items routed
// by inheritance, through pointer dereference and embedded fields.
func As[T any](item any) (T, bool) {
	if v, ok := item.(T); ok {
		return v, true
	}
	if d, ok := item.(apis.Variant); ok {
		if v, ok := d.RouteAs().(T); ok {
			return v, true
		}
	}
	var zero T
	p, ok := uref.Project(item, reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	v, ok := p.(T)
	return v, ok
}
