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

package renderer

import (
	"reflect"

	"dirpx.dev/listfx/apis"
)

// funcKey is the default route key of a Func: one route per (item, view)
// type pair.
type funcKey struct {
	Item reflect.Type
	View reflect.Type
}

// Func is a renderer assembled from callbacks. Only Create and OnBind are
// usually needed; unset hooks fall back to Base behaviour.
//
// Use a pointer; renderers are compared by identity.
type Func[T any, V any] struct {
	Base[T]

	// Key overrides the route key. Two Funcs with the same item and view
	// types need distinct keys.
	Key any

	Create func(parent any) (V, error)
	OnBind func(view V, item T, position int)

	// Content replaces value equality.
	Content func(old, new T) bool
	// Payload replaces watcher evaluation.
	Payload func(old, new T) any
	// Partial applies payloads produced by Payload; returning false falls
	// back to OnBind.
	Partial func(view V, item T, payloads []any) bool

	// ID extracts the identity key. A nil result means no identity.
	ID func(item T) any

	Recycled func(view V)
	Attached func(view V)
	Detached func(view V)
}

var (
	_ apis.Renderer         = (*Func[int, int])(nil)
	_ apis.IdentityDeclarer = (*Func[int, int])(nil)
)

func (f *Func[T, V]) RouteKey() any {
	if f.Key != nil {
		return f.Key
	}
	return funcKey{Item: reflect.TypeFor[T](), View: reflect.TypeFor[V]()}
}

func (f *Func[T, V]) CreateHolder(parent any, id apis.RouteID) (apis.Holder, error) {
	h := &Holder[V]{ID: id, Position: -1}
	if f.Create == nil {
		return h, nil
	}
	v, err := f.Create(parent)
	if err != nil {
		return nil, err
	}
	h.View = v
	return h, nil
}

func (f *Func[T, V]) Bind(h apis.Holder, item any, position int, payloads []any) {
	hv, ok := h.(*Holder[V])
	if !ok {
		return
	}
	it, ok := As[T](item)
	if !ok {
		return
	}
	hv.Item, hv.Position = item, position

	if len(payloads) > 0 {
		if f.Payload != nil {
			if f.Partial != nil && f.Partial(hv.View, it, payloads) {
				return
			}
		} else if f.ApplyPayloads(hv.View, it, payloads) {
			return
		}
	}
	if f.OnBind != nil {
		f.OnBind(hv.View, it, position)
	}
}

func (f *Func[T, V]) ContentEquals(old, new any) bool {
	if f.Content == nil {
		return f.Base.ContentEquals(old, new)
	}
	o, ok1 := As[T](old)
	n, ok2 := As[T](new)
	return ok1 && ok2 && f.Content(o, n)
}

func (f *Func[T, V]) ChangePayload(old, new any) any {
	if f.Payload == nil {
		return f.Base.ChangePayload(old, new)
	}
	o, ok1 := As[T](old)
	n, ok2 := As[T](new)
	if !ok1 || !ok2 {
		return nil
	}
	return f.Payload(o, n)
}

func (f *Func[T, V]) HasIdentityKey() bool { return f.ID != nil }

func (f *Func[T, V]) IdentityKey(item any) (any, bool) {
	if f.ID == nil {
		return nil, false
	}
	it, ok := As[T](item)
	if !ok {
		return nil, false
	}
	k := f.ID(it)
	return k, k != nil
}

func (f *Func[T, V]) OnRecycled(h apis.Holder) { f.hook(f.Recycled, h) }
func (f *Func[T, V]) OnAttached(h apis.Holder) { f.hook(f.Attached, h) }
func (f *Func[T, V]) OnDetached(h apis.Holder) { f.hook(f.Detached, h) }

func (f *Func[T, V]) hook(fn func(V), h apis.Holder) {
	if fn == nil {
		return
	}
	if hv, ok := h.(*Holder[V]); ok {
		fn(hv.View)
	}
}
