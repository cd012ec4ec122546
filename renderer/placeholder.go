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
	"dirpx.dev/listfx/apis"
)

type placeholderKey struct{}

// Placeholder renders apis.Placeholder items.
type Placeholder struct {
	Create func(parent any) (any, error)
	OnBind func(view any, position int)
}

var _ apis.Renderer = (*Placeholder)(nil)

func (p *Placeholder) RouteKey() any { return placeholderKey{} }

func (p *Placeholder) CreateHolder(parent any, id apis.RouteID) (apis.Holder, error) {
	h := &Holder[any]{ID: id, Position: -1}
	if p.Create != nil {
		v, err := p.Create(parent)
		if err != nil {
			return nil, err
		}
		h.View = v
	}
	return h, nil
}

func (p *Placeholder) Bind(h apis.Holder, item any, position int, _ []any) {
	hv, ok := h.(*Holder[any])
	if !ok {
		return
	}
	hv.Item, hv.Position = item, position
	if p.OnBind != nil {
		p.OnBind(hv.View, position)
	}
}

// Placeholders are interchangeable.
func (p *Placeholder) ContentEquals(_, _ any) bool { return true }
func (p *Placeholder) ChangePayload(_, _ any) any  { return nil }
func (p *Placeholder) IdentityKey(any) (any, bool) { return nil, false }
func (p *Placeholder) OnRecycled(apis.Holder)      {}
func (p *Placeholder) OnAttached(apis.Holder)      {}
func (p *Placeholder) OnDetached(apis.Holder)      {}
