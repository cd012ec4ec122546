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

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/errs"
	uref "dirpx.dev/listfx/utils/reflect"
)

// NewRenderers constructs an empty RouteID -> Renderer table.
func NewRenderers() apis.RendererTable {
	return &renderers{m: xsync.NewMapOf[apis.RouteID, apis.Renderer]()}
}

type renderers struct {
	mu sync.Mutex
	m  *xsync.MapOf[apis.RouteID, apis.Renderer]
}

// Register binds id to rd. Binding the same renderer twice is a no-op;
// binding a different renderer to a taken id is an errs.ErrRouteKeyCollision.
// Renderers are compared by identity, so register pointers.
func (r *renderers) Register(id apis.RouteID, rd apis.Renderer) error {
	if rd == nil {
		return errs.Config(errs.ErrDispatchFailure, nil, "nil renderer for route id %d", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.m.Load(id); ok {
		if uref.Same(old, rd) {
			return nil
		}
		return errs.Config(errs.ErrRouteKeyCollision, nil,
			"renderers %T and %T both use route key %s (route id %d)",
			old, rd, fmt.Sprintf("%v", rd.RouteKey()), id)
	}
	r.m.Store(id, rd)
	return nil
}

// Resolve returns the renderer bound to id.
func (r *renderers) Resolve(id apis.RouteID) (apis.Renderer, bool) {
	return r.m.Load(id)
}

// Entries returns a snapshot ordered by id.
func (r *renderers) Entries() []apis.RendererEntry {
	out := make([]apis.RendererEntry, 0, r.m.Size())
	r.m.Range(func(id apis.RouteID, rd apis.Renderer) bool {
		out = append(out, apis.RendererEntry{ID: id, Renderer: rd})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of bound ids.
func (r *renderers) Count() int {
	return r.m.Size()
}

// Reset clears the table.
func (r *renderers) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
}
