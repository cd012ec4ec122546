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

package resolver

import (
	"reflect"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"dirpx.dev/listfx/apis"
)

// NewCaching memoises next per concrete type, negative results included.
// Values implementing apis.Variant bypass the cache since their route depends
// on the instance.
//
// Invalidate starts a new generation. Entries from older generations are
// ignored, so a lookup racing with a registration can at worst return one
// stale answer but never leaves a stale entry behind.
func NewCaching(next apis.Resolver) apis.Resolver {
	return &caching{
		next:  next,
		cache: xsync.NewMapOf[reflect.Type, cached](),
	}
}

type cached struct {
	gen    uint64
	router apis.Router
	ok     bool
}

type caching struct {
	next  apis.Resolver
	gen   atomic.Uint64
	cache *xsync.MapOf[reflect.Type, cached]
}

func (c *caching) Resolve(v any) (apis.Router, bool) {
	if v == nil {
		return nil, false
	}
	if _, ok := v.(apis.Variant); ok {
		if rt, ok := c.next.Resolve(v); ok {
			return rt, true
		}
	}
	return c.ResolveType(reflect.TypeOf(v))
}

func (c *caching) ResolveType(t reflect.Type) (apis.Router, bool) {
	if t == nil {
		return nil, false
	}
	gen := c.gen.Load()
	if e, ok := c.cache.Load(t); ok && e.gen == gen {
		return e.router, e.ok
	}
	rt, ok := c.next.ResolveType(t)
	c.cache.Store(t, cached{gen: gen, router: rt, ok: ok})
	return rt, ok
}

func (c *caching) Invalidate() {
	c.gen.Add(1)
	c.cache.Clear()
	c.next.Invalidate()
}
