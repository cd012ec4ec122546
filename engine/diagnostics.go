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

package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"dirpx.dev/listfx/apis"
)

type routeStats struct {
	creates atomic.Int64
	binds   atomic.Int64
	nanos   atomic.Int64
}

func (s *routeStats) create(d time.Duration) {
	s.creates.Add(1)
	s.nanos.Add(int64(d))
}

func (s *routeStats) bind() { s.binds.Add(1) }

func (e *Engine) statsFor(id apis.RouteID) *routeStats {
	s, _ := e.stats.LoadOrCompute(id, func() *routeStats { return &routeStats{} })
	return s
}

// RouteStats is the per-route part of Diagnostics.
type RouteStats struct {
	ID         apis.RouteID
	Key        any
	Renderer   string
	Creates    int64
	Binds      int64
	CreateTime time.Duration
}

// AvgCreate is the mean holder creation time.
func (s RouteStats) AvgCreate() time.Duration {
	if s.Creates == 0 {
		return 0
	}
	return s.CreateTime / time.Duration(s.Creates)
}

// Diagnostics is a point-in-time snapshot of an engine.
type Diagnostics struct {
	Strict          bool
	IdentityEnabled bool
	Types           int
	// Routes is ordered by total creation time, slowest first.
	Routes []RouteStats
}

// Diagnostics snapshots registrations and per-route counters.
func (e *Engine) Diagnostics() Diagnostics {
	d := Diagnostics{
		Strict:          e.cfg.Strict,
		IdentityEnabled: e.IdentityEnabled(),
		Types:           e.types.Count(),
	}
	for _, en := range e.renderers.Entries() {
		rs := RouteStats{
			ID:       en.ID,
			Key:      en.Renderer.RouteKey(),
			Renderer: fmt.Sprintf("%T", en.Renderer),
		}
		if s, ok := e.stats.Load(en.ID); ok {
			rs.Creates = s.creates.Load()
			rs.Binds = s.binds.Load()
			rs.CreateTime = time.Duration(s.nanos.Load())
		}
		d.Routes = append(d.Routes, rs)
	}
	sort.SliceStable(d.Routes, func(i, j int) bool {
		return d.Routes[i].CreateTime > d.Routes[j].CreateTime
	})
	return d
}

func (d Diagnostics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "strict=%t identity=%t types=%d routes=%d\n",
		d.Strict, d.IdentityEnabled, d.Types, len(d.Routes))
	for _, r := range d.Routes {
		fmt.Fprintf(&b, "  %6d %-40s creates=%d binds=%d avg_create=%s\n",
			r.ID, r.Renderer, r.Creates, r.Binds, r.AvgCreate())
	}
	return b.String()
}
