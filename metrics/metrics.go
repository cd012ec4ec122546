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

// Package metrics holds the prometheus collectors listfx updates. Nothing is
// registered until the host calls Register.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var RouteIDsAllocated = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "listfx",
	Subsystem: "keyspace",
	Name:      "route_ids_allocated",
})

var IdentitiesAllocated = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "listfx",
	Subsystem: "identity",
	Name:      "identities_allocated",
}, []string{"mode"})

var ItemsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "listfx",
	Subsystem: "engine",
	Name:      "items_dropped",
}, []string{"type"})

var HoldersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "listfx",
	Subsystem: "engine",
	Name:      "holders_created",
}, []string{"route"})

var Tasks = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "listfx",
	Subsystem: "dispatcher",
	Name:      "tasks",
}, []string{"result"})

var DiffDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: "listfx",
	Subsystem: "diff",
	Name:      "duration_ms",
	Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200, 500},
})

var DiffOps = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "listfx",
	Subsystem: "diff",
	Name:      "ops",
}, []string{"kind"})

// Collectors returns every collector in this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RouteIDsAllocated,
		IdentitiesAllocated,
		ItemsDropped,
		HoldersCreated,
		Tasks,
		DiffDuration,
		DiffOps,
	}
}

// Register registers all collectors with reg. Collectors that are already
// registered are skipped, so calling Register twice is harmless.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
