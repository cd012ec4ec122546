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

// Package listfx dispatches heterogeneous list items to renderers and keeps
// a rendered list in sync with new versions of its data.
//
// A list holds values of many Go types. For each type the host registers a
// router, which picks one renderer per item. Every renderer has a route key;
// equal keys map to the same RouteID for the life of the process, so view
// recycling pools can be shared between lists.
//
// # Design
//
// The package keeps a read-mostly shared snapshot holding four things:
//
//   - Config: the policy knobs. Strict makes data errors (unroutable items,
//     failed background tasks) fatal; lenient mode reports them to OnError
//     and skips the offending item.
//
//   - KeySpace: the append-only route key to RouteID table. It is never
//     rebuilt, so ids handed out stay valid across reconfiguration.
//
//   - IdentityAllocator: turns (RouteID, identity key) pairs into stable
//     int64 item ids, either from a bounded LRU table or by hashing.
//
//   - Builder: constructs the KeySpace and IdentityAllocator for a Config.
//
// Readers load the snapshot atomically and never lock. Writers (SetConfig,
// SetBuilder, SetIdentities, SetAll) take a short build mutex, derive a new
// snapshot and publish it.
//
// # Controllers
//
// A Controller wires one list together:
//
//	loop := dispatcher.NewLoop()
//	c := listfx.NewController(loop, listfx.WithUpdater(adapter))
//	defer c.Close()
//
//	_ = listfx.RegisterRenderer[Message](c, messageRenderer)
//	_, err := c.Submit(ctx, items, nil)
//
//	go loop.Run(ctx) // on the goroutine that owns the UI
//
// Submit filters unroutable items according to the policy, diffs the new
// version against the current one on a worker and applies the positional
// updates on the loop. A newer Submit supersedes older ones that have not
// been applied.
//
// # Concurrency model
//
// Routing, identity and diff callbacks are safe for concurrent use. Holder
// creation, binding and lifecycle callbacks are meant for the main loop.
// Registration may happen at any time; routes registered later are visible
// to later lookups.
package listfx
