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

package builder_test

import (
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/builder"
	"dirpx.dev/listfx/config"
	"dirpx.dev/listfx/identity"
	"dirpx.dev/listfx/identity/mode"
	"dirpx.dev/listfx/keyspace"
)

type routeKey struct{ Name string }

// TestBuildKeySpace_Fresh asserts that BuildKeySpace returns a working
// KeySpace when there is nothing to carry over.
func TestBuildKeySpace_Fresh(t *testing.T) {
	ks := builder.New().BuildKeySpace(config.DefaultConfig(), nil)
	if ks == nil {
		t.Fatal("BuildKeySpace returned nil")
	}
	id, err := ks.IDFor(routeKey{"a"})
	if err != nil {
		t.Fatalf("IDFor failed: %v", err)
	}
	if id < apis.FirstRouteID {
		t.Fatalf("first id = %d, want >= %d", id, apis.FirstRouteID)
	}
}

// TestBuildKeySpace_KeepsPrevious verifies that reconfiguration never
// renumbers route keys.
func TestBuildKeySpace_KeepsPrevious(t *testing.T) {
	prev := keyspace.New()
	want, err := prev.IDFor(routeKey{"a"})
	if err != nil {
		t.Fatalf("IDFor failed: %v", err)
	}

	cfg := config.NewConfig(config.WithStrict(true), config.WithIdentityStrategy(mode.Hash))
	ks := builder.New().BuildKeySpace(cfg, prev)
	if got, ok := ks.Lookup(routeKey{"a"}); !ok || got != want {
		t.Fatalf("Lookup after rebuild = (%d, %v), want (%d, true)", got, ok, want)
	}
}

func TestBuildIdentities_FollowsConfig(t *testing.T) {
	b := builder.New()

	lruIDs := b.BuildIdentities(config.NewConfig(config.WithIdentityCacheSize(4)), nil)
	a, ok := lruIDs.(*identity.Allocator)
	if !ok {
		t.Fatalf("BuildIdentities returned %T, want *identity.Allocator", lruIDs)
	}
	if a.Mode() != mode.LRU || a.Size() != 4 {
		t.Fatalf("allocator = (%v, %d), want (LRU, 4)", a.Mode(), a.Size())
	}

	hashIDs := b.BuildIdentities(config.NewConfig(config.WithIdentityStrategy(mode.Hash)), nil)
	if m := hashIDs.(*identity.Allocator).Mode(); m != mode.Hash {
		t.Fatalf("mode = %v, want Hash", m)
	}
	if hashIDs.Identity(apis.FirstRouteID, "k") == apis.NoID {
		t.Fatal("hash allocator returned NoID for a non-nil key")
	}
}

// TestBuildIdentities_Reuse asserts that an allocator already matching the
// configuration is kept, so item ids survive unrelated config changes.
func TestBuildIdentities_Reuse(t *testing.T) {
	b := builder.New()
	cfg := config.NewConfig(config.WithIdentityCacheSize(8))

	prev := b.BuildIdentities(cfg, nil)
	id := prev.Identity(apis.FirstRouteID, "k")

	same := b.BuildIdentities(config.NewConfig(config.WithIdentityCacheSize(8), config.WithStrict(true)), prev)
	if same != prev {
		t.Fatal("matching allocator was not reused")
	}
	if got := same.Identity(apis.FirstRouteID, "k"); got != id {
		t.Fatalf("id changed across rebuild: %d -> %d", id, got)
	}

	resized := b.BuildIdentities(config.NewConfig(config.WithIdentityCacheSize(16)), prev)
	if resized == prev {
		t.Fatal("allocator with a different capacity was reused")
	}
}

// TestBuildIdentities_Concurrency_Smoke hammers a built allocator in
// parallel; equal pairs must keep yielding equal ids.
func TestBuildIdentities_Concurrency_Smoke(t *testing.T) {
	ids := builder.New().BuildIdentities(config.DefaultConfig(), nil)
	want := ids.Identity(apis.FirstRouteID, "hot")

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				_ = ids.Identity(apis.RouteID(int(apis.FirstRouteID)+i%7), i%50)
				if got := ids.Identity(apis.FirstRouteID, "hot"); got != want {
					t.Errorf("worker %d: id = %d, want %d", id, got, want)
					return
				}
			}
		}(w)
	}

	wg.Wait()
}
