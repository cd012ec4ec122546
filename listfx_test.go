package listfx

import (
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/builder"
	"dirpx.dev/listfx/config"
	"dirpx.dev/listfx/engine"
	"dirpx.dev/listfx/identity"
	"dirpx.dev/listfx/identity/mode"
	"dirpx.dev/listfx/keyspace"
	"dirpx.dev/listfx/renderer"
)

// Reset to a clean snapshot using our test builder.
// Key space and allocator are rebuilt and the allocator pin is cleared
// because we pass nil for both.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config) {
	tb.Helper()
	SetAll(&cfg, nil, nil, b)
}

// ---------------------- Test doubles (mocks) ----------------------

type mockIdentities struct {
	id  string
	cfg apis.Config
}

func (m *mockIdentities) Identity(route apis.RouteID, key any) int64 { return int64(route) }
func (m *mockIdentities) Len() int                                   { return 0 }

type mockBuilder struct {
	mu          sync.Mutex
	lastCfg     apis.Config
	lastPrevIDs string
	keysCounter int
	idsCounter  int
}

func (b *mockBuilder) BuildKeySpace(cfg apis.Config, prev apis.KeySpace) apis.KeySpace {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if prev != nil {
		return prev
	}
	b.keysCounter++
	return keyspace.New()
}

func (b *mockBuilder) BuildIdentities(cfg apis.Config, prev apis.IdentityAllocator) apis.IdentityAllocator {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	if mi, ok := prev.(*mockIdentities); ok {
		b.lastPrevIDs = mi.id
	}
	b.idsCounter++
	return &mockIdentities{id: "ids#" + strconv.Itoa(b.idsCounter), cfg: cfg}
}

// ---------------------- Tests ----------------------

func TestDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	SetAll(&cfg, nil, nil, builder.New())

	if KeySpace() == nil || Identities() == nil || Builder() == nil {
		t.Fatal("default snapshot has nil components")
	}
	if Config().Strict {
		t.Fatal("default config must be lenient")
	}
	if _, ok := Identities().(*identity.Allocator); !ok {
		t.Fatalf("default allocator = %T, want *identity.Allocator", Identities())
	}
}

func TestSetConfig_Rebuilds_Identities_Keeps_KeySpace(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	keys1 := KeySpace()
	ids1 := Identities()

	SetConfig(config.NewConfig(config.WithIdentityStrategy(mode.Hash), config.WithStrict(true)))

	if KeySpace() != keys1 {
		t.Fatalf("key space was replaced on SetConfig")
	}
	if Identities() == ids1 {
		t.Fatalf("identity allocator was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg, prev := b.lastCfg, b.lastPrevIDs
	b.mu.Unlock()
	if gotCfg.IdentityStrategy != mode.Hash || !gotCfg.Strict {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if prev != "ids#1" {
		t.Fatalf("builder did not receive previous allocator: %q", prev)
	}
	if !Config().Strict {
		t.Fatalf("config not published")
	}
}

func TestSetConfig_KeepsRouteIDs(t *testing.T) {
	SetAll(nil, nil, nil, builder.New())

	id, err := KeySpace().IDFor("text")
	if err != nil {
		t.Fatalf("IDFor failed: %v", err)
	}
	SetConfig(config.NewConfig(config.WithIdentityStrategy(mode.Hash)))
	if got, ok := KeySpace().Lookup("text"); !ok || got != id {
		t.Fatalf("route id changed across SetConfig: (%d, %v), want %d", got, ok, id)
	}
}

func TestSetIdentities_Pins(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	custom := &mockIdentities{id: "custom"}
	SetIdentities(custom)
	if !IsIdentitiesPinned() {
		t.Fatal("SetIdentities did not pin")
	}

	SetConfig(config.NewConfig(config.WithStrict(true)))
	if Identities() != custom {
		t.Fatalf("pinned allocator was rebuilt unexpectedly")
	}

	UnpinIdentities()
	SetConfig(config.DefaultConfig())
	if Identities() == custom {
		t.Fatalf("allocator should rebuild after UnpinIdentities+SetConfig")
	}

	SetIdentities(nil)
	if IsIdentitiesPinned() {
		t.Fatal("nil allocator must be ignored")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, config.DefaultConfig())
	keys := KeySpace()
	idsBefore := Identities()

	b := &mockBuilder{}
	SetBuilder(b)
	if Builder() != b {
		t.Fatal("builder not published")
	}
	if KeySpace() != keys {
		t.Fatal("key space must be handed over to the new builder")
	}
	if Identities() == idsBefore {
		t.Fatal("unpinned allocator was not rebuilt by the new builder")
	}

	pinned := &mockIdentities{id: "pinned"}
	SetIdentities(pinned)
	SetBuilder(a)
	if Identities() != pinned {
		t.Fatal("pinned allocator was rebuilt by SetBuilder")
	}
}

func TestSetAll_Explicit(t *testing.T) {
	ks := keyspace.New()
	ids := &mockIdentities{id: "explicit"}
	cfg := config.NewConfig(config.WithStrict(true))
	SetAll(&cfg, ks, ids, &mockBuilder{})

	if KeySpace() != ks || Identities() != ids || !Config().Strict {
		t.Fatal("SetAll did not publish the given components")
	}
	if !IsIdentitiesPinned() {
		t.Fatal("explicit allocator must be pinned")
	}
}

type nilBuilder struct{ mockBuilder }

func (*nilBuilder) BuildIdentities(apis.Config, apis.IdentityAllocator) apis.IdentityAllocator {
	return nil
}

func TestNilFromBuilder_Panics(t *testing.T) {
	SetAll(nil, nil, nil, builderForReset())
	defer func() {
		if r := recover(); r != ErrNilIdentities {
			t.Fatalf("recover() = %v, want ErrNilIdentities", r)
		}
		SetAll(nil, nil, nil, builderForReset())
	}()
	SetBuilder(&nilBuilder{})
}

func builderForReset() apis.Builder { return &mockBuilder{} }

type row struct{ N int }

func TestNewEngine_UsesSnapshot(t *testing.T) {
	SetAll(nil, nil, nil, builder.New())
	e1 := NewEngine()
	e2 := NewEngine()

	if err := engine.RegisterRenderer[row](e1, &renderer.Func[row, struct{}]{Key: "row"}); err != nil {
		t.Fatalf("register e1: %v", err)
	}
	if err := engine.RegisterRenderer[row](e2, &renderer.Func[row, struct{}]{Key: "row"}); err != nil {
		t.Fatalf("register e2: %v", err)
	}
	id1, err1 := e1.RouteID(row{})
	id2, err2 := e2.RouteID(row{})
	if err1 != nil || err2 != nil || id1 != id2 {
		t.Fatalf("engines on the shared key space disagree: (%d, %v) vs (%d, %v)", id1, err1, id2, err2)
	}
	if got, ok := KeySpace().Lookup("row"); !ok || got != id1 {
		t.Fatalf("shared key space lookup = (%d, %v), want %d", got, ok, id1)
	}
}

func TestConfig_Concurrent_With_SetConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig())

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = Config()
				_ = Identities().Identity(apis.FirstRouteID, j)
				_, _ = KeySpace().IDFor("hot")
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(
				config.WithStrict(i%2 == 0),
				config.WithIdentityCacheSize(100+i),
			))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}
