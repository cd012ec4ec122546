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

package listfx

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/builder"
	"dirpx.dev/listfx/config"
	"dirpx.dev/listfx/engine"
	"dirpx.dev/listfx/logging"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.keys = s.bld.BuildKeySpace(s.cfg, nil)
	s.ids = s.bld.BuildIdentities(s.cfg, nil)
	st.Store(s)
}

var (
	// ErrNilKeySpace is returned when a builder returns a nil key space.
	ErrNilKeySpace = errors.New("listfx: builder returned nil key space")
	// ErrNilIdentities is returned when a builder returns a nil identity allocator.
	ErrNilIdentities = errors.New("listfx: builder returned nil identity allocator")
)

// state is one immutable snapshot of the process-wide context.
type state struct {
	cfg  apis.Config
	keys apis.KeySpace
	ids  apis.IdentityAllocator
	bld  apis.Builder
	pids bool // ids were set explicitly and are not rebuilt
}

var (
	st      atomic.Pointer[state]
	buildMu sync.Mutex
)

// Config returns the shared configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the shared configuration. The key space is kept so route
// ids stay stable; the identity allocator is rebuilt unless pinned.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nids := old.ids
	if !old.pids {
		nids = old.bld.BuildIdentities(cfg, old.ids)
	}
	if nids == nil {
		panic(ErrNilIdentities)
	}
	publish(&state{cfg: cfg, keys: old.keys, ids: nids, bld: old.bld, pids: old.pids})
}

// KeySpace returns the shared route key space.
func KeySpace() apis.KeySpace {
	return st.Load().keys
}

// Identities returns the shared identity allocator.
func Identities() apis.IdentityAllocator {
	return st.Load().ids
}

// SetIdentities pins ids as the shared identity allocator; SetConfig stops
// rebuilding it until UnpinIdentities.
func SetIdentities(ids apis.IdentityAllocator) {
	if ids == nil {
		return
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(&state{cfg: old.cfg, keys: old.keys, ids: ids, bld: old.bld, pids: true})
}

// IsIdentitiesPinned reports whether the identity allocator is pinned.
func IsIdentitiesPinned() bool {
	return st.Load().pids
}

// UnpinIdentities lets the next rebuild replace the identity allocator.
func UnpinIdentities() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(&state{cfg: old.cfg, keys: old.keys, ids: old.ids, bld: old.bld})
}

// Builder returns the shared builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the builder and rebuilds the unpinned identity
// allocator with it. The key space is handed to the builder as prev.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nkeys := b.BuildKeySpace(old.cfg, old.keys)
	nids := old.ids
	if !old.pids {
		nids = b.BuildIdentities(old.cfg, old.ids)
	}
	check(nkeys, nids)
	publish(&state{cfg: old.cfg, keys: nkeys, ids: nids, bld: b, pids: old.pids})
}

// SetAll replaces the whole snapshot. Nil arguments keep the current
// builder and config; a nil key space or allocator is built afresh, which
// drops every route id handed out so far. Pins are cleared unless ids is
// given. It is mainly meant for tests.
func SetAll(cfg *apis.Config, keys apis.KeySpace, ids apis.IdentityAllocator, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}
	nkeys := keys
	if nkeys == nil {
		nkeys = nbld.BuildKeySpace(ncfg, nil)
	}
	nids, pinned := ids, ids != nil
	if nids == nil {
		nids = nbld.BuildIdentities(ncfg, nil)
	}
	check(nkeys, nids)
	publish(&state{cfg: ncfg, keys: nkeys, ids: nids, bld: nbld, pids: pinned})
}

// NewEngine returns an engine bound to the current shared snapshot. Engines
// keep the snapshot they were created with.
func NewEngine(opts ...engine.Option) *engine.Engine {
	s := st.Load()
	return engine.New(s.cfg, s.keys, s.ids, opts...)
}

// SetLogger routes listfx logs to l. A nil logger silences them.
func SetLogger(l *zap.Logger) {
	logging.SetLogger(l)
}

func check(keys apis.KeySpace, ids apis.IdentityAllocator) {
	if keys == nil {
		panic(ErrNilKeySpace)
	}
	if ids == nil {
		panic(ErrNilIdentities)
	}
}

func publish(s *state) {
	st.Store(s)
	logging.For("listfx").Debug("shared state published",
		zap.Bool("strict", s.cfg.Strict),
		zap.Stringer("identity", s.cfg.IdentityStrategy),
		zap.Bool("identities_pinned", s.pids))
}
