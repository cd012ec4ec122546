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

// Package engine routes items to renderers and answers the questions a list
// diff asks: is this the same entity, did its content change, and what
// changed.
package engine

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/errs"
	"dirpx.dev/listfx/identity"
	"dirpx.dev/listfx/keyspace"
	"dirpx.dev/listfx/logging"
	"dirpx.dev/listfx/registry"
	"dirpx.dev/listfx/resolver"
	"dirpx.dev/listfx/router"
	"dirpx.dev/listfx/strategy"
	uref "dirpx.dev/listfx/utils/reflect"
)

// Engine is the per-list dispatch façade. The KeySpace and identity allocator
// are usually shared process-wide; the type and renderer tables belong to
// the engine.
//
// All methods are safe for concurrent use. Registration is serialised;
// lookups never block.
type Engine struct {
	cfg       apis.Config
	keys      apis.KeySpace
	ids       apis.IdentityAllocator
	types     apis.Registry
	renderers apis.RendererTable
	resolver  apis.Resolver

	// scope occupies the high 32 bits of placeholder ids.
	scope int64

	mu          sync.Mutex
	placeholder atomic.Bool
	identityOff atomic.Bool
	stats       *xsync.MapOf[apis.RouteID, *routeStats]
	log         *logging.Named
}

// Option customises an Engine.
type Option func(*Engine)

// WithRegistry replaces the type table.
func WithRegistry(r apis.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.types = r
		}
	}
}

// WithRenderers replaces the RouteID -> Renderer table.
func WithRenderers(t apis.RendererTable) Option {
	return func(e *Engine) {
		if t != nil {
			e.renderers = t
		}
	}
}

// WithScope fixes the placeholder id scope instead of deriving one from a
// random UUID.
func WithScope(scope uint32) Option {
	return func(e *Engine) {
		e.scope = int64(scope&0x7fffffff) << 32
	}
}

// New builds an engine. A nil KeySpace or allocator gets a private one.
func New(cfg apis.Config, ks apis.KeySpace, ids apis.IdentityAllocator, opts ...Option) *Engine {
	if ks == nil {
		ks = keyspace.New()
	}
	if ids == nil {
		a, err := identity.New(cfg.IdentityStrategy, cfg.IdentityCacheSize)
		if err != nil {
			a, _ = identity.New(0, cfg.IdentityCacheSize)
		}
		ids = a
	}
	e := &Engine{
		cfg:       cfg,
		keys:      ks,
		ids:       ids,
		types:     registry.New(),
		renderers: registry.NewRenderers(),
		scope:     int64((uuid.New().ID()|1<<30)&0x7fffffff) << 32,
		stats:     xsync.NewMapOf[apis.RouteID, *routeStats](),
		log:       logging.NewNamed("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = resolver.NewCaching(resolver.New(
		strategy.NewDeclaredStrategy(e.types),
		strategy.NewExactStrategy(e.types),
		strategy.NewInheritedStrategy(e.types),
	))
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() apis.Config { return e.cfg }

// KeySpace returns the KeySpace route ids are allocated from.
func (e *Engine) KeySpace() apis.KeySpace { return e.keys }

// Register routes items of type t through r. Interface types register a
// fallback for every item implementing them. Every renderer of r is bound to
// the RouteID of its key; a renderer whose key is already bound to a
// different renderer is an errs.ErrRouteKeyCollision.
func (e *Engine) Register(t reflect.Type, r apis.Router) error {
	if t == nil {
		return registry.ErrNilType
	}
	if r == nil {
		return registry.ErrNilRouter
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.types.Lookup(t); ok {
		if uref.Same(existing, r) {
			return nil
		}
		return fmt.Errorf("%w: %s", registry.ErrConflictingRegistration, t)
	}

	rds := r.Renderers()
	if len(rds) == 0 {
		return errs.Config(errs.ErrDispatchFailure, t, "route for %s has no renderers", t)
	}

	if e.cfg.RequireIdentityKey && !declaresIdentity(r) {
		err := errs.Config(errs.ErrMissingIdentityKey, t,
			"route for %s has no identity extractor; stable item ids need one", t)
		if e.cfg.Strict {
			return err
		}
		if e.identityOff.CompareAndSwap(false, true) {
			e.log.Logger().Warn("identity keys disabled for this engine", zap.Error(err))
		}
	}

	// Validate every key before binding anything.
	ids := make([]apis.RouteID, len(rds))
	pending := make(map[apis.RouteID]apis.Renderer, len(rds))
	for i, rd := range rds {
		id, err := e.keys.IDFor(rd.RouteKey())
		if err != nil {
			return err
		}
		bound, ok := e.renderers.Resolve(id)
		if !ok {
			bound, ok = pending[id]
		}
		if ok && !uref.Same(bound, rd) {
			return errs.Config(errs.ErrRouteKeyCollision, t,
				"renderers %T and %T both use route key %v (route id %d)", bound, rd, rd.RouteKey(), id)
		}
		pending[id] = rd
		ids[i] = id
	}
	for i, rd := range rds {
		if err := e.renderers.Register(ids[i], rd); err != nil {
			return err
		}
	}
	if err := e.types.Register(t, r); err != nil {
		return err
	}
	e.resolver.Invalidate()

	e.log.Logger().Debug("route registered",
		zap.Stringer("type", t),
		zap.Int("renderers", len(rds)))
	return nil
}

// Register routes items of type T through r.
func Register[T any](e *Engine, r apis.Router) error {
	return e.Register(reflect.TypeFor[T](), r)
}

// RegisterRenderer routes every item of type T to rd.
func RegisterRenderer[T any](e *Engine, rd apis.Renderer) error {
	r, err := router.Single[T](rd)
	if err != nil {
		return err
	}
	return Register[T](e, r)
}

// RegisterPlaceholder binds the renderer used for apis.Placeholder items.
func (e *Engine) RegisterPlaceholder(rd apis.Renderer) error {
	if rd == nil {
		return errs.Config(errs.ErrDispatchFailure, nil, "nil placeholder renderer")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.renderers.Register(apis.PlaceholderRouteID, rd); err != nil {
		return err
	}
	e.placeholder.Store(true)
	return nil
}

func declaresIdentity(r apis.Router) bool {
	if r.HasIdentity() {
		return true
	}
	for _, rd := range r.Renderers() {
		if d, ok := rd.(apis.IdentityDeclarer); ok && !d.HasIdentityKey() {
			return false
		}
	}
	return true
}

// routed is the outcome of dispatching one item.
type routed struct {
	router   apis.Router
	renderer apis.Renderer
	id       apis.RouteID
}

func (e *Engine) route(item any) (routed, error) {
	if item == nil {
		return routed{}, errs.Data(errs.ErrUnroutableItem, nil, "nil item")
	}
	if _, ok := item.(apis.Placeholder); ok {
		rd, ok := e.renderers.Resolve(apis.PlaceholderRouteID)
		if !ok {
			return routed{}, errs.Data(errs.ErrUnroutableItem, item, "no placeholder renderer registered")
		}
		return routed{renderer: rd, id: apis.PlaceholderRouteID}, nil
	}

	rt, ok := e.resolver.Resolve(item)
	if !ok {
		return routed{}, errs.Data(errs.ErrUnroutableItem, item, "no route registered for %T", item)
	}
	rd, ok := rt.Select(item)
	if !ok {
		return routed{}, errs.Config(errs.ErrDispatchFailure, reflect.TypeOf(item),
			"route for %s selected no renderer for %T %v", rt.ItemType(), item, item)
	}
	id, ok := e.keys.Lookup(rd.RouteKey())
	if !ok {
		var err error
		if id, err = e.keys.IDFor(rd.RouteKey()); err != nil {
			return routed{}, err
		}
	}
	return routed{router: rt, renderer: rd, id: id}, nil
}

// Supports reports whether a route exists for item's type.
func (e *Engine) Supports(item any) bool {
	if item == nil {
		return false
	}
	if _, ok := item.(apis.Placeholder); ok {
		return e.placeholder.Load()
	}
	_, ok := e.resolver.Resolve(item)
	return ok
}

// RouteID returns the RouteID item dispatches to.
func (e *Engine) RouteID(item any) (apis.RouteID, error) {
	r, err := e.route(item)
	return r.id, err
}

// Renderer returns the renderer item dispatches to.
func (e *Engine) Renderer(item any) (apis.Renderer, error) {
	r, err := e.route(item)
	return r.renderer, err
}

// RendererFor returns the renderer bound to id.
func (e *Engine) RendererFor(id apis.RouteID) (apis.Renderer, bool) {
	return e.renderers.Resolve(id)
}

func (e *Engine) identityKey(r routed, item any) (any, bool) {
	if r.router != nil {
		if k, ok := r.router.IdentityKey(item); ok {
			return k, true
		}
	}
	return r.renderer.IdentityKey(item)
}

// AreIdentical reports whether old and new are versions of the same entity.
// Items with different RouteIDs never are. When both sides supply identity
// keys those decide; otherwise the items are compared by value.
func (e *Engine) AreIdentical(old, new any) bool {
	if uref.Same(old, new) {
		return true
	}
	if reflect.TypeOf(old) != reflect.TypeOf(new) {
		return false
	}
	ro, err := e.route(old)
	if err != nil {
		return false
	}
	rn, err := e.route(new)
	if err != nil || ro.id != rn.id {
		return false
	}
	ko, okO := e.identityKey(ro, old)
	kn, okN := e.identityKey(rn, new)
	if okO && okN {
		return uref.Equal(ko, kn)
	}
	return uref.Equal(old, new)
}

// AreEquivalentContent reports whether two identical items render the same.
func (e *Engine) AreEquivalentContent(old, new any) bool {
	ro, err := e.route(old)
	if err != nil {
		return false
	}
	rn, err := e.route(new)
	if err != nil || ro.id != rn.id {
		return false
	}
	return rn.renderer.ContentEquals(old, new)
}

// ChangePayload returns the renderer's description of what changed between
// old and new, nil meaning a full rebind.
func (e *Engine) ChangePayload(old, new any) any {
	ro, err := e.route(old)
	if err != nil {
		return nil
	}
	rn, err := e.route(new)
	if err != nil || ro.id != rn.id {
		return nil
	}
	return rn.renderer.ChangePayload(old, new)
}

// IdentityEnabled reports whether item ids are derived from identity keys.
// It turns false when a route without identity keys is registered while
// identity keys are required in lenient mode.
func (e *Engine) IdentityEnabled() bool {
	return !e.identityOff.Load()
}

// ItemID returns a stable int64 id for the item at position: a scoped
// position id for placeholders, an allocated id for items with an identity
// key, and apis.NoID otherwise.
func (e *Engine) ItemID(item any, position int) int64 {
	if _, ok := item.(apis.Placeholder); ok {
		return e.PlaceholderID(position)
	}
	if e.identityOff.Load() {
		return apis.NoID
	}
	r, err := e.route(item)
	if err != nil {
		return apis.NoID
	}
	k, ok := e.identityKey(r, item)
	if !ok {
		return apis.NoID
	}
	return e.ids.Identity(r.id, k)
}

// PlaceholderID returns scope<<32 | position.
func (e *Engine) PlaceholderID(position int) int64 {
	return e.scope | int64(uint32(position))
}
