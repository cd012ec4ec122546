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
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/diff"
	"dirpx.dev/listfx/dispatcher"
	"dirpx.dev/listfx/engine"
	"dirpx.dev/listfx/logging"
	"dirpx.dev/listfx/router"
)

var _ diff.Callback = (*engine.Engine)(nil)

// Controller drives one list: it routes items through its engine, diffs
// submitted versions in the background and applies them on the main loop.
type Controller struct {
	id     uuid.UUID
	eng    *engine.Engine
	disp   *dispatcher.Dispatcher
	differ *diff.Differ
	log    *logging.Named
}

type controllerOptions struct {
	cfg     *apis.Config
	updater apis.ListUpdater
	workers int
	engine  []engine.Option
}

// ControllerOption configures NewController.
type ControllerOption func(*controllerOptions)

// WithConfig uses cfg instead of the shared configuration.
func WithConfig(cfg apis.Config) ControllerOption {
	return func(o *controllerOptions) { o.cfg = &cfg }
}

// WithUpdater sets where positional updates are delivered.
func WithUpdater(u apis.ListUpdater) ControllerOption {
	return func(o *controllerOptions) { o.updater = u }
}

// WithWorkers overrides the background pool size.
func WithWorkers(n int) ControllerOption {
	return func(o *controllerOptions) { o.workers = n }
}

// WithEngineOptions passes options through to the engine.
func WithEngineOptions(opts ...engine.Option) ControllerOption {
	return func(o *controllerOptions) { o.engine = append(o.engine, opts...) }
}

// NewController builds a controller on the shared key space and identity
// allocator. Main-loop work is posted to loop.
func NewController(loop *dispatcher.Loop, opts ...ControllerOption) *Controller {
	var o controllerOptions
	for _, opt := range opts {
		opt(&o)
	}
	s := st.Load()
	cfg := s.cfg
	if o.cfg != nil {
		cfg = *o.cfg
	}
	if o.updater == nil {
		o.updater = nopUpdater{}
	}

	id := uuid.New()
	eopts := append([]engine.Option{engine.WithScope(id.ID())}, o.engine...)
	c := &Controller{
		id:   id,
		eng:  engine.New(cfg, s.keys, s.ids, eopts...),
		disp: dispatcher.New(loop, cfg, dispatcher.WithWorkers(o.workers)),
		log:  logging.NewNamed("controller", zap.Stringer("id", id)),
	}
	c.differ = diff.NewDiffer(c.eng, c.disp, o.updater)
	c.log.Logger().Debug("controller started", zap.Int("workers", c.disp.Workers()))
	return c
}

// ID returns the controller id.
func (c *Controller) ID() uuid.UUID { return c.id }

// Engine returns the controller's engine.
func (c *Controller) Engine() *engine.Engine { return c.eng }

// Register binds a router for items of type t.
func (c *Controller) Register(t reflect.Type, r apis.Router) error {
	return c.eng.Register(t, r)
}

// Register binds r for items of type T on c.
func Register[T any](c *Controller, r apis.Router) error {
	return c.Register(reflect.TypeFor[T](), r)
}

// RegisterRenderer binds a single renderer for items of type T on c.
func RegisterRenderer[T any](c *Controller, rd apis.Renderer) error {
	r, err := router.Single[T](rd)
	if err != nil {
		return err
	}
	return Register[T](c, r)
}

// Submit filters items and schedules them as the next list version. In
// strict mode an unroutable item fails the call before anything is
// scheduled. done follows diff.Differ.Submit.
func (c *Controller) Submit(ctx context.Context, items []any, done func(applied bool)) (*dispatcher.Task, error) {
	filtered, err := c.eng.Filter(ctx, items)
	if err != nil {
		return nil, err
	}
	return c.differ.Submit(ctx, filtered, done), nil
}

// Current returns the list last applied on the main loop.
func (c *Controller) Current() []any { return c.differ.Current() }

// Cancel discards the pending submission, if any.
func (c *Controller) Cancel() { c.differ.Cancel() }

// Close cancels pending work and stops the background workers.
func (c *Controller) Close() {
	c.differ.Cancel()
	c.disp.Close()
	c.log.Logger().Debug("controller closed")
}

type nopUpdater struct{}

func (nopUpdater) OnInserted(int, int)     {}
func (nopUpdater) OnRemoved(int, int)      {}
func (nopUpdater) OnMoved(int, int)        {}
func (nopUpdater) OnChanged(int, int, any) {}
