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
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/errs"
	"dirpx.dev/listfx/metrics"
)

// CreateHolder asks the renderer bound to id for a new holder.
func (e *Engine) CreateHolder(parent any, id apis.RouteID) (apis.Holder, error) {
	rd, ok := e.renderers.Resolve(id)
	if !ok {
		return nil, errs.Config(errs.ErrDispatchFailure, nil, "no renderer bound to route id %d", id)
	}

	start := time.Now()
	h, err := rd.CreateHolder(parent, id)
	elapsed := time.Since(start)

	e.statsFor(id).create(elapsed)
	metrics.HoldersCreated.WithLabelValues(strconv.Itoa(int(id))).Inc()

	if err != nil {
		return nil, fmt.Errorf("listfx(engine): create holder for route %d: %w", id, err)
	}
	if h == nil {
		return nil, errs.Config(errs.ErrDispatchFailure, nil, "renderer %T returned a nil holder", rd)
	}
	e.log.Logger().Debug("holder created", zap.Int32("route", int32(id)), zap.Duration("took", elapsed))
	return h, nil
}

// Bind draws item into h. An empty payloads slice means a full bind.
//
// An unroutable item follows the error policy; a holder created for a
// different route is always an error.
func (e *Engine) Bind(h apis.Holder, item any, position int, payloads []any) error {
	if h == nil {
		return errs.Config(errs.ErrDispatchFailure, nil, "nil holder")
	}
	r, err := e.route(item)
	if err != nil {
		var de *errs.DataError
		if errors.As(err, &de) && !e.cfg.Strict {
			e.drop(item, err)
			return nil
		}
		return err
	}
	if h.RouteID() != r.id {
		return errs.Config(errs.ErrDispatchFailure, nil,
			"holder for route %d cannot bind %T routed to %d", h.RouteID(), item, r.id)
	}
	e.statsFor(r.id).bind()
	r.renderer.Bind(h, item, position, payloads)
	return nil
}

// OnRecycled forwards to the renderer bound to h's route; foreign holders
// are ignored.
func (e *Engine) OnRecycled(h apis.Holder) {
	if rd, ok := e.holderRenderer(h); ok {
		rd.OnRecycled(h)
	}
}

// OnAttached forwards to the renderer bound to h's route.
func (e *Engine) OnAttached(h apis.Holder) {
	if rd, ok := e.holderRenderer(h); ok {
		rd.OnAttached(h)
	}
}

// OnDetached forwards to the renderer bound to h's route.
func (e *Engine) OnDetached(h apis.Holder) {
	if rd, ok := e.holderRenderer(h); ok {
		rd.OnDetached(h)
	}
}

func (e *Engine) holderRenderer(h apis.Holder) (apis.Renderer, bool) {
	if h == nil {
		return nil, false
	}
	return e.renderers.Resolve(h.RouteID())
}
