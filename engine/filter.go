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
	"context"
	"fmt"

	"go.uber.org/zap"

	"dirpx.dev/listfx/errs"
	"dirpx.dev/listfx/metrics"
)

// pollEvery is how many items Filter checks between context polls.
const pollEvery = 64

// Filter drops items no route supports.
//
// Strict: the first unsupported item yields an errs.ErrUnroutableItem data
// error. Lenient: each dropped item is reported to Config.OnError once and
// the rest are kept in order.
//
// When nothing is dropped the input slice itself is returned. A cancelled
// ctx yields an empty slice and ctx.Err().
func (e *Engine) Filter(ctx context.Context, items []any) ([]any, error) {
	var out []any
	for i, item := range items {
		if i%pollEvery == 0 {
			if err := ctx.Err(); err != nil {
				e.log.Logger().Debug("filter interrupted", zap.Int("at", i), zap.Int("of", len(items)))
				return []any{}, err
			}
		}
		if e.Supports(item) {
			if out != nil {
				out = append(out, item)
			}
			continue
		}

		err := errs.Data(errs.ErrUnroutableItem, item,
			"no route registered for %T; register it or remove it from the list", item)
		if e.cfg.Strict {
			return nil, err
		}
		if out == nil {
			out = make([]any, i, len(items))
			copy(out, items[:i])
		}
		e.drop(item, err)
	}
	if out == nil {
		return items, nil
	}
	return out, nil
}

func (e *Engine) drop(item any, err error) {
	typ := fmt.Sprintf("%T", item)
	metrics.ItemsDropped.WithLabelValues(typ).Inc()
	e.log.Logger().Warn("item dropped", zap.String("type", typ), zap.Error(err))
	e.cfg.Report(item, err)
}
