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

package diff

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/dispatcher"
	"dirpx.dev/listfx/logging"
)

// Differ owns the current list. Each Submit diffs a new version against it
// on the dispatcher and applies the result on the main loop. A newer Submit
// supersedes every earlier one that has not been applied yet.
type Differ struct {
	cb      Callback
	d       *dispatcher.Dispatcher
	updater apis.ListUpdater

	mu      sync.Mutex
	gen     uint64
	current []any
	cancel  context.CancelFunc

	log *logging.Named
}

// NewDiffer returns a Differ starting from an empty list.
func NewDiffer(cb Callback, d *dispatcher.Dispatcher, u apis.ListUpdater) *Differ {
	return &Differ{cb: cb, d: d, updater: u, log: logging.NewNamed("diff")}
}

// Current returns the last applied list. Callers must not modify it.
func (df *Differ) Current() []any {
	df.mu.Lock()
	defer df.mu.Unlock()
	return df.current
}

// submission settles exactly once, with applied or discarded.
type submission struct {
	state atomic.Bool
	done  func(applied bool)
}

func (s *submission) claim() bool { return s.state.CompareAndSwap(false, true) }

func (s *submission) report(applied bool) {
	if s.done != nil {
		s.done(applied)
	}
}

// Submit schedules a diff from the current list to items. done, if not nil,
// is called once: with true on the main loop after the updates went to the
// ListUpdater, or with false, from any goroutine, when the submission was
// cancelled, superseded or failed. items must not be modified afterwards.
//
// Submitting from a loop task does not tie the submission to that task; it
// lives until the context the task was posted with is done.
func (df *Differ) Submit(ctx context.Context, items []any, done func(applied bool)) *dispatcher.Task {
	sctx, cancel := dispatcher.Detach(ctx)
	s := &submission{done: done}
	context.AfterFunc(sctx, func() {
		if s.claim() {
			s.report(false)
		}
	})

	df.mu.Lock()
	if df.cancel != nil {
		df.cancel()
	}
	df.gen++
	gen := df.gen
	old := df.current
	df.cancel = cancel
	df.mu.Unlock()

	task := df.d.Dispatch(sctx, func(ctx context.Context) error {
		posted := false
		defer func() {
			if !posted {
				cancel()
			}
		}()

		res, err := Compute(ctx, old, items, df.cb)
		if err != nil {
			return err
		}
		df.d.RunOnMain(sctx, func(ctx context.Context) {
			defer cancel()
			if !df.apply(ctx, s, gen, items) {
				return
			}
			res.Dispatch(df.updater)
			df.log.Logger().Debug("diff applied", zap.Int("items", len(items)), zap.Int("ops", len(res.Ops)))
			s.report(true)
		})
		posted = true
		return nil
	})
	if errors.Is(task.Err(), dispatcher.ErrClosed) {
		cancel()
	}
	return task
}

// apply makes items current unless the submission went stale.
func (df *Differ) apply(ctx context.Context, s *submission, gen uint64, items []any) bool {
	df.mu.Lock()
	defer df.mu.Unlock()
	if gen != df.gen || ctx.Err() != nil || !s.claim() {
		return false
	}
	df.current = items
	df.cancel = nil
	return true
}

// Cancel discards the pending submission, if any.
func (df *Differ) Cancel() {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.cancel != nil {
		df.cancel()
		df.cancel = nil
	}
}
