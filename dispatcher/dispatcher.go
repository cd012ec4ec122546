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

// Package dispatcher runs list work off the main loop and hands results back
// to it.
//
// A Dispatcher owns a fixed pool of worker goroutines fed by an unbounded
// queue. Failures of background tasks, whether returned errors or recovered
// panics, take a single path chosen by Config.Strict: strict raises a
// *BackgroundFailure on the main Loop, lenient reports to Config.OnError.
package dispatcher

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/errs"
	"dirpx.dev/listfx/logging"
	"dirpx.dev/listfx/metrics"
)

// ErrClosed is the result of tasks submitted to, or still queued in, a
// closed Dispatcher.
var ErrClosed = errors.New("listfx(dispatcher): closed")

// DefaultWorkers returns max(2, NumCPU+1).
func DefaultWorkers() int {
	return max(2, runtime.NumCPU()+1)
}

// Dispatcher executes tasks on a worker pool.
type Dispatcher struct {
	loop    *Loop
	cfg     apis.Config
	workers int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Task
	closed bool
	wg     sync.WaitGroup

	log *logging.Named
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers overrides the pool size. Values <= 0 are ignored.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// New starts a Dispatcher whose main-loop work goes to loop. The pool size is
// cfg.Workers, or DefaultWorkers when that is not positive.
func New(loop *Loop, cfg apis.Config, opts ...Option) *Dispatcher {
	if loop == nil {
		loop = NewLoop()
	}
	d := &Dispatcher{
		loop:    loop,
		cfg:     cfg,
		workers: cfg.Workers,
		log:     logging.NewNamed("dispatcher"),
	}
	if d.workers <= 0 {
		d.workers = DefaultWorkers()
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cond = sync.NewCond(&d.mu)

	d.wg.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go d.worker()
	}
	return d
}

// Loop returns the main loop results are applied on.
func (d *Dispatcher) Loop() *Loop { return d.loop }

// Workers returns the pool size.
func (d *Dispatcher) Workers() int { return d.workers }

// Dispatch queues fn for a worker. fn receives a context that is done when
// ctx is, or when the returned task is cancelled. A ctx of a running loop
// task is first detached from it (see Detach). Returning the context's
// error after cancellation is not a failure.
func (d *Dispatcher) Dispatch(ctx context.Context, fn func(ctx context.Context) error) *Task {
	dctx, release := Detach(ctx)
	t := newTask(dctx, fn)
	t.release = release
	metrics.Tasks.WithLabelValues("submitted").Inc()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		t.finish(ErrClosed)
		return t
	}
	d.queue = append(d.queue, t)
	d.mu.Unlock()
	d.cond.Signal()
	return t
}

// RunOnMain runs fn on the main loop. When the caller is the loop goroutine
// running the task ctx belongs to, fn runs inline before RunOnMain returns.
func (d *Dispatcher) RunOnMain(ctx context.Context, fn func(ctx context.Context)) *Task {
	if OnMain(ctx) {
		t := newTask(ctx, func(ctx context.Context) error {
			fn(ctx)
			return nil
		})
		t.finish(t.fn(t.ctx))
		return t
	}
	return d.loop.Post(ctx, fn)
}

// Close stops accepting tasks, discards queued ones and waits for running
// tasks to return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()
	d.cond.Broadcast()

	for _, t := range pending {
		t.finish(ErrClosed)
	}
	d.wg.Wait()
	d.log.Logger().Debug("dispatcher closed", zap.Int("discarded", len(pending)))
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		t := d.next()
		if t == nil {
			return
		}
		d.run(t)
	}
}

func (d *Dispatcher) next() *Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.queue) == 0 && !d.closed {
		d.cond.Wait()
	}
	if len(d.queue) == 0 {
		return nil
	}
	t := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return t
}

func (d *Dispatcher) run(t *Task) {
	if err := t.ctx.Err(); err != nil {
		metrics.Tasks.WithLabelValues("cancelled").Inc()
		t.finish(err)
		return
	}

	err := d.call(t)
	switch {
	case err == nil:
	case t.ctx.Err() != nil && errors.Is(err, t.ctx.Err()):
		metrics.Tasks.WithLabelValues("cancelled").Inc()
	default:
		d.fail(err)
	}
	t.finish(err)
}

func (d *Dispatcher) call(t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return t.fn(t.ctx)
}

func (d *Dispatcher) fail(cause error) {
	metrics.Tasks.WithLabelValues("failed").Inc()
	err := errs.Data(errs.ErrBackgroundTask, nil, "").WithCause(cause)

	var pe *PanicError
	if errors.As(cause, &pe) {
		d.log.Logger().Error("background task panicked",
			zap.Any("value", pe.Value),
			zap.ByteString("stack", pe.Stack))
	} else {
		d.log.Logger().Error("background task failed", zap.Error(cause))
	}

	if d.cfg.Strict {
		d.loop.Post(context.Background(), func(context.Context) {
			panic(&BackgroundFailure{Err: err})
		})
		return
	}
	d.cfg.Report(nil, err)
}
