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

package dispatcher

import (
	"bytes"
	"context"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
)

type mainKey struct{}

// scope marks the context of a loop task.
type scope struct {
	loop   *Loop
	parent context.Context // the context the task was posted with
}

func scopeOf(ctx context.Context) *scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(mainKey{}).(*scope)
	return s
}

// OnMain reports whether ctx belongs to a loop task and the caller is the
// goroutine currently executing that loop's tasks.
func OnMain(ctx context.Context) bool {
	s := scopeOf(ctx)
	return s != nil && s.loop.owner.Load() == goid()
}

// Detach returns a context for work that outlives the loop task ctx belongs
// to. It keeps ctx's values but not its loop membership, and it is cancelled
// with the context the task was posted with rather than when the task
// returns. Outside a loop task it is context.WithCancel(ctx).
func Detach(ctx context.Context) (context.Context, context.CancelFunc) {
	s := scopeOf(ctx)
	if s == nil {
		return context.WithCancel(ctx)
	}
	base := context.WithValue(context.WithoutCancel(ctx), mainKey{}, (*scope)(nil))
	dctx, cancel := context.WithCancel(base)
	stop := context.AfterFunc(s.parent, cancel)
	return dctx, func() {
		stop()
		cancel()
	}
}

// goid returns the id of the calling goroutine from its stack header,
// "goroutine N [...".
func goid() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseInt(string(b), 10, 64)
	return id
}

// Loop is the main-thread queue. The host owns it: either call Run on the
// goroutine that may touch the UI, or pump it with Drain.
//
// Tasks posted to a Loop run one at a time in posting order. Only one
// goroutine may pump a loop at a time. A panic inside a task propagates out
// of Run or Drain.
type Loop struct {
	mu    sync.Mutex
	queue []*Task
	wake  chan struct{}

	owner atomic.Int64 // goroutine executing a task, 0 when idle
}

// NewLoop returns an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop. The returned task is cancelled when ctx
// is; a cancelled task that has not started is removed from the queue.
func (l *Loop) Post(ctx context.Context, fn func(ctx context.Context)) *Task {
	t := newTask(context.WithValue(ctx, mainKey{}, &scope{loop: l, parent: ctx}), func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
	t.onCancel = func() {
		if l.remove(t) {
			t.finish(t.ctx.Err())
		}
	}
	if err := t.ctx.Err(); err != nil {
		t.finish(err)
		return t
	}
	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()
	context.AfterFunc(t.ctx, t.onCancel)

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued tasks, including ones posted while draining, until the
// queue is empty. It returns how many tasks ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		t := l.pop()
		if t == nil {
			return n
		}
		l.exec(t)
		n++
	}
}

// Run drains the loop whenever tasks arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) exec(t *Task) {
	if err := t.ctx.Err(); err != nil {
		t.finish(err)
		return
	}
	prev := l.owner.Swap(goid())
	defer func() {
		l.owner.Store(prev)
		if r := recover(); r != nil {
			t.finish(&PanicError{Value: r, Stack: debug.Stack()})
			panic(r)
		}
	}()
	t.finish(t.fn(t.ctx))
}

func (l *Loop) pop() *Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	t := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return t
}

func (l *Loop) remove(t *Task) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, q := range l.queue {
		if q == t {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return true
		}
	}
	return false
}
