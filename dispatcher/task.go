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
	"context"
	"fmt"
	"sync"
)

// Task is a handle to work submitted to a Dispatcher or a Loop.
type Task struct {
	ctx    context.Context
	cancel context.CancelFunc
	fn     func(ctx context.Context) error

	// onCancel runs after the context is cancelled; set for loop tasks.
	onCancel func()
	// release frees the context the task was detached onto.
	release func()

	once sync.Once
	done chan struct{}
	err  error
}

func newTask(parent context.Context, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(parent)
	return &Task{ctx: ctx, cancel: cancel, fn: fn, done: make(chan struct{})}
}

// Cancel cancels the task context. A task that has not started never runs;
// a running task sees its context done and is expected to return early.
func (t *Task) Cancel() {
	t.cancel()
	if t.onCancel != nil {
		t.onCancel()
	}
}

// Done is closed once the task has finished or was discarded.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task result once Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.err = err
		t.cancel()
		if t.release != nil {
			t.release()
		}
		close(t.done)
	})
}

// PanicError is a panic recovered from a background task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// BackgroundFailure is the value a strict Dispatcher panics with on the main
// loop when a background task fails.
type BackgroundFailure struct {
	Err error
}

func (f *BackgroundFailure) Error() string { return f.Err.Error() }
func (f *BackgroundFailure) Unwrap() error { return f.Err }
