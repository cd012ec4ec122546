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

// Package errs defines the two error kinds listfx reports.
//
// A *ConfigError describes a programming or registration mistake. It is always
// returned to the caller, whatever the strictness policy says.
//
// A *DataError describes a problem with the data flowing through the list: an
// item nobody can render, or a background task that failed. Whether it is
// returned (strict) or handed to the error handler and skipped (lenient) is
// decided by the configured policy.
//
// Both wrap one of the Err* kind sentinels, so callers match with errors.Is,
// and both capture the stack of the call that created them.
package errs

import (
	"errors"
	"fmt"
	"reflect"

	pkgerrors "github.com/pkg/errors"
)

// Kinds.
var (
	// ErrUnroutableItem is raised for an item whose type has no route.
	ErrUnroutableItem = errors.New("listfx: unroutable item")
	// ErrDispatchFailure is raised when a route exists but yields no renderer
	// for an item, or a RouteID has no renderer bound.
	ErrDispatchFailure = errors.New("listfx: dispatch failure")
	// ErrUnstableKey is raised for route keys that cannot serve as long-lived
	// map keys.
	ErrUnstableKey = errors.New("listfx: unstable route key")
	// ErrMissingIdentityKey is raised when identity keys are required and a
	// route declares none.
	ErrMissingIdentityKey = errors.New("listfx: missing identity key")
	// ErrRouteKeyCollision is raised when two different renderers produce
	// equal route keys within one engine.
	ErrRouteKeyCollision = errors.New("listfx: route key collision")
	// ErrBackgroundTask wraps failures captured on background workers.
	ErrBackgroundTask = errors.New("listfx: background task failed")
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// ConfigError is a configuration or programming error.
type ConfigError struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Type is the offending Go type, if one is known.
	Type reflect.Type
	// Detail is a human readable description.
	Detail string
	// Cause is an optional underlying error.
	Cause error

	stack error
}

// Config builds a *ConfigError of the given kind.
func Config(kind error, t reflect.Type, format string, args ...any) *ConfigError {
	return &ConfigError{
		Kind:   kind,
		Type:   t,
		Detail: fmt.Sprintf(format, args...),
		stack:  pkgerrors.WithStack(kind),
	}
}

// WithCause sets the underlying error and returns e.
func (e *ConfigError) WithCause(err error) *ConfigError {
	e.Cause = err
	return e
}

func (e *ConfigError) Error() string {
	return describe(e.Kind, e.Detail, e.Cause)
}

func (e *ConfigError) Unwrap() []error {
	return unwrap(e.Kind, e.Cause)
}

// StackTrace returns the stack captured when the error was created.
func (e *ConfigError) StackTrace() pkgerrors.StackTrace {
	return trace(e.stack)
}

// Format supports %+v to print the captured stack.
func (e *ConfigError) Format(s fmt.State, verb rune) {
	format(s, verb, e.Error(), e.StackTrace())
}

// DataError is an error about the data flowing through a list.
type DataError struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Item is the offending item, nil for background failures.
	Item any
	// Type is the dynamic type of Item.
	Type reflect.Type
	// Detail is a human readable description.
	Detail string
	// Cause is an optional underlying error.
	Cause error

	stack error
}

// Data builds a *DataError of the given kind about item.
func Data(kind error, item any, format string, args ...any) *DataError {
	return &DataError{
		Kind:   kind,
		Item:   item,
		Type:   reflect.TypeOf(item),
		Detail: fmt.Sprintf(format, args...),
		stack:  pkgerrors.WithStack(kind),
	}
}

// WithCause sets the underlying error and returns e.
func (e *DataError) WithCause(err error) *DataError {
	e.Cause = err
	return e
}

func (e *DataError) Error() string {
	return describe(e.Kind, e.Detail, e.Cause)
}

func (e *DataError) Unwrap() []error {
	return unwrap(e.Kind, e.Cause)
}

// StackTrace returns the stack captured when the error was created.
func (e *DataError) StackTrace() pkgerrors.StackTrace {
	return trace(e.stack)
}

// Format supports %+v to print the captured stack.
func (e *DataError) Format(s fmt.State, verb rune) {
	format(s, verb, e.Error(), e.StackTrace())
}

// IsConfig reports whether err is or wraps a *ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsData reports whether err is or wraps a *DataError.
func IsData(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

func describe(kind error, detail string, cause error) string {
	msg := "listfx: unknown error"
	if kind != nil {
		msg = kind.Error()
	}
	if detail != "" {
		msg += ": " + detail
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}

func unwrap(kind, cause error) []error {
	out := make([]error, 0, 2)
	if kind != nil {
		out = append(out, kind)
	}
	if cause != nil {
		out = append(out, cause)
	}
	return out
}

func trace(stack error) pkgerrors.StackTrace {
	if st, ok := stack.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

func format(s fmt.State, verb rune, msg string, st pkgerrors.StackTrace) {
	switch verb {
	case 'v':
		_, _ = fmt.Fprint(s, msg)
		if s.Flag('+') && st != nil {
			st.Format(s, verb)
		}
	case 's':
		_, _ = fmt.Fprint(s, msg)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", msg)
	}
}
