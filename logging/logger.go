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

// Package logging holds the zap logger shared by listfx packages.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the listfx logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

var nop = zap.NewNop()

// SetLogger replaces the logger. A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// For returns the logger named for a listfx component.
func For(component string) *zap.Logger {
	return Logger().Named(component)
}

// Named is a component logger for long-lived values. It follows SetLogger:
// each call to Logger derives from the current base logger, and the result
// is reused until the base changes.
type Named struct {
	name   string
	fields []zap.Field
	memo   atomic.Pointer[derived]
}

type derived struct {
	base, l *zap.Logger
}

// NewNamed returns a Named logger for component carrying fields.
func NewNamed(component string, fields ...zap.Field) *Named {
	return &Named{name: component, fields: fields}
}

// Logger returns the component logger derived from the current base.
func (n *Named) Logger() *zap.Logger {
	base := Logger()
	if m := n.memo.Load(); m != nil && m.base == base {
		return m.l
	}
	l := base.Named(n.name).With(n.fields...)
	n.memo.Store(&derived{base: base, l: l})
	return l
}
