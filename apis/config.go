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

package apis

import (
	"time"

	"dirpx.dev/listfx/identity/mode"
)

// ErrorHandler receives data errors that lenient mode skips instead of
// returning. item is the offending item, nil for background failures.
type ErrorHandler func(item any, err error)

// Config carries the host-provided policy knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Strict makes data errors fatal: they are returned (or, for background
	// failures, raised on the main loop). When false, they are reported to
	// OnError and the offending item or task is skipped.
	Strict bool

	// OnError receives data errors in lenient mode. May be nil.
	OnError ErrorHandler

	// Debounce is passed through to hosts that throttle submissions.
	Debounce time.Duration

	// RequireIdentityKey demands an identity extractor on every route.
	RequireIdentityKey bool

	// IdentityStrategy selects how item ids are derived from identity keys.
	IdentityStrategy mode.Mode

	// IdentityCacheSize bounds the LRU identity table.
	IdentityCacheSize int

	// Workers is the background pool size; <= 0 selects max(2, NumCPU+1).
	Workers int
}

// Report hands err to OnError when set.
func (c Config) Report(item any, err error) {
	if c.OnError != nil {
		c.OnError(item, err)
	}
}
