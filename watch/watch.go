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

// Package watch computes partial-update payloads from item properties.
//
// A Watcher reads one to six properties of an item and knows how to push
// their current values into a render target. When two versions of an item
// differ only in watched properties, the payload names the watchers to run
// and the host can skip a full rebind.
package watch

// Watcher observes some properties of T.
type Watcher[T any] interface {
	// Changed reports whether any watched property differs.
	Changed(old, new T) bool
	// Apply pushes item's watched properties into target. It returns false
	// when target is not of the type the watcher acts on.
	Apply(target any, item T) bool
}

// Set is an ordered collection of watchers. The zero value is empty and
// ready to use. A Set is not safe for concurrent Add; add watchers while
// building the renderer and only read afterwards.
type Set[T any] struct {
	ws []Watcher[T]
}

// Add appends w.
func (s *Set[T]) Add(w ...Watcher[T]) {
	s.ws = append(s.ws, w...)
}

// Len returns the number of watchers.
func (s *Set[T]) Len() int { return len(s.ws) }

// Payload returns nil when no watcher fires, the single watcher when exactly
// one fires, and a []any of the firing watchers in declaration order
// otherwise.
func (s *Set[T]) Payload(old, new T) any {
	var (
		first Watcher[T]
		many  []any
	)
	for _, w := range s.ws {
		if !w.Changed(old, new) {
			continue
		}
		switch {
		case first == nil:
			first = w
		case many == nil:
			many = append(make([]any, 0, len(s.ws)), first, w)
		default:
			many = append(many, w)
		}
	}
	if many != nil {
		return many
	}
	if first != nil {
		return first
	}
	return nil
}

// Apply runs every watcher found in payloads against target, flattening
// nested []any payloads. It reports whether at least one watcher ran; false
// means the caller should fall back to a full bind.
func (s *Set[T]) Apply(target any, item T, payloads []any) bool {
	handled := false
	var walk func(p any)
	walk = func(p any) {
		switch v := p.(type) {
		case []any:
			for _, e := range v {
				walk(e)
			}
		case Watcher[T]:
			if v.Apply(target, item) {
				handled = true
			}
		}
	}
	for _, p := range payloads {
		walk(p)
	}
	return handled
}
