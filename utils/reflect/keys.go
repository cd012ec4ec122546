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

package reflect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// DefaultMaxDepth bounds how deep Stable and Hashable descend into
// aggregates before giving up.
const DefaultMaxDepth = 16

var (
	// ErrNilKey is returned when a nil key is provided.
	ErrNilKey = errors.New("reflect: nil key")
	// ErrAnonymousType indicates a value of an unnamed struct type. Such
	// values are only equal to literals spelled identically at every use site.
	ErrAnonymousType = errors.New("reflect: value of anonymous struct type")
	// ErrIdentityValue indicates a value compared by address (pointer, chan,
	// func, unsafe.Pointer) rather than by content.
	ErrIdentityValue = errors.New("reflect: value compared by identity")
	// ErrUnhashableValue indicates a map or slice, which cannot be used as a
	// map key at all.
	ErrUnhashableValue = errors.New("reflect: unhashable value")
	// ErrNaN indicates a NaN float, which never equals itself and so never
	// finds its own map entry.
	ErrNaN = errors.New("reflect: NaN value")
	// ErrTooDeep is returned when the value nests deeper than DefaultMaxDepth.
	ErrTooDeep = errors.New("reflect: value nests too deeply")
)

// typeOfType is the dynamic type behind every reflect.Type value.
var typeOfType = reflect.TypeOf(reflect.TypeOf(0))

// Stable reports whether v is usable as a long-lived route key.
//
// Accepted: booleans, numbers, strings, named constants, reflect.Type values,
// and named struct or array types whose fields are themselves stable.
// Rejected: pointers, channels, funcs, unsafe pointers, maps, slices, NaN
// floats, values of anonymous struct types, and any aggregate containing one
// of these, including through interface-typed fields.
//
// The returned error wraps one of the sentinel errors above and names the
// offending path inside v.
func Stable(v any) error {
	if v == nil {
		return ErrNilKey
	}
	if _, ok := v.(reflect.Type); ok {
		return nil
	}
	return stable(reflect.ValueOf(v), "", 0)
}

func stable(rv reflect.Value, path string, depth int) error {
	if depth > DefaultMaxDepth {
		return at(path, ErrTooDeep)
	}
	t := rv.Type()
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return nil

	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); f != f {
			return at(path, ErrNaN)
		}
		return nil

	case reflect.Complex64, reflect.Complex128:
		if c := rv.Complex(); c != c {
			return at(path, ErrNaN)
		}
		return nil

	case reflect.Ptr:
		if t == typeOfType {
			return nil
		}
		return at(path, fmt.Errorf("%w: %s", ErrIdentityValue, t))

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return at(path, fmt.Errorf("%w: %s", ErrIdentityValue, t))

	case reflect.Map, reflect.Slice:
		return at(path, fmt.Errorf("%w: %s", ErrUnhashableValue, t))

	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return stable(rv.Elem(), path, depth+1)

	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := stable(rv.Index(i), fmt.Sprintf("%s[%d]", path, i), depth+1); err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct:
		if t.Name() == "" {
			return at(path, fmt.Errorf("%w: %s", ErrAnonymousType, t))
		}
		for i := 0; i < t.NumField(); i++ {
			if err := stable(rv.Field(i), path+"."+t.Field(i).Name, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return at(path, fmt.Errorf("%w: %s", ErrUnhashableValue, t))
}

func at(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("field %s: %w", strings.TrimPrefix(path, "."), err)
}

// Hashable reports whether v can be used as a map key without panicking.
// Unlike Stable it accepts pointers and anonymous structs.
func Hashable(v any) bool {
	if v == nil {
		return true
	}
	return hashable(reflect.ValueOf(v), 0)
}

func hashable(rv reflect.Value, depth int) bool {
	if depth > DefaultMaxDepth {
		return false
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return false
	case reflect.Interface:
		return rv.IsNil() || hashable(rv.Elem(), depth+1)
	case reflect.Array:
		if rv.Type().Comparable() && !containsInterface(rv.Type().Elem()) {
			return true
		}
		for i := 0; i < rv.Len(); i++ {
			if !hashable(rv.Index(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !hashable(rv.Field(i), depth+1) {
				return false
			}
		}
		return true
	}
	return true
}

func containsInterface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Array:
		return containsInterface(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsInterface(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// Equal reports value equality. Hashable values of the same type compare with
// ==, everything else falls back to reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if Hashable(a) && Hashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Same reports whether a and b are the same value without descending into
// them: equal pointers, or == for other hashable values. Non-hashable values
// are never the same.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return Hashable(a) && Hashable(b) && a == b
}
