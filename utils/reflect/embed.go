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
	"reflect"
)

// Ancestors lists the types t can stand in for, nearest first: the pointee of
// a pointer type, then embedded struct fields breadth-first in declaration
// order (pointer embeds contribute their pointee). t itself is not included
// and every type appears once. Interfaces are not listed; callers check
// Implements against the interfaces they care about.
func Ancestors(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	var (
		out   []reflect.Type
		seen  = map[reflect.Type]struct{}{t: {}}
		queue = []reflect.Type{t}
	)
	push := func(c reflect.Type) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
		queue = append(queue, c)
	}
	for depth := 0; len(queue) > 0 && depth < DefaultMaxDepth; depth++ {
		level := queue
		queue = nil
		for _, cur := range level {
			if cur.Kind() == reflect.Ptr {
				push(cur.Elem())
				continue
			}
			if cur.Kind() != reflect.Struct {
				continue
			}
			for i := 0; i < cur.NumField(); i++ {
				f := cur.Field(i)
				if !f.Anonymous {
					continue
				}
				ft := f.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				push(ft)
			}
		}
	}
	return out
}

// Project finds the value of type target reachable from v through pointer
// dereference and embedded fields, searched in the same order as Ancestors.
// Nil pointers along the way are skipped. Embedded fields of unexported types
// cannot be read through reflection and are not projected.
func Project(v any, target reflect.Type) (any, bool) {
	if v == nil || target == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == target {
		return v, true
	}
	queue := []reflect.Value{rv}
	for depth := 0; len(queue) > 0 && depth < DefaultMaxDepth; depth++ {
		level := queue
		queue = nil
		for _, cur := range level {
			switch cur.Kind() {
			case reflect.Ptr, reflect.Interface:
				if cur.IsNil() {
					continue
				}
				e := cur.Elem()
				if e.Type() == target && e.CanInterface() {
					return e.Interface(), true
				}
				queue = append(queue, e)
			case reflect.Struct:
				ct := cur.Type()
				for i := 0; i < ct.NumField(); i++ {
					if !ct.Field(i).Anonymous {
						continue
					}
					f := cur.Field(i)
					if f.Type() == target && f.CanInterface() {
						return f.Interface(), true
					}
					if f.Kind() == reflect.Ptr && !f.IsNil() && f.Type().Elem() == target && f.CanInterface() {
						return f.Elem().Interface(), true
					}
					queue = append(queue, f)
				}
			}
		}
	}
	return nil, false
}
