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

package watch

import (
	uref "dirpx.dev/listfx/utils/reflect"
)

type watcher1[T, H, P1 any] struct {
	g1  func(T) P1
	act func(H, P1)
}

// On1 watches one property of T. When it changes, act receives the render
// target and the new value.
func On1[T, H, P1 any](g1 func(T) P1, act func(H, P1)) Watcher[T] {
	return &watcher1[T, H, P1]{
		g1:  g1,
		act: act,
	}
}

func (w *watcher1[T, H, P1]) Changed(old, new T) bool {
	return !uref.Equal(w.g1(old), w.g1(new))
}

func (w *watcher1[T, H, P1]) Apply(target any, item T) bool {
	h, ok := target.(H)
	if !ok {
		return false
	}
	w.act(h, w.g1(item))
	return true
}

type watcher2[T, H, P1, P2 any] struct {
	g1  func(T) P1
	g2  func(T) P2
	act func(H, P1, P2)
}

// On2 watches 2 properties of T; act runs when any of them changes.
func On2[T, H, P1, P2 any](g1 func(T) P1, g2 func(T) P2, act func(H, P1, P2)) Watcher[T] {
	return &watcher2[T, H, P1, P2]{
		g1:  g1,
		g2:  g2,
		act: act,
	}
}

func (w *watcher2[T, H, P1, P2]) Changed(old, new T) bool {
	return !uref.Equal(w.g1(old), w.g1(new)) ||
		!uref.Equal(w.g2(old), w.g2(new))
}

func (w *watcher2[T, H, P1, P2]) Apply(target any, item T) bool {
	h, ok := target.(H)
	if !ok {
		return false
	}
	w.act(h, w.g1(item), w.g2(item))
	return true
}

type watcher3[T, H, P1, P2, P3 any] struct {
	g1  func(T) P1
	g2  func(T) P2
	g3  func(T) P3
	act func(H, P1, P2, P3)
}

// On3 watches 3 properties of T; act runs when any of them changes.
func On3[T, H, P1, P2, P3 any](g1 func(T) P1, g2 func(T) P2, g3 func(T) P3, act func(H, P1, P2, P3)) Watcher[T] {
	return &watcher3[T, H, P1, P2, P3]{
		g1:  g1,
		g2:  g2,
		g3:  g3,
		act: act,
	}
}

func (w *watcher3[T, H, P1, P2, P3]) Changed(old, new T) bool {
	return !uref.Equal(w.g1(old), w.g1(new)) ||
		!uref.Equal(w.g2(old), w.g2(new)) ||
		!uref.Equal(w.g3(old), w.g3(new))
}

func (w *watcher3[T, H, P1, P2, P3]) Apply(target any, item T) bool {
	h, ok := target.(H)
	if !ok {
		return false
	}
	w.act(h, w.g1(item), w.g2(item), w.g3(item))
	return true
}

type watcher4[T, H, P1, P2, P3, P4 any] struct {
	g1  func(T) P1
	g2  func(T) P2
	g3  func(T) P3
	g4  func(T) P4
	act func(H, P1, P2, P3, P4)
}

// On4 watches 4 properties of T; act runs when any of them changes.
func On4[T, H, P1, P2, P3, P4 any](g1 func(T) P1, g2 func(T) P2, g3 func(T) P3, g4 func(T) P4, act func(H, P1, P2, P3, P4)) Watcher[T] {
	return &watcher4[T, H, P1, P2, P3, P4]{
		g1:  g1,
		g2:  g2,
		g3:  g3,
		g4:  g4,
		act: act,
	}
}

func (w *watcher4[T, H, P1, P2, P3, P4]) Changed(old, new T) bool {
	return !uref.Equal(w.g1(old), w.g1(new)) ||
		!uref.Equal(w.g2(old), w.g2(new)) ||
		!uref.Equal(w.g3(old), w.g3(new)) ||
		!uref.Equal(w.g4(old), w.g4(new))
}

func (w *watcher4[T, H, P1, P2, P3, P4]) Apply(target any, item T) bool {
	h, ok := target.(H)
	if !ok {
		return false
	}
	w.act(h, w.g1(item), w.g2(item), w.g3(item), w.g4(item))
	return true
}

type watcher5[T, H, P1, P2, P3, P4, P5 any] struct {
	g1  func(T) P1
	g2  func(T) P2
	g3  func(T) P3
	g4  func(T) P4
	g5  func(T) P5
	act func(H, P1, P2, P3, P4, P5)
}

// On5 watches 5 properties of T; act runs when any of them changes.
func On5[T, H, P1, P2, P3, P4, P5 any](g1 func(T) P1, g2 func(T) P2, g3 func(T) P3, g4 func(T) P4, g5 func(T) P5, act func(H, P1, P2, P3, P4, P5)) Watcher[T] {
	return &watcher5[T, H, P1, P2, P3, P4, P5]{
		g1:  g1,
		g2:  g2,
		g3:  g3,
		g4:  g4,
		g5:  g5,
		act: act,
	}
}

func (w *watcher5[T, H, P1, P2, P3, P4, P5]) Changed(old, new T) bool {
	return !uref.Equal(w.g1(old), w.g1(new)) ||
		!uref.Equal(w.g2(old), w.g2(new)) ||
		!uref.Equal(w.g3(old), w.g3(new)) ||
		!uref.Equal(w.g4(old), w.g4(new)) ||
		!uref.Equal(w.g5(old), w.g5(new))
}

func (w *watcher5[T, H, P1, P2, P3, P4, P5]) Apply(target any, item T) bool {
	h, ok := target.(H)
	if !ok {
		return false
	}
	w.act(h, w.g1(item), w.g2(item), w.g3(item), w.g4(item), w.g5(item))
	return true
}

type watcher6[T, H, P1, P2, P3, P4, P5, P6 any] struct {
	g1  func(T) P1
	g2  func(T) P2
	g3  func(T) P3
	g4  func(T) P4
	g5  func(T) P5
	g6  func(T) P6
	act func(H, P1, P2, P3, P4, P5, P6)
}

// On6 watches 6 properties of T; act runs when any of them changes.
func On6[T, H, P1, P2, P3, P4, P5, P6 any](g1 func(T) P1, g2 func(T) P2, g3 func(T) P3, g4 func(T) P4, g5 func(T) P5, g6 func(T) P6, act func(H, P1, P2, P3, P4, P5, P6)) Watcher[T] {
	return &watcher6[T, H, P1, P2, P3, P4, P5, P6]{
		g1:  g1,
		g2:  g2,
		g3:  g3,
		g4:  g4,
		g5:  g5,
		g6:  g6,
		act: act,
	}
}

func (w *watcher6[T, H, P1, P2, P3, P4, P5, P6]) Changed(old, new T) bool {
	return !uref.Equal(w.g1(old), w.g1(new)) ||
		!uref.Equal(w.g2(old), w.g2(new)) ||
		!uref.Equal(w.g3(old), w.g3(new)) ||
		!uref.Equal(w.g4(old), w.g4(new)) ||
		!uref.Equal(w.g5(old), w.g5(new)) ||
		!uref.Equal(w.g6(old), w.g6(new))
}

func (w *watcher6[T, H, P1, P2, P3, P4, P5, P6]) Apply(target any, item T) bool {
	h, ok := target.(H)
	if !ok {
		return false
	}
	w.act(h, w.g1(item), w.g2(item), w.g3(item), w.g4(item), w.g5(item), w.g6(item))
	return true
}
