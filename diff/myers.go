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

// Package diff computes positional updates between two versions of a list.
//
// Compute finds a shortest edit script with Myers' linear-space algorithm,
// pairs removed and inserted identical items into moves and reports changed
// content with the payload the Callback produces. Differ runs Compute off the
// main loop and applies the newest result on it.
package diff

import (
	"context"
	"time"

	"dirpx.dev/listfx/metrics"
)

// Callback compares list items. *engine.Engine implements it.
type Callback interface {
	AreIdentical(old, new any) bool
	AreEquivalentContent(old, new any) bool
	ChangePayload(old, new any) any
}

const (
	// pollSteps is how many comparisons run between context checks.
	pollSteps = 1024
	// maxMovePairs bounds move detection; larger edit scripts are reported
	// as plain removes and inserts.
	maxMovePairs = 1 << 22
)

type match struct{ o, n int }

type compute struct {
	ctx   context.Context
	old   []any
	new   []any
	cb    Callback
	steps int
	err   error
	keeps []match

	vf, vb []int
}

// Compute returns the updates turning old into new. It returns ctx.Err() if
// ctx is done before the computation finishes; old and new are never
// modified.
func Compute(ctx context.Context, old, new []any, cb Callback) (*Result, error) {
	start := time.Now()
	c := &compute{ctx: ctx, old: old, new: new, cb: cb}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.lcs(0, len(old), 0, len(new))
	if c.err != nil {
		return nil, c.err
	}
	ops, err := c.emit()
	if err != nil {
		return nil, err
	}

	metrics.DiffDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
	for _, op := range ops {
		metrics.DiffOps.WithLabelValues(op.Kind.String()).Inc()
	}
	return &Result{Ops: ops}, nil
}

// eq compares old[i] and new[j], polling ctx every pollSteps calls. After
// cancellation it reports false so loops unwind quickly.
func (c *compute) eq(i, j int) bool {
	if c.err != nil {
		return false
	}
	c.steps++
	if c.steps%pollSteps == 0 {
		if err := c.ctx.Err(); err != nil {
			c.err = err
			return false
		}
	}
	return c.cb.AreIdentical(c.old[i], c.new[j])
}

// lcs appends the matches of old[a0:a1] and new[b0:b1] to c.keeps in order.
func (c *compute) lcs(a0, a1, b0, b1 int) {
	for a0 < a1 && b0 < b1 && c.eq(a0, b0) {
		c.keeps = append(c.keeps, match{a0, b0})
		a0++
		b0++
	}
	suffix := 0
	for a1 > a0 && b1 > b0 && c.eq(a1-1, b1-1) {
		a1--
		b1--
		suffix++
	}
	if c.err == nil && a0 < a1 && b0 < b1 {
		x, y := c.split(a0, a1, b0, b1)
		if c.err != nil {
			return
		}
		c.lcs(a0, x, b0, y)
		c.lcs(x, a1, y, b1)
	}
	if c.err != nil {
		return
	}
	for i := 0; i < suffix; i++ {
		c.keeps = append(c.keeps, match{a1 + i, b1 + i})
	}
}

// split returns a point on a shortest edit path for old[a0:a1] and
// new[b0:b1] that is neither corner of the range. Both ranges are non-empty
// and their first and last elements differ.
func (c *compute) split(a0, a1, b0, b1 int) (int, int) {
	x, y := c.middleSnake(a0, a1, b0, b1)
	x = min(max(x, a0), a1)
	y = min(max(y, b0), b1)
	if (x == a0 && y == b0) || (x == a1 && y == b1) {
		// Removing everything, then inserting everything, is always valid.
		return a1, b0
	}
	return x, y
}

// middleSnake finds where the forward and reverse searches of Myers' linear
// space algorithm meet and returns the start of the middle snake in absolute
// indices.
func (c *compute) middleSnake(a0, a1, b0, b1 int) (int, int) {
	n, m := a1-a0, b1-b0
	delta := n - m
	odd := delta&1 != 0
	limit := (n + m + 1) / 2
	off := limit + 1

	size := 2*limit + 3
	if cap(c.vf) < size {
		c.vf = make([]int, size)
		c.vb = make([]int, size)
	}
	vf, vb := c.vf[:size], c.vb[:size]
	vf[off+1], vb[off+1] = 0, 0

	for d := 0; d <= limit; d++ {
		if err := c.ctx.Err(); err != nil {
			c.err = err
			return a0, b0
		}

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && vf[off+k-1] < vf[off+k+1]) {
				x = vf[off+k+1]
			} else {
				x = vf[off+k-1] + 1
			}
			y := x - k
			sx, sy := x, y
			for x < n && y < m && c.eq(a0+x, b0+y) {
				x++
				y++
			}
			vf[off+k] = x
			if c.err != nil {
				return a0, b0
			}
			if kr := delta - k; odd && kr >= -(d-1) && kr <= d-1 && x+vb[off+kr] >= n {
				return a0 + sx, b0 + sy
			}
		}

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && vb[off+k-1] < vb[off+k+1]) {
				x = vb[off+k+1]
			} else {
				x = vb[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && c.eq(a1-1-x, b1-1-y) {
				x++
				y++
			}
			vb[off+k] = x
			if c.err != nil {
				return a0, b0
			}
			if kf := delta - k; !odd && kf >= -d && kf <= d && x+vf[off+kf] >= n {
				return a1 - x, b1 - y
			}
		}
	}
	return a0, b0
}
