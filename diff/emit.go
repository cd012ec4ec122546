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

package diff

// fenwick counts marked indices.
type fenwick []int

func newFenwick(n int) fenwick { return make(fenwick, n+1) }

func (f fenwick) add(i, delta int) {
	for i++; i < len(f); i += i & -i {
		f[i] += delta
	}
}

// before returns how many indices < i are marked.
func (f fenwick) before(i int) int {
	s := 0
	for ; i > 0; i -= i & -i {
		s += f[i]
	}
	return s
}

// emitter turns matched pairs into ops applied left to right.
//
// While walking, the list is a prefix holding new[:j] with forward-moving
// items parked in it, followed by the tail: unvisited old items that were
// not pulled backward yet. pos is the length of the prefix. Every row
// appended to the prefix takes the next slot; a row's live position is the
// number of live slots before its own.
type emitter struct {
	c   *compute
	ops []Op
	pos int

	oldTo   []int // old index -> new index of its move, or -1
	newFrom []int // new index -> old index of its move, or -1

	pulled []bool  // old indices already moved backward out of the tail
	gone   fenwick // the same, counted

	live   fenwick     // prefix slots still holding their row
	slots  int         // slots handed out
	parked map[int]int // old index -> slot of its parked row
}

func (c *compute) emit() ([]Op, error) {
	n, m := len(c.old), len(c.new)
	e := &emitter{
		c:       c,
		oldTo:   fill(n, -1),
		newFrom: fill(m, -1),
		pulled:  make([]bool, n),
		gone:    newFenwick(n),
		live:    newFenwick(n + m),
		parked:  make(map[int]int),
	}
	if err := e.pairMoves(); err != nil {
		return nil, err
	}

	x, j := 0, 0
	for _, k := range append(c.keeps, match{n, m}) {
		for ; x < k.o; x++ {
			e.visitOld(x)
		}
		for ; j < k.n; j++ {
			e.visitNew(j, x)
		}
		if k.o == n {
			break
		}
		e.change(e.pos, k.o, k.n)
		e.push()
		e.pos++
		x++
		j++
	}
	return e.ops, c.ctx.Err()
}

// pairMoves pairs every unmatched old item with the first unmatched
// identical new item.
func (e *emitter) pairMoves() error {
	c := e.c
	kept := make([]bool, len(c.old))
	taken := make([]bool, len(c.new))
	for _, k := range c.keeps {
		kept[k.o] = true
		taken[k.n] = true
	}
	var dels, ins []int
	for i, k := range kept {
		if !k {
			dels = append(dels, i)
		}
	}
	for j, t := range taken {
		if !t {
			ins = append(ins, j)
		}
	}
	if len(dels)*len(ins) > maxMovePairs {
		return nil
	}
	for _, o := range dels {
		for _, j := range ins {
			if e.newFrom[j] >= 0 {
				continue
			}
			if c.eq(o, j) {
				e.oldTo[o], e.newFrom[j] = j, o
				break
			}
		}
		if c.err != nil {
			return c.err
		}
	}
	return nil
}

// push appends a row to the prefix and returns its slot.
func (e *emitter) push() int {
	s := e.slots
	e.slots++
	e.live.add(s, 1)
	return s
}

func (e *emitter) visitOld(o int) {
	switch {
	case e.pulled[o]:
	case e.oldTo[o] >= 0:
		e.parked[o] = e.push()
		e.pos++
	default:
		e.add(Op{Kind: Remove, Pos: e.pos, Count: 1})
	}
}

// visitNew places new[j]; x is the first unvisited old index.
func (e *emitter) visitNew(j, x int) {
	o := e.newFrom[j]
	switch {
	case o < 0:
		e.add(Op{Kind: Insert, Pos: e.pos, Count: 1})
		e.push()
		e.pos++
	case o < x:
		s := e.parked[o]
		delete(e.parked, o)
		from := e.live.before(s)
		e.live.add(s, -1)
		e.push()
		if from != e.pos-1 {
			e.add(Op{Kind: Move, Pos: from, To: e.pos - 1})
		}
		e.change(e.pos-1, o, j)
	default:
		from := e.pos + (o - x) - (e.gone.before(o) - e.gone.before(x))
		e.pulled[o] = true
		e.gone.add(o, 1)
		e.push()
		if from != e.pos {
			e.add(Op{Kind: Move, Pos: from, To: e.pos})
		}
		e.change(e.pos, o, j)
		e.pos++
	}
}

func (e *emitter) change(pos, o, j int) {
	c := e.c
	if c.cb.AreEquivalentContent(c.old[o], c.new[j]) {
		return
	}
	e.add(Op{Kind: Change, Pos: pos, Count: 1, Payload: c.cb.ChangePayload(c.old[o], c.new[j])})
}

// add appends op, merging it into the previous op when both cover
// adjacent ranges.
func (e *emitter) add(op Op) {
	if n := len(e.ops); n > 0 {
		last := &e.ops[n-1]
		switch {
		case op.Kind == Insert && last.Kind == Insert && last.Pos+last.Count == op.Pos,
			op.Kind == Remove && last.Kind == Remove && last.Pos == op.Pos,
			op.Kind == Change && last.Kind == Change && last.Payload == nil && op.Payload == nil &&
				last.Pos+last.Count == op.Pos:
			last.Count += op.Count
			return
		}
	}
	e.ops = append(e.ops, op)
}

func fill(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}
