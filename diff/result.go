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

import (
	"fmt"

	"dirpx.dev/listfx/apis"
)

// Kind is the type of an Op.
type Kind uint8

const (
	Insert Kind = iota + 1
	Remove
	Move
	Change
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Move:
		return "move"
	case Change:
		return "change"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is one positional update. Positions refer to the list as it is after
// every preceding Op has been applied.
type Op struct {
	Kind  Kind
	Pos   int
	To    int // Move only
	Count int // Insert, Remove and Change
	// Payload is the partial-update payload of a Change, nil for a full
	// rebind.
	Payload any
}

func (o Op) String() string {
	switch o.Kind {
	case Move:
		return fmt.Sprintf("move %d->%d", o.Pos, o.To)
	case Change:
		return fmt.Sprintf("change %d+%d %v", o.Pos, o.Count, o.Payload)
	default:
		return fmt.Sprintf("%s %d+%d", o.Kind, o.Pos, o.Count)
	}
}

// Result is the output of Compute.
type Result struct {
	Ops []Op
}

// Empty reports whether the two lists were identical in order and content.
func (r *Result) Empty() bool { return r == nil || len(r.Ops) == 0 }

// Dispatch replays the ops on u in order.
func (r *Result) Dispatch(u apis.ListUpdater) {
	if r == nil {
		return
	}
	for _, op := range r.Ops {
		switch op.Kind {
		case Insert:
			u.OnInserted(op.Pos, op.Count)
		case Remove:
			u.OnRemoved(op.Pos, op.Count)
		case Move:
			u.OnMoved(op.Pos, op.To)
		case Change:
			u.OnChanged(op.Pos, op.Count, op.Payload)
		}
	}
}
