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

package renderer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/renderer"
	"dirpx.dev/listfx/watch"
)

type Message struct {
	ID   string
	Text string
	Seen bool
}

// Pinned routes as a Message through embedding.
type Pinned struct {
	Message
	Rank int
}

type bubble struct {
	text  string
	seen  bool
	binds int
}

func newMessageRenderer() *renderer.Func[Message, *bubble] {
	r := &renderer.Func[Message, *bubble]{
		Create: func(any) (*bubble, error) { return &bubble{}, nil },
		OnBind: func(b *bubble, m Message, _ int) {
			b.binds++
			b.text, b.seen = m.Text, m.Seen
		},
		ID: func(m Message) any { return m.ID },
	}
	r.Watch(watch.On1(func(m Message) bool { return m.Seen },
		func(b *bubble, seen bool) { b.seen = seen }))
	return r
}

func TestFunc_CreateAndFullBind(t *testing.T) {
	r := newMessageRenderer()
	h, err := r.CreateHolder(nil, 10000)
	require.NoError(t, err)
	assert.Equal(t, apis.RouteID(10000), h.RouteID())

	r.Bind(h, Message{ID: "1", Text: "hi"}, 3, nil)
	hv := h.(*renderer.Holder[*bubble])
	assert.Equal(t, "hi", hv.View.text)
	assert.Equal(t, 1, hv.View.binds)
	assert.Equal(t, 3, hv.Position)
}

// TestFunc_PartialBind verifies a watcher payload updates the view without a
// full bind.
func TestFunc_PartialBind(t *testing.T) {
	r := newMessageRenderer()
	h, _ := r.CreateHolder(nil, 10000)
	old := Message{ID: "1", Text: "hi"}
	r.Bind(h, old, 0, nil)

	updated := Message{ID: "1", Text: "hi", Seen: true}
	require.False(t, r.ContentEquals(old, updated))
	payload := r.ChangePayload(old, updated)
	require.NotNil(t, payload)

	r.Bind(h, updated, 0, []any{payload})
	hv := h.(*renderer.Holder[*bubble])
	assert.True(t, hv.View.seen)
	assert.Equal(t, 1, hv.View.binds, "partial bind must not rebind fully")
}

func TestFunc_PayloadOverrideSkipsWatchers(t *testing.T) {
	r := newMessageRenderer()
	r.Payload = func(old, new Message) any { return "custom" }
	assert.Equal(t, "custom", r.ChangePayload(Message{}, Message{Seen: true}))

	// Without Partial the override payload falls back to a full bind.
	h, _ := r.CreateHolder(nil, 10000)
	r.Bind(h, Message{Text: "x"}, 0, []any{"custom"})
	assert.Equal(t, 1, h.(*renderer.Holder[*bubble]).View.binds)
}

func TestFunc_IdentityAndDefaults(t *testing.T) {
	r := newMessageRenderer()
	k, ok := r.IdentityKey(Message{ID: "42"})
	assert.True(t, ok)
	assert.Equal(t, "42", k)
	assert.True(t, r.HasIdentityKey())

	// embedded item projects to the route type
	k, ok = r.IdentityKey(Pinned{Message: Message{ID: "7"}})
	assert.True(t, ok)
	assert.Equal(t, "7", k)

	plain := &renderer.Func[Message, *bubble]{}
	_, ok = plain.IdentityKey(Message{ID: "1"})
	assert.False(t, ok)
	assert.False(t, plain.HasIdentityKey())
	assert.Equal(t, plain.RouteKey(), r.RouteKey(), "same item and view types share the default key")

	plain.Key = "alt"
	assert.Equal(t, "alt", plain.RouteKey())
}

func TestFunc_ContentEqualsIsReflexive(t *testing.T) {
	r := newMessageRenderer()
	for _, m := range []Message{{}, {ID: "1", Text: "a"}, {Seen: true}} {
		assert.True(t, r.ContentEquals(m, m))
		assert.Nil(t, r.ChangePayload(m, m))
	}
}

func TestFunc_CreateError(t *testing.T) {
	boom := errors.New("boom")
	r := &renderer.Func[Message, *bubble]{
		Create: func(any) (*bubble, error) { return nil, boom },
	}
	_, err := r.CreateHolder(nil, 10000)
	assert.ErrorIs(t, err, boom)
}

func TestFunc_Lifecycle(t *testing.T) {
	var events []string
	r := &renderer.Func[Message, *bubble]{
		Create:   func(any) (*bubble, error) { return &bubble{}, nil },
		Recycled: func(*bubble) { events = append(events, "recycled") },
		Attached: func(*bubble) { events = append(events, "attached") },
	}
	h, _ := r.CreateHolder(nil, 10000)
	r.OnAttached(h)
	r.OnDetached(h)
	r.OnRecycled(h)
	assert.Equal(t, []string{"attached", "recycled"}, events)
}

func TestPlaceholder(t *testing.T) {
	var bound []int
	p := &renderer.Placeholder{OnBind: func(_ any, pos int) { bound = append(bound, pos) }}
	h, err := p.CreateHolder(nil, apis.PlaceholderRouteID)
	require.NoError(t, err)
	p.Bind(h, apis.Placeholder{}, 5, nil)
	assert.Equal(t, []int{5}, bound)
	assert.True(t, p.ContentEquals(apis.Placeholder{}, apis.Placeholder{}))
}

func TestAs(t *testing.T) {
	m, ok := renderer.As[Message](&Pinned{Message: Message{ID: "p"}})
	require.True(t, ok)
	assert.Equal(t, "p", m.ID)

	_, ok = renderer.As[Message]("nope")
	assert.False(t, ok)
}
