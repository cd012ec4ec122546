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

package listfx_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/listfx"
	"dirpx.dev/listfx/apis"
	"dirpx.dev/listfx/config"
	"dirpx.dev/listfx/dispatcher"
	"dirpx.dev/listfx/errs"
	"dirpx.dev/listfx/renderer"
	"dirpx.dev/listfx/router"
)

type Message struct {
	ID   string
	Text string
}

type Divider struct{}

type Unknown struct{}

type updates struct{ ops []string }

func (u *updates) OnInserted(pos, count int) { u.ops = append(u.ops, "insert") }
func (u *updates) OnRemoved(pos, count int)  { u.ops = append(u.ops, "remove") }
func (u *updates) OnMoved(from, to int)      { u.ops = append(u.ops, "move") }
func (u *updates) OnChanged(pos, count int, payload any) {
	u.ops = append(u.ops, "change")
}

func newController(t *testing.T, opts ...listfx.ControllerOption) (*listfx.Controller, *dispatcher.Loop, *updates) {
	t.Helper()
	loop := dispatcher.NewLoop()
	u := &updates{}
	c := listfx.NewController(loop, append([]listfx.ControllerOption{listfx.WithUpdater(u)}, opts...)...)
	t.Cleanup(c.Close)

	msg, err := router.New[Message]().
		Identity(func(m Message) any { return m.ID }).
		Map("message", &renderer.Func[Message, *string]{Key: "message"}).
		Build()
	require.NoError(t, err)
	require.NoError(t, listfx.Register[Message](c, msg))
	require.NoError(t, listfx.RegisterRenderer[Divider](c, &renderer.Func[Divider, *string]{}))
	return c, loop, u
}

func settle(t *testing.T, loop *dispatcher.Loop, ch <-chan bool) bool {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		loop.Drain()
		select {
		case v := <-ch:
			return v
		case <-deadline:
			t.Fatal("submission never settled")
			return false
		case <-time.After(time.Millisecond):
		}
	}
}

func TestController_SubmitAndUpdate(t *testing.T) {
	c, loop, u := newController(t)
	assert.Same(t, c.Engine(), c.Engine())

	ch := make(chan bool, 1)
	first := []any{Message{ID: "1", Text: "a"}, Divider{}, Message{ID: "2", Text: "b"}}
	_, err := c.Submit(context.Background(), first, func(ok bool) { ch <- ok })
	require.NoError(t, err)
	require.True(t, settle(t, loop, ch))
	assert.Equal(t, first, c.Current())
	assert.Equal(t, []string{"insert"}, u.ops)

	u.ops = nil
	second := []any{Message{ID: "2", Text: "b"}, Divider{}, Message{ID: "1", Text: "edited"}}
	_, err = c.Submit(context.Background(), second, func(ok bool) { ch <- ok })
	require.NoError(t, err)
	require.True(t, settle(t, loop, ch))
	assert.Equal(t, second, c.Current())
	assert.Contains(t, u.ops, "move")
	assert.Contains(t, u.ops, "change")
}

func TestController_LenientDropsUnroutable(t *testing.T) {
	var dropped []any
	c, loop, _ := newController(t, listfx.WithConfig(config.NewConfig(
		config.WithErrorHandler(func(item any, err error) { dropped = append(dropped, item) }),
	)))

	ch := make(chan bool, 1)
	_, err := c.Submit(context.Background(), []any{Message{ID: "1"}, Unknown{}}, func(ok bool) { ch <- ok })
	require.NoError(t, err)
	require.True(t, settle(t, loop, ch))
	assert.Equal(t, []any{Message{ID: "1"}}, c.Current())
	assert.Equal(t, []any{Unknown{}}, dropped)
}

func TestController_StrictRejectsUnroutable(t *testing.T) {
	c, _, _ := newController(t, listfx.WithConfig(config.NewConfig(config.WithStrict(true))))

	task, err := c.Submit(context.Background(), []any{Unknown{}}, nil)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, errs.ErrUnroutableItem)
	assert.Empty(t, c.Current())
}

func TestController_ItemIDs(t *testing.T) {
	c, _, _ := newController(t)
	e := c.Engine()

	a := e.ItemID(Message{ID: "1", Text: "a"}, 0)
	b := e.ItemID(Message{ID: "1", Text: "b"}, 3)
	assert.Equal(t, a, b)
	assert.NotEqual(t, apis.NoID, a)

	p := e.ItemID(apis.Placeholder{}, 4)
	assert.Equal(t, int64(c.ID().ID()&0x7fffffff)<<32|4, p)
}

func TestController_SharedRouteIDs(t *testing.T) {
	c1, _, _ := newController(t)
	c2, _, _ := newController(t)

	id1, err := c1.Engine().RouteID(Message{})
	require.NoError(t, err)
	id2, err := c2.Engine().RouteID(Message{})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, c1.ID(), c2.ID())
}

func TestController_Logs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	listfx.SetLogger(zap.New(core))
	defer listfx.SetLogger(nil)

	c, _, _ := newController(t, listfx.WithWorkers(2))
	c.Close()

	assert.NotZero(t, logs.FilterMessage("controller started").Len())
	assert.NotZero(t, logs.FilterMessage("controller closed").Len())
}

func TestController_LogsFollowLaterSetLogger(t *testing.T) {
	c, _, _ := newController(t, listfx.WithWorkers(2))

	core, logs := observer.New(zap.DebugLevel)
	listfx.SetLogger(zap.New(core))
	defer listfx.SetLogger(nil)

	c.Close()
	closed := logs.FilterMessage("controller closed").All()
	require.Len(t, closed, 1)
	assert.Equal(t, "controller", closed[0].LoggerName)
	assert.Equal(t, "dispatcher", logs.FilterMessage("dispatcher closed").All()[0].LoggerName)
}
