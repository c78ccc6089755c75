// SPDX-License-Identifier: Apache-2.0

package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/event"
)

type source struct {
	em   *event.Emitter[string, any]
	subs map[adapter.NativeListener]event.Subscription
}

func newSource() *source {
	return &source{
		em:   event.NewEmitter[string, any](),
		subs: make(map[adapter.NativeListener]event.Subscription),
	}
}

func (s *source) On(ev string, l adapter.NativeListener) {
	s.subs[l] = s.em.On(ev, l.HandleEvent)
}

func (s *source) Off(ev string, l adapter.NativeListener) {
	if sub, ok := s.subs[l]; ok {
		sub.Unsubscribe()
		delete(s.subs, l)
	}
}

func TestNativeBindings(t *testing.T) {
	src := newSource()
	var got []any
	var n adapter.NativeBindings

	n.Bind(src, map[string]func(any){
		"accountChanged": func(p any) { got = append(got, p) },
		"disconnect":     func(p any) { got = append(got, "disconnect") },
	})
	assert.Equal(t, 2, n.Len())
	src.em.Emit("accountChanged", "aleo1abc")
	src.em.Emit("disconnect", nil)
	assert.Equal(t, []any{"aleo1abc", "disconnect"}, got)

	// Rebinding replaces the old listeners.
	n.Bind(src, map[string]func(any){"networkChanged": func(any) {}})
	assert.Equal(t, 1, n.Len())
	assert.Len(t, src.subs, 1)

	n.Unbind()
	n.Unbind()
	assert.Zero(t, n.Len())
	assert.Empty(t, src.subs)
	assert.Zero(t, src.em.ListenerCount("accountChanged"))
}
