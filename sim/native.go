// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"sync"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/event"
)

// nativeSource exposes the wallet's native events through
// adapter.NativeSource, converting payloads to the vendor's shape.
type nativeSource struct {
	mutex     sync.Mutex
	events    *event.Emitter[string, any]
	translate func(ev string, payload any) any
	subs      map[nativeKey]event.Subscription
}

type nativeKey struct {
	event string
	l     adapter.NativeListener
}

func newNativeSource(events *event.Emitter[string, any], translate func(string, any) any) *nativeSource {
	return &nativeSource{
		events:    events,
		translate: translate,
		subs:      make(map[nativeKey]event.Subscription),
	}
}

func (n *nativeSource) On(ev string, l adapter.NativeListener) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	key := nativeKey{ev, l}
	if _, ok := n.subs[key]; ok {
		return
	}
	n.subs[key] = n.events.On(ev, func(payload any) {
		l.HandleEvent(n.translate(ev, payload))
	})
}

func (n *nativeSource) Off(ev string, l adapter.NativeListener) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	key := nativeKey{ev, l}
	if sub, ok := n.subs[key]; ok {
		sub.Unsubscribe()
		delete(n.subs, key)
	}
}

// Listeners returns the number of listeners registered through On.
func (n *nativeSource) Listeners() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.subs)
}
