// SPDX-License-Identifier: Apache-2.0

package adapter

import "sync"

type (
	// NativeListener receives events from a provider's own event source.
	// Implementations must be comparable, Off identifies listeners by
	// equality.
	NativeListener interface {
		HandleEvent(payload any)
	}

	// NativeSource is a provider that emits its own events.
	NativeSource interface {
		On(event string, l NativeListener)
		Off(event string, l NativeListener)
	}

	// NativeBindings tracks listeners registered on a NativeSource so that
	// every On is paired with exactly one Off.
	NativeBindings struct {
		mutex sync.Mutex
		src   NativeSource
		bound []binding
	}

	binding struct {
		event string
		l     *nativeListener
	}

	nativeListener struct {
		fn func(any)
	}
)

func (l *nativeListener) HandleEvent(payload any) { l.fn(payload) }

// Bind registers handlers on src. Listeners from a previous Bind are removed
// first.
func (n *NativeBindings) Bind(src NativeSource, handlers map[string]func(any)) {
	n.Unbind()

	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.src = src
	for ev, fn := range handlers {
		l := &nativeListener{fn: fn}
		src.On(ev, l)
		n.bound = append(n.bound, binding{event: ev, l: l})
	}
}

// Unbind removes all listeners registered by Bind.
func (n *NativeBindings) Unbind() {
	n.mutex.Lock()
	src, bound := n.src, n.bound
	n.src, n.bound = nil, nil
	n.mutex.Unlock()

	for _, b := range bound {
		src.Off(b.event, b.l)
	}
}

// Len returns the number of registered listeners.
func (n *NativeBindings) Len() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.bound)
}
