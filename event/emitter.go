// Copyright 2024 - See NOTICE file for copyright holders.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package event contains the publish/subscribe primitive shared by all wallet
// adapters, the session and the simulated providers.
package event // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/event"

import (
	"fmt"
	"sync"

	"perun.network/go-perun/log"
)

type (
	// Listener is called synchronously for every emitted payload.
	Listener[P any] func(P)

	// Subscription is the handle returned by On and Once.
	Subscription interface {
		// Unsubscribe removes the listener. Calling it more than once is a
		// no-op.
		Unsubscribe()
	}

	// Emitter is a typed event emitter. Listeners are keyed by K and receive
	// payloads of type P. Dispatch is synchronous and happens in registration
	// order. The listener list is copied before dispatch, so listeners may
	// remove themselves or others while an emit is running; removals take
	// effect from the next emit on.
	Emitter[K comparable, P any] struct {
		log.Embedding

		mutex     sync.Mutex
		nextID    uint64
		listeners map[K][]*entry[P]
	}

	entry[P any] struct {
		id   uint64
		fn   Listener[P]
		once bool
	}

	subscription[K comparable, P any] struct {
		emitter *Emitter[K, P]
		key     K
		id      uint64
		once    sync.Once
	}
)

// NewEmitter returns an empty Emitter.
func NewEmitter[K comparable, P any]() *Emitter[K, P] {
	return &Emitter[K, P]{
		Embedding: log.MakeEmbedding(log.Default()),
		listeners: make(map[K][]*entry[P]),
	}
}

// On registers fn for key k.
func (e *Emitter[K, P]) On(k K, fn Listener[P]) Subscription {
	return e.add(k, fn, false)
}

// Once registers fn for key k. The listener is removed before its first call.
func (e *Emitter[K, P]) Once(k K, fn Listener[P]) Subscription {
	return e.add(k, fn, true)
}

// Off removes the listener behind sub. It is equivalent to sub.Unsubscribe().
func (e *Emitter[K, P]) Off(sub Subscription) {
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (e *Emitter[K, P]) add(k K, fn Listener[P], once bool) Subscription {
	if fn == nil {
		panic("event: nil listener")
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.nextID++
	e.listeners[k] = append(e.listeners[k], &entry[P]{id: e.nextID, fn: fn, once: once})
	return &subscription[K, P]{emitter: e, key: k, id: e.nextID}
}

func (e *Emitter[K, P]) remove(k K, id uint64) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	entries := e.listeners[k]
	for i, en := range entries {
		if en.id != id {
			continue
		}
		// Copy instead of shifting in place, a running Emit may still hold
		// the old slice.
		rest := make([]*entry[P], 0, len(entries)-1)
		rest = append(rest, entries[:i]...)
		rest = append(rest, entries[i+1:]...)
		if len(rest) == 0 {
			delete(e.listeners, k)
		} else {
			e.listeners[k] = rest
		}
		return true
	}
	return false
}

// Emit calls all listeners registered for k with p. It returns whether there
// was at least one listener.
func (e *Emitter[K, P]) Emit(k K, p P) bool {
	e.mutex.Lock()
	snapshot := e.listeners[k]
	e.mutex.Unlock()

	if len(snapshot) == 0 {
		return false
	}

	for _, en := range snapshot {
		if en.once && !e.remove(k, en.id) {
			// Another emit already consumed this one-shot listener.
			continue
		}
		e.call(k, en.fn, p)
	}
	return true
}

func (e *Emitter[K, P]) call(k K, fn Listener[P], p P) {
	defer func() {
		if r := recover(); r != nil {
			e.Log().WithField("event", fmt.Sprint(k)).Errorf("Listener panicked: %v", r)
		}
	}()
	fn(p)
}

// ListenerCount returns the number of listeners registered for k.
func (e *Emitter[K, P]) ListenerCount(k K) int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.listeners[k])
}

// RemoveAllListeners drops every registered listener.
func (e *Emitter[K, P]) RemoveAllListeners() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.listeners = make(map[K][]*entry[P])
}

func (s *subscription[K, P]) Unsubscribe() {
	s.once.Do(func() { s.emitter.remove(s.key, s.id) })
}
