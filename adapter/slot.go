// SPDX-License-Identifier: Apache-2.0

package adapter

import "sync"

// Slot holds the provider found by detection. Its Accept method is meant to
// be passed to Base.Detect.
type Slot[P any] struct {
	mutex sync.RWMutex
	p     P
	set   bool
}

// Accept stores obj if it implements P.
func (s *Slot[P]) Accept(obj any) bool {
	p, ok := obj.(P)
	if !ok {
		return false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.p, s.set = p, true
	return true
}

// Get returns the provider and whether one was detected.
func (s *Slot[P]) Get() (P, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.p, s.set
}
