// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/poll"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

type (
	// Locator discovers external provider objects by name, for example the
	// objects a browser extension injects into the page.
	Locator interface {
		Locate(ctx context.Context, name string) (any, bool)
	}

	// Environment is a Locator over a set of injected objects. It models the
	// runtime the adapters live in: providers may be injected or removed at
	// any time.
	Environment struct {
		mutex     sync.RWMutex
		globals   map[string]any
		userAgent string
	}

	// PollingLocator retries a lookup a bounded number of times, since
	// providers may be injected some time after the adapter was created.
	PollingLocator struct {
		Locator
		Options poll.Options
	}
)

var (
	mobileUA = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini|mobile`)

	errNotFound = errors.New("provider not found")
)

// NewEnvironment creates an empty environment with the given user agent.
func NewEnvironment(userAgent string) *Environment {
	return &Environment{
		globals:   make(map[string]any),
		userAgent: userAgent,
	}
}

// Inject makes obj available under name.
func (e *Environment) Inject(name string, obj any) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.globals[name] = obj
}

// Remove removes the object under name.
func (e *Environment) Remove(name string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.globals, name)
}

// Locate returns the object under name.
func (e *Environment) Locate(_ context.Context, name string) (any, bool) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	obj, ok := e.globals[name]
	return obj, ok && obj != nil
}

// UserAgent returns the environment's user agent.
func (e *Environment) UserAgent() string { return e.userAgent }

// Mobile returns whether the user agent is a mobile one.
func (e *Environment) Mobile() bool { return IsMobile(e.userAgent) }

// IsMobile matches common mobile user agents.
func IsMobile(userAgent string) bool {
	return mobileUA.MatchString(userAgent)
}

// Locate polls the wrapped Locator until the object is found or the attempts
// are exhausted.
func (p PollingLocator) Locate(ctx context.Context, name string) (any, bool) {
	obj, err := poll.Do(ctx, p.Options, func(ctx context.Context) (any, error) {
		if obj, ok := p.Locator.Locate(ctx, name); ok {
			return obj, nil
		}
		return nil, errNotFound
	})
	return obj, err == nil
}

// DetectOptions configures provider detection.
type DetectOptions struct {
	// Locator is used for discovery. A nil Locator means the runtime cannot
	// host providers at all and the adapter stays Unsupported.
	Locator Locator
	// Names are the names the provider may be found under, in order.
	Names []string
	// Retries and Interval bound the background polling after the initial
	// synchronous check failed.
	Retries  int
	Interval time.Duration
	// Mobile selects the deep link fallback: if the provider is missing on a
	// mobile device and a deep link is available, the adapter is Loadable
	// instead of NotDetected.
	Mobile   bool
	DeepLink string
}

// DefaultDetectInterval and DefaultDetectRetries bound provider polling.
const (
	DefaultDetectInterval = 500 * time.Millisecond
	DefaultDetectRetries  = 20
)

// Detect runs provider discovery. accept is called with every located object
// and returns whether it is a usable provider; once it returns true the
// adapter becomes Installed. The first check is synchronous. If it fails, the
// adapter is NotDetected and discovery continues in the background until it
// succeeds, the retries are exhausted or the adapter is closed.
func (b *Base) Detect(opts DetectOptions, accept func(obj any) bool) {
	if opts.Locator == nil {
		b.SetReadyState(wallet.Unsupported)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	if !b.closer.OnClose(cancel) {
		cancel()
		return
	}

	if b.locate(ctx, opts.Locator, opts.Names, accept) {
		cancel()
		b.SetReadyState(wallet.Installed)
		return
	}
	if opts.Mobile && opts.DeepLink != "" {
		b.SetReadyState(wallet.Loadable)
	} else {
		b.SetReadyState(wallet.NotDetected)
	}

	retries, interval := opts.Retries, opts.Interval
	if retries == 0 {
		retries = DefaultDetectRetries
	}
	if interval == 0 {
		interval = DefaultDetectInterval
	}

	go func() {
		defer cancel()
		_, err := poll.Do(ctx, poll.Options{Retries: retries, Interval: interval}, func(ctx context.Context) (struct{}, error) {
			if b.locate(ctx, opts.Locator, opts.Names, accept) {
				return struct{}{}, nil
			}
			return struct{}{}, errNotFound
		})
		switch {
		case err == nil && ctx.Err() == nil:
			b.SetReadyState(wallet.Installed)
		case ctx.Err() == nil:
			b.Log().Debug("Provider not detected, giving up")
		}
	}()
}

func (b *Base) locate(ctx context.Context, l Locator, names []string, accept func(any) bool) bool {
	for _, name := range names {
		if obj, ok := l.Locate(ctx, name); ok && accept(obj) {
			return true
		}
	}
	return false
}
