// SPDX-License-Identifier: Apache-2.0

package adapter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/poll"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

const (
	desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36"
	mobileUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
)

type provider struct{}

func acceptProvider(obj any) bool {
	_, ok := obj.(*provider)
	return ok
}

func TestEnvironment(t *testing.T) {
	env := adapter.NewEnvironment(desktopUA)
	ctx := context.Background()
	_, ok := env.Locate(ctx, "leoWallet")
	assert.False(t, ok)

	p := new(provider)
	env.Inject("leoWallet", p)
	obj, ok := env.Locate(ctx, "leoWallet")
	require.True(t, ok)
	assert.Same(t, p, obj)

	env.Remove("leoWallet")
	_, ok = env.Locate(ctx, "leoWallet")
	assert.False(t, ok)

	assert.False(t, env.Mobile())
	assert.True(t, adapter.NewEnvironment(mobileUA).Mobile())
	assert.True(t, adapter.IsMobile("Mozilla/5.0 (Linux; Android 14; Pixel 8)"))
}

func TestPollingLocator(t *testing.T) {
	env := adapter.NewEnvironment(desktopUA)
	l := adapter.PollingLocator{Locator: env, Options: poll.Options{Retries: 50, Interval: 5 * time.Millisecond}}

	go func() {
		time.Sleep(20 * time.Millisecond)
		env.Inject("puzzle", new(provider))
	}()
	obj, ok := l.Locate(context.Background(), "puzzle")
	require.True(t, ok)
	assert.IsType(t, new(provider), obj)

	l.Options.Retries = 2
	_, ok = l.Locate(context.Background(), "missing")
	assert.False(t, ok)
}

func TestDetect_Installed(t *testing.T) {
	env := adapter.NewEnvironment(desktopUA)
	env.Inject("galileo", new(provider))
	b := adapter.NewBase(wallet.WalletInfo{Name: "Test"})
	defer b.Close()

	b.Detect(adapter.DetectOptions{Locator: env, Names: []string{"galileo"}}, acceptProvider)
	assert.Equal(t, wallet.Installed, b.ReadyState())
}

func TestDetect_LateInjection(t *testing.T) {
	env := adapter.NewEnvironment(desktopUA)
	b := adapter.NewBase(wallet.WalletInfo{Name: "Test"})
	defer b.Close()

	states := make(chan wallet.ReadyState, 8)
	b.Events().On(wallet.EventReadyStateChange, func(e wallet.Event) { states <- e.ReadyState })

	b.Detect(adapter.DetectOptions{
		Locator:  env,
		Names:    []string{"leoWallet", "leo"},
		Retries:  100,
		Interval: 5 * time.Millisecond,
	}, acceptProvider)
	assert.Equal(t, wallet.NotDetected, b.ReadyState())

	// Wrong type under a known name is ignored.
	env.Inject("leoWallet", "not a provider")
	env.Inject("leo", new(provider))
	require.Eventually(t, func() bool { return b.ReadyState() == wallet.Installed }, time.Second, 5*time.Millisecond)
	assert.Equal(t, wallet.NotDetected, <-states)
	assert.Equal(t, wallet.Installed, <-states)
}

func TestDetect_Unsupported(t *testing.T) {
	b := adapter.NewBase(wallet.WalletInfo{Name: "Test"})
	b.Detect(adapter.DetectOptions{}, acceptProvider)
	assert.Equal(t, wallet.Unsupported, b.ReadyState())
}

func TestDetect_MobileDeepLink(t *testing.T) {
	env := adapter.NewEnvironment(mobileUA)
	b := adapter.NewBase(wallet.WalletInfo{Name: "Test"})
	defer b.Close()

	b.Detect(adapter.DetectOptions{
		Locator:  env,
		Names:    []string{"shield"},
		Retries:  2,
		Interval: time.Millisecond,
		Mobile:   env.Mobile(),
		DeepLink: "https://shield.app/browse?url=https://example.org",
	}, acceptProvider)
	assert.Equal(t, wallet.Loadable, b.ReadyState())
}

func TestDetect_StopsOnClose(t *testing.T) {
	env := adapter.NewEnvironment(desktopUA)
	b := adapter.NewBase(wallet.WalletInfo{Name: "Test"})

	b.Detect(adapter.DetectOptions{Locator: env, Names: []string{"fox"}, Retries: 1000, Interval: time.Millisecond}, acceptProvider)
	require.NoError(t, b.Close())
	time.Sleep(10 * time.Millisecond)

	env.Inject("fox", new(provider))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, wallet.NotDetected, b.ReadyState())
}

func TestSlot(t *testing.T) {
	var s adapter.Slot[*provider]
	_, ok := s.Get()
	assert.False(t, ok)
	assert.False(t, s.Accept("string"))

	p := new(provider)
	assert.True(t, s.Accept(p))
	got, ok := s.Get()
	assert.True(t, ok)
	assert.Same(t, p, got)
}

func TestNewDetectOptions(t *testing.T) {
	cfg := wallet.Config{MobileWebviewURL: "https://dapp.example/?a=b"}
	o := adapter.NewDetectOptions(adapter.NewEnvironment(mobileUA), cfg, []string{"leoWallet"}, "https://app.leo.app/browser?url=",
		adapter.WithDetectPolling(3, time.Second))
	assert.True(t, o.Mobile)
	assert.Equal(t, "https://app.leo.app/browser?url=https%3A%2F%2Fdapp.example%2F%3Fa%3Db", o.DeepLink)
	assert.Equal(t, 3, o.Retries)
	assert.Equal(t, time.Second, o.Interval)

	o = adapter.NewDetectOptions(adapter.NewEnvironment(desktopUA), wallet.Config{}, nil, "x", adapter.WithMobile(true))
	assert.True(t, o.Mobile)
	assert.Empty(t, o.DeepLink)
}
