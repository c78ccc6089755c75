// SPDX-License-Identifier: Apache-2.0

package shield_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/shield"
	atest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/test"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

var setup = atest.Setup{
	New: func(l adapter.Locator, opts ...adapter.Option) wallet.Adapter {
		return shield.New(l, wallet.Config{AppName: "test"}, opts...)
	},
	Provider:         func(w *sim.Wallet) any { return w.Shield() },
	GlobalName:       shield.GlobalName,
	CanDeploy:        true,
	CanSwitchNetwork: true,
	HasViewKeys:      true,
}

func TestAdapter(t *testing.T) {
	atest.TestAdapter(t, setup)
}

func newConnected(t *testing.T) (*shield.Adapter, *sim.Shield, *sim.Wallet) {
	t.Helper()
	rng := pkgtest.Prng(t)
	w := atest.NewSimWallet(t, rng)
	p := w.Shield()
	env := adapter.NewEnvironment("")
	env.Inject(shield.GlobalName, p)

	a := shield.New(env, wallet.Config{})
	t.Cleanup(func() { a.Close() })
	_, err := a.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)
	return a, p, w
}

func TestAdapter_ListenersAreSymmetric(t *testing.T) {
	a, p, _ := newConnected(t)
	assert.Equal(t, 3, a.NativeListeners())
	assert.Equal(t, 3, p.Listeners())

	require.NoError(t, a.Disconnect(context.Background()))
	assert.Zero(t, a.NativeListeners())
	assert.Zero(t, p.Listeners())

	// Reconnecting does not stack listeners.
	_, err := a.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)
	_, err = a.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Listeners())

	require.NoError(t, a.Close())
	assert.Zero(t, p.Listeners())
}

func TestAdapter_AccountChanged(t *testing.T) {
	a, _, w := newConnected(t)
	rec := atest.Record(a)

	address, err := w.SwitchAccount()
	require.NoError(t, err)
	assert.Equal(t, address, a.Account().Address)
	require.Len(t, rec.Of(wallet.EventAccountChange), 1)
	assert.Equal(t, address, rec.Of(wallet.EventAccountChange)[0].Account.Address)

	w.Lock()
	assert.False(t, a.Connected())
	assert.Len(t, rec.Of(wallet.EventDisconnect), 1)
	assert.Zero(t, a.NativeListeners())
}

func TestAdapter_WalletSideDisconnect(t *testing.T) {
	a, p, w := newConnected(t)
	rec := atest.Record(a)

	w.DisconnectFromWallet()
	assert.False(t, a.Connected())
	assert.Nil(t, a.Account())
	assert.Equal(t, wallet.Installed, a.ReadyState())
	assert.Len(t, rec.Of(wallet.EventDisconnect), 1)
	assert.Zero(t, p.Listeners())

	// Events after the disconnect are not observed anymore.
	require.NoError(t, w.SwitchNetwork(wallet.MainnetBeta))
	assert.Empty(t, rec.Of(wallet.EventNetworkChange))
}

func TestAdapter_NetworkChangedByWallet(t *testing.T) {
	a, _, w := newConnected(t)
	rec := atest.Record(a)

	require.NoError(t, w.SwitchNetwork(wallet.CanaryNet))
	assert.Equal(t, wallet.CanaryNet, a.Network())
	require.Len(t, rec.Of(wallet.EventNetworkChange), 1)
	assert.Equal(t, wallet.CanaryNet, rec.Of(wallet.EventNetworkChange)[0].Network)
}

func TestAdapter_UserRejected(t *testing.T) {
	rng := pkgtest.Prng(t)
	e := setup.NewEnv(t, rng)

	e.Sim.FailNext(sim.OpConnect, &shield.Error{Name: shield.ErrRejected})
	_, err := e.Adapter.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	assert.ErrorIs(t, err, wallet.ErrWindowClosed)
}

func TestAdapter_MobileWithoutDeepLink(t *testing.T) {
	env := adapter.NewEnvironment("Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) Mobile/15E148")
	a := shield.New(env, wallet.Config{MobileWebviewURL: "https://dapp.example/swap?x=1"},
		adapter.WithDetectPolling(1, time.Millisecond))
	defer a.Close()

	assert.Equal(t, wallet.NotDetected, a.ReadyState())
	assert.Empty(t, a.Info().DeepLink)

	_, err := a.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	require.ErrorIs(t, err, wallet.ErrConnection)
}
