// SPDX-License-Identifier: Apache-2.0

package sim_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

func newWallet(t *testing.T, opts ...sim.Option) *sim.Wallet {
	t.Helper()
	ks, err := sim.NewRAMKeyStore(pkgtest.Prng(t))
	require.NoError(t, err)
	w, err := sim.New(ks, opts...)
	require.NoError(t, err)
	return w
}

func TestWallet_RequiresConnection(t *testing.T) {
	w := newWallet(t)
	_, err := w.Sign([]byte("msg"))
	assert.ErrorIs(t, err, sim.ErrNotConnected)
	assert.Empty(t, w.Address())

	address, err := w.Connect(wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)
	assert.Equal(t, address, w.Address())
	assert.True(t, w.Connected())

	_, err = w.Sign([]byte("msg"))
	assert.NoError(t, err)
	assert.Equal(t, 2, w.Calls(sim.OpSignMessage))
	assert.Equal(t, 3, w.TotalCalls())
}

func TestWallet_FailNextIsOneShot(t *testing.T) {
	w := newWallet(t)
	errBoom := errors.New("boom")
	w.FailNext(sim.OpConnect, errBoom)

	_, err := w.Connect(wallet.TestnetBeta, wallet.UponRequest, nil)
	assert.Same(t, errBoom, err)
	_, err = w.Connect(wallet.TestnetBeta, wallet.UponRequest, nil)
	assert.NoError(t, err)
}

func TestWallet_StrictNetwork(t *testing.T) {
	w := newWallet(t, sim.WithStrictNetwork(), sim.WithNetwork(wallet.MainnetBeta))
	_, err := w.Connect(wallet.TestnetBeta, wallet.UponRequest, nil)
	assert.ErrorIs(t, err, sim.ErrWrongNetwork)
	_, err = w.Connect(wallet.MainnetBeta, wallet.UponRequest, nil)
	assert.NoError(t, err)
}

func TestWallet_Settle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	w := newWallet(t, sim.WithSettleDelay(10*time.Second), sim.WithClock(func() time.Time { return now }))
	_, err := w.Connect(wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)

	id, err := w.Execute("credits.aleo", "transfer_public", []string{"aleo1x", "1u64"}, 10_000)
	require.NoError(t, err)
	require.NoError(t, wallet.ValidateTransactionID(id))

	st, err := w.Status(id)
	require.NoError(t, err)
	assert.Equal(t, wallet.Pending, st)

	now = now.Add(10 * time.Second)
	st, err = w.Status(id)
	require.NoError(t, err)
	assert.Equal(t, wallet.Accepted, st)

	require.NoError(t, w.SetStatus(id, wallet.Rejected))
	st, err = w.Status(id)
	require.NoError(t, err)
	assert.Equal(t, wallet.Rejected, st)

	_, err = w.Status("at1unknown")
	assert.ErrorIs(t, err, sim.ErrUnknownTx)
}

func TestWallet_HistoryAndRecords(t *testing.T) {
	w := newWallet(t)
	w.AddRecord("credits.aleo", wallet.Record{"id": "r1", "plaintext": "{}"})
	_, err := w.Connect(wallet.TestnetBeta, wallet.UponRequest, []string{"credits.aleo"})
	require.NoError(t, err)

	id1, err := w.Execute("credits.aleo", "transfer_public", nil, 1)
	require.NoError(t, err)
	id2, err := w.Execute("token_registry.aleo", "transfer_public", nil, 1)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	all, err := w.History("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id1, all[0].TransactionID)
	assert.Equal(t, id2, all[1].TransactionID)

	credits, err := w.History("credits.aleo")
	require.NoError(t, err)
	require.Len(t, credits, 1)
	assert.Equal(t, "transfer_public", credits[0].Function)

	recs, err := w.Records("credits.aleo", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotContains(t, recs[0], "plaintext")
	recs, err = w.Records("credits.aleo", true)
	require.NoError(t, err)
	assert.Contains(t, recs[0], "plaintext")

	_, err = w.Records("token_registry.aleo", false)
	assert.ErrorIs(t, err, sim.ErrUnknownProgram)
}

func TestWallet_NativeEvents(t *testing.T) {
	w := newWallet(t)
	var got []string
	for _, ev := range []string{sim.NativeAccountChanged, sim.NativeNetworkChanged, sim.NativeDisconnect} {
		ev := ev
		w.Events().On(ev, func(any) { got = append(got, ev) })
	}

	// Nothing is emitted while no dApp is connected, except network changes.
	_, err := w.SwitchAccount()
	require.NoError(t, err)
	w.DisconnectFromWallet()
	require.NoError(t, w.SwitchNetwork(wallet.MainnetBeta))
	assert.Equal(t, []string{sim.NativeNetworkChanged}, got)

	_, err = w.Connect(wallet.MainnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)
	_, err = w.SwitchAccount()
	require.NoError(t, err)
	w.DisconnectFromWallet()
	assert.Equal(t, []string{sim.NativeNetworkChanged, sim.NativeAccountChanged, sim.NativeDisconnect}, got)
}
