// SPDX-License-Identifier: Apache-2.0

package wallet_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
	wtest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet/test"
)

func TestParseNetwork(t *testing.T) {
	for _, n := range wallet.Networks() {
		got, err := wallet.ParseNetwork(n.String())
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
	got, err := wallet.ParseNetwork("testnet")
	require.NoError(t, err)
	assert.Equal(t, wallet.TestnetBeta, got)

	_, err = wallet.ParseNetwork("devnet")
	assert.True(t, errors.Is(err, wallet.ErrUnknownNetwork))
}

func TestReadyState_Connectable(t *testing.T) {
	connectable := map[wallet.ReadyState]bool{
		wallet.Installed: true,
		wallet.Ready:     true,
	}
	for s := wallet.Unsupported; s <= wallet.Connected; s++ {
		assert.Equal(t, connectable[s], s.Connectable(), s.String())
	}
	assert.Equal(t, "NOT_DETECTED", wallet.NotDetected.String())
}

func TestParseDecryptPermission(t *testing.T) {
	for p := wallet.NoDecrypt; p <= wallet.OnChainHistory; p++ {
		got, err := wallet.ParseDecryptPermission(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := wallet.ParseDecryptPermission("SOMETIMES")
	assert.Error(t, err)
}

func TestError_Taxonomy(t *testing.T) {
	err := wallet.Errorf(wallet.KindConnection, "network mismatch")
	assert.Equal(t, "WalletConnectionError", err.Name())
	assert.Equal(t, "network mismatch", err.Error())
	assert.True(t, errors.Is(err, wallet.ErrConnection))
	assert.True(t, errors.Is(err, wallet.ErrWallet))
	assert.False(t, errors.Is(err, wallet.ErrNotConnected))

	assert.Equal(t, "wallet not connected", wallet.ErrNotConnected.Error())
	assert.Equal(t, "MethodNotImplementedError", wallet.NotImplemented("switchNetwork").Name())
}

func TestAsError(t *testing.T) {
	assert.Nil(t, wallet.AsError(nil, wallet.KindTransaction))

	// Wallet errors pass through.
	orig := wallet.Errorf(wallet.KindWindowClosed, "closed")
	wrapped := errors.Wrap(orig, "context")
	assert.Same(t, orig, wallet.AsError(wrapped, wallet.KindTransaction))

	// Everything else is translated, keeping message and cause.
	got := wallet.AsError(context.Canceled, wallet.KindTransaction)
	assert.Equal(t, wallet.KindTransaction, got.Kind)
	assert.Equal(t, context.Canceled.Error(), got.Error())
	assert.True(t, errors.Is(got, context.Canceled))

	kind, ok := wallet.KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, wallet.KindWindowClosed, kind)
	_, ok = wallet.KindOf(context.Canceled)
	assert.False(t, ok)
}

func TestTransactionStatus(t *testing.T) {
	cases := map[string]wallet.TransactionStatus{
		"Finalized": wallet.Accepted,
		"Completed": wallet.Accepted,
		"Settled":   wallet.Accepted,
		"accepted":  wallet.Accepted,
		"Rejected":  wallet.Rejected,
		"Failed":    wallet.Failed,
		"Creating":  wallet.Pending,
		"":          wallet.Pending,
	}
	for in, want := range cases {
		assert.Equal(t, want, wallet.ParseTransactionStatus(in), in)
	}
	assert.False(t, wallet.Pending.Terminal())
	assert.True(t, wallet.Rejected.Terminal())
}

func TestTransactionOptions(t *testing.T) {
	rng := pkgtest.Prng(t)
	opts := wtest.NewRandomTransactionOptions(rng)
	require.NoError(t, opts.Validate())

	opts.Function = ""
	assert.True(t, errors.Is(opts.Validate(), wallet.ErrInvalidOptions))

	opts = wallet.TransactionOptions{Program: "credits.aleo", Function: "transfer_public", Fee: 100_000}
	assert.True(t, decimal.RequireFromString("0.1").Equal(opts.FeeCredits()))

	micro, err := wallet.CreditsToMicrocredits(decimal.RequireFromString("1.2345678"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_234_567), micro)
	_, err = wallet.CreditsToMicrocredits(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestAddress(t *testing.T) {
	rng := pkgtest.Prng(t)
	for i := 0; i < 32; i++ {
		addr := wtest.NewRandomAddress(rng)
		require.NoError(t, wallet.ValidateAddress(addr), addr)
		assert.Len(t, addr, 63)
	}

	assert.Error(t, wallet.ValidateAddress("aleo1"))
	assert.Error(t, wallet.ValidateAddress("cosmos1qqqq"))
	sig, err := wallet.EncodeBech32(wallet.SignaturePrefix, make([]byte, 32))
	require.NoError(t, err)
	assert.Error(t, wallet.ValidateAddress(sig))
}

func TestValidateTransactionID(t *testing.T) {
	rng := pkgtest.Prng(t)
	raw := make([]byte, 32)
	rng.Read(raw)
	id, err := wallet.EncodeBech32(wallet.TransactionPrefix, raw)
	require.NoError(t, err)
	assert.NoError(t, wallet.ValidateTransactionID(id))

	short, err := wallet.EncodeBech32(wallet.TransactionPrefix, raw[:16])
	require.NoError(t, err)
	assert.Error(t, wallet.ValidateTransactionID(short))
	assert.Error(t, wallet.ValidateTransactionID(wtest.NewRandomAddress(rng)))
}

func TestAccount(t *testing.T) {
	var nilAcc *wallet.Account
	assert.Nil(t, nilAcc.Clone())
	a := &wallet.Account{Address: "aleo1x"}
	c := a.Clone()
	c.ViewKey = "changed"
	assert.Empty(t, a.ViewKey)
	assert.True(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, nilAcc.Equal(nil))
}
