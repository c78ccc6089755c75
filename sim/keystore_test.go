// SPDX-License-Identifier: Apache-2.0

package sim_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

func TestKeyStore_Persistence(t *testing.T) {
	rng := pkgtest.Prng(t)
	path := filepath.Join(t.TempDir(), "keys")

	ks, err := sim.CreateOrLoadKeyStore(path, rng)
	require.NoError(t, err)
	k1, err := ks.NewKey()
	require.NoError(t, err)
	k2, err := ks.NewKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1.Address(), k2.Address())

	loaded, err := sim.CreateOrLoadKeyStore(path, rng)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
	got, err := loaded.Key(k2.Address())
	require.NoError(t, err)
	assert.Equal(t, k2.PrivateKey(), got.PrivateKey())

	first, err := loaded.First()
	require.NoError(t, err)
	assert.Equal(t, k1.Address(), first.Address())

	_, err = loaded.Key("aleo1unknown")
	assert.ErrorIs(t, err, sim.ErrUnknownKey)
}

func TestKey_Formats(t *testing.T) {
	ks, err := sim.NewRAMKeyStore(pkgtest.Prng(t))
	require.NoError(t, err)
	k, err := ks.NewKey()
	require.NoError(t, err)

	require.NoError(t, wallet.ValidateAddress(k.Address()))
	assert.Len(t, k.Address(), 63)
	assert.True(t, strings.HasPrefix(k.PrivateKey(), "APrivateKey1"))
	assert.True(t, strings.HasPrefix(k.ViewKey(), "AViewKey1"))

	acc := k.Account()
	assert.Equal(t, k.Address(), acc.Address)
	assert.Equal(t, k.ViewKey(), acc.ViewKey)
}

func TestKey_SignVerify(t *testing.T) {
	ks, err := sim.NewRAMKeyStore(pkgtest.Prng(t))
	require.NoError(t, err)
	k, err := ks.NewKey()
	require.NoError(t, err)
	other, err := ks.NewKey()
	require.NoError(t, err)

	msg := []byte("Hello, Aleo!")
	sig, err := k.Sign(msg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, "sign1"))

	ok, err := sim.Verify(k.Address(), msg, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sim.Verify(k.Address(), []byte("Hello, Aleo?"), sig)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = sim.Verify(other.Address(), msg, sig)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = sim.Verify(k.Address(), msg, "sign1qqqq")
	assert.Error(t, err)
	_, err = sim.Verify(sig, msg, sig)
	assert.Error(t, err)
}
