// SPDX-License-Identifier: Apache-2.0

package setup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/setup"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := setup.Load("")
	require.NoError(t, err)

	assert.Equal(t, "Leo Wallet", cfg.Wallet.Name)
	n, err := cfg.Network()
	require.NoError(t, err)
	assert.Equal(t, wallet.TestnetBeta, n)
	p, err := cfg.DecryptPermission()
	require.NoError(t, err)
	assert.Equal(t, wallet.UponRequest, p)
	assert.Equal(t, []string{"credits.aleo"}, cfg.Wallet.Programs)
	assert.Equal(t, 2*time.Second, cfg.Sim.SettleDelay)
	assert.Equal(t, time.Second, cfg.Chain.PollInterval)
	assert.Equal(t, 15, cfg.Chain.PollRetries)
	assert.Equal(t, uint64(1_000_000), cfg.Transfer.Amount)
	assert.False(t, cfg.Session.AutoConnect)

	ac := cfg.AdapterConfig()
	assert.Equal(t, "aleowallet", ac.AppName)
	assert.Equal(t, []string{"credits.aleo"}, ac.ProgramIDPermissions[wallet.TestnetBeta])
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aleowallet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
wallet:
  name: Puzzle Wallet
  network: mainnet
  decryptpermission: AUTO_DECRYPT
session:
  autoconnect: true
chain:
  pollinterval: 250ms
`), 0o600))
	t.Setenv("ALEO_WALLET_NAME", "Galileo Wallet")
	t.Setenv("ALEO_SESSION_DB", "/tmp/aleo-session")

	cfg, err := setup.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Galileo Wallet", cfg.Wallet.Name)
	assert.Equal(t, "/tmp/aleo-session", cfg.Session.DB)
	assert.True(t, cfg.Session.AutoConnect)
	assert.Equal(t, 250*time.Millisecond, cfg.Chain.PollInterval)

	n, err := cfg.Network()
	require.NoError(t, err)
	assert.Equal(t, wallet.MainnetBeta, n)
	p, err := cfg.DecryptPermission()
	require.NoError(t, err)
	assert.Equal(t, wallet.AutoDecrypt, p)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ALEO_WALLET_NETWORK", "devnet")
	_, err := setup.Load("")
	assert.ErrorIs(t, err, wallet.ErrUnknownNetwork)

	t.Setenv("ALEO_WALLET_NETWORK", "testnet")
	t.Setenv("ALEO_TRANSFER_RECIPIENT", "aleo1nope")
	_, err = setup.Load("")
	assert.Error(t, err)

	_, err = setup.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
