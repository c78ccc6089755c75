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

// Package test contains the behavior tests every wallet adapter must pass.
// They run the adapter against a simulated wallet.
package test // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/test"

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
	wtest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet/test"
)

// Setup describes a vendor adapter under test.
type Setup struct {
	// New creates the adapter on the locator.
	New func(l adapter.Locator, opts ...adapter.Option) wallet.Adapter
	// Provider returns w in the shape the vendor injects.
	Provider func(w *sim.Wallet) any
	// GlobalName is the name the provider is injected under.
	GlobalName string

	CanDeploy        bool
	CanSwitchNetwork bool
	HasViewKeys      bool
}

// Message is the message the signing tests sign.
const Message = "Hello, Aleo!"

// Timeout bounds every blocking call of the tests.
const Timeout = 5 * time.Second

// NewSimWallet creates a simulated wallet with a key store seeded from rng.
func NewSimWallet(t *testing.T, rng *rand.Rand, opts ...sim.Option) *sim.Wallet {
	t.Helper()
	ks, err := sim.NewRAMKeyStore(rng)
	require.NoError(t, err)
	w, err := sim.New(ks, opts...)
	require.NoError(t, err)
	return w
}

// Recorder collects the events of an adapter.
type Recorder struct {
	mutex  sync.Mutex
	events []wallet.Event
}

// Record subscribes a new Recorder to all events of a.
func Record(a wallet.Adapter) *Recorder {
	r := &Recorder{}
	for k := wallet.EventConnect; k <= wallet.EventReadyStateChange; k++ {
		a.Events().On(k, func(e wallet.Event) {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.events = append(r.events, e)
		})
	}
	return r
}

// Of returns the recorded events of kind k.
func (r *Recorder) Of(k wallet.EventKind) []wallet.Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []wallet.Event
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Env is a fresh environment with a simulated wallet and the adapter under
// test.
type Env struct {
	Env     *adapter.Environment
	Sim     *sim.Wallet
	Adapter wallet.Adapter
}

// NewEnv injects a simulated wallet and creates the adapter.
func (s Setup) NewEnv(t *testing.T, rng *rand.Rand, opts ...sim.Option) *Env {
	t.Helper()
	e := &Env{
		Env: adapter.NewEnvironment("Mozilla/5.0 (X11; Linux x86_64)"),
		Sim: NewSimWallet(t, rng, opts...),
	}
	e.Env.Inject(s.GlobalName, s.Provider(e.Sim))
	e.Adapter = s.New(e.Env)
	t.Cleanup(func() { assert.NoError(t, e.Adapter.Close()) })
	require.Equal(t, wallet.Installed, e.Adapter.ReadyState())
	return e
}

// Connect connects the adapter on TestnetBeta.
func (e *Env) Connect(t *testing.T, perm wallet.DecryptPermission) *wallet.Account {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	acc, err := e.Adapter.Connect(ctx, wallet.TestnetBeta, perm, nil)
	require.NoError(t, err)
	return acc
}

// TestAdapter runs all adapter behavior tests.
func TestAdapter(t *testing.T, s Setup) {
	t.Run("Detection", func(t *testing.T) { testDetection(t, s) })
	t.Run("ConnectDisconnect", func(t *testing.T) { testConnectDisconnect(t, s) })
	t.Run("DisconnectFailure", func(t *testing.T) { testDisconnectFailure(t, s) })
	t.Run("NotConnected", func(t *testing.T) { testNotConnected(t, s) })
	t.Run("Decrypt", func(t *testing.T) { testDecrypt(t, s) })
	t.Run("SignMessage", func(t *testing.T) { testSignMessage(t, s) })
	t.Run("Records", func(t *testing.T) { testRecords(t, s) })
	t.Run("Execute", func(t *testing.T) { testExecute(t, s) })
	t.Run("ExecuteFailure", func(t *testing.T) { testExecuteFailure(t, s) })
	t.Run("Deploy", func(t *testing.T) { testDeploy(t, s) })
	t.Run("SwitchNetwork", func(t *testing.T) { testSwitchNetwork(t, s) })
	t.Run("TransitionViewKeys", func(t *testing.T) { testTransitionViewKeys(t, s) })
	t.Run("Close", func(t *testing.T) { testClose(t, s) })
}

func testDetection(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	env := adapter.NewEnvironment("Mozilla/5.0 (X11; Linux x86_64)")
	a := s.New(env, adapter.WithDetectPolling(200, 5*time.Millisecond))
	defer a.Close()
	assert.Equal(t, wallet.NotDetected, a.ReadyState())

	rec := Record(a)
	_, err := a.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	assert.ErrorIs(t, err, wallet.ErrConnection)
	assert.False(t, a.Connected())
	assert.Len(t, rec.Of(wallet.EventError), 1)

	w := NewSimWallet(t, rng)
	env.Inject(s.GlobalName, s.Provider(w))
	require.Eventually(t, func() bool { return a.ReadyState() == wallet.Installed }, Timeout, 5*time.Millisecond)
	require.NotEmpty(t, rec.Of(wallet.EventReadyStateChange))
	assert.Equal(t, wallet.Installed, rec.Of(wallet.EventReadyStateChange)[0].ReadyState)
	assert.Zero(t, w.TotalCalls())

	_, err = a.Connect(context.Background(), wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)

	unsupported := s.New(nil)
	defer unsupported.Close()
	assert.Equal(t, wallet.Unsupported, unsupported.ReadyState())
}

func testConnectDisconnect(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	a := e.Adapter
	rec := Record(a)

	assert.False(t, a.Connected())
	assert.Nil(t, a.Account())

	acc := e.Connect(t, wallet.UponRequest)
	require.NoError(t, wallet.ValidateAddress(acc.Address))
	assert.Equal(t, e.Sim.Account().Address, acc.Address)
	assert.True(t, a.Connected())
	assert.Equal(t, acc, a.Account())
	assert.Equal(t, wallet.Connected, a.ReadyState())
	assert.Equal(t, wallet.TestnetBeta, a.Network())
	assert.Equal(t, wallet.UponRequest, a.DecryptPermission())
	require.Len(t, rec.Of(wallet.EventConnect), 1)
	assert.Equal(t, acc.Address, rec.Of(wallet.EventConnect)[0].Account.Address)

	require.NoError(t, a.Disconnect(context.Background()))
	assert.False(t, a.Connected())
	assert.Nil(t, a.Account())
	assert.True(t, a.ReadyState().Connectable())
	assert.Len(t, rec.Of(wallet.EventDisconnect), 1)
	assert.Equal(t, 1, e.Sim.Calls(sim.OpDisconnect))

	// Disconnecting twice does not reach the provider again.
	require.NoError(t, a.Disconnect(context.Background()))
	assert.Equal(t, 1, e.Sim.Calls(sim.OpDisconnect))
	assert.Len(t, rec.Of(wallet.EventDisconnect), 1)
}

func testDisconnectFailure(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	a := e.Adapter
	e.Connect(t, wallet.UponRequest)
	rec := Record(a)

	e.Sim.FailNext(sim.OpDisconnect, errors.New("provider unreachable"))
	err := a.Disconnect(context.Background())
	assert.ErrorIs(t, err, wallet.ErrDisconnection)
	assert.False(t, a.Connected())
	assert.Nil(t, a.Account())
	assert.True(t, a.ReadyState().Connectable())
	require.Len(t, rec.Of(wallet.EventError), 1)
	assert.ErrorIs(t, rec.Of(wallet.EventError)[0].Err, wallet.ErrDisconnection)
	assert.Len(t, rec.Of(wallet.EventDisconnect), 1)
}

func testNotConnected(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	a := e.Adapter
	ctx := context.Background()
	rec := Record(a)

	_, err := a.SignMessage(ctx, []byte(Message))
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = a.Decrypt(ctx, wallet.DecryptRequest{CipherText: "ciphertext1"})
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = a.RequestRecords(ctx, "credits.aleo", false)
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = a.ExecuteTransaction(ctx, wtest.NewRandomTransactionOptions(rng))
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = a.TransactionStatus(ctx, "at1")
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = a.RequestTransactionHistory(ctx, "credits.aleo")
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	if s.CanDeploy {
		_, err = a.ExecuteDeployment(ctx, wallet.Deployment{Program: "program hello.aleo;"})
		assert.ErrorIs(t, err, wallet.ErrNotConnected)
	}
	if s.CanSwitchNetwork {
		assert.ErrorIs(t, a.SwitchNetwork(ctx, wallet.MainnetBeta), wallet.ErrNotConnected)
	}
	if s.HasViewKeys {
		_, err = a.TransitionViewKeys(ctx, "at1")
		assert.ErrorIs(t, err, wallet.ErrNotConnected)
	}

	assert.Zero(t, e.Sim.TotalCalls())
	for _, ev := range rec.Of(wallet.EventError) {
		assert.ErrorIs(t, ev.Err, wallet.ErrNotConnected)
	}
	assert.NotEmpty(t, rec.Of(wallet.EventError))
}

func testDecrypt(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	a := e.Adapter
	ctx := context.Background()
	e.Sim.AddPlaintext("ciphertext1qyq", "{ owner: aleo1.private, microcredits: 5u64.private }")

	e.Connect(t, wallet.NoDecrypt)
	_, err := a.Decrypt(ctx, wallet.DecryptRequest{CipherText: "ciphertext1qyq"})
	assert.ErrorIs(t, err, wallet.ErrDecryptionNotAllowed)
	assert.Zero(t, e.Sim.Calls(sim.OpDecrypt))
	require.NoError(t, a.Disconnect(ctx))

	e.Connect(t, wallet.UponRequest)
	pt, err := a.Decrypt(ctx, wallet.DecryptRequest{CipherText: "ciphertext1qyq"})
	require.NoError(t, err)
	assert.Equal(t, "{ owner: aleo1.private, microcredits: 5u64.private }", pt)

	_, err = a.Decrypt(ctx, wallet.DecryptRequest{CipherText: "ciphertext1unknown"})
	assert.ErrorIs(t, err, wallet.ErrDecryption)
}

func testSignMessage(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	acc := e.Connect(t, wallet.UponRequest)

	sig, err := e.Adapter.SignMessage(context.Background(), []byte(Message))
	require.NoError(t, err)
	require.True(t, utf8.Valid(sig))
	assert.True(t, strings.HasPrefix(string(sig), wallet.SignaturePrefix+"1"))

	ok, err := sim.Verify(acc.Address, []byte(Message), string(sig))
	require.NoError(t, err)
	assert.True(t, ok)

	e.Sim.FailNext(sim.OpSignMessage, errors.New("user declined"))
	_, err = e.Adapter.SignMessage(context.Background(), []byte(Message))
	assert.ErrorIs(t, err, wallet.ErrWallet)
}

func testRecords(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	e.Sim.AddRecord("credits.aleo", wallet.Record{
		"id":        "record1",
		"program":   "credits.aleo",
		"plaintext": "{ owner: aleo1.private, microcredits: 1500000u64.private }",
	})
	e.Connect(t, wallet.UponRequest)
	ctx := context.Background()

	recs, err := e.Adapter.RequestRecords(ctx, "credits.aleo", true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "record1", recs[0]["id"])
	assert.Contains(t, recs[0], "plaintext")

	recs, err = e.Adapter.RequestRecords(ctx, "credits.aleo", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "record1", recs[0]["id"])

	recs, err = e.Adapter.RequestRecords(ctx, "token_registry.aleo", false)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func testExecute(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	e.Connect(t, wallet.UponRequest)
	ctx := context.Background()

	opts := wtest.NewRandomTransactionOptions(rng)
	res, err := e.Adapter.ExecuteTransaction(ctx, opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.TransactionID)
	assert.Equal(t, 1, e.Sim.Calls(sim.OpExecute))

	st, err := e.Adapter.TransactionStatus(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, wallet.Accepted, st.Status)
	assert.True(t, st.Status.Terminal())

	history, err := e.Adapter.RequestTransactionHistory(ctx, opts.Program)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].ID == res.TransactionID || history[0].TransactionID == res.TransactionID)
	assert.Equal(t, opts.Program, history[0].Program)
	assert.Equal(t, opts.Function, history[0].Function)

	_, err = e.Adapter.ExecuteTransaction(ctx, wallet.TransactionOptions{Function: "transfer_public"})
	assert.ErrorIs(t, err, wallet.ErrTransaction)
	assert.Equal(t, 1, e.Sim.Calls(sim.OpExecute))
}

func testExecuteFailure(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	e.Connect(t, wallet.UponRequest)
	rec := Record(e.Adapter)

	e.Sim.FailNext(sim.OpExecute, errors.New("insufficient balance for fee"))
	_, err := e.Adapter.ExecuteTransaction(context.Background(), wtest.NewRandomTransactionOptions(rng))
	require.ErrorIs(t, err, wallet.ErrTransaction)
	assert.Contains(t, err.Error(), "insufficient balance")
	require.Len(t, rec.Of(wallet.EventError), 1)
	assert.Equal(t, err, rec.Of(wallet.EventError)[0].Err)
	assert.True(t, e.Adapter.Connected())
}

func testDeploy(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	e.Connect(t, wallet.UponRequest)

	res, err := e.Adapter.ExecuteDeployment(context.Background(), wallet.Deployment{
		Program: "program hello.aleo;\nfunction main:\n    input r0 as u32.public;\n",
		Fee:     2_000_000,
	})
	if !s.CanDeploy {
		assert.ErrorIs(t, err, wallet.ErrMethodNotImplemented)
		assert.Zero(t, e.Sim.Calls(sim.OpDeploy))
		return
	}
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.TransactionID, wallet.TransactionPrefix+"1"))
}

func testSwitchNetwork(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	e.Connect(t, wallet.UponRequest)
	rec := Record(e.Adapter)

	err := e.Adapter.SwitchNetwork(context.Background(), wallet.MainnetBeta)
	if !s.CanSwitchNetwork {
		assert.ErrorIs(t, err, wallet.ErrMethodNotImplemented)
		assert.Equal(t, wallet.TestnetBeta, e.Adapter.Network())
		assert.Zero(t, e.Sim.Calls(sim.OpSwitchNetwork))
		return
	}
	require.NoError(t, err)
	assert.Equal(t, wallet.MainnetBeta, e.Adapter.Network())
	assert.Equal(t, wallet.MainnetBeta, e.Sim.Network())
	require.Len(t, rec.Of(wallet.EventNetworkChange), 1)
	assert.Equal(t, wallet.MainnetBeta, rec.Of(wallet.EventNetworkChange)[0].Network)

	e.Sim.FailNext(sim.OpSwitchNetwork, errors.New("user rejected"))
	assert.ErrorIs(t, e.Adapter.SwitchNetwork(context.Background(), wallet.CanaryNet), wallet.ErrSwitchNetwork)
	assert.Equal(t, wallet.MainnetBeta, e.Adapter.Network())
}

func testTransitionViewKeys(t *testing.T, s Setup) {
	rng := pkgtest.Prng(t)
	e := s.NewEnv(t, rng)
	e.Connect(t, wallet.UponRequest)
	ctx := context.Background()

	res, err := e.Adapter.ExecuteTransaction(ctx, wtest.NewRandomTransactionOptions(rng))
	require.NoError(t, err)

	keys, err := e.Adapter.TransitionViewKeys(ctx, res.TransactionID)
	if !s.HasViewKeys {
		assert.ErrorIs(t, err, wallet.ErrMethodNotImplemented)
		return
	}
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "AViewKey1"))
}

func testClose(t *testing.T, s Setup) {
	env := adapter.NewEnvironment("Mozilla/5.0 (X11; Linux x86_64)")
	a := s.New(env, adapter.WithDetectPolling(1000, time.Millisecond))
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	// Detection stopped with the close.
	env.Inject(s.GlobalName, s.Provider(NewSimWallet(t, pkgtest.Prng(t))))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, wallet.NotDetected, a.ReadyState())
}
