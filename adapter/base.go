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

package adapter

import (
	"sync"

	"perun.network/go-perun/log"
	pkgsync "polycry.pt/poly-go/sync"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Base holds the state every adapter shares and implements the accessor half
// of wallet.Adapter. Vendor adapters embed a *Base and implement the
// operations on top of it.
//
// Base keeps the invariant Connected() == (Account() != nil): the ready state
// is wallet.Connected exactly while an account is set.
type Base struct {
	log.Embedding

	mutex      sync.RWMutex
	info       wallet.WalletInfo
	readyState wallet.ReadyState
	available  wallet.ReadyState // ready state to return to on disconnect
	network    wallet.Network
	permission wallet.DecryptPermission
	account    *wallet.Account

	events *wallet.Emitter
	closer pkgsync.Closer
}

// NewBase creates a Base in the Unsupported ready state.
func NewBase(info wallet.WalletInfo) *Base {
	return &Base{
		Embedding:  log.MakeEmbedding(log.WithField("wallet", info.Name)),
		info:       info,
		readyState: wallet.Unsupported,
		available:  wallet.Unsupported,
		events:     wallet.NewEmitter(),
	}
}

func (b *Base) Name() wallet.WalletName { return b.info.Name }

func (b *Base) Info() wallet.WalletInfo {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.info
}

func (b *Base) Events() *wallet.Emitter { return b.events }

func (b *Base) ReadyState() wallet.ReadyState {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.readyState
}

func (b *Base) Account() *wallet.Account {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.account.Clone()
}

func (b *Base) Connected() bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.account != nil
}

func (b *Base) Network() wallet.Network {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.network
}

func (b *Base) DecryptPermission() wallet.DecryptPermission {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.permission
}

// SetReadyState records the provider availability. While connected, the
// state is remembered and applied after disconnect.
func (b *Base) SetReadyState(s wallet.ReadyState) {
	b.mutex.Lock()
	b.available = s
	if b.account != nil || b.readyState == s {
		b.mutex.Unlock()
		return
	}
	b.readyState = s
	b.mutex.Unlock()

	b.Log().Debugf("Ready state changed to %v", s)
	b.events.Emit(wallet.EventReadyStateChange, wallet.Event{Kind: wallet.EventReadyStateChange, ReadyState: s})
}

// SetConnected stores the connected account and emits connect.
func (b *Base) SetConnected(acc *wallet.Account, network wallet.Network, permission wallet.DecryptPermission) *wallet.Account {
	b.mutex.Lock()
	b.account = acc.Clone()
	b.network = network
	b.permission = permission
	changed := b.readyState != wallet.Connected
	b.readyState = wallet.Connected
	b.mutex.Unlock()

	b.Log().WithField("address", acc.Address).Info("Connected")
	if changed {
		b.events.Emit(wallet.EventReadyStateChange, wallet.Event{Kind: wallet.EventReadyStateChange, ReadyState: wallet.Connected})
	}
	b.events.Emit(wallet.EventConnect, wallet.Event{Kind: wallet.EventConnect, Account: acc.Clone(), Network: network})
	return acc.Clone()
}

// SetAccount replaces the connected account and emits accountChange. It is a
// no-op while disconnected or if the address did not change.
func (b *Base) SetAccount(acc *wallet.Account) {
	b.mutex.Lock()
	if b.account == nil || b.account.Equal(acc) {
		b.mutex.Unlock()
		return
	}
	b.account = acc.Clone()
	b.mutex.Unlock()

	b.events.Emit(wallet.EventAccountChange, wallet.Event{Kind: wallet.EventAccountChange, Account: acc.Clone()})
}

// SetNetwork records the network and emits networkChange if it changed.
func (b *Base) SetNetwork(n wallet.Network) {
	b.mutex.Lock()
	if b.network == n {
		b.mutex.Unlock()
		return
	}
	b.network = n
	b.mutex.Unlock()

	b.events.Emit(wallet.EventNetworkChange, wallet.Event{Kind: wallet.EventNetworkChange, Network: n})
}

// ClearAccount drops the account, restores the pre-connect ready state and
// emits disconnect. It is a no-op while disconnected.
func (b *Base) ClearAccount() {
	b.mutex.Lock()
	if b.account == nil {
		b.mutex.Unlock()
		return
	}
	b.account = nil
	b.readyState = b.available
	rs := b.readyState
	b.mutex.Unlock()

	b.Log().Info("Disconnected")
	b.events.Emit(wallet.EventReadyStateChange, wallet.Event{Kind: wallet.EventReadyStateChange, ReadyState: rs})
	b.events.Emit(wallet.EventDisconnect, wallet.Event{Kind: wallet.EventDisconnect})
}

// Fail emits err as an error event and returns it.
func (b *Base) Fail(err *wallet.Error) error {
	b.Log().WithError(err).Warnf("%s", err.Name())
	b.events.Emit(wallet.EventError, wallet.Event{Kind: wallet.EventError, Err: err})
	return err
}

// Translate converts a provider error with wallet.AsError and fails with it.
func (b *Base) Translate(err error, fallback wallet.ErrorKind) error {
	return b.Fail(wallet.AsError(err, fallback))
}

// RequireConnected returns the connected account or fails with
// WalletNotConnectedError.
func (b *Base) RequireConnected() (*wallet.Account, error) {
	if acc := b.Account(); acc != nil {
		return acc, nil
	}
	return nil, b.Fail(wallet.NewError(wallet.KindNotConnected, "", nil))
}

// RequireProvider fails with WalletConnectionError if the provider was not
// detected yet. On mobile the error points to the deep link.
func (b *Base) RequireProvider(detected bool) error {
	if detected {
		return nil
	}
	if info := b.Info(); b.ReadyState() == wallet.Loadable && info.DeepLink != "" {
		return b.Fail(wallet.Errorf(wallet.KindConnection, "%s is not available here, open %s", info.Name, info.DeepLink))
	}
	return b.Fail(wallet.Errorf(wallet.KindConnection, "%s is not available (%v)", b.info.Name, b.ReadyState()))
}

// SetDeepLink records the mobile deep link shown when the provider is
// missing.
func (b *Base) SetDeepLink(link string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.info.DeepLink = link
}

// GuardDecrypt checks the connection and the decrypt permission granted on
// connect. All wallets handle UponRequest, AutoDecrypt and OnChainHistory the
// same way.
func (b *Base) GuardDecrypt() error {
	if _, err := b.RequireConnected(); err != nil {
		return err
	}
	switch b.DecryptPermission() {
	case wallet.NoDecrypt:
		return b.Fail(wallet.NewError(wallet.KindDecryptionNotAllowed, "", nil))
	case wallet.UponRequest, wallet.AutoDecrypt, wallet.OnChainHistory:
		return nil
	default:
		return b.Fail(wallet.NewError(wallet.KindDecryption, "", nil))
	}
}

// NotImplemented fails with MethodNotImplementedError.
func (b *Base) NotImplemented(method string) error {
	return b.Fail(wallet.NotImplemented(method))
}

// Closer returns the adapter's closer. Background work registers its
// cleanup with OnClose.
func (b *Base) Closer() *pkgsync.Closer { return &b.closer }

// Close closes the adapter. Closing twice is not an error.
func (b *Base) Close() error {
	if err := b.closer.Close(); err != nil && !pkgsync.IsAlreadyClosedError(err) {
		return err
	}
	return nil
}
