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

// Package session lets an application work with one of several wallet
// adapters at a time. A Session tracks the selected wallet, mirrors its
// state and reports all wallet errors to a single handler.
package session // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/session"

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
	"perun.network/go-perun/log"
	pkgsync "polycry.pt/poly-go/sync"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/event"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

type (
	// State is a snapshot of the session.
	State struct {
		// Wallet is the name of the selected wallet, empty if none.
		Wallet        wallet.WalletName
		Account       *wallet.Account
		ReadyState    wallet.ReadyState
		Network       wallet.Network
		Connecting    bool
		Connected     bool
		Disconnecting bool
	}

	// Session manages the selection and connection of one wallet adapter
	// out of a fixed set.
	Session struct {
		log.Embedding

		store       Store
		key         string
		autoConnect bool
		network     wallet.Network
		permission  wallet.DecryptPermission
		programs    []string
		onError     func(error)

		adapters []wallet.Adapter
		byName   map[wallet.WalletName]wallet.Adapter

		mutex   sync.Mutex
		adapter wallet.Adapter
		subs    []event.Subscription
		state   State

		changes *event.Emitter[stateKey, State]
		connect singleflight.Group
		closer  pkgsync.Closer
	}

	stateKey struct{}
)

// New creates a session over adapters. If the store holds the name of one of
// them, that wallet is selected.
func New(adapters []wallet.Adapter, opts ...Option) *Session {
	s := &Session{
		Embedding:  log.MakeEmbedding(log.WithField("role", "session")),
		store:      NewMemoryStore(),
		key:        DefaultLocalStorageKey,
		network:    wallet.TestnetBeta,
		permission: wallet.UponRequest,
		adapters:   append([]wallet.Adapter(nil), adapters...),
		byName:     make(map[wallet.WalletName]wallet.Adapter, len(adapters)),
		changes:    event.NewEmitter[stateKey, State](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onError == nil {
		s.onError = func(err error) { s.Log().WithError(err).Error("Wallet error") }
	}
	for _, a := range adapters {
		s.byName[a.Name()] = a
	}

	if name, ok := s.persisted(); ok {
		if a, known := s.byName[name]; known {
			s.selectAdapter(a)
		}
	}

	if s.autoConnect {
		ctx, cancel := context.WithCancel(context.Background())
		if s.closer.OnClose(cancel) {
			go s.AutoConnect(ctx)
		}
	}
	return s
}

// Wallets returns all adapters of the session.
func (s *Session) Wallets() []wallet.Adapter {
	return append([]wallet.Adapter(nil), s.adapters...)
}

// Wallet returns the selected adapter or nil.
func (s *Session) Wallet() wallet.Adapter {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.adapter
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	st := s.state
	st.Account = st.Account.Clone()
	return st
}

// Subscribe calls fn with the new state after every change.
func (s *Session) Subscribe(fn func(State)) event.Subscription {
	return s.changes.On(stateKey{}, fn)
}

// update changes the state and notifies subscribers. If a is not nil, the
// change is dropped unless a is still the selected adapter.
func (s *Session) update(a wallet.Adapter, fn func(*State)) {
	s.mutex.Lock()
	if a != nil && s.adapter != a {
		s.mutex.Unlock()
		return
	}
	fn(&s.state)
	st := s.state
	st.Account = st.Account.Clone()
	s.mutex.Unlock()

	s.changes.Emit(stateKey{}, st)
}

// report passes a session error to the error handler and returns it.
func (s *Session) report(err *wallet.Error) error {
	s.onError(err)
	return err
}

// SelectWallet selects the adapter called name. A different, connected
// adapter is disconnected first. An empty name deselects.
func (s *Session) SelectWallet(ctx context.Context, name wallet.WalletName) error {
	var next wallet.Adapter
	if name != "" {
		var ok bool
		if next, ok = s.byName[name]; !ok {
			return s.report(wallet.Errorf(wallet.KindNotSelected, "unknown wallet %q", name))
		}
	}

	prev := s.Wallet()
	if prev == next {
		return nil
	}
	if prev != nil && prev.Connected() {
		// Errors reach onError through the event bridge.
		_ = prev.Disconnect(ctx)
	}

	s.selectAdapter(next)
	if next == nil {
		s.forget()
	} else {
		s.persist(name)
	}
	return nil
}

// selectAdapter moves the event bridge to a and mirrors its state.
func (s *Session) selectAdapter(a wallet.Adapter) {
	s.mutex.Lock()
	old := s.subs
	s.subs = nil
	s.adapter = a
	s.mutex.Unlock()

	for _, sub := range old {
		sub.Unsubscribe()
	}

	if a == nil {
		s.update(nil, func(st *State) { *st = State{} })
		return
	}

	subs := s.bridge(a)
	s.mutex.Lock()
	if s.adapter == a {
		s.subs = subs
		subs = nil
	}
	s.mutex.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}

	s.update(a, func(st *State) {
		*st = State{
			Wallet:     a.Name(),
			Account:    a.Account(),
			ReadyState: a.ReadyState(),
			Network:    a.Network(),
			Connected:  a.Connected(),
		}
	})
}

// bridge mirrors the events of a into the session state.
func (s *Session) bridge(a wallet.Adapter) []event.Subscription {
	ev := a.Events()
	return []event.Subscription{
		ev.On(wallet.EventConnect, func(e wallet.Event) {
			s.update(a, func(st *State) {
				st.Account = e.Account.Clone()
				st.Network = e.Network
				st.Connected = true
				st.ReadyState = wallet.Connected
			})
		}),
		ev.On(wallet.EventDisconnect, func(wallet.Event) {
			s.update(a, func(st *State) {
				st.Account = nil
				st.Connected = false
			})
		}),
		ev.On(wallet.EventReadyStateChange, func(e wallet.Event) {
			s.update(a, func(st *State) { st.ReadyState = e.ReadyState })
		}),
		ev.On(wallet.EventAccountChange, func(e wallet.Event) {
			s.update(a, func(st *State) { st.Account = e.Account.Clone() })
		}),
		ev.On(wallet.EventNetworkChange, func(e wallet.Event) {
			s.update(a, func(st *State) { st.Network = e.Network })
		}),
		ev.On(wallet.EventError, func(e wallet.Event) {
			if s.Wallet() == a {
				s.onError(e.Err)
			}
		}),
	}
}

// Connect connects the selected wallet. Concurrent calls for the same wallet
// share one provider request and its result. If the wallet is already
// connected, its account is returned.
func (s *Session) Connect(ctx context.Context) (*wallet.Account, error) {
	a := s.Wallet()
	if a == nil {
		return nil, s.report(wallet.NewError(wallet.KindNotSelected, "", nil))
	}
	v, err, _ := s.connect.Do(string(a.Name()), func() (interface{}, error) {
		return s.doConnect(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return v.(*wallet.Account).Clone(), nil
}

// ConnectWallet selects the wallet called name and connects it.
func (s *Session) ConnectWallet(ctx context.Context, name wallet.WalletName) (*wallet.Account, error) {
	if err := s.SelectWallet(ctx, name); err != nil {
		return nil, err
	}
	return s.Connect(ctx)
}

func (s *Session) doConnect(ctx context.Context, a wallet.Adapter) (*wallet.Account, error) {
	if acc := a.Account(); acc != nil {
		return acc, nil
	}
	if rs := a.ReadyState(); !rs.Connectable() {
		return nil, s.report(wallet.Errorf(wallet.KindNotReady, "%s is %v", a.Name(), rs))
	}

	s.update(a, func(st *State) { st.Connecting = true })
	defer s.update(a, func(st *State) { st.Connecting = false })

	acc, err := a.Connect(ctx, s.network, s.permission, s.programs)
	if err != nil {
		// The adapter emitted the error, onError has seen it.
		return nil, err
	}
	if s.Wallet() != a {
		// Another wallet was selected meanwhile; its name stays persisted.
		s.Log().Infof("%s was deselected while connecting", a.Name())
		_ = a.Disconnect(ctx)
		return nil, wallet.Errorf(wallet.KindConnection, "%s was deselected while connecting", a.Name())
	}
	s.persist(a.Name())
	return acc, nil
}

// Disconnect disconnects and deselects the wallet and clears the persisted
// name. Adapter errors are only reported to onError.
func (s *Session) Disconnect(ctx context.Context) {
	a := s.Wallet()
	if a == nil {
		return
	}
	s.update(a, func(st *State) { st.Disconnecting = true })
	s.forget()
	_ = a.Disconnect(ctx)
	s.selectAdapter(nil)
}

// connected returns the selected adapter if it is connected.
func (s *Session) connected() (wallet.Adapter, error) {
	a := s.Wallet()
	if a == nil {
		return nil, s.report(wallet.NewError(wallet.KindNotSelected, "", nil))
	}
	if !a.Connected() {
		return nil, s.report(wallet.NewError(wallet.KindNotConnected, "", nil))
	}
	return a, nil
}

func (s *Session) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.SignMessage(ctx, msg)
}

func (s *Session) Decrypt(ctx context.Context, req wallet.DecryptRequest) (string, error) {
	a, err := s.connected()
	if err != nil {
		return "", err
	}
	return a.Decrypt(ctx, req)
}

func (s *Session) RequestRecords(ctx context.Context, program string, includePlaintext bool) ([]wallet.Record, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.RequestRecords(ctx, program, includePlaintext)
}

func (s *Session) ExecuteTransaction(ctx context.Context, opts wallet.TransactionOptions) (*wallet.TransactionResult, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.ExecuteTransaction(ctx, opts)
}

func (s *Session) ExecuteDeployment(ctx context.Context, dep wallet.Deployment) (*wallet.TransactionResult, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.ExecuteDeployment(ctx, dep)
}

func (s *Session) TransactionStatus(ctx context.Context, id string) (*wallet.TransactionStatusResponse, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.TransactionStatus(ctx, id)
}

func (s *Session) SwitchNetwork(ctx context.Context, n wallet.Network) error {
	a, err := s.connected()
	if err != nil {
		return err
	}
	return a.SwitchNetwork(ctx, n)
}

func (s *Session) RequestTransactionHistory(ctx context.Context, program string) ([]wallet.TransactionHistoryEntry, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.RequestTransactionHistory(ctx, program)
}

func (s *Session) TransitionViewKeys(ctx context.Context, txID string) ([]string, error) {
	a, err := s.connected()
	if err != nil {
		return nil, err
	}
	return a.TransitionViewKeys(ctx, txID)
}

// AutoConnect connects the persisted wallet once it is ready. It gives up
// when ctx is done. Failures are logged and clear the persisted name.
func (s *Session) AutoConnect(ctx context.Context) {
	name, ok := s.persisted()
	if !ok {
		return
	}
	a, known := s.byName[name]
	if !known {
		s.Log().Warnf("Forgetting unknown wallet %q", name)
		s.forget()
		return
	}
	if err := s.SelectWallet(ctx, name); err != nil {
		return
	}

	ready := make(chan struct{}, 1)
	sub := a.Events().On(wallet.EventReadyStateChange, func(e wallet.Event) {
		if e.ReadyState.Connectable() {
			select {
			case ready <- struct{}{}:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	if rs := a.ReadyState(); !rs.Connectable() && rs != wallet.Connected {
		select {
		case <-ready:
		case <-ctx.Done():
			s.Log().WithError(ctx.Err()).Debugf("Auto-connect of %s aborted", name)
			return
		}
	}

	if _, err := s.Connect(ctx); err != nil {
		s.Log().WithError(err).Warnf("Auto-connect of %s failed", name)
		s.forget()
		return
	}
	s.Log().Infof("Auto-connected %s", name)
}

// Close stops a pending auto-connect and detaches from the selected adapter.
// The adapters are not closed.
func (s *Session) Close() error {
	if err := s.closer.Close(); err != nil {
		if pkgsync.IsAlreadyClosedError(err) {
			return nil
		}
		return err
	}

	s.mutex.Lock()
	subs := s.subs
	s.subs = nil
	s.mutex.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	return nil
}

func (s *Session) persisted() (wallet.WalletName, bool) {
	v, ok, err := s.store.Get(s.key)
	if err != nil {
		s.Log().WithError(err).Warn("Reading persisted wallet name")
		return "", false
	}
	return wallet.WalletName(v), ok && v != ""
}

func (s *Session) persist(name wallet.WalletName) {
	if err := s.store.Set(s.key, string(name)); err != nil {
		s.Log().WithError(err).Warn("Persisting wallet name")
	}
}

func (s *Session) forget() {
	if err := s.store.Delete(s.key); err != nil {
		s.Log().WithError(err).Warn("Deleting persisted wallet name")
	}
}
