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

// Package sim provides an in-memory wallet that can be exposed through every
// vendor's provider interface. It backs the adapter tests and the demo CLI.
package sim // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/event"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Operation names used for call counting and failure injection.
const (
	OpConnect            = "connect"
	OpDisconnect         = "disconnect"
	OpSignMessage        = "signMessage"
	OpDecrypt            = "decrypt"
	OpRequestRecords     = "requestRecords"
	OpExecute            = "executeTransaction"
	OpDeploy             = "executeDeployment"
	OpTransactionStatus  = "transactionStatus"
	OpSwitchNetwork      = "switchNetwork"
	OpTransactionHistory = "requestTransactionHistory"
	OpTransitionViewKeys = "transitionViewKeys"
)

// Native events emitted by the wallet. Payloads are the new address, the new
// wallet.Network and nil.
const (
	NativeAccountChanged = "accountChanged"
	NativeNetworkChanged = "networkChanged"
	NativeDisconnect     = "disconnect"
)

// Errors returned by the simulated wallet.
var (
	ErrNotConnected    = errors.New("wallet not connected")
	ErrUnknownCipher   = errors.New("unknown ciphertext")
	ErrUnknownTx       = errors.New("unknown transaction")
	ErrUnknownProgram  = errors.New("program not permitted")
	ErrEmptyDeployment = errors.New("empty program")
	ErrWrongNetwork    = errors.New("wallet is on another network")
)

type (
	// Wallet is a simulated wallet. It is safe for concurrent use.
	Wallet struct {
		log.Embedding

		mutex      sync.Mutex
		keys       *KeyStore
		key        *Key
		connected  bool
		network    wallet.Network
		permission wallet.DecryptPermission
		programs   []string
		settle     time.Duration
		now        func() time.Time
		strict     bool

		records    map[string][]wallet.Record
		plaintexts map[string]string
		txs        map[string]*transaction
		history    []string
		nonce      uint64

		calls    map[string]int
		failures map[string]error

		events *event.Emitter[string, any]
	}

	transaction struct {
		id          string
		program     string
		function    string
		submitted   time.Time
		status      wallet.TransactionStatus // overrides the settle logic if set
		transitions int
	}

	// Option configures a Wallet.
	Option func(*Wallet)
)

// WithNetwork sets the network the wallet starts on.
func WithNetwork(n wallet.Network) Option {
	return func(w *Wallet) { w.network = n }
}

// WithSettleDelay sets how long transactions stay pending.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Wallet) { w.settle = d }
}

// WithStrictNetwork makes Connect fail with ErrWrongNetwork if the requested
// network is not the wallet's current one.
func WithStrictNetwork() Option {
	return func(w *Wallet) { w.strict = true }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Wallet) { w.now = now }
}

// New creates a wallet on the first key of ks.
func New(ks *KeyStore, opts ...Option) (*Wallet, error) {
	key, err := ks.First()
	if err != nil {
		return nil, errors.WithMessage(err, "deriving first key")
	}
	w := &Wallet{
		Embedding:  log.MakeEmbedding(log.WithField("role", "sim")),
		keys:       ks,
		key:        key,
		network:    wallet.TestnetBeta,
		now:        time.Now,
		records:    make(map[string][]wallet.Record),
		plaintexts: make(map[string]string),
		txs:        make(map[string]*transaction),
		calls:      make(map[string]int),
		failures:   make(map[string]error),
		events:     event.NewEmitter[string, any](),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Events returns the native event emitter.
func (w *Wallet) Events() *event.Emitter[string, any] { return w.events }

// FailNext makes the next call of op fail with err.
func (w *Wallet) FailNext(op string, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.failures[op] = err
}

// Calls returns how often op was called.
func (w *Wallet) Calls(op string) int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.calls[op]
}

// TotalCalls returns the number of calls of all operations.
func (w *Wallet) TotalCalls() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	var n int
	for _, c := range w.calls {
		n += c
	}
	return n
}

// call counts op and returns an injected failure. Must hold the mutex.
func (w *Wallet) call(op string) error {
	w.calls[op]++
	if err, ok := w.failures[op]; ok {
		delete(w.failures, op)
		return err
	}
	return nil
}

// Account returns the current account including its secrets.
func (w *Wallet) Account() *wallet.Account {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.key.Account()
}

// Address returns the current address, empty while disconnected.
func (w *Wallet) Address() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.connected {
		return ""
	}
	return w.key.Address()
}

// Connected returns whether a dApp is connected.
func (w *Wallet) Connected() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.connected
}

// Network returns the wallet's network.
func (w *Wallet) Network() wallet.Network {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.network
}

// AddRecord stores a record for program. A "plaintext" field is only
// returned if plaintexts are requested.
func (w *Wallet) AddRecord(program string, r wallet.Record) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.records[program] = append(w.records[program], r)
}

// AddPlaintext registers the plaintext of a ciphertext.
func (w *Wallet) AddPlaintext(cipherText, plaintext string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.plaintexts[cipherText] = plaintext
}

// SetStatus fixes the status of a transaction.
func (w *Wallet) SetStatus(txID string, s wallet.TransactionStatus) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	tx, ok := w.txs[txID]
	if !ok {
		return errors.Wrap(ErrUnknownTx, txID)
	}
	tx.status = s
	return nil
}

// Connect connects the dApp on network and returns the address.
func (w *Wallet) Connect(network wallet.Network, permission wallet.DecryptPermission, programs []string) (string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.call(OpConnect); err != nil {
		return "", err
	}
	if w.strict && network != w.network {
		return "", errors.Wrapf(ErrWrongNetwork, "requested %v, on %v", network, w.network)
	}
	w.connected = true
	w.network = network
	w.permission = permission
	w.programs = append([]string(nil), programs...)
	w.Log().WithField("address", w.key.Address()).Debugf("Connected on %v", network)
	return w.key.Address(), nil
}

// Disconnect disconnects the dApp.
func (w *Wallet) Disconnect() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.call(OpDisconnect); err != nil {
		return err
	}
	w.connected = false
	return nil
}

// Sign signs msg with the current key.
func (w *Wallet) Sign(msg []byte) (string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpSignMessage); err != nil {
		return "", err
	}
	return w.key.Sign(msg)
}

// Decrypt returns the registered plaintext of cipherText.
func (w *Wallet) Decrypt(cipherText string) (string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpDecrypt); err != nil {
		return "", err
	}
	pt, ok := w.plaintexts[cipherText]
	if !ok {
		return "", errors.Wrap(ErrUnknownCipher, cipherText)
	}
	return pt, nil
}

// Records returns copies of the records of program.
func (w *Wallet) Records(program string, plaintext bool) ([]wallet.Record, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpRequestRecords); err != nil {
		return nil, err
	}
	if !w.permitted(program) {
		return nil, errors.Wrap(ErrUnknownProgram, program)
	}
	stored := w.records[program]
	out := make([]wallet.Record, 0, len(stored))
	for _, r := range stored {
		c := make(wallet.Record, len(r))
		for k, v := range r {
			if k == "plaintext" && !plaintext {
				continue
			}
			c[k] = v
		}
		out = append(out, c)
	}
	return out, nil
}

// permitted reports whether the dApp asked for program on connect. No
// programs means all programs. Must hold the mutex.
func (w *Wallet) permitted(program string) bool {
	if len(w.programs) == 0 {
		return true
	}
	for _, p := range w.programs {
		if p == program {
			return true
		}
	}
	return false
}

// Execute records an execution of program/function and returns its at1 id.
func (w *Wallet) Execute(program, function string, inputs []string, fee uint64) (string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpExecute); err != nil {
		return "", err
	}
	w.Log().Debugf("Executing %s/%s with %d inputs, fee %d", program, function, len(inputs), fee)
	return w.submit(program, function, 1)
}

// Deploy records a deployment of the program source and returns its at1 id.
func (w *Wallet) Deploy(program string, fee uint64) (string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpDeploy); err != nil {
		return "", err
	}
	if program == "" {
		return "", ErrEmptyDeployment
	}
	w.Log().Debugf("Deploying %d bytes, fee %d", len(program), fee)
	return w.submit("deployment", "", 0)
}

// submit stores a new transaction. Must hold the mutex.
func (w *Wallet) submit(program, function string, transitions int) (string, error) {
	h := sha256.New()
	h.Write([]byte(w.key.Address()))
	binary.Write(h, bo, w.nonce) // nolint: errcheck
	w.nonce++

	id, err := wallet.EncodeBech32(wallet.TransactionPrefix, h.Sum(nil))
	if err != nil {
		return "", err
	}
	w.txs[id] = &transaction{
		id:          id,
		program:     program,
		function:    function,
		submitted:   w.now(),
		transitions: transitions,
	}
	w.history = append(w.history, id)
	return id, nil
}

// Status returns the status of a transaction. Transactions are pending until
// the settle delay passed.
func (w *Wallet) Status(txID string) (wallet.TransactionStatus, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpTransactionStatus); err != nil {
		return "", err
	}
	tx, ok := w.txs[txID]
	if !ok {
		return "", errors.Wrap(ErrUnknownTx, txID)
	}
	return w.status(tx), nil
}

func (w *Wallet) status(tx *transaction) wallet.TransactionStatus {
	if tx.status != "" {
		return tx.status
	}
	if w.now().Sub(tx.submitted) < w.settle {
		return wallet.Pending
	}
	return wallet.Accepted
}

// History returns the transactions of program, or all if program is empty,
// in submission order.
func (w *Wallet) History(program string) ([]wallet.TransactionHistoryEntry, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpTransactionHistory); err != nil {
		return nil, err
	}
	entries := []wallet.TransactionHistoryEntry{}
	for i, id := range w.history {
		tx := w.txs[id]
		if program != "" && tx.program != program {
			continue
		}
		entries = append(entries, wallet.TransactionHistoryEntry{
			ID:            strconv.Itoa(i),
			TransactionID: tx.id,
			Program:       tx.program,
			Function:      tx.function,
			Status:        w.status(tx),
		})
	}
	return entries, nil
}

// ViewKeys returns one transition view key per transition of txID.
func (w *Wallet) ViewKeys(txID string) ([]string, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.checkCall(OpTransitionViewKeys); err != nil {
		return nil, err
	}
	tx, ok := w.txs[txID]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTx, txID)
	}
	keys := make([]string, tx.transitions)
	for i := range keys {
		keys[i] = transitionViewKey(w.key, tx.id, i)
	}
	return keys, nil
}

// SwitchNetwork moves the wallet to n and emits networkChanged. The user may
// switch networks without a connected dApp.
func (w *Wallet) SwitchNetwork(n wallet.Network) error {
	w.mutex.Lock()
	if err := w.call(OpSwitchNetwork); err != nil {
		w.mutex.Unlock()
		return err
	}
	changed := w.network != n
	w.network = n
	w.mutex.Unlock()

	if changed {
		w.events.Emit(NativeNetworkChanged, n)
	}
	return nil
}

// SwitchAccount moves the wallet to a new key, as if the user picked
// another account, and emits accountChanged while connected.
func (w *Wallet) SwitchAccount() (string, error) {
	key, err := w.keys.NewKey()
	if err != nil {
		return "", err
	}
	w.mutex.Lock()
	w.key = key
	connected := w.connected
	w.mutex.Unlock()

	if connected {
		w.events.Emit(NativeAccountChanged, key.Address())
	}
	return key.Address(), nil
}

// Lock locks the wallet: the dApp loses the account and accountChanged is
// emitted with an empty address.
func (w *Wallet) Lock() {
	w.mutex.Lock()
	connected := w.connected
	w.connected = false
	w.mutex.Unlock()

	if connected {
		w.events.Emit(NativeAccountChanged, "")
	}
}

// DisconnectFromWallet ends the connection from the wallet side and emits
// disconnect.
func (w *Wallet) DisconnectFromWallet() {
	w.mutex.Lock()
	connected := w.connected
	w.connected = false
	w.mutex.Unlock()

	if connected {
		w.events.Emit(NativeDisconnect, nil)
	}
}

// checkCall counts op and fails if the dApp is not connected. Must hold the
// mutex.
func (w *Wallet) checkCall(op string) error {
	if err := w.call(op); err != nil {
		return err
	}
	if !w.connected {
		return ErrNotConnected
	}
	return nil
}
