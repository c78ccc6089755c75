// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"context"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/event"
)

type (
	// EventKind names the events emitted by adapters.
	EventKind uint8

	// Event is the payload of all adapter events. Only the field matching
	// Kind is set.
	Event struct {
		Kind       EventKind
		Account    *Account
		Network    Network
		ReadyState ReadyState
		Err        error
	}

	// Emitter is the emitter type exposed by adapters.
	Emitter = event.Emitter[EventKind, Event]

	// Adapter is the uniform interface over all wallet providers. All
	// methods that reach the provider block until it answers; ctx is passed
	// on to the provider. Every returned error is a *Error and is also
	// emitted as an EventError.
	Adapter interface {
		Name() WalletName
		Info() WalletInfo
		ReadyState() ReadyState
		// Account returns a copy of the connected account or nil.
		Account() *Account
		Network() Network
		DecryptPermission() DecryptPermission
		// Connected is equivalent to Account() != nil.
		Connected() bool
		Events() *Emitter

		Connect(ctx context.Context, network Network, permission DecryptPermission, programs []string) (*Account, error)
		// Disconnect always clears the local account, even if the provider
		// fails. Provider failures are emitted and returned as
		// WalletDisconnectionError.
		Disconnect(ctx context.Context) error
		SignMessage(ctx context.Context, msg []byte) ([]byte, error)
		Decrypt(ctx context.Context, req DecryptRequest) (string, error)
		RequestRecords(ctx context.Context, program string, includePlaintext bool) ([]Record, error)
		ExecuteTransaction(ctx context.Context, opts TransactionOptions) (*TransactionResult, error)
		ExecuteDeployment(ctx context.Context, dep Deployment) (*TransactionResult, error)
		TransactionStatus(ctx context.Context, id string) (*TransactionStatusResponse, error)
		SwitchNetwork(ctx context.Context, network Network) error
		RequestTransactionHistory(ctx context.Context, program string) ([]TransactionHistoryEntry, error)
		TransitionViewKeys(ctx context.Context, txID string) ([]string, error)

		// Close stops provider detection and releases provider listeners.
		Close() error
	}
)

const (
	EventConnect EventKind = iota
	EventDisconnect
	EventAccountChange
	EventNetworkChange
	EventError
	EventReadyStateChange
)

var eventNames = [...]string{
	"connect", "disconnect", "accountChange", "networkChange", "error", "readyStateChange",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// NewEmitter returns an adapter event emitter.
func NewEmitter() *Emitter {
	return event.NewEmitter[EventKind, Event]()
}
