// SPDX-License-Identifier: Apache-2.0

package session

import (
	"perun.network/go-perun/log"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Option configures a Session.
type Option func(*Session)

// WithStore sets where the selected wallet name is persisted. Defaults to a
// MemoryStore.
func WithStore(st Store) Option {
	return func(s *Session) { s.store = st }
}

// WithLocalStorageKey sets the store key of the wallet name.
func WithLocalStorageKey(key string) Option {
	return func(s *Session) { s.key = key }
}

// WithAutoConnect makes the session connect the persisted wallet as soon as
// it becomes ready.
func WithAutoConnect(auto bool) Option {
	return func(s *Session) { s.autoConnect = auto }
}

// WithNetwork sets the network wallets are connected on.
func WithNetwork(n wallet.Network) Option {
	return func(s *Session) { s.network = n }
}

// WithDecryptPermission sets the decrypt permission requested on connect.
func WithDecryptPermission(p wallet.DecryptPermission) Option {
	return func(s *Session) { s.permission = p }
}

// WithPrograms sets the programs requested on connect.
func WithPrograms(programs ...string) Option {
	return func(s *Session) { s.programs = programs }
}

// WithOnError sets the handler every wallet error is reported to. By default
// errors are logged.
func WithOnError(fn func(error)) Option {
	return func(s *Session) { s.onError = fn }
}

// WithLogger sets the session's logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.Embedding = log.MakeEmbedding(l) }
}
