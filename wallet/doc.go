// SPDX-License-Identifier: Apache-2.0

// Package wallet contains the types shared by every Aleo wallet adapter: the
// networks, ready states and decrypt permissions, the account and transaction
// value objects, the wallet error taxonomy and the Adapter interface that
// each vendor integration implements. Applications program against Adapter
// and pick a concrete implementation from the adapter/ subpackages.
package wallet // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
