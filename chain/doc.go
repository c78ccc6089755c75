// SPDX-License-Identifier: Apache-2.0

// Package chain talks to the public Aleo REST API. Client wraps the
// endpoints, Session adds polling for mapping updates and transaction status.
package chain // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/chain"
