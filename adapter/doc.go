// SPDX-License-Identifier: Apache-2.0

// Package adapter contains the building blocks shared by the vendor wallet
// adapters in its subpackages: the embeddable Base holding connection state
// and events, provider discovery through a Locator, and bookkeeping for
// listeners registered on a provider's native event source.
package adapter // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
