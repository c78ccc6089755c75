// SPDX-License-Identifier: Apache-2.0
package test_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet/test"
)

func TestRandomizer_RandomAddress(t *testing.T) {
	rng := pkgtest.Prng(t)
	addr := test.NewRandomAddress(rng)

	for i := 0; i < 1000; i++ {
		addr2 := test.NewRandomAddress(rng)
		require.NotEqual(t, addr, addr2)
		require.NoError(t, wallet.ValidateAddress(addr2))
	}
}
