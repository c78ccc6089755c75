// SPDX-License-Identifier: Apache-2.0

package fox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/fox"
	atest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/test"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
	wtest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet/test"
)

var setup = atest.Setup{
	New: func(l adapter.Locator, opts ...adapter.Option) wallet.Adapter {
		return fox.New(l, wallet.Config{AppName: "test"}, opts...)
	},
	Provider:    func(w *sim.Wallet) any { return w.Fox() },
	GlobalName:  fox.GlobalName,
	CanDeploy:   true,
	HasViewKeys: true,
}

func TestAdapter(t *testing.T) {
	atest.TestAdapter(t, setup)
}

func TestAdapter_UserRejected(t *testing.T) {
	rng := pkgtest.Prng(t)
	e := setup.NewEnv(t, rng)
	ctx := context.Background()

	e.Sim.FailNext(sim.OpConnect, &fox.Error{Code: fox.ErrCodeUserRejected, Message: "user rejected the request"})
	_, err := e.Adapter.Connect(ctx, wallet.TestnetBeta, wallet.UponRequest, nil)
	assert.ErrorIs(t, err, wallet.ErrWindowClosed)
	assert.False(t, e.Adapter.Connected())

	e.Connect(t, wallet.UponRequest)
	e.Sim.FailNext(sim.OpExecute, &fox.Error{Code: fox.ErrCodeUserRejected, Message: "user rejected the request"})
	_, err = e.Adapter.ExecuteTransaction(ctx, wtest.NewRandomTransactionOptions(rng))
	assert.ErrorIs(t, err, wallet.ErrWindowClosed)
}
