// SPDX-License-Identifier: Apache-2.0

package puzzle_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/puzzle"
	atest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/test"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
	wtest "github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet/test"
)

var setup = atest.Setup{
	New: func(l adapter.Locator, opts ...adapter.Option) wallet.Adapter {
		return puzzle.New(l, wallet.Config{AppName: "test", AppDescription: "adapter tests"}, opts...)
	},
	Provider:   func(w *sim.Wallet) any { return w.Puzzle() },
	GlobalName: puzzle.GlobalName,
}

func TestAdapter(t *testing.T) {
	atest.TestAdapter(t, setup)
}

func TestAdapter_NoCanary(t *testing.T) {
	rng := pkgtest.Prng(t)
	e := setup.NewEnv(t, rng)

	_, err := e.Adapter.Connect(context.Background(), wallet.CanaryNet, wallet.UponRequest, nil)
	assert.ErrorIs(t, err, wallet.ErrConnection)
	assert.Zero(t, e.Sim.Calls(sim.OpConnect))
}

func TestAdapter_EventIDs(t *testing.T) {
	rng := pkgtest.Prng(t)
	e := setup.NewEnv(t, rng)
	e.Connect(t, wallet.UponRequest)
	ctx := context.Background()

	res, err := e.Adapter.ExecuteTransaction(ctx, wtest.NewRandomTransactionOptions(rng))
	require.NoError(t, err)
	// Puzzle answers with its own event id, not an Aleo transaction id.
	assert.Len(t, res.TransactionID, 36)

	st, err := e.Adapter.TransactionStatus(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Regexp(t, "^at1", st.TransactionID)

	_, err = e.Adapter.TransactionStatus(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, wallet.ErrTransaction)
}

func TestAdapter_ProgramPermissionsFromConfig(t *testing.T) {
	rng := pkgtest.Prng(t)
	w := atest.NewSimWallet(t, rng)
	w.AddRecord("credits.aleo", wallet.Record{"id": "r1"})
	w.AddRecord("token_registry.aleo", wallet.Record{"id": "r2"})

	env := adapter.NewEnvironment("")
	env.Inject(puzzle.GlobalName, w.Puzzle())
	a := puzzle.New(env, wallet.Config{
		AppName:              "test",
		ProgramIDPermissions: map[wallet.Network][]string{wallet.TestnetBeta: {"credits.aleo"}},
	})
	defer a.Close()

	_, err := a.Connect(context.Background(), wallet.TestnetBeta, wallet.AutoDecrypt, nil)
	require.NoError(t, err)

	recs, err := a.RequestRecords(context.Background(), "credits.aleo", false)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, err = a.RequestRecords(context.Background(), "token_registry.aleo", false)
	assert.ErrorIs(t, err, wallet.ErrRecords)
}

// feeRecorder keeps the fee of the last create event request.
type feeRecorder struct {
	*sim.Puzzle
	fee decimal.Decimal
}

func (r *feeRecorder) RequestCreateEvent(ctx context.Context, req *puzzle.CreateEventRequest) (*puzzle.CreateEventResponse, error) {
	r.fee = req.Fee
	return r.Puzzle.RequestCreateEvent(ctx, req)
}

func TestAdapter_ExactFee(t *testing.T) {
	rng := pkgtest.Prng(t)
	w := atest.NewSimWallet(t, rng)
	rec := &feeRecorder{Puzzle: w.Puzzle()}
	env := adapter.NewEnvironment("")
	env.Inject(puzzle.GlobalName, rec)
	a := puzzle.New(env, wallet.Config{AppName: "test"})
	defer a.Close()

	ctx := context.Background()
	_, err := a.Connect(ctx, wallet.TestnetBeta, wallet.UponRequest, nil)
	require.NoError(t, err)

	// 2^53 + 1 microcredits are not representable as a float64 credit amount.
	const fee = uint64(1)<<53 + 1
	_, err = a.ExecuteTransaction(ctx, wallet.TransactionOptions{
		Program:  "credits.aleo",
		Function: "transfer_public",
		Inputs:   []string{w.Address(), "1u64"},
		Fee:      fee,
	})
	require.NoError(t, err)
	assert.Equal(t, "9007199254.740993", rec.fee.String())
	micro, err := wallet.CreditsToMicrocredits(rec.fee)
	require.NoError(t, err)
	assert.Equal(t, fee, micro)
}
