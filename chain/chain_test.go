// SPDX-License-Identifier: Apache-2.0

package chain_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/chain"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

const txID = "at1r9cjkylrcxqg0m4ljq5rrfwxacejflsxgtsrqpxjfs8lhdhlsyrqxf40ca"

// fakeAPI serves a small subset of the explorer API of the test network.
type fakeAPI struct {
	mutex    sync.Mutex
	mappings map[string]string
	requests int
	// failures is the number of mapping queries still answered with 500.
	failures int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{mappings: map[string]string{"credits.aleo/account/aleo1x": "100u64"}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /testnet/latest/height", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, 123456)
	})
	mux.HandleFunc("GET /testnet/program/{program}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("program") != "credits.aleo" {
			http.NotFound(w, r)
			return
		}
		reply(w, "program credits.aleo;")
	})
	mux.HandleFunc("GET /testnet/program/{program}/mapping/{mapping}/{key}", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()
		api.requests++
		if api.failures > 0 {
			api.failures--
			http.Error(w, "busy", http.StatusInternalServerError)
			return
		}
		v, ok := api.mappings[r.PathValue("program")+"/"+r.PathValue("mapping")+"/"+r.PathValue("key")]
		if !ok {
			reply(w, nil)
			return
		}
		reply(w, v)
	})
	mux.HandleFunc("GET /testnet/transaction/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != txID {
			http.NotFound(w, r)
			return
		}
		reply(w, map[string]any{"id": txID, "type": "execute", "execution": map[string]any{"transitions": []any{}}})
	})
	mux.HandleFunc("GET /testnet/block/{height}/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("height") == "0" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		reply(w, []any{map[string]any{
			"status": "accepted", "type": "execute", "index": 0,
			"transaction": map[string]any{"id": txID, "type": "execute"},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) set(key, value string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.mappings[key] = value
}

func (a *fakeAPI) fail(n int) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.failures = n
}

func (a *fakeAPI) count() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.requests
}

func reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.explorer.provable.com/v1/mainnet", chain.BaseURL(wallet.MainnetBeta))
	assert.Equal(t, "https://api.explorer.provable.com/v1/testnet", chain.BaseURL(wallet.TestnetBeta))
	assert.Equal(t, "https://api.explorer.provable.com/v1/canary", chain.BaseURL(wallet.CanaryNet))
	assert.Equal(t, chain.BaseURL(wallet.MainnetBeta), chain.NewSession(wallet.MainnetBeta).Client().BaseURL())
}

func TestClient(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := chain.NewClient(srv.URL + "/testnet")
	ctx := context.Background()

	height, err := c.LatestHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), height)

	src, err := c.Program(ctx, "credits.aleo")
	require.NoError(t, err)
	assert.Equal(t, "program credits.aleo;", src)

	_, err = c.Program(ctx, "missing.aleo")
	assert.True(t, errors.Is(err, chain.ErrNotFound))

	v, ok, err := c.ProgramMappingValue(ctx, "credits.aleo", "account", "aleo1x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "100u64", v)

	_, ok, err = c.ProgramMappingValue(ctx, "credits.aleo", "account", "aleo1y")
	require.NoError(t, err)
	assert.False(t, ok)

	tx, err := c.Transaction(ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, txID, tx.ID)
	assert.Equal(t, "execute", tx.Type)
	assert.NotEmpty(t, tx.Execution)

	txs, err := c.Transactions(ctx, 5)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "accepted", txs[0].Status)
	assert.Equal(t, txID, txs[0].Transaction.ID)

	_, err = c.Transactions(ctx, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSession_PollProgramMappingValueUpdate(t *testing.T) {
	api, srv := newFakeAPI(t)
	s := chain.NewSession(wallet.TestnetBeta, chain.WithBaseURL(srv.URL+"/testnet"))
	ctx := context.Background()

	// Fails twice, the last of three attempts succeeds.
	api.fail(2)
	v, err := s.PollProgramMappingValueUpdate(ctx, "credits.aleo", "account", "aleo1x", 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "100u64", v)
	assert.Equal(t, 3, api.count())

	// A stable value is returned at once.
	v, err = s.PollProgramMappingValueUpdate(ctx, "credits.aleo", "account", "aleo1x", 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "100u64", v)
	assert.Equal(t, 4, api.count())

	// Always failing queries give up after exactly the given attempts.
	api.fail(1000)
	_, err = s.PollProgramMappingValueUpdate(ctx, "credits.aleo", "account", "aleo1x", 4, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, 8, api.count())

	api.fail(0)
	_, err = s.PollProgramMappingValueUpdate(ctx, "credits.aleo", "account", "aleo1y", 2, time.Millisecond)
	assert.True(t, errors.Is(err, chain.ErrNotSet))
	assert.Equal(t, 10, api.count())
}

func TestSession_WaitProgramMappingValueChange(t *testing.T) {
	api, srv := newFakeAPI(t)
	s := chain.NewSession(wallet.TestnetBeta, chain.WithBaseURL(srv.URL+"/testnet"))
	ctx := context.Background()

	// The initial read is retried as well.
	api.fail(1)
	go func() {
		for api.count() < 4 {
			time.Sleep(time.Millisecond)
		}
		api.set("credits.aleo/account/aleo1x", "50u64")
	}()

	v, err := s.WaitProgramMappingValueChange(ctx, "credits.aleo", "account", "aleo1x", 1000, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "50u64", v)

	// Unchanged values exhaust the retries.
	_, err = s.WaitProgramMappingValueChange(ctx, "credits.aleo", "account", "aleo1x", 3, time.Millisecond)
	require.Error(t, err)
}

type statusSource struct {
	statuses []wallet.TransactionStatus
	calls    int
}

func (s *statusSource) TransactionStatus(_ context.Context, id string) (*wallet.TransactionStatusResponse, error) {
	st := s.statuses[s.calls]
	s.calls++
	if st == "" {
		return nil, errors.New("wallet busy")
	}
	return &wallet.TransactionStatusResponse{Status: st, TransactionID: id}, nil
}

func TestSession_PollTransactionStatus(t *testing.T) {
	s := chain.NewSession(wallet.TestnetBeta, chain.WithPolling(5, time.Millisecond))
	ctx := context.Background()

	src := &statusSource{statuses: []wallet.TransactionStatus{wallet.Pending, "", wallet.Pending, wallet.Accepted}}
	res, err := s.PollTransactionStatus(ctx, src, txID)
	require.NoError(t, err)
	assert.Equal(t, wallet.Accepted, res.Status)
	assert.Equal(t, 4, src.calls)

	src = &statusSource{statuses: []wallet.TransactionStatus{wallet.Pending, wallet.Pending, wallet.Pending, wallet.Pending, wallet.Pending}}
	_, err = s.PollTransactionStatus(ctx, src, txID)
	require.Error(t, err)
	assert.Equal(t, 5, src.calls)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	src = &statusSource{statuses: []wallet.TransactionStatus{wallet.Pending, wallet.Pending}}
	_, err = s.PollTransactionStatus(cctx, src, txID)
	assert.ErrorIs(t, err, context.Canceled)
}
