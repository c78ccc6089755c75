// SPDX-License-Identifier: Apache-2.0

package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// DefaultAPI is the explorer API the network path is appended to.
const DefaultAPI = "https://api.explorer.provable.com/v1"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned if the API does not know the requested object.
	ErrNotFound = errors.New("not found")

	// ErrNotSet is returned by polls if a mapping key has no value.
	ErrNotSet = errors.New("mapping key not set")

	pathNames = map[wallet.Network]string{
		wallet.MainnetBeta: "mainnet",
		wallet.TestnetBeta: "testnet",
		wallet.CanaryNet:   "canary",
	}
)

type (
	// Client queries the public REST API of one Aleo network.
	Client struct {
		log.Embedding

		http *resty.Client
	}

	// Transaction is a transaction as returned by the API. Only the common
	// fields are decoded.
	Transaction struct {
		ID         string          `json:"id"`
		Type       string          `json:"type"`
		Execution  json.RawMessage `json:"execution,omitempty"`
		Deployment json.RawMessage `json:"deployment,omitempty"`
		Fee        json.RawMessage `json:"fee,omitempty"`
	}

	// ConfirmedTransaction is a transaction included in a block.
	ConfirmedTransaction struct {
		Status      string      `json:"status"`
		Type        string      `json:"type"`
		Index       uint32      `json:"index"`
		Transaction Transaction `json:"transaction"`
	}
)

// BaseURL returns the default API URL of network.
func BaseURL(network wallet.Network) string {
	return DefaultAPI + "/" + PathName(network)
}

// PathName is the name of network in API paths.
func PathName(network wallet.Network) string {
	if s, ok := pathNames[network]; ok {
		return s
	}
	return network.String()
}

// NewClient returns a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return NewClientWith(resty.New(), baseURL)
}

// NewClientWith configures hc for the API at baseURL.
func NewClientWith(hc *resty.Client, baseURL string) *Client {
	hc.SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(DefaultTimeout)
	return &Client{
		Embedding: log.MakeEmbedding(log.WithField("api", baseURL)),
		http:      hc,
	}
}

// BaseURL returns the API URL of the client.
func (c *Client) BaseURL() string { return c.http.BaseURL }

// LatestHeight returns the height of the latest block.
func (c *Client) LatestHeight(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.get(ctx, "/latest/height", nil, &height); err != nil {
		return 0, errors.WithMessage(err, "getting latest height")
	}
	return height, nil
}

// Program returns the source of the program with the given id.
func (c *Client) Program(ctx context.Context, id string) (string, error) {
	var src string
	err := c.get(ctx, "/program/{program}", map[string]string{"program": id}, &src)
	return src, errors.WithMessagef(err, "getting program %s", id)
}

// ProgramMappingValue returns the value stored under key in a program
// mapping. The boolean is false if the key is not set.
func (c *Client) ProgramMappingValue(ctx context.Context, program, mapping, key string) (string, bool, error) {
	var val *string
	err := c.get(ctx, "/program/{program}/mapping/{mapping}/{key}", map[string]string{
		"program": program,
		"mapping": mapping,
		"key":     key,
	}, &val)
	if err != nil {
		return "", false, errors.WithMessagef(err, "getting %s/%s[%s]", program, mapping, key)
	}
	if val == nil {
		return "", false, nil
	}
	return *val, true, nil
}

// Transaction returns the transaction with the given id.
func (c *Client) Transaction(ctx context.Context, id string) (*Transaction, error) {
	tx := new(Transaction)
	if err := c.get(ctx, "/transaction/{id}", map[string]string{"id": id}, tx); err != nil {
		return nil, errors.WithMessagef(err, "getting transaction %s", id)
	}
	return tx, nil
}

// Transactions returns the transactions of the block at height.
func (c *Client) Transactions(ctx context.Context, height uint64) ([]ConfirmedTransaction, error) {
	var txs []ConfirmedTransaction
	err := c.get(ctx, "/block/{height}/transactions", map[string]string{
		"height": strconv.FormatUint(height, 10),
	}, &txs)
	if err != nil {
		return nil, errors.WithMessagef(err, "getting transactions of block %d", height)
	}
	return txs, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result interface{}) error {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetPathParams(params)
	}
	res, err := req.Get(path)
	if err != nil {
		return errors.Wrap(err, "requesting")
	}

	switch code := res.StatusCode(); {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code != http.StatusOK:
		return errors.Errorf("unexpected status %d: %s", code, res.String())
	}
	c.Log().Tracef("GET %s", res.Request.URL)
	return errors.Wrap(json.Unmarshal(res.Body(), result), "decoding response")
}
