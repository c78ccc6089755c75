// SPDX-License-Identifier: Apache-2.0

package chain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/poll"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

type (
	// Session binds a Client to one network and provides the polling helpers
	// applications use after submitting transactions.
	Session struct {
		log.Embedding

		network wallet.Network
		client  *Client
		poll    poll.Options
	}

	// Option configures a Session.
	Option func(*sessionConfig)

	sessionConfig struct {
		baseURL string
		client  *Client
		poll    poll.Options
	}

	// StatusSource reports transaction status. Adapters and wallet sessions
	// implement it.
	StatusSource interface {
		TransactionStatus(ctx context.Context, id string) (*wallet.TransactionStatusResponse, error)
	}
)

// WithBaseURL overrides the API URL of the network.
func WithBaseURL(url string) Option {
	return func(c *sessionConfig) { c.baseURL = url }
}

// WithClient uses c instead of creating a client.
func WithClient(c *Client) Option {
	return func(cfg *sessionConfig) { cfg.client = c }
}

// WithPolling sets the options of PollTransactionStatus.
func WithPolling(retries int, interval time.Duration) Option {
	return func(c *sessionConfig) { c.poll = poll.Options{Retries: retries, Interval: interval} }
}

// NewSession creates a session for network.
func NewSession(network wallet.Network, opts ...Option) *Session {
	cfg := sessionConfig{
		baseURL: BaseURL(network),
		poll:    poll.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = NewClient(cfg.baseURL)
	}
	return &Session{
		Embedding: log.MakeEmbedding(log.WithField("network", network)),
		network:   network,
		client:    cfg.client,
		poll:      cfg.poll,
	}
}

// Network returns the network of the session.
func (s *Session) Network() wallet.Network { return s.network }

// Client returns the API client of the session.
func (s *Session) Client() *Client { return s.client }

// PollProgramMappingValueUpdate queries the value under key up to retries
// times, waiting interval between attempts, and returns the first value read.
// Failed queries and unset keys count as failed attempts; after the last one
// its error is returned.
func (s *Session) PollProgramMappingValueUpdate(ctx context.Context, program, mapping, key string, retries int, interval time.Duration) (string, error) {
	v, err := poll.Do(ctx, poll.Options{Retries: retries, Interval: interval},
		func(ctx context.Context) (string, error) {
			return s.mappingValue(ctx, program, mapping, key)
		})
	if err != nil {
		return "", errors.WithMessagef(err, "polling %s/%s[%s]", program, mapping, key)
	}
	return v, nil
}

// WaitProgramMappingValueChange reads the current value under key and polls
// until it differs. It returns the new value. A key that is not set yet
// changes when it is first written.
func (s *Session) WaitProgramMappingValueChange(ctx context.Context, program, mapping, key string, retries int, interval time.Duration) (string, error) {
	opts := poll.Options{Retries: retries, Interval: interval}
	type value struct {
		val string
		set bool
	}
	read := func(ctx context.Context) (value, error) {
		val, set, err := s.client.ProgramMappingValue(ctx, program, mapping, key)
		return value{val, set}, err
	}

	initial, err := poll.Do(ctx, opts, read)
	if err != nil {
		return "", errors.WithMessagef(err, "reading %s/%s[%s]", program, mapping, key)
	}
	v, err := poll.Until(ctx, opts, read, func(v value) bool { return v != initial })
	if err != nil {
		return "", errors.WithMessagef(err, "waiting for %s/%s[%s] to change", program, mapping, key)
	}
	s.Log().Debugf("%s/%s[%s] changed to %s", program, mapping, key, v.val)
	return v.val, nil
}

func (s *Session) mappingValue(ctx context.Context, program, mapping, key string) (string, error) {
	val, set, err := s.client.ProgramMappingValue(ctx, program, mapping, key)
	if err != nil {
		return "", err
	}
	if !set {
		return "", ErrNotSet
	}
	return val, nil
}

// PollTransactionStatus queries src until the transaction reaches a terminal
// status and returns it.
func (s *Session) PollTransactionStatus(ctx context.Context, src StatusSource, id string) (*wallet.TransactionStatusResponse, error) {
	res, err := poll.Until(ctx, s.poll,
		func(ctx context.Context) (*wallet.TransactionStatusResponse, error) {
			return src.TransactionStatus(ctx, id)
		},
		func(res *wallet.TransactionStatusResponse) bool { return res.Status.Terminal() },
	)
	if err != nil {
		return res, errors.WithMessagef(err, "polling status of %s", id)
	}
	s.Log().Infof("Transaction %s is %s", id, res.Status)
	return res, nil
}
