// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/fox"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/galileo"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/leo"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/puzzle"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/shield"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/chain"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/session"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/session/leveldb"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/setup"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/sim"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

const message = "Hello, Aleo!"

// newSim creates the simulated wallet from the config.
func newSim(cfg *setup.Config, network wallet.Network) (*sim.Wallet, error) {
	var (
		ks  *sim.KeyStore
		err error
	)
	if cfg.Sim.KeyStore != "" {
		ks, err = sim.CreateOrLoadKeyStore(cfg.Sim.KeyStore, rand.Reader)
	} else {
		ks, err = sim.NewRAMKeyStore(rand.Reader)
	}
	if err != nil {
		return nil, err
	}
	return sim.New(ks, sim.WithNetwork(network), sim.WithSettleDelay(cfg.Sim.SettleDelay))
}

// newAdapters injects w under every vendor name and creates the adapters.
func newAdapters(cfg *setup.Config, w *sim.Wallet) []wallet.Adapter {
	env := adapter.NewEnvironment(cfg.App.UserAgent)
	env.Inject(leo.GlobalName, w.Leo())
	env.Inject(puzzle.GlobalName, w.Puzzle())
	env.Inject(fox.GlobalName, w.Fox())
	env.Inject(galileo.GlobalName, w.Galileo())
	env.Inject(shield.GlobalName, w.Shield())

	acfg := cfg.AdapterConfig()
	return []wallet.Adapter{
		leo.New(env, acfg),
		puzzle.New(env, acfg),
		fox.New(env, acfg),
		galileo.New(env, acfg),
		shield.New(env, acfg),
	}
}

func newStore(cfg *setup.Config) (session.Store, func() error, error) {
	if cfg.Session.DB == "" {
		return session.NewMemoryStore(), func() error { return nil }, nil
	}
	db, err := leveldb.Open(cfg.Session.DB)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

// run connects the configured wallet, signs a message, executes a public
// transfer and waits for it to settle.
func run(ctx context.Context, cfg *setup.Config, out io.Writer) (err error) {
	network, err := cfg.Network()
	if err != nil {
		return err
	}
	perm, err := cfg.DecryptPermission()
	if err != nil {
		return err
	}

	w, err := newSim(cfg, network)
	if err != nil {
		return errors.WithMessage(err, "creating simulated wallet")
	}
	adapters := newAdapters(cfg, w)
	defer func() {
		for _, a := range adapters {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	store, closeStore, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sess := session.New(adapters,
		session.WithStore(store),
		session.WithNetwork(network),
		session.WithDecryptPermission(perm),
		session.WithPrograms(cfg.Wallet.Programs...),
		session.WithOnError(func(err error) { log.WithError(err).Warn("Wallet reported an error") }),
	)
	defer sess.Close()

	if cfg.Session.AutoConnect {
		sess.AutoConnect(ctx)
	}
	acc := sess.Snapshot().Account
	if acc == nil {
		if acc, err = sess.ConnectWallet(ctx, wallet.WalletName(cfg.Wallet.Name)); err != nil {
			return err
		}
	}
	st := sess.Snapshot()
	fmt.Fprintf(out, "Connected %s to %s as %s\n", st.Wallet, st.Network, acc.Address)

	sig, err := sess.SignMessage(ctx, []byte(message))
	if err != nil {
		return err
	}
	ok, err := sim.Verify(acc.Address, []byte(message), string(sig))
	if err != nil || !ok {
		return errors.Errorf("signature %s does not verify: %v", sig, err)
	}
	fmt.Fprintf(out, "Signed %q: %s\n", message, sig)

	recipient := cfg.Transfer.Recipient
	if recipient == "" {
		recipient = acc.Address
	}
	tx, err := sess.ExecuteTransaction(ctx, wallet.TransactionOptions{
		Program:  "credits.aleo",
		Function: "transfer_public",
		Inputs:   []string{recipient, fmt.Sprintf("%du64", cfg.Transfer.Amount)},
		Fee:      cfg.Transfer.Fee,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Submitted transfer of %s credits to %s: %s\n",
		wallet.MicrocreditsToCredits(cfg.Transfer.Amount), recipient, tx.TransactionID)

	opts := []chain.Option{chain.WithPolling(cfg.Chain.PollRetries, cfg.Chain.PollInterval)}
	if cfg.Chain.API != "" {
		opts = append(opts, chain.WithBaseURL(cfg.Chain.API))
	}
	status, err := chain.NewSession(network, opts...).PollTransactionStatus(ctx, sess, tx.TransactionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Transaction %s is %s\n", tx.TransactionID, status.Status)

	sess.Disconnect(ctx)
	fmt.Fprintln(out, "Disconnected")
	return nil
}
