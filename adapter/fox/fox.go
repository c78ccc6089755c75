// SPDX-License-Identifier: Apache-2.0

// Package fox adapts the FoxWallet Aleo provider.
package fox // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/fox"

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Name is the display name of FoxWallet.
const Name wallet.WalletName = "Fox Wallet"

const deepLinkBase = "foxwallet://dapp?url="

// Adapter is the wallet.Adapter for FoxWallet. FoxWallet cannot switch
// networks.
type Adapter struct {
	*adapter.Base

	provider adapter.Slot[Provider]
}

var _ wallet.Adapter = (*Adapter)(nil)

// New creates a FoxWallet adapter and starts looking for the provider.
func New(l adapter.Locator, cfg wallet.Config, opts ...adapter.Option) *Adapter {
	a := &Adapter{
		Base: adapter.NewBase(wallet.WalletInfo{
			Name: Name,
			URL:  "https://foxwallet.com",
			Icon: "https://foxwallet.com/icon.svg",
		}),
	}
	d := adapter.NewDetectOptions(l, cfg, []string{GlobalName}, deepLinkBase, opts...)
	a.SetDeepLink(d.DeepLink)
	a.Detect(d, a.provider.Accept)
	return a
}

// translate maps FoxWallet's user rejection to WalletWindowClosedError and
// everything else to fallback.
func (a *Adapter) translate(err error, fallback wallet.ErrorKind) error {
	var ferr *Error
	if errors.As(err, &ferr) && ferr.Code == ErrCodeUserRejected {
		return a.Fail(wallet.NewError(wallet.KindWindowClosed, ferr.Message, err))
	}
	return a.Translate(err, fallback)
}

func (a *Adapter) Connect(ctx context.Context, network wallet.Network, permission wallet.DecryptPermission, programs []string) (*wallet.Account, error) {
	p, ok := a.provider.Get()
	if err := a.RequireProvider(ok); err != nil {
		return nil, err
	}
	resp, err := p.Connect(ctx, PermissionNames[permission], NetworkNames[network], programs)
	if err != nil {
		return nil, a.translate(err, wallet.KindConnection)
	}
	if resp == nil || resp.Address == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s returned no address", Name))
	}
	return a.SetConnected(&wallet.Account{Address: resp.Address}, network, permission), nil
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	var err error
	if p, ok := a.provider.Get(); ok && a.Connected() {
		err = p.Disconnect(ctx)
	}
	if err != nil {
		err = a.Fail(wallet.NewError(wallet.KindDisconnection, err.Error(), err))
	}
	a.ClearAccount()
	return err
}

func (a *Adapter) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	resp, err := p.SignMessage(ctx, string(msg))
	if err != nil {
		return nil, a.translate(err, wallet.KindSignMessage)
	}
	if resp == nil || resp.Signature == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindSignMessage, "%s returned no signature", Name))
	}
	return []byte(resp.Signature), nil
}

func (a *Adapter) Decrypt(ctx context.Context, req wallet.DecryptRequest) (string, error) {
	if err := a.GuardDecrypt(); err != nil {
		return "", err
	}
	p, _ := a.provider.Get()
	text, err := p.Decrypt(ctx, req.CipherText, req.TPK, req.ProgramID, req.FunctionName, req.Index)
	if err != nil {
		return "", a.translate(err, wallet.KindDecryption)
	}
	return text, nil
}

func (a *Adapter) RequestRecords(ctx context.Context, program string, includePlaintext bool) ([]wallet.Record, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	recs, err := p.RequestRecords(ctx, program, includePlaintext)
	if err != nil {
		return nil, a.translate(err, wallet.KindRecords)
	}
	records := make([]wallet.Record, len(recs))
	for i, r := range recs {
		records[i] = r
	}
	return records, nil
}

func (a *Adapter) ExecuteTransaction(ctx context.Context, opts wallet.TransactionOptions) (*wallet.TransactionResult, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, a.Translate(err, wallet.KindTransaction)
	}
	p, _ := a.provider.Get()
	id, err := p.RequestTransaction(ctx, &Transaction{
		Address: acc.Address,
		ChainID: NetworkNames[a.Network()],
		Transitions: []Transition{{
			Program:      opts.Program,
			FunctionName: opts.Function,
			Inputs:       opts.Inputs,
		}},
		Fee:        opts.Fee,
		FeePrivate: opts.PrivateFee,
	})
	return a.result(id, err)
}

func (a *Adapter) ExecuteDeployment(ctx context.Context, dep wallet.Deployment) (*wallet.TransactionResult, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	id, err := p.RequestDeploy(ctx, &Deployment{
		Address:    acc.Address,
		ChainID:    NetworkNames[a.Network()],
		Program:    dep.Program,
		Fee:        dep.Fee,
		FeePrivate: dep.PrivateFee,
	})
	return a.result(id, err)
}

func (a *Adapter) result(id string, err error) (*wallet.TransactionResult, error) {
	if err != nil {
		return nil, a.translate(err, wallet.KindTransaction)
	}
	if id == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindTransaction, "%s returned no transaction id", Name))
	}
	return &wallet.TransactionResult{TransactionID: id}, nil
}

func (a *Adapter) TransactionStatus(ctx context.Context, id string) (*wallet.TransactionStatusResponse, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	status, err := p.GetTransactionStatus(ctx, id)
	if err != nil {
		return nil, a.translate(err, wallet.KindTransaction)
	}
	return &wallet.TransactionStatusResponse{
		Status:        wallet.ParseTransactionStatus(status),
		TransactionID: id,
	}, nil
}

func (a *Adapter) SwitchNetwork(context.Context, wallet.Network) error {
	return a.NotImplemented("switchNetwork")
}

func (a *Adapter) RequestTransactionHistory(ctx context.Context, program string) ([]wallet.TransactionHistoryEntry, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	items, err := p.RequestTransactionHistory(ctx, program)
	if err != nil {
		return nil, a.translate(err, wallet.KindTransactionHistory)
	}
	entries := make([]wallet.TransactionHistoryEntry, len(items))
	for i, it := range items {
		entries[i] = wallet.TransactionHistoryEntry{
			ID:            it.ID,
			TransactionID: it.TransactionID,
			Program:       it.Program,
			Function:      it.FunctionName,
			Status:        wallet.ParseTransactionStatus(it.Status),
		}
	}
	return entries, nil
}

func (a *Adapter) TransitionViewKeys(ctx context.Context, txID string) ([]string, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	keys, err := p.GetTransitionViewKeys(ctx, txID)
	if err != nil {
		return nil, a.translate(err, wallet.KindTransitionViewKeys)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
