// Copyright 2024 - See NOTICE file for copyright holders.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package leo adapts the Leo wallet browser extension.
package leo // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/leo"

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Name is the display name of the Leo wallet.
const Name wallet.WalletName = "Leo Wallet"

const deepLinkBase = "https://app.leo.app/browser?url="

// Adapter is the wallet.Adapter for Leo. Leo cannot deploy programs or
// switch networks.
type Adapter struct {
	*adapter.Base

	provider adapter.Slot[Provider]
}

var _ wallet.Adapter = (*Adapter)(nil)

// New creates a Leo adapter and starts looking for the extension.
func New(l adapter.Locator, cfg wallet.Config, opts ...adapter.Option) *Adapter {
	a := &Adapter{
		Base: adapter.NewBase(wallet.WalletInfo{
			Name: Name,
			URL:  "https://app.leo.app",
			Icon: "https://app.leo.app/icon.svg",
		}),
	}
	d := adapter.NewDetectOptions(l, cfg, []string{GlobalName, LegacyGlobalName}, deepLinkBase, opts...)
	a.SetDeepLink(d.DeepLink)
	a.Detect(d, a.provider.Accept)
	return a
}

func (a *Adapter) Connect(ctx context.Context, network wallet.Network, permission wallet.DecryptPermission, programs []string) (*wallet.Account, error) {
	p, ok := a.provider.Get()
	if err := a.RequireProvider(ok); err != nil {
		return nil, err
	}

	if err := p.Connect(ctx, PermissionNames[permission], NetworkNames[network], programs); err != nil {
		return nil, a.Fail(translateConnect(err, network))
	}

	address := p.PublicKey()
	if address == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s returned no address", Name))
	}
	return a.SetConnected(&wallet.Account{Address: address}, network, permission), nil
}

// translateConnect explains Leo's connect rejections.
func translateConnect(err error, network wallet.Network) *wallet.Error {
	var lerr *Error
	if !errors.As(err, &lerr) {
		return wallet.AsError(err, wallet.KindConnection)
	}
	switch lerr.Name {
	case ErrInvalidParams:
		return wallet.NewError(wallet.KindConnection,
			"connection rejected with invalid parameters, the wallet is probably not on "+NetworkNames[network], err)
	case ErrNotGranted:
		return wallet.NewError(wallet.KindConnection, "connection not granted by the user", err)
	case ErrWindowClosed:
		return wallet.NewError(wallet.KindWindowClosed, lerr.Error(), err)
	}
	return wallet.NewError(wallet.KindConnection, lerr.Error(), err)
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
	resp, err := p.SignMessage(ctx, msg)
	if err != nil {
		return nil, a.Translate(err, wallet.KindSignMessage)
	}
	if resp == nil || len(resp.Signature) == 0 {
		return nil, a.Fail(wallet.Errorf(wallet.KindSignMessage, "%s returned no signature", Name))
	}
	return resp.Signature, nil
}

func (a *Adapter) Decrypt(ctx context.Context, req wallet.DecryptRequest) (string, error) {
	if err := a.GuardDecrypt(); err != nil {
		return "", err
	}
	p, _ := a.provider.Get()
	resp, err := p.Decrypt(ctx, req.CipherText, req.TPK, req.ProgramID, req.FunctionName, req.Index)
	if err != nil {
		return "", a.Translate(err, wallet.KindDecryption)
	}
	if resp == nil {
		return "", a.Fail(wallet.Errorf(wallet.KindDecryption, "%s returned no plaintext", Name))
	}
	return resp.Text, nil
}

func (a *Adapter) RequestRecords(ctx context.Context, program string, includePlaintext bool) ([]wallet.Record, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	request := p.RequestRecords
	if includePlaintext {
		request = p.RequestRecordPlaintexts
	}
	resp, err := request(ctx, program)
	if err != nil {
		return nil, a.Translate(err, wallet.KindRecords)
	}
	if resp == nil {
		return []wallet.Record{}, nil
	}
	records := make([]wallet.Record, len(resp.Records))
	for i, r := range resp.Records {
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
	resp, err := p.RequestTransaction(ctx, &Transaction{
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
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransaction)
	}
	if resp == nil || resp.TransactionID == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindTransaction, "%s returned no transaction id", Name))
	}
	return &wallet.TransactionResult{TransactionID: resp.TransactionID}, nil
}

func (a *Adapter) ExecuteDeployment(context.Context, wallet.Deployment) (*wallet.TransactionResult, error) {
	return nil, a.NotImplemented("executeDeployment")
}

func (a *Adapter) TransactionStatus(ctx context.Context, id string) (*wallet.TransactionStatusResponse, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	resp, err := p.TransactionStatus(ctx, id)
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransaction)
	}
	if resp == nil {
		return nil, a.Fail(wallet.Errorf(wallet.KindTransaction, "%s returned no status for %s", Name, id))
	}
	return &wallet.TransactionStatusResponse{
		Status:        wallet.ParseTransactionStatus(resp.Status),
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
	resp, err := p.RequestTransactionHistory(ctx, program)
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransactionHistory)
	}
	if resp == nil {
		return []wallet.TransactionHistoryEntry{}, nil
	}
	entries := make([]wallet.TransactionHistoryEntry, len(resp.Transactions))
	for i, tx := range resp.Transactions {
		entries[i] = wallet.TransactionHistoryEntry{
			ID:            tx.ID,
			TransactionID: tx.TransactionID,
			Program:       tx.Program,
			Function:      tx.FunctionName,
			Status:        wallet.ParseTransactionStatus(tx.Status),
		}
	}
	return entries, nil
}

func (a *Adapter) TransitionViewKeys(ctx context.Context, txID string) ([]string, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	resp, err := p.TransitionViewKeys(ctx, txID)
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransitionViewKeys)
	}
	if resp == nil {
		return []string{}, nil
	}
	return resp.ViewKeys, nil
}
