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

// Package galileo adapts the Galileo wallet extension.
package galileo // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/galileo"

import (
	"context"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Name is the display name of the Galileo wallet.
const Name wallet.WalletName = "Galileo Wallet"

// Adapter is the wallet.Adapter for Galileo. While connected it listens to
// the provider's accountChanged, networkChanged and disconnect events.
type Adapter struct {
	*adapter.Base

	provider adapter.Slot[Provider]
	native   adapter.NativeBindings
}

var _ wallet.Adapter = (*Adapter)(nil)

// New creates a Galileo adapter and starts looking for the extension.
func New(l adapter.Locator, cfg wallet.Config, opts ...adapter.Option) *Adapter {
	a := &Adapter{
		Base: adapter.NewBase(wallet.WalletInfo{
			Name: Name,
			URL:  "https://provable.com/galileo",
			Icon: "https://provable.com/galileo/icon.svg",
		}),
	}
	a.Closer().OnClose(a.native.Unbind)
	// Galileo has no in-app browser to deep link into, so mobile stays NotDetected.
	a.Detect(adapter.NewDetectOptions(l, cfg, []string{GlobalName}, "", opts...), a.provider.Accept)
	return a
}

// NativeListeners returns the number of listeners registered on the
// provider.
func (a *Adapter) NativeListeners() int { return a.native.Len() }

func (a *Adapter) Connect(ctx context.Context, network wallet.Network, permission wallet.DecryptPermission, programs []string) (*wallet.Account, error) {
	p, ok := a.provider.Get()
	if err := a.RequireProvider(ok); err != nil {
		return nil, err
	}
	resp, err := p.Connect(ctx, &ConnectRequest{
		Network:           NetworkNames[network],
		DecryptPermission: PermissionNames[permission],
		Programs:          programs,
	})
	if err != nil {
		return nil, a.Translate(err, wallet.KindConnection)
	}
	if resp == nil || resp.Address == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s returned no address", Name))
	}

	acc := a.SetConnected(&wallet.Account{Address: resp.Address}, network, permission)
	a.native.Bind(p, map[string]func(any){
		EventAccountChanged: a.onAccountChanged,
		EventNetworkChanged: a.onNetworkChanged,
		EventDisconnect:     func(any) { a.onDisconnect() },
	})
	return acc, nil
}

func (a *Adapter) onAccountChanged(payload any) {
	address, _ := payload.(string)
	if address == "" {
		a.onDisconnect()
		return
	}
	a.SetAccount(&wallet.Account{Address: address})
}

func (a *Adapter) onNetworkChanged(payload any) {
	name, _ := payload.(string)
	for n, v := range NetworkNames {
		if v == name {
			a.SetNetwork(n)
			return
		}
	}
	a.Log().Warnf("Ignoring change to unknown network %q", name)
}

func (a *Adapter) onDisconnect() {
	a.native.Unbind()
	a.ClearAccount()
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	a.native.Unbind()
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
	sig, err := p.SignMessage(ctx, msg)
	if err != nil {
		return nil, a.Translate(err, wallet.KindSignMessage)
	}
	if len(sig) == 0 {
		return nil, a.Fail(wallet.Errorf(wallet.KindSignMessage, "%s returned no signature", Name))
	}
	return sig, nil
}

func (a *Adapter) Decrypt(ctx context.Context, req wallet.DecryptRequest) (string, error) {
	if err := a.GuardDecrypt(); err != nil {
		return "", err
	}
	p, _ := a.provider.Get()
	text, err := p.Decrypt(ctx, &DecryptRequest{
		CipherText:   req.CipherText,
		TPK:          req.TPK,
		ProgramID:    req.ProgramID,
		FunctionName: req.FunctionName,
		Index:        req.Index,
	})
	if err != nil {
		return "", a.Translate(err, wallet.KindDecryption)
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
		return nil, a.Translate(err, wallet.KindRecords)
	}
	records := make([]wallet.Record, len(recs))
	for i, r := range recs {
		records[i] = r
	}
	return records, nil
}

func (a *Adapter) ExecuteTransaction(ctx context.Context, opts wallet.TransactionOptions) (*wallet.TransactionResult, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, a.Translate(err, wallet.KindTransaction)
	}
	p, _ := a.provider.Get()
	resp, err := p.ExecuteTransaction(ctx, &TransactionRequest{
		Program:    opts.Program,
		Function:   opts.Function,
		Inputs:     opts.Inputs,
		Fee:        opts.Fee,
		PrivateFee: opts.PrivateFee,
	})
	return a.result(resp, err)
}

func (a *Adapter) ExecuteDeployment(ctx context.Context, dep wallet.Deployment) (*wallet.TransactionResult, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	resp, err := p.ExecuteDeployment(ctx, &DeploymentRequest{
		Program:    dep.Program,
		Fee:        dep.Fee,
		PrivateFee: dep.PrivateFee,
	})
	return a.result(resp, err)
}

func (a *Adapter) result(resp *TransactionResponse, err error) (*wallet.TransactionResult, error) {
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransaction)
	}
	if resp == nil || resp.TransactionID == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindTransaction, "%s returned no transaction id", Name))
	}
	return &wallet.TransactionResult{TransactionID: resp.TransactionID}, nil
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
		Error:         resp.Error,
	}, nil
}

// SwitchNetwork asks Galileo to change the network. The new network is
// applied immediately; the networkChanged event the provider emits
// afterwards is then a no-op.
func (a *Adapter) SwitchNetwork(ctx context.Context, network wallet.Network) error {
	if _, err := a.RequireConnected(); err != nil {
		return err
	}
	name, ok := NetworkNames[network]
	if !ok {
		return a.Fail(wallet.Errorf(wallet.KindSwitchNetwork, "unknown network %v", network))
	}
	p, _ := a.provider.Get()
	if err := p.SwitchNetwork(ctx, name); err != nil {
		return a.Translate(err, wallet.KindSwitchNetwork)
	}
	a.SetNetwork(network)
	return nil
}

func (a *Adapter) RequestTransactionHistory(ctx context.Context, program string) ([]wallet.TransactionHistoryEntry, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	items, err := p.RequestTransactionHistory(ctx, program)
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransactionHistory)
	}
	entries := make([]wallet.TransactionHistoryEntry, len(items))
	for i, it := range items {
		entries[i] = wallet.TransactionHistoryEntry{
			ID:            it.ID,
			TransactionID: it.TransactionID,
			Program:       it.Program,
			Function:      it.Function,
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
	keys, err := p.TransitionViewKeys(ctx, txID)
	if err != nil {
		return nil, a.Translate(err, wallet.KindTransitionViewKeys)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
