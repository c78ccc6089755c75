// SPDX-License-Identifier: Apache-2.0

// Package shield adapts the Shield wallet extension.
package shield // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/shield"

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Name is the display name of the Shield wallet.
const Name wallet.WalletName = "Shield Wallet"

// Adapter is the wallet.Adapter for Shield. Like Galileo it follows the
// provider's account, network and disconnect events while connected.
type Adapter struct {
	*adapter.Base

	provider adapter.Slot[Provider]
	native   adapter.NativeBindings
}

var _ wallet.Adapter = (*Adapter)(nil)

// New creates a Shield adapter and starts looking for the extension.
func New(l adapter.Locator, cfg wallet.Config, opts ...adapter.Option) *Adapter {
	a := &Adapter{
		Base: adapter.NewBase(wallet.WalletInfo{
			Name: Name,
			URL:  "https://shield.app",
			Icon: "https://shield.app/icon.svg",
		}),
	}
	a.Closer().OnClose(a.native.Unbind)
	// Shield has no in-app browser to deep link into, so mobile stays NotDetected.
	a.Detect(adapter.NewDetectOptions(l, cfg, []string{GlobalName}, "", opts...), a.provider.Accept)
	return a
}

// NativeListeners returns the number of listeners registered on the
// provider.
func (a *Adapter) NativeListeners() int { return a.native.Len() }

func (a *Adapter) translate(err error, fallback wallet.ErrorKind) error {
	var serr *Error
	if errors.As(err, &serr) && serr.Name == ErrRejected {
		return a.Fail(wallet.NewError(wallet.KindWindowClosed, serr.Error(), err))
	}
	return a.Translate(err, fallback)
}

func (a *Adapter) Connect(ctx context.Context, network wallet.Network, permission wallet.DecryptPermission, programs []string) (*wallet.Account, error) {
	p, ok := a.provider.Get()
	if err := a.RequireProvider(ok); err != nil {
		return nil, err
	}
	if err := p.Connect(ctx, NetworkNames[network], PermissionNames[permission], programs); err != nil {
		return nil, a.translate(err, wallet.KindConnection)
	}
	address := p.PublicKey()
	if address == "" {
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s returned no address", Name))
	}

	acc := a.SetConnected(&wallet.Account{Address: address}, network, permission)
	a.native.Bind(p, map[string]func(any){
		EventAccountChanged: a.onAccountChanged,
		EventNetworkChanged: a.onNetworkChanged,
		EventDisconnect:     func(any) { a.onDisconnect() },
	})
	return acc, nil
}

func (a *Adapter) onAccountChanged(payload any) {
	change, _ := payload.(AccountChange)
	if change.PublicKey == "" {
		a.onDisconnect()
		return
	}
	a.SetAccount(&wallet.Account{Address: change.PublicKey})
}

func (a *Adapter) onNetworkChanged(payload any) {
	change, _ := payload.(NetworkChange)
	for n, v := range NetworkNames {
		if v == change.Network {
			a.SetNetwork(n)
			return
		}
	}
	a.Log().Warnf("Ignoring change to unknown network %q", change.Network)
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
	resp, err := p.Decrypt(ctx, req.CipherText, req.TPK, req.ProgramID, req.FunctionName, req.Index)
	if err != nil {
		return "", a.translate(err, wallet.KindDecryption)
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
		return nil, a.translate(err, wallet.KindRecords)
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
	return a.result(resp, err)
}

func (a *Adapter) ExecuteDeployment(ctx context.Context, dep wallet.Deployment) (*wallet.TransactionResult, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	resp, err := p.RequestDeploy(ctx, &Deployment{
		Address:    acc.Address,
		ChainID:    NetworkNames[a.Network()],
		Program:    dep.Program,
		Fee:        dep.Fee,
		FeePrivate: dep.PrivateFee,
	})
	return a.result(resp, err)
}

func (a *Adapter) result(resp *TransactionResponse, err error) (*wallet.TransactionResult, error) {
	if err != nil {
		return nil, a.translate(err, wallet.KindTransaction)
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
		return nil, a.translate(err, wallet.KindTransaction)
	}
	if resp == nil {
		return nil, a.Fail(wallet.Errorf(wallet.KindTransaction, "%s returned no status for %s", Name, id))
	}
	return &wallet.TransactionStatusResponse{
		Status:        wallet.ParseTransactionStatus(resp.Status),
		TransactionID: id,
	}, nil
}

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
		return a.translate(err, wallet.KindSwitchNetwork)
	}
	a.SetNetwork(network)
	return nil
}

func (a *Adapter) RequestTransactionHistory(ctx context.Context, program string) ([]wallet.TransactionHistoryEntry, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	p, _ := a.provider.Get()
	resp, err := p.RequestTransactionHistory(ctx, program)
	if err != nil {
		return nil, a.translate(err, wallet.KindTransactionHistory)
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
		return nil, a.translate(err, wallet.KindTransitionViewKeys)
	}
	if resp == nil {
		return []string{}, nil
	}
	return resp.ViewKeys, nil
}
