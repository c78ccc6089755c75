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

// Package puzzle adapts the Puzzle wallet SDK.
package puzzle // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/puzzle"

import (
	"context"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Name is the display name of the Puzzle wallet.
const Name wallet.WalletName = "Puzzle Wallet"

const deepLinkBase = "https://jigsaw.puzzle.online/browser?url="

// Adapter is the wallet.Adapter for Puzzle. Puzzle cannot deploy programs,
// switch networks or return transition view keys.
type Adapter struct {
	*adapter.Base

	cfg    wallet.Config
	client adapter.Slot[Client]
}

var _ wallet.Adapter = (*Adapter)(nil)

// New creates a Puzzle adapter and starts looking for the SDK client.
func New(l adapter.Locator, cfg wallet.Config, opts ...adapter.Option) *Adapter {
	a := &Adapter{
		Base: adapter.NewBase(wallet.WalletInfo{
			Name: Name,
			URL:  "https://puzzle.online",
			Icon: "https://puzzle.online/icon.svg",
		}),
		cfg: cfg,
	}
	d := adapter.NewDetectOptions(l, cfg, []string{GlobalName}, deepLinkBase, opts...)
	a.SetDeepLink(d.DeepLink)
	a.Detect(d, a.client.Accept)
	return a
}

func (a *Adapter) Connect(ctx context.Context, network wallet.Network, permission wallet.DecryptPermission, programs []string) (*wallet.Account, error) {
	c, ok := a.client.Get()
	if err := a.RequireProvider(ok); err != nil {
		return nil, err
	}
	name, ok := NetworkNames[network]
	if !ok {
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s does not support %v", Name, network))
	}

	if len(programs) == 0 {
		programs = a.cfg.ProgramIDPermissions[network]
	}
	resp, err := c.Connect(ctx, &ConnectRequest{
		DAppInfo: DAppInfo{
			Name:        a.cfg.AppName,
			Description: a.cfg.AppDescription,
			IconURL:     a.cfg.AppIconURL,
		},
		Permissions: Permissions{ProgramIDs: map[string][]string{name: programs}},
	})
	switch {
	case err != nil:
		return nil, a.Translate(err, wallet.KindConnection)
	case resp == nil:
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s returned no connection", Name))
	case resp.Error != "":
		return nil, a.Fail(wallet.NewError(wallet.KindConnection, resp.Error, nil))
	case resp.Connection.Address == "":
		return nil, a.Fail(wallet.Errorf(wallet.KindConnection, "%s returned no address", Name))
	}

	if n, ok := networkOf(resp.Connection.Network); ok {
		network = n
	}
	return a.SetConnected(&wallet.Account{Address: resp.Connection.Address}, network, permission), nil
}

func networkOf(name string) (wallet.Network, bool) {
	for n, v := range NetworkNames {
		if v == name {
			return n, true
		}
	}
	return 0, false
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	var err error
	if c, ok := a.client.Get(); ok && a.Connected() {
		err = c.Disconnect(ctx)
	}
	if err != nil {
		err = a.Fail(wallet.NewError(wallet.KindDisconnection, err.Error(), err))
	}
	a.ClearAccount()
	return err
}

func (a *Adapter) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	c, _ := a.client.Get()
	resp, err := c.RequestSignature(ctx, &SignatureRequest{Message: string(msg), Address: acc.Address})
	switch {
	case err != nil:
		return nil, a.Translate(err, wallet.KindSignMessage)
	case resp == nil || resp.Error != "" || resp.Signature == "":
		return nil, a.Fail(wallet.NewError(wallet.KindSignMessage, responseError(resp), nil))
	}
	return []byte(resp.Signature), nil
}

func (a *Adapter) Decrypt(ctx context.Context, req wallet.DecryptRequest) (string, error) {
	if err := a.GuardDecrypt(); err != nil {
		return "", err
	}
	c, _ := a.client.Get()
	resp, err := c.Decrypt(ctx, &DecryptRequest{Ciphertexts: []string{req.CipherText}})
	switch {
	case err != nil:
		return "", a.Translate(err, wallet.KindDecryption)
	case resp == nil || resp.Error != "" || len(resp.Plaintexts) == 0:
		return "", a.Fail(wallet.NewError(wallet.KindDecryption, responseError(resp), nil))
	}
	return resp.Plaintexts[0], nil
}

func (a *Adapter) RequestRecords(ctx context.Context, program string, _ bool) ([]wallet.Record, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	c, _ := a.client.Get()
	resp, err := c.GetRecords(ctx, &RecordsRequest{
		Address: acc.Address,
		Filter:  &RecordsFilter{ProgramIDs: []string{program}, Status: "Unspent"},
	})
	switch {
	case err != nil:
		return nil, a.Translate(err, wallet.KindRecords)
	case resp == nil:
		return []wallet.Record{}, nil
	case resp.Error != "":
		return nil, a.Fail(wallet.NewError(wallet.KindRecords, resp.Error, nil))
	}
	records := make([]wallet.Record, len(resp.Records))
	for i, r := range resp.Records {
		records[i] = r
	}
	return records, nil
}

// ExecuteTransaction creates a Puzzle execute event. The returned id is the
// Puzzle event id, which TransactionStatus accepts.
func (a *Adapter) ExecuteTransaction(ctx context.Context, opts wallet.TransactionOptions) (*wallet.TransactionResult, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, a.Translate(err, wallet.KindTransaction)
	}
	c, _ := a.client.Get()
	resp, err := c.RequestCreateEvent(ctx, &CreateEventRequest{
		Type:       EventExecute,
		Address:    acc.Address,
		ProgramID:  opts.Program,
		FunctionID: opts.Function,
		Fee:        opts.FeeCredits(),
		Inputs:     opts.Inputs,
	})
	switch {
	case err != nil:
		return nil, a.Translate(err, wallet.KindTransaction)
	case resp == nil || resp.Error != "" || resp.EventID == "":
		return nil, a.Fail(wallet.NewError(wallet.KindTransaction, createError(resp), nil))
	}
	return &wallet.TransactionResult{TransactionID: resp.EventID}, nil
}

func createError(resp *CreateEventResponse) string {
	if resp == nil || resp.Error == "" {
		return string(Name) + " returned no event id"
	}
	return resp.Error
}

func (a *Adapter) ExecuteDeployment(context.Context, wallet.Deployment) (*wallet.TransactionResult, error) {
	return nil, a.NotImplemented("executeDeployment")
}

// TransactionStatus looks up a Puzzle event. The response carries the Aleo
// transaction id once the event has one.
func (a *Adapter) TransactionStatus(ctx context.Context, id string) (*wallet.TransactionStatusResponse, error) {
	acc, err := a.RequireConnected()
	if err != nil {
		return nil, err
	}
	c, _ := a.client.Get()
	resp, err := c.GetEvent(ctx, &EventRequest{ID: id, Address: acc.Address})
	switch {
	case err != nil:
		return nil, a.Translate(err, wallet.KindTransaction)
	case resp == nil || resp.Error != "" || resp.Event == nil:
		return nil, a.Fail(wallet.NewError(wallet.KindTransaction, eventError(resp, id), nil))
	}
	txID := resp.Event.TransactionID
	if txID == "" {
		txID = id
	}
	return &wallet.TransactionStatusResponse{
		Status:        wallet.ParseTransactionStatus(resp.Event.Status),
		TransactionID: txID,
	}, nil
}

func eventError(resp *EventResponse, id string) string {
	if resp == nil || resp.Error == "" {
		return "unknown event " + id
	}
	return resp.Error
}

func (a *Adapter) SwitchNetwork(context.Context, wallet.Network) error {
	return a.NotImplemented("switchNetwork")
}

func (a *Adapter) RequestTransactionHistory(ctx context.Context, program string) ([]wallet.TransactionHistoryEntry, error) {
	if _, err := a.RequireConnected(); err != nil {
		return nil, err
	}
	c, _ := a.client.Get()
	resp, err := c.GetEvents(ctx, &EventsRequest{Filter: EventsFilter{ProgramID: program}})
	switch {
	case err != nil:
		return nil, a.Translate(err, wallet.KindTransactionHistory)
	case resp == nil:
		return []wallet.TransactionHistoryEntry{}, nil
	case resp.Error != "":
		return nil, a.Fail(wallet.NewError(wallet.KindTransactionHistory, resp.Error, nil))
	}
	entries := make([]wallet.TransactionHistoryEntry, len(resp.Events))
	for i, ev := range resp.Events {
		entries[i] = wallet.TransactionHistoryEntry{
			ID:            ev.ID,
			TransactionID: ev.TransactionID,
			Program:       ev.ProgramID,
			Function:      ev.FunctionID,
			Status:        wallet.ParseTransactionStatus(ev.Status),
		}
	}
	return entries, nil
}

func (a *Adapter) TransitionViewKeys(context.Context, string) ([]string, error) {
	return nil, a.NotImplemented("transitionViewKeys")
}

// responseError returns the error of a Puzzle response or a generic message.
func responseError(resp interface{}) string {
	switch r := resp.(type) {
	case *SignatureResponse:
		if r != nil && r.Error != "" {
			return r.Error
		}
	case *DecryptResponse:
		if r != nil && r.Error != "" {
			return r.Error
		}
	}
	return string(Name) + " returned an empty response"
}
