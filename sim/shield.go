// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/shield"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Shield exposes the wallet as the Shield extension.
type Shield struct {
	*nativeSource
	w *Wallet
}

var _ shield.Provider = (*Shield)(nil)

// Shield returns a Shield facade of the wallet.
func (w *Wallet) Shield() *Shield {
	return &Shield{
		nativeSource: newNativeSource(w.events, func(ev string, payload any) any {
			switch ev {
			case NativeAccountChanged:
				address, _ := payload.(string)
				return shield.AccountChange{PublicKey: address}
			case NativeNetworkChanged:
				n, _ := payload.(wallet.Network)
				return shield.NetworkChange{Network: shield.NetworkNames[n]}
			}
			return payload
		}),
		w: w,
	}
}

func shieldError(err error) error {
	if errors.Is(err, ErrWrongNetwork) {
		return &shield.Error{Name: "NetworkMismatch", Message: err.Error()}
	}
	return err
}

func (s *Shield) PublicKey() string { return s.w.Address() }

func (s *Shield) Connect(_ context.Context, network, decryptPermission string, programs []string) error {
	n, ok := lookup(shield.NetworkNames, network)
	if !ok {
		return &shield.Error{Name: "InvalidParams", Message: "unsupported network " + network}
	}
	p, ok := lookup(shield.PermissionNames, decryptPermission)
	if !ok {
		return &shield.Error{Name: "InvalidParams", Message: "unsupported permission " + decryptPermission}
	}
	_, err := s.w.Connect(n, p, programs)
	return shieldError(err)
}

func (s *Shield) Disconnect(context.Context) error { return s.w.Disconnect() }

func (s *Shield) SignMessage(_ context.Context, message string) (*shield.SignatureResponse, error) {
	sig, err := s.w.Sign([]byte(message))
	if err != nil {
		return nil, err
	}
	return &shield.SignatureResponse{Signature: sig}, nil
}

func (s *Shield) Decrypt(_ context.Context, cipherText, _, _, _ string, _ *int) (*shield.DecryptResponse, error) {
	pt, err := s.w.Decrypt(cipherText)
	if err != nil {
		return nil, err
	}
	return &shield.DecryptResponse{Text: pt}, nil
}

func (s *Shield) RequestRecords(_ context.Context, program string) (*shield.RecordsResponse, error) {
	return s.records(program, false)
}

func (s *Shield) RequestRecordPlaintexts(_ context.Context, program string) (*shield.RecordsResponse, error) {
	return s.records(program, true)
}

func (s *Shield) records(program string, plaintext bool) (*shield.RecordsResponse, error) {
	recs, err := s.w.Records(program, plaintext)
	if err != nil {
		return nil, err
	}
	return &shield.RecordsResponse{Records: plainRecords(recs)}, nil
}

func (s *Shield) RequestTransaction(_ context.Context, tx *shield.Transaction) (*shield.TransactionResponse, error) {
	if len(tx.Transitions) != 1 {
		return nil, &shield.Error{Name: "InvalidParams", Message: "expected one transition"}
	}
	t := tx.Transitions[0]
	id, err := s.w.Execute(t.Program, t.FunctionName, t.Inputs, tx.Fee)
	if err != nil {
		return nil, err
	}
	return &shield.TransactionResponse{TransactionID: id}, nil
}

func (s *Shield) RequestDeploy(_ context.Context, dep *shield.Deployment) (*shield.TransactionResponse, error) {
	id, err := s.w.Deploy(dep.Program, dep.Fee)
	if err != nil {
		return nil, err
	}
	return &shield.TransactionResponse{TransactionID: id}, nil
}

func (s *Shield) TransactionStatus(_ context.Context, txID string) (*shield.StatusResponse, error) {
	st, err := s.w.Status(txID)
	if err != nil {
		return nil, err
	}
	return &shield.StatusResponse{Status: string(st)}, nil
}

func (s *Shield) SwitchNetwork(_ context.Context, network string) error {
	n, ok := lookup(shield.NetworkNames, network)
	if !ok {
		return &shield.Error{Name: "InvalidParams", Message: "unsupported network " + network}
	}
	return s.w.SwitchNetwork(n)
}

func (s *Shield) RequestTransactionHistory(_ context.Context, program string) (*shield.HistoryResponse, error) {
	entries, err := s.w.History(program)
	if err != nil {
		return nil, err
	}
	resp := &shield.HistoryResponse{Transactions: make([]shield.HistoryItem, len(entries))}
	for i, e := range entries {
		resp.Transactions[i] = shield.HistoryItem{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Program:       e.Program,
			FunctionName:  e.Function,
			Status:        string(e.Status),
		}
	}
	return resp, nil
}

func (s *Shield) TransitionViewKeys(_ context.Context, txID string) (*shield.ViewKeysResponse, error) {
	keys, err := s.w.ViewKeys(txID)
	if err != nil {
		return nil, err
	}
	return &shield.ViewKeysResponse{ViewKeys: keys}, nil
}
