// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/fox"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Fox exposes the wallet as the FoxWallet Aleo provider.
type Fox struct{ w *Wallet }

var _ fox.Provider = (*Fox)(nil)

// Fox returns the wallet's FoxWallet facade.
func (w *Wallet) Fox() *Fox { return &Fox{w: w} }

func foxError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotConnected), errors.Is(err, ErrWrongNetwork):
		return &fox.Error{Code: -32000, Message: err.Error()}
	}
	return err
}

func (f *Fox) Connect(_ context.Context, decryptPermission, network string, programs []string) (*fox.ConnectResponse, error) {
	n, ok := lookup(fox.NetworkNames, network)
	if !ok {
		return nil, &fox.Error{Code: -32602, Message: "unsupported network " + network}
	}
	p, ok := lookup(fox.PermissionNames, decryptPermission)
	if !ok {
		return nil, &fox.Error{Code: -32602, Message: "unsupported permission " + decryptPermission}
	}
	address, err := f.w.Connect(n, p, programs)
	if err != nil {
		return nil, foxError(err)
	}
	return &fox.ConnectResponse{Address: address}, nil
}

func (f *Fox) Disconnect(context.Context) error {
	return foxError(f.w.Disconnect())
}

func (f *Fox) SignMessage(_ context.Context, message string) (*fox.SignatureResponse, error) {
	sig, err := f.w.Sign([]byte(message))
	if err != nil {
		return nil, foxError(err)
	}
	return &fox.SignatureResponse{Signature: sig}, nil
}

func (f *Fox) Decrypt(_ context.Context, cipherText, _, _, _ string, _ *int) (string, error) {
	pt, err := f.w.Decrypt(cipherText)
	return pt, foxError(err)
}

func (f *Fox) RequestRecords(_ context.Context, program string, plaintext bool) ([]map[string]any, error) {
	recs, err := f.w.Records(program, plaintext)
	if err != nil {
		return nil, foxError(err)
	}
	return plainRecords(recs), nil
}

func (f *Fox) RequestTransaction(_ context.Context, tx *fox.Transaction) (string, error) {
	if len(tx.Transitions) != 1 {
		return "", &fox.Error{Code: -32602, Message: "expected one transition"}
	}
	t := tx.Transitions[0]
	id, err := f.w.Execute(t.Program, t.FunctionName, t.Inputs, tx.Fee)
	return id, foxError(err)
}

func (f *Fox) RequestDeploy(_ context.Context, dep *fox.Deployment) (string, error) {
	id, err := f.w.Deploy(dep.Program, dep.Fee)
	return id, foxError(err)
}

func (f *Fox) GetTransactionStatus(_ context.Context, txID string) (string, error) {
	s, err := f.w.Status(txID)
	if err != nil {
		return "", foxError(err)
	}
	return foxStatus(s), nil
}

func foxStatus(s wallet.TransactionStatus) string {
	if s == wallet.Accepted {
		return "Finalized"
	}
	return string(s)
}

func (f *Fox) RequestTransactionHistory(_ context.Context, program string) ([]fox.HistoryItem, error) {
	entries, err := f.w.History(program)
	if err != nil {
		return nil, foxError(err)
	}
	items := make([]fox.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = fox.HistoryItem{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Program:       e.Program,
			FunctionName:  e.Function,
			Status:        foxStatus(e.Status),
		}
	}
	return items, nil
}

func (f *Fox) GetTransitionViewKeys(_ context.Context, txID string) ([]string, error) {
	keys, err := f.w.ViewKeys(txID)
	return keys, foxError(err)
}
