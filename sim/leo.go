// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/leo"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Leo exposes the wallet as a Leo extension.
type Leo struct{ w *Wallet }

var _ leo.Provider = (*Leo)(nil)

// Leo returns the wallet's Leo facade.
func (w *Wallet) Leo() *Leo { return &Leo{w: w} }

// leoError converts sim errors to the errors the Leo extension raises.
func leoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotConnected):
		return &leo.Error{Name: leo.ErrNotConnected, Message: err.Error()}
	case errors.Is(err, ErrWrongNetwork):
		return &leo.Error{Name: leo.ErrInvalidParams, Message: err.Error()}
	}
	return err
}

func leoStatus(s wallet.TransactionStatus) string {
	switch s {
	case wallet.Accepted:
		return "Finalized"
	case wallet.Rejected:
		return "Rejected"
	case wallet.Failed:
		return "Failed"
	}
	return "Pending"
}

func (l *Leo) PublicKey() string { return l.w.Address() }

func (l *Leo) Connect(_ context.Context, decryptPermission, network string, programs []string) error {
	n, ok := lookup(leo.NetworkNames, network)
	if !ok {
		return &leo.Error{Name: leo.ErrInvalidParams, Message: "unknown network " + network}
	}
	p, ok := lookup(leo.PermissionNames, decryptPermission)
	if !ok {
		return &leo.Error{Name: leo.ErrInvalidParams, Message: "unknown permission " + decryptPermission}
	}
	_, err := l.w.Connect(n, p, programs)
	return leoError(err)
}

func (l *Leo) Disconnect(context.Context) error {
	return leoError(l.w.Disconnect())
}

func (l *Leo) SignMessage(_ context.Context, message []byte) (*leo.SignatureResponse, error) {
	sig, err := l.w.Sign(message)
	if err != nil {
		return nil, leoError(err)
	}
	return &leo.SignatureResponse{Signature: []byte(sig)}, nil
}

func (l *Leo) Decrypt(_ context.Context, cipherText, _, _, _ string, _ *int) (*leo.DecryptResponse, error) {
	pt, err := l.w.Decrypt(cipherText)
	if err != nil {
		return nil, leoError(err)
	}
	return &leo.DecryptResponse{Text: pt}, nil
}

func (l *Leo) RequestRecords(_ context.Context, program string) (*leo.RecordsResponse, error) {
	return l.records(program, false)
}

func (l *Leo) RequestRecordPlaintexts(_ context.Context, program string) (*leo.RecordsResponse, error) {
	return l.records(program, true)
}

func (l *Leo) records(program string, plaintext bool) (*leo.RecordsResponse, error) {
	recs, err := l.w.Records(program, plaintext)
	if err != nil {
		return nil, leoError(err)
	}
	return &leo.RecordsResponse{Records: plainRecords(recs)}, nil
}

func (l *Leo) RequestTransaction(_ context.Context, tx *leo.Transaction) (*leo.TransactionResponse, error) {
	if len(tx.Transitions) != 1 {
		return nil, &leo.Error{Name: leo.ErrInvalidParams, Message: "expected one transition"}
	}
	t := tx.Transitions[0]
	id, err := l.w.Execute(t.Program, t.FunctionName, t.Inputs, tx.Fee)
	if err != nil {
		return nil, leoError(err)
	}
	return &leo.TransactionResponse{TransactionID: id}, nil
}

func (l *Leo) TransactionStatus(_ context.Context, txID string) (*leo.StatusResponse, error) {
	s, err := l.w.Status(txID)
	if err != nil {
		return nil, leoError(err)
	}
	return &leo.StatusResponse{Status: leoStatus(s)}, nil
}

func (l *Leo) RequestTransactionHistory(_ context.Context, program string) (*leo.HistoryResponse, error) {
	entries, err := l.w.History(program)
	if err != nil {
		return nil, leoError(err)
	}
	resp := &leo.HistoryResponse{Transactions: make([]leo.HistoryItem, len(entries))}
	for i, e := range entries {
		resp.Transactions[i] = leo.HistoryItem{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Program:       e.Program,
			FunctionName:  e.Function,
			Status:        leoStatus(e.Status),
		}
	}
	return resp, nil
}

func (l *Leo) TransitionViewKeys(_ context.Context, txID string) (*leo.ViewKeysResponse, error) {
	keys, err := l.w.ViewKeys(txID)
	if err != nil {
		return nil, leoError(err)
	}
	return &leo.ViewKeysResponse{ViewKeys: keys}, nil
}

// lookup finds the key a vendor name table maps to name.
func lookup[K comparable](table map[K]string, name string) (K, bool) {
	for k, v := range table {
		if v == name {
			return k, true
		}
	}
	var zero K
	return zero, false
}

func plainRecords(recs []wallet.Record) []map[string]any {
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out
}
