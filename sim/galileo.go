// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/galileo"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Galileo exposes the wallet as the Galileo extension.
type Galileo struct {
	*nativeSource
	w *Wallet
}

var _ galileo.Provider = (*Galileo)(nil)

// Galileo returns a Galileo facade of the wallet. Native events are
// forwarded with the payloads Galileo uses.
func (w *Wallet) Galileo() *Galileo {
	return &Galileo{
		nativeSource: newNativeSource(w.events, func(ev string, payload any) any {
			if n, ok := payload.(wallet.Network); ok && ev == NativeNetworkChanged {
				return galileo.NetworkNames[n]
			}
			return payload
		}),
		w: w,
	}
}

func (g *Galileo) Connect(_ context.Context, req *galileo.ConnectRequest) (*galileo.ConnectResponse, error) {
	n, ok := lookup(galileo.NetworkNames, req.Network)
	if !ok {
		return nil, errors.Errorf("unsupported network %q", req.Network)
	}
	p, ok := lookup(galileo.PermissionNames, req.DecryptPermission)
	if !ok {
		return nil, errors.Errorf("unsupported decrypt permission %q", req.DecryptPermission)
	}
	address, err := g.w.Connect(n, p, req.Programs)
	if err != nil {
		return nil, err
	}
	return &galileo.ConnectResponse{Address: address}, nil
}

func (g *Galileo) Disconnect(context.Context) error { return g.w.Disconnect() }

func (g *Galileo) SignMessage(_ context.Context, message []byte) ([]byte, error) {
	sig, err := g.w.Sign(message)
	if err != nil {
		return nil, err
	}
	return []byte(sig), nil
}

func (g *Galileo) Decrypt(_ context.Context, req *galileo.DecryptRequest) (string, error) {
	return g.w.Decrypt(req.CipherText)
}

func (g *Galileo) RequestRecords(_ context.Context, program string, includePlaintext bool) ([]map[string]any, error) {
	recs, err := g.w.Records(program, includePlaintext)
	if err != nil {
		return nil, err
	}
	return plainRecords(recs), nil
}

func (g *Galileo) ExecuteTransaction(_ context.Context, req *galileo.TransactionRequest) (*galileo.TransactionResponse, error) {
	id, err := g.w.Execute(req.Program, req.Function, req.Inputs, req.Fee)
	if err != nil {
		return nil, err
	}
	return &galileo.TransactionResponse{TransactionID: id}, nil
}

func (g *Galileo) ExecuteDeployment(_ context.Context, req *galileo.DeploymentRequest) (*galileo.TransactionResponse, error) {
	id, err := g.w.Deploy(req.Program, req.Fee)
	if err != nil {
		return nil, err
	}
	return &galileo.TransactionResponse{TransactionID: id}, nil
}

func (g *Galileo) TransactionStatus(_ context.Context, txID string) (*galileo.StatusResponse, error) {
	s, err := g.w.Status(txID)
	if err != nil {
		return nil, err
	}
	return &galileo.StatusResponse{Status: galileoStatus(s)}, nil
}

func galileoStatus(s wallet.TransactionStatus) string {
	switch s {
	case wallet.Accepted:
		return "accepted"
	case wallet.Rejected:
		return "rejected"
	case wallet.Failed:
		return "failed"
	}
	return "pending"
}

func (g *Galileo) SwitchNetwork(_ context.Context, network string) error {
	n, ok := lookup(galileo.NetworkNames, network)
	if !ok {
		return errors.Errorf("unsupported network %q", network)
	}
	return g.w.SwitchNetwork(n)
}

func (g *Galileo) RequestTransactionHistory(_ context.Context, program string) ([]galileo.HistoryItem, error) {
	entries, err := g.w.History(program)
	if err != nil {
		return nil, err
	}
	items := make([]galileo.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = galileo.HistoryItem{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Program:       e.Program,
			Function:      e.Function,
			Status:        galileoStatus(e.Status),
		}
	}
	return items, nil
}

func (g *Galileo) TransitionViewKeys(_ context.Context, txID string) ([]string, error) {
	return g.w.ViewKeys(txID)
}
