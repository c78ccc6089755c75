// SPDX-License-Identifier: Apache-2.0

package fox

import (
	"context"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// GlobalName is the name the FoxWallet Aleo provider is injected under.
const GlobalName = "foxwallet.aleo"

// ErrCodeUserRejected is the code FoxWallet uses when the user dismisses a
// request.
const ErrCodeUserRejected = 4001

var (
	// NetworkNames maps networks to FoxWallet chain ids.
	NetworkNames = map[wallet.Network]string{
		wallet.MainnetBeta: "mainnet",
		wallet.TestnetBeta: "testnetbeta",
		wallet.CanaryNet:   "canarynet",
	}

	// PermissionNames maps decrypt permissions to FoxWallet's names.
	PermissionNames = map[wallet.DecryptPermission]string{
		wallet.NoDecrypt:      "NO_DECRYPT",
		wallet.UponRequest:    "DECRYPT_UPON_REQUEST",
		wallet.AutoDecrypt:    "AUTO_DECRYPT",
		wallet.OnChainHistory: "ON_CHAIN_HISTORY",
	}
)

type (
	// Provider is the object FoxWallet injects. Unlike Leo, most calls
	// answer with plain values.
	Provider interface {
		Connect(ctx context.Context, decryptPermission, network string, programs []string) (*ConnectResponse, error)
		Disconnect(ctx context.Context) error
		SignMessage(ctx context.Context, message string) (*SignatureResponse, error)
		Decrypt(ctx context.Context, cipherText, tpk, programID, functionName string, index *int) (string, error)
		RequestRecords(ctx context.Context, program string, plaintext bool) ([]map[string]any, error)
		RequestTransaction(ctx context.Context, tx *Transaction) (string, error)
		RequestDeploy(ctx context.Context, dep *Deployment) (string, error)
		GetTransactionStatus(ctx context.Context, txID string) (string, error)
		RequestTransactionHistory(ctx context.Context, program string) ([]HistoryItem, error)
		GetTransitionViewKeys(ctx context.Context, txID string) ([]string, error)
	}

	ConnectResponse struct {
		Address string `json:"address"`
	}

	SignatureResponse struct {
		Signature string `json:"signature"`
	}

	Transition struct {
		Program      string   `json:"program"`
		FunctionName string   `json:"functionName"`
		Inputs       []string `json:"inputs"`
	}

	Transaction struct {
		Address     string       `json:"address"`
		ChainID     string       `json:"chainId"`
		Transitions []Transition `json:"transitions"`
		Fee         uint64       `json:"fee"`
		FeePrivate  bool         `json:"feePrivate"`
	}

	Deployment struct {
		Address    string `json:"address"`
		ChainID    string `json:"chainId"`
		Program    string `json:"program"`
		Fee        uint64 `json:"fee"`
		FeePrivate bool   `json:"feePrivate"`
	}

	HistoryItem struct {
		ID            string `json:"id"`
		TransactionID string `json:"transactionId"`
		Program       string `json:"program"`
		FunctionName  string `json:"functionName"`
		Status        string `json:"status"`
	}

	// Error is a FoxWallet RPC error.
	Error struct {
		Code    int
		Message string
	}
)

func (e *Error) Error() string { return e.Message }
