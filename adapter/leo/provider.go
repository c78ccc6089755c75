// SPDX-License-Identifier: Apache-2.0

package leo

import (
	"context"
	"fmt"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Names the Leo extension is injected under.
const (
	GlobalName       = "leoWallet"
	LegacyGlobalName = "leo"
)

// Error names raised by the Leo extension.
const (
	ErrInvalidParams = "InvalidParamsAleoWalletError"
	ErrNotGranted    = "NotGrantedAleoWalletError"
	ErrWindowClosed  = "WalletWindowClosedError"
	ErrNotConnected  = "WalletNotConnectedError"
)

var (
	// NetworkNames maps networks to the chain ids Leo expects.
	NetworkNames = map[wallet.Network]string{
		wallet.MainnetBeta: "mainnet",
		wallet.TestnetBeta: "testnetbeta",
		wallet.CanaryNet:   "canarynet",
	}

	// PermissionNames maps decrypt permissions to Leo's names.
	PermissionNames = map[wallet.DecryptPermission]string{
		wallet.NoDecrypt:      "NO_DECRYPT",
		wallet.UponRequest:    "DECRYPT_UPON_REQUEST",
		wallet.AutoDecrypt:    "AUTO_DECRYPT",
		wallet.OnChainHistory: "ON_CHAIN_HISTORY",
	}
)

type (
	// Provider is the object the Leo extension injects.
	Provider interface {
		// PublicKey is the address of the connected account, empty while
		// disconnected.
		PublicKey() string
		Connect(ctx context.Context, decryptPermission, network string, programs []string) error
		Disconnect(ctx context.Context) error
		SignMessage(ctx context.Context, message []byte) (*SignatureResponse, error)
		Decrypt(ctx context.Context, cipherText, tpk, programID, functionName string, index *int) (*DecryptResponse, error)
		RequestRecords(ctx context.Context, program string) (*RecordsResponse, error)
		RequestRecordPlaintexts(ctx context.Context, program string) (*RecordsResponse, error)
		RequestTransaction(ctx context.Context, tx *Transaction) (*TransactionResponse, error)
		TransactionStatus(ctx context.Context, txID string) (*StatusResponse, error)
		RequestTransactionHistory(ctx context.Context, program string) (*HistoryResponse, error)
		TransitionViewKeys(ctx context.Context, txID string) (*ViewKeysResponse, error)
	}

	// Transition is one program call of a Leo transaction.
	Transition struct {
		Program      string   `json:"program"`
		FunctionName string   `json:"functionName"`
		Inputs       []string `json:"inputs"`
	}

	// Transaction is Leo's transaction request.
	Transaction struct {
		Address     string       `json:"address"`
		ChainID     string       `json:"chainId"`
		Transitions []Transition `json:"transitions"`
		Fee         uint64       `json:"fee"`
		FeePrivate  bool         `json:"feePrivate"`
	}

	SignatureResponse struct {
		Signature []byte `json:"signature"`
	}

	DecryptResponse struct {
		Text string `json:"text"`
	}

	RecordsResponse struct {
		Records []map[string]any `json:"records"`
	}

	TransactionResponse struct {
		TransactionID string `json:"transactionId"`
	}

	StatusResponse struct {
		Status string `json:"status"`
	}

	HistoryItem struct {
		ID            string `json:"id"`
		TransactionID string `json:"transactionId"`
		Program       string `json:"program"`
		FunctionName  string `json:"functionName"`
		Status        string `json:"status"`
	}

	HistoryResponse struct {
		Transactions []HistoryItem `json:"transactions"`
	}

	ViewKeysResponse struct {
		ViewKeys []string `json:"viewKeys"`
	}

	// Error is an error raised by the Leo extension.
	Error struct {
		Name    string
		Message string
	}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}
