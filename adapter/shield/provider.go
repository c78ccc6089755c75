// SPDX-License-Identifier: Apache-2.0

package shield

import (
	"context"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// GlobalName is the name the Shield provider is injected under.
const GlobalName = "shield"

// Events emitted by the Shield provider with their payload types.
const (
	EventAccountChanged = "accountChanged" // AccountChange
	EventNetworkChanged = "networkChanged" // NetworkChange
	EventDisconnect     = "disconnect"     // nil
)

// ErrRejected is the error name Shield uses when the user declines.
const ErrRejected = "UserRejectedRequest"

var (
	// NetworkNames maps networks to Shield's network names.
	NetworkNames = map[wallet.Network]string{
		wallet.MainnetBeta: "mainnet",
		wallet.TestnetBeta: "testnet",
		wallet.CanaryNet:   "canary",
	}

	// PermissionNames maps decrypt permissions to Shield's names.
	PermissionNames = map[wallet.DecryptPermission]string{
		wallet.NoDecrypt:      "NO_DECRYPT",
		wallet.UponRequest:    "DECRYPT_UPON_REQUEST",
		wallet.AutoDecrypt:    "AUTO_DECRYPT",
		wallet.OnChainHistory: "ON_CHAIN_HISTORY",
	}
)

type (
	// Provider is the object the Shield extension injects.
	Provider interface {
		adapter.NativeSource

		// PublicKey is the connected address, empty while disconnected.
		PublicKey() string
		Connect(ctx context.Context, network, decryptPermission string, programs []string) error
		Disconnect(ctx context.Context) error
		SignMessage(ctx context.Context, message string) (*SignatureResponse, error)
		Decrypt(ctx context.Context, cipherText, tpk, programID, functionName string, index *int) (*DecryptResponse, error)
		RequestRecords(ctx context.Context, program string) (*RecordsResponse, error)
		RequestRecordPlaintexts(ctx context.Context, program string) (*RecordsResponse, error)
		RequestTransaction(ctx context.Context, tx *Transaction) (*TransactionResponse, error)
		RequestDeploy(ctx context.Context, dep *Deployment) (*TransactionResponse, error)
		TransactionStatus(ctx context.Context, txID string) (*StatusResponse, error)
		SwitchNetwork(ctx context.Context, network string) error
		RequestTransactionHistory(ctx context.Context, program string) (*HistoryResponse, error)
		TransitionViewKeys(ctx context.Context, txID string) (*ViewKeysResponse, error)
	}

	AccountChange struct {
		PublicKey string `json:"publicKey"`
	}

	NetworkChange struct {
		Network string `json:"network"`
	}

	SignatureResponse struct {
		Signature string `json:"signature"`
	}

	DecryptResponse struct {
		Text string `json:"text"`
	}

	RecordsResponse struct {
		Records []map[string]any `json:"records"`
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

	// Error is an error raised by the Shield extension.
	Error struct {
		Name    string
		Message string
	}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}
