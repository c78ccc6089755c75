// SPDX-License-Identifier: Apache-2.0

package galileo

import (
	"context"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// GlobalName is the name the Galileo provider is injected under.
const GlobalName = "galileo"

// Events emitted by the Galileo provider. The accountChanged payload is the
// new address, empty if the user locked the wallet. The networkChanged
// payload is the network name.
const (
	EventAccountChanged = "accountChanged"
	EventNetworkChanged = "networkChanged"
	EventDisconnect     = "disconnect"
)

var (
	// NetworkNames maps networks to Galileo's network names.
	NetworkNames = map[wallet.Network]string{
		wallet.MainnetBeta: "mainnet",
		wallet.TestnetBeta: "testnet",
		wallet.CanaryNet:   "canary",
	}

	// PermissionNames maps decrypt permissions to Galileo's names.
	PermissionNames = map[wallet.DecryptPermission]string{
		wallet.NoDecrypt:      "NO_DECRYPT",
		wallet.UponRequest:    "DECRYPT_UPON_REQUEST",
		wallet.AutoDecrypt:    "AUTO_DECRYPT",
		wallet.OnChainHistory: "ON_CHAIN_HISTORY",
	}
)

type (
	// Provider is the object the Galileo extension injects.
	Provider interface {
		adapter.NativeSource

		Connect(ctx context.Context, req *ConnectRequest) (*ConnectResponse, error)
		Disconnect(ctx context.Context) error
		SignMessage(ctx context.Context, message []byte) ([]byte, error)
		Decrypt(ctx context.Context, req *DecryptRequest) (string, error)
		RequestRecords(ctx context.Context, program string, includePlaintext bool) ([]map[string]any, error)
		ExecuteTransaction(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error)
		ExecuteDeployment(ctx context.Context, req *DeploymentRequest) (*TransactionResponse, error)
		TransactionStatus(ctx context.Context, txID string) (*StatusResponse, error)
		SwitchNetwork(ctx context.Context, network string) error
		RequestTransactionHistory(ctx context.Context, program string) ([]HistoryItem, error)
		TransitionViewKeys(ctx context.Context, txID string) ([]string, error)
	}

	ConnectRequest struct {
		Network           string   `json:"network"`
		DecryptPermission string   `json:"decryptPermission"`
		Programs          []string `json:"programs,omitempty"`
	}

	ConnectResponse struct {
		Address string `json:"address"`
	}

	DecryptRequest struct {
		CipherText   string `json:"cipherText"`
		TPK          string `json:"tpk,omitempty"`
		ProgramID    string `json:"programId,omitempty"`
		FunctionName string `json:"functionName,omitempty"`
		Index        *int   `json:"index,omitempty"`
	}

	TransactionRequest struct {
		Program    string   `json:"program"`
		Function   string   `json:"function"`
		Inputs     []string `json:"inputs"`
		Fee        uint64   `json:"fee"`
		PrivateFee bool     `json:"privateFee"`
	}

	DeploymentRequest struct {
		Program    string `json:"program"`
		Fee        uint64 `json:"fee"`
		PrivateFee bool   `json:"privateFee"`
	}

	TransactionResponse struct {
		TransactionID string `json:"transactionId"`
	}

	StatusResponse struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	HistoryItem struct {
		ID            string `json:"id"`
		TransactionID string `json:"transactionId"`
		Program       string `json:"program"`
		Function      string `json:"function"`
		Status        string `json:"status"`
	}
)
