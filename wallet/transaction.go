// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MicrocreditsPerCredit is the number of microcredits in one Aleo credit.
const MicrocreditsPerCredit = 1_000_000

type (
	// TransactionOptions describes a program function execution.
	TransactionOptions struct {
		Program  string   `json:"program"`
		Function string   `json:"function"`
		Inputs   []string `json:"inputs"`
		// Fee in microcredits.
		Fee        uint64 `json:"fee"`
		PrivateFee bool   `json:"privateFee,omitempty"`
	}

	// Deployment describes a program deployment.
	Deployment struct {
		// Program is the program source.
		Program    string `json:"program"`
		Fee        uint64 `json:"fee"`
		PrivateFee bool   `json:"privateFee,omitempty"`
	}

	// TransactionResult is returned by executions and deployments.
	TransactionResult struct {
		TransactionID string `json:"transactionId"`
	}

	// TransactionStatus is the lifecycle state of a submitted transaction.
	TransactionStatus string

	// TransactionStatusResponse is a single status query result.
	TransactionStatusResponse struct {
		Status        TransactionStatus `json:"status"`
		TransactionID string            `json:"transactionId,omitempty"`
		Error         string            `json:"error,omitempty"`
	}

	// DecryptRequest holds a ciphertext and the optional context some wallets
	// need to decrypt it.
	DecryptRequest struct {
		CipherText   string
		TPK          string
		ProgramID    string
		FunctionName string
		Index        *int
	}

	// Record is a program record as returned by the wallet. Its shape is
	// wallet specific.
	Record map[string]any

	// TransactionHistoryEntry is one item of a wallet's transaction history.
	TransactionHistoryEntry struct {
		ID            string            `json:"id"`
		TransactionID string            `json:"transactionId"`
		Program       string            `json:"program,omitempty"`
		Function      string            `json:"function,omitempty"`
		Status        TransactionStatus `json:"status,omitempty"`
	}
)

const (
	Pending  TransactionStatus = "PENDING"
	Accepted TransactionStatus = "ACCEPTED"
	Rejected TransactionStatus = "REJECTED"
	Failed   TransactionStatus = "FAILED"
)

// ErrInvalidOptions is returned by TransactionOptions.Validate.
var ErrInvalidOptions = errors.New("invalid transaction options")

// Validate checks that the options name a program and function.
func (o TransactionOptions) Validate() error {
	switch {
	case o.Program == "":
		return errors.Wrap(ErrInvalidOptions, "missing program")
	case o.Function == "":
		return errors.Wrap(ErrInvalidOptions, "missing function")
	}
	return nil
}

// FeeCredits returns the fee in credits.
func (o TransactionOptions) FeeCredits() decimal.Decimal {
	return MicrocreditsToCredits(o.Fee)
}

// MicrocreditsToCredits converts an amount of microcredits to credits.
func MicrocreditsToCredits(micro uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(micro), -6)
}

// CreditsToMicrocredits converts credits to microcredits, truncating below
// one microcredit.
func CreditsToMicrocredits(credits decimal.Decimal) (uint64, error) {
	if credits.IsNegative() {
		return 0, errors.New("negative amount")
	}
	micro := credits.Shift(6).Truncate(0)
	if !micro.BigInt().IsUint64() {
		return 0, errors.New("amount out of range")
	}
	return micro.BigInt().Uint64(), nil
}

// Terminal returns whether s is a final status.
func (s TransactionStatus) Terminal() bool {
	return s == Accepted || s == Rejected || s == Failed
}

// ParseTransactionStatus normalizes the status strings used by the different
// wallets. Unknown non-empty values are treated as pending.
func ParseTransactionStatus(s string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accepted", "finalized", "finalised", "completed", "settled", "confirmed":
		return Accepted
	case "rejected":
		return Rejected
	case "failed", "failure", "aborted", "error":
		return Failed
	default:
		return Pending
	}
}
