// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is the category of a wallet error. UI code switches on it (or on
// Error.Name) to choose the message shown to the user.
type ErrorKind uint8

const (
	KindWallet ErrorKind = iota
	KindNotConnected
	KindConnection
	KindDisconnection
	KindSignMessage
	KindDecryption
	KindDecryptionNotAllowed
	KindTransaction
	KindSwitchNetwork
	KindMethodNotImplemented
	KindNotSelected
	KindNotReady
	KindRecords
	KindTransactionHistory
	KindTransitionViewKeys
	KindWindowClosed
	KindAccount
)

var kindInfo = map[ErrorKind]struct{ name, msg string }{
	KindWallet:               {"WalletError", "wallet error"},
	KindNotConnected:         {"WalletNotConnectedError", "wallet not connected"},
	KindConnection:           {"WalletConnectionError", "could not connect to wallet"},
	KindDisconnection:        {"WalletDisconnectionError", "could not disconnect from wallet"},
	KindSignMessage:          {"WalletSignMessageError", "could not sign message"},
	KindDecryption:           {"WalletDecryptionError", "could not decrypt"},
	KindDecryptionNotAllowed: {"WalletDecryptionNotAllowedError", "decryption not allowed"},
	KindTransaction:          {"WalletTransactionError", "transaction failed"},
	KindSwitchNetwork:        {"WalletSwitchNetworkError", "could not switch network"},
	KindMethodNotImplemented: {"MethodNotImplementedError", "method not implemented"},
	KindNotSelected:          {"WalletNotSelectedError", "no wallet selected"},
	KindNotReady:             {"WalletNotReadyError", "wallet not ready"},
	KindRecords:              {"WalletRecordsError", "could not request records"},
	KindTransactionHistory:   {"WalletTransactionHistoryError", "could not request transaction history"},
	KindTransitionViewKeys:   {"WalletTransitionViewKeysError", "could not request transition view keys"},
	KindWindowClosed:         {"WalletWindowClosedError", "wallet window closed"},
	KindAccount:              {"WalletAccountError", "wallet account error"},
}

// Error is the error type returned by all adapters and the session.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Sentinel errors to compare against with errors.Is. Comparison is by kind.
var (
	ErrWallet               = &Error{Kind: KindWallet}
	ErrNotConnected         = &Error{Kind: KindNotConnected}
	ErrConnection           = &Error{Kind: KindConnection}
	ErrDisconnection        = &Error{Kind: KindDisconnection}
	ErrSignMessage          = &Error{Kind: KindSignMessage}
	ErrDecryption           = &Error{Kind: KindDecryption}
	ErrDecryptionNotAllowed = &Error{Kind: KindDecryptionNotAllowed}
	ErrTransaction          = &Error{Kind: KindTransaction}
	ErrSwitchNetwork        = &Error{Kind: KindSwitchNetwork}
	ErrMethodNotImplemented = &Error{Kind: KindMethodNotImplemented}
	ErrNotSelected          = &Error{Kind: KindNotSelected}
	ErrNotReady             = &Error{Kind: KindNotReady}
	ErrRecords              = &Error{Kind: KindRecords}
	ErrTransactionHistory   = &Error{Kind: KindTransactionHistory}
	ErrTransitionViewKeys   = &Error{Kind: KindTransitionViewKeys}
	ErrWindowClosed         = &Error{Kind: KindWindowClosed}
	ErrAccount              = &Error{Kind: KindAccount}
)

// NewError creates an error of the given kind. An empty message falls back to
// the kind's default message.
func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotImplemented returns a MethodNotImplementedError for method.
func NotImplemented(method string) *Error {
	return Errorf(KindMethodNotImplemented, "method not implemented: %s", method)
}

// AsError passes wallet errors through unchanged and wraps everything else in
// an error of the fallback kind, keeping the original message.
func AsError(err error, fallback ErrorKind) *Error {
	if err == nil {
		return nil
	}
	var we *Error
	if errors.As(err, &we) {
		return we
	}
	return &Error{Kind: fallback, Message: err.Error(), Cause: err}
}

// KindOf returns the kind of err if it is a wallet error.
func KindOf(err error) (ErrorKind, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind, true
	}
	return 0, false
}

// Name is the fixed name of the error kind, e.g. "WalletConnectionError".
func (k ErrorKind) Name() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return kindInfo[KindWallet].name
}

func (k ErrorKind) String() string { return k.Name() }

// Name returns the fixed name of the error's kind.
func (e *Error) Name() string { return e.Kind.Name() }

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if info, ok := kindInfo[e.Kind]; ok {
		return info.msg
	}
	return kindInfo[KindWallet].msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a wallet error of the same kind. A target of
// kind KindWallet matches every wallet error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind || (t.Kind == KindWallet && t.Message == "" && t.Cause == nil)
}
