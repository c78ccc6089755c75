// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

const (
	// AddressPrefix is the human readable part of Aleo addresses.
	AddressPrefix = "aleo"
	// SignaturePrefix is the human readable part of Aleo signatures.
	SignaturePrefix = "sign"
	// TransactionPrefix is the human readable part of Aleo transaction ids.
	TransactionPrefix = "at"

	// AddressLen is the length of the decoded address payload.
	AddressLen = 32
)

// ErrInvalidAddress is returned when an address is not a valid aleo1 string.
var ErrInvalidAddress = errors.New("invalid aleo address")

// EncodeBech32 encodes data as a bech32 string with the given prefix.
func EncodeBech32(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "converting bits")
	}
	return bech32.Encode(hrp, conv)
}

// DecodeBech32 decodes a bech32 string and checks its prefix.
func DecodeBech32(hrp, s string) ([]byte, error) {
	gotHRP, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, errors.Wrap(err, "decoding bech32")
	}
	if gotHRP != hrp {
		return nil, errors.Errorf("unexpected prefix %q, want %q", gotHRP, hrp)
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrap(err, "converting bits")
	}
	return conv, nil
}

// ValidateAddress checks that s is a well formed aleo1 address.
func ValidateAddress(s string) error {
	if !strings.HasPrefix(s, AddressPrefix+"1") {
		return errors.Wrapf(ErrInvalidAddress, "%q", s)
	}
	raw, err := DecodeBech32(AddressPrefix, s)
	if err != nil {
		return errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if len(raw) != AddressLen {
		return errors.Wrapf(ErrInvalidAddress, "payload length %d/%d", len(raw), AddressLen)
	}
	return nil
}

// ValidateTransactionID checks that s is a well formed at1 transaction id.
func ValidateTransactionID(s string) error {
	raw, err := DecodeBech32(TransactionPrefix, s)
	if err != nil {
		return errors.WithMessagef(err, "invalid transaction id %q", s)
	}
	if len(raw) != 32 {
		return errors.Errorf("invalid transaction id %q: payload length %d/32", s, len(raw))
	}
	return nil
}
