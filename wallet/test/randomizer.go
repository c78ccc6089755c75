// SPDX-License-Identifier: Apache-2.0

// Package test provides random wallet values for tests.
package test

import (
	"fmt"
	"math/rand"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// NewRandomAddress returns a random, well formed aleo1 address.
func NewRandomAddress(rng *rand.Rand) string {
	raw := make([]byte, wallet.AddressLen)
	rng.Read(raw)
	addr, err := wallet.EncodeBech32(wallet.AddressPrefix, raw)
	if err != nil {
		panic("encoding random address: " + err.Error())
	}
	return addr
}

// NewRandomAccount returns an account with a random address.
func NewRandomAccount(rng *rand.Rand) *wallet.Account {
	return &wallet.Account{Address: NewRandomAddress(rng)}
}

// NewRandomTransactionOptions returns a credits.aleo transfer_public call
// to a random recipient.
func NewRandomTransactionOptions(rng *rand.Rand) wallet.TransactionOptions {
	return wallet.TransactionOptions{
		Program:  "credits.aleo",
		Function: "transfer_public",
		Inputs:   []string{NewRandomAddress(rng), fmt.Sprintf("%du64", rng.Intn(1_000_000)+1)},
		Fee:      uint64(rng.Intn(500_000) + 10_000),
	}
}
