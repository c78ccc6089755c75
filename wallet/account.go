// Copyright 2024 - See NOTICE file for copyright holders.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wallet

// Account is a wallet-held identity. It is created on a successful connect
// and dropped on disconnect. ViewKey and PrivateKey are only set by wallets
// that disclose them.
type Account struct {
	Address    string `json:"address"`
	ViewKey    string `json:"viewKey,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// Clone returns a copy of a, or nil.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Equal compares two accounts by address.
func (a *Account) Equal(b *Account) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Address == b.Address
}
