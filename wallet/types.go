// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"strings"

	"github.com/pkg/errors"
)

type (
	// Network is an Aleo network a wallet can be connected to.
	Network uint8

	// ReadyState describes whether a wallet provider was detected and can be
	// connected to.
	ReadyState uint8

	// DecryptPermission is the decryption capability an application requests
	// from the wallet during connect.
	DecryptPermission uint8

	// WalletName is the display name identifying an adapter.
	WalletName string

	// WalletInfo is static adapter metadata.
	WalletInfo struct {
		Name WalletName
		URL  string
		Icon string
		// DeepLink, if set, opens the dApp inside the wallet's mobile app.
		DeepLink string
	}

	// Config holds the application metadata passed through to the vendor
	// provider unchanged.
	Config struct {
		AppName              string
		AppIconURL           string
		AppDescription       string
		ProgramIDPermissions map[Network][]string
		IsMobile             bool
		MobileWebviewURL     string
	}
)

const (
	MainnetBeta Network = iota
	TestnetBeta
	CanaryNet
)

const (
	Unsupported ReadyState = iota
	NotDetected
	NotReady
	Loadable
	Installed
	Ready
	Connected
)

const (
	NoDecrypt DecryptPermission = iota
	UponRequest
	AutoDecrypt
	OnChainHistory
)

var (
	networkNames = map[Network]string{
		MainnetBeta: "mainnet",
		TestnetBeta: "testnetbeta",
		CanaryNet:   "canarynet",
	}
	readyStateNames = [...]string{
		"UNSUPPORTED", "NOT_DETECTED", "NOT_READY", "LOADABLE", "INSTALLED", "READY", "CONNECTED",
	}
	permissionNames = [...]string{
		"NO_DECRYPT", "DECRYPT_UPON_REQUEST", "AUTO_DECRYPT", "ON_CHAIN_HISTORY",
	}
)

// ErrUnknownNetwork is returned by ParseNetwork.
var ErrUnknownNetwork = errors.New("unknown network")

func (n Network) String() string {
	if s, ok := networkNames[n]; ok {
		return s
	}
	return "unknown"
}

// Networks returns all known networks.
func Networks() []Network {
	return []Network{MainnetBeta, TestnetBeta, CanaryNet}
}

// ParseNetwork parses the canonical network names and a few common aliases.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet", "mainnetbeta", "mainnet-beta":
		return MainnetBeta, nil
	case "testnet", "testnetbeta", "testnet-beta", "testnet3":
		return TestnetBeta, nil
	case "canary", "canarynet":
		return CanaryNet, nil
	}
	return 0, errors.Wrapf(ErrUnknownNetwork, "%q", s)
}

func (s ReadyState) String() string {
	if int(s) < len(readyStateNames) {
		return readyStateNames[s]
	}
	return "UNKNOWN"
}

// Connectable returns whether connect may be attempted in this state.
func (s ReadyState) Connectable() bool {
	return s == Installed || s == Ready
}

func (p DecryptPermission) String() string {
	if int(p) < len(permissionNames) {
		return permissionNames[p]
	}
	return "UNKNOWN"
}

// ParseDecryptPermission is the inverse of DecryptPermission.String.
func ParseDecryptPermission(s string) (DecryptPermission, error) {
	for i, name := range permissionNames {
		if strings.EqualFold(name, s) {
			return DecryptPermission(i), nil
		}
	}
	return 0, errors.Errorf("unknown decrypt permission %q", s)
}
