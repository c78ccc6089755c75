// SPDX-License-Identifier: Apache-2.0

// Package setup loads the configuration of the aleowallet demo. Values come
// from an optional config file and ALEO_ prefixed environment variables, e.g.
// ALEO_WALLET_NAME or ALEO_CHAIN_API.
package setup // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/setup"

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// EnvPrefix is the prefix of all environment variables.
const EnvPrefix = "ALEO"

type (
	// Config is the demo configuration.
	Config struct {
		App      AppConfig      `mapstructure:"app"`
		Wallet   WalletConfig   `mapstructure:"wallet"`
		Sim      SimConfig      `mapstructure:"sim"`
		Session  SessionConfig  `mapstructure:"session"`
		Chain    ChainConfig    `mapstructure:"chain"`
		Transfer TransferConfig `mapstructure:"transfer"`
		LogLevel string         `mapstructure:"loglevel"`
	}

	// AppConfig is the dApp metadata shown by the wallets.
	AppConfig struct {
		Name        string `mapstructure:"name"`
		IconURL     string `mapstructure:"iconurl"`
		Description string `mapstructure:"description"`
		WebviewURL  string `mapstructure:"webviewurl"`
		UserAgent   string `mapstructure:"useragent"`
	}

	// WalletConfig selects the wallet and the connect parameters.
	WalletConfig struct {
		Name              string   `mapstructure:"name"`
		Network           string   `mapstructure:"network"`
		DecryptPermission string   `mapstructure:"decryptpermission"`
		Programs          []string `mapstructure:"programs"`
	}

	// SimConfig configures the simulated wallet backend.
	SimConfig struct {
		// KeyStore is the seed file. Empty means a random in-memory key.
		KeyStore    string        `mapstructure:"keystore"`
		SettleDelay time.Duration `mapstructure:"settledelay"`
	}

	// SessionConfig configures the wallet session.
	SessionConfig struct {
		// DB is the LevelDB directory the wallet name is persisted in. Empty
		// means in-memory.
		DB          string `mapstructure:"db"`
		AutoConnect bool   `mapstructure:"autoconnect"`
	}

	// ChainConfig configures the network API and status polling.
	ChainConfig struct {
		// API overrides the explorer URL of the network.
		API          string        `mapstructure:"api"`
		PollRetries  int           `mapstructure:"pollretries"`
		PollInterval time.Duration `mapstructure:"pollinterval"`
	}

	// TransferConfig is the credits.aleo/transfer_public call of the demo.
	TransferConfig struct {
		// Recipient defaults to the connected account.
		Recipient string `mapstructure:"recipient"`
		Amount    uint64 `mapstructure:"amount"`
		Fee       uint64 `mapstructure:"fee"`
	}
)

var defaults = map[string]any{
	"app.name":                 "aleowallet",
	"app.iconurl":              "",
	"app.description":          "Aleo wallet adapter demo",
	"app.webviewurl":           "",
	"app.useragent":            "Mozilla/5.0 (X11; Linux x86_64)",
	"wallet.name":              "Leo Wallet",
	"wallet.network":           wallet.TestnetBeta.String(),
	"wallet.decryptpermission": wallet.UponRequest.String(),
	"wallet.programs":          []string{"credits.aleo"},
	"sim.keystore":             "",
	"sim.settledelay":          "2s",
	"session.db":               "",
	"session.autoconnect":      false,
	"chain.api":                "",
	"chain.pollretries":        15,
	"chain.pollinterval":       "1s",
	"transfer.recipient":       "",
	"transfer.amount":          1_000_000,
	"transfer.fee":             100_000,
	"loglevel":                 "info",
}

// Load reads the config file at path, if not empty, and applies the
// environment on top.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that are parsed later.
func (c *Config) Validate() error {
	if _, err := c.Network(); err != nil {
		return err
	}
	if _, err := c.DecryptPermission(); err != nil {
		return err
	}
	if c.Wallet.Name == "" {
		return errors.New("no wallet name configured")
	}
	if c.Transfer.Recipient != "" {
		if err := wallet.ValidateAddress(c.Transfer.Recipient); err != nil {
			return errors.WithMessage(err, "transfer recipient")
		}
	}
	return nil
}

// Network returns the configured network.
func (c *Config) Network() (wallet.Network, error) {
	return wallet.ParseNetwork(c.Wallet.Network)
}

// DecryptPermission returns the configured decrypt permission.
func (c *Config) DecryptPermission() (wallet.DecryptPermission, error) {
	return wallet.ParseDecryptPermission(c.Wallet.DecryptPermission)
}

// AdapterConfig returns the metadata passed to the adapters. The configured
// programs are requested on the configured network.
func (c *Config) AdapterConfig() wallet.Config {
	cfg := wallet.Config{
		AppName:          c.App.Name,
		AppIconURL:       c.App.IconURL,
		AppDescription:   c.App.Description,
		MobileWebviewURL: c.App.WebviewURL,
	}
	if n, err := c.Network(); err == nil && len(c.Wallet.Programs) > 0 {
		cfg.ProgramIDPermissions = map[wallet.Network][]string{n: c.Wallet.Programs}
	}
	return cfg
}
