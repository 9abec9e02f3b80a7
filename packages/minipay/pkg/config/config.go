package config

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/flags"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/locator"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// maxTokenDecimals keeps 10^decimals within a uint256.
	maxTokenDecimals = 77
)

// Wallet holds the configuration shared by every subcommand that touches the wallet.
type Wallet struct {
	Env     string
	RPCURL  string
	Locator locator.Config
	Wallet  wallet.Config
}

// Validate checks the wallet configuration.
func (w *Wallet) Validate() error {
	if w.Env != EnvProduction && w.Env != EnvDevelopment {
		return fmt.Errorf("invalid environment: %q", w.Env)
	}

	if w.RPCURL == "" {
		return fmt.Errorf("empty RPC URL")
	}

	if w.Wallet.Decimals < 0 || w.Wallet.Decimals > maxTokenDecimals {
		return fmt.Errorf("invalid token decimals: %d", w.Wallet.Decimals)
	}

	return w.Locator.Validate()
}

// NewWalletFromCliContext creates the wallet configuration from command line flags.
func NewWalletFromCliContext(c *cli.Context) (*Wallet, error) {
	mode, err := locator.ParseMode(c.String(flags.ProviderMode.Name))
	if err != nil {
		return nil, err
	}

	tokenAddress := c.String(flags.TokenAddress.Name)
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("invalid token address: %q", tokenAddress)
	}

	decimals := c.Uint(flags.TokenDecimals.Name)
	if decimals > maxTokenDecimals {
		return nil, fmt.Errorf("invalid token decimals: %d", decimals)
	}

	var privKey *ecdsa.PrivateKey
	if raw := c.String(flags.ProviderPrivKey.Name); raw != "" {
		if privKey, err = crypto.ToECDSA(common.FromHex(raw)); err != nil {
			return nil, fmt.Errorf("invalid provider private key: %w", err)
		}
	}

	env := strings.ToLower(c.String(flags.Environment.Name))

	cfg := &Wallet{
		Env:    env,
		RPCURL: c.String(flags.RPCUrl.Name),
		Locator: locator.Config{
			Mode:             mode,
			HostEndpoint:     c.String(flags.ProviderHostEndpoint.Name),
			RPCURL:           c.String(flags.RPCUrl.Name),
			PrivateKey:       privKey,
			PollInterval:     c.Duration(flags.ProviderPollInterval.Name),
			Timeout:          c.Duration(flags.ProviderTimeout.Name),
			SimulatedLatency: c.Duration(flags.ProviderSimulatedLatency.Name),
			Production:       env == EnvProduction,
		},
		Wallet: wallet.Config{
			Token:           common.HexToAddress(tokenAddress),
			Decimals:        int32(decimals),
			ReceiptInterval: c.Duration(flags.ReceiptInterval.Name),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
