package tool

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/flags"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/config"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"
)

type Config struct {
	*config.Wallet
	Intent wallet.Intent
}

// NewConfigFromCliContext creates a new config instance from command line flags.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	walletCfg, err := config.NewWalletFromCliContext(c)
	if err != nil {
		return nil, err
	}

	return &Config{
		Wallet: walletCfg,
		Intent: wallet.Intent{
			Destination: c.String(flags.SendDestination.Name),
			Amount:      c.String(flags.SendAmount.Name),
		},
	}, nil
}

type WatchConfig struct {
	OpenQueueFunc config.OpenQueueFunc
}

// NewWatchConfigFromCliContext creates a new watch config instance from command line flags.
func NewWatchConfigFromCliContext(c *cli.Context) (*WatchConfig, error) {
	openQueue := config.NewOpenQueueFunc(config.NewQueueOptsFromCliContext(c))
	if openQueue == nil {
		return nil, errors.New("queue host is required")
	}

	return &WatchConfig{OpenQueueFunc: openQueue}, nil
}
