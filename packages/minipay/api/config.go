package api

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/flags"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/config"
)

type Config struct {
	*config.Wallet
	CORSOrigins   []string
	HTTPPort      uint64
	BuyDelay      time.Duration
	OpenQueueFunc config.OpenQueueFunc
}

// NewConfigFromCliContext creates a new config instance from command line flags.
func NewConfigFromCliContext(c *cli.Context) (*Config, error) {
	walletCfg, err := config.NewWalletFromCliContext(c)
	if err != nil {
		return nil, err
	}

	return &Config{
		Wallet:        walletCfg,
		CORSOrigins:   strings.Split(c.String(flags.CORSOrigins.Name), ","),
		HTTPPort:      c.Uint64(flags.HTTPPort.Name),
		BuyDelay:      c.Duration(flags.BuyDelay.Name),
		OpenQueueFunc: config.NewOpenQueueFunc(config.NewQueueOptsFromCliContext(c)),
	}, nil
}
