package api

import (
	"context"
	"fmt"
	nethttp "net/http"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/controller"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/balance"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/http"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/locator"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/queue"
)

type API struct {
	ctx        context.Context
	srv        *http.Server
	controller *controller.Controller
	balances   *balance.Reader
	queue      queue.Queue
	httpPort   uint64
	wg         sync.WaitGroup
}

func (api *API) InitFromCli(ctx context.Context, c *cli.Context) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}

	return InitFromConfig(ctx, api, cfg)
}

func InitFromConfig(ctx context.Context, api *API, cfg *Config) (err error) {
	l, err := locator.New(&cfg.Locator)
	if err != nil {
		return err
	}

	balances, err := balance.Dial(ctx, cfg.RPCURL, cfg.Wallet.Wallet.Token, cfg.Wallet.Wallet.Decimals)
	if err != nil {
		return err
	}

	var q queue.Queue
	defer func() {
		if err != nil {
			balances.Close()
			if q != nil {
				q.Close()
			}
		}
	}()

	var notifier controller.Notifier
	if cfg.OpenQueueFunc != nil {
		if q, err = cfg.OpenQueueFunc(); err != nil {
			return err
		}
		notifier = q
	}

	if err = balances.VerifyDecimals(ctx); err != nil {
		return err
	}

	c, err := controller.New(controller.NewControllerOpts{
		Locator:  l,
		Balances: balances,
		Notifier: notifier,
		Wallet:   cfg.Wallet.Wallet,
		BuyDelay: cfg.BuyDelay,
	})
	if err != nil {
		return err
	}

	srv, err := http.NewServer(http.NewServerOpts{
		Controller:  c,
		Echo:        echo.New(),
		CorsOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	api.ctx = ctx
	api.queue = q
	api.srv = srv
	api.controller = c
	api.balances = balances
	api.httpPort = cfg.HTTPPort

	return nil
}

func (api *API) Name() string {
	return "api"
}

func (api *API) Close(ctx context.Context) {
	if err := api.srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown", "error", err)
	}

	api.wg.Wait()

	api.controller.Close()
	api.balances.Close()

	if api.queue != nil {
		api.queue.Close()
	}
}

// Start mounts the wallet session in the background and serves the HTTP API,
// the session state is visible through /view while it initialises.
func (api *API) Start() error {
	api.wg.Add(1)
	go func() {
		defer api.wg.Done()

		if err := api.controller.Init(api.ctx); err != nil {
			log.Error("Wallet session initialisation failed", "error", err)
		}
	}()

	go func() {
		if err := api.srv.Start(fmt.Sprintf(":%v", api.httpPort)); err != nethttp.ErrServerClosed {
			log.Error("HTTP server start", "error", err)
		}
	}()

	return nil
}
