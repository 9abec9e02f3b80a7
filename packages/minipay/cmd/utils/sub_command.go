package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

type SubcommandApplication interface {
	InitFromCli(context.Context, *cli.Context) error
	Name() string
	Start() error
	Close(context.Context)
}

// SubcommandAction runs a long-lived application until an interrupt or
// termination signal is received.
func SubcommandAction(app SubcommandApplication) cli.ActionFunc {
	return func(c *cli.Context) error {
		InitLogger(c)

		ctx, ctxClose := context.WithCancel(context.Background())
		defer ctxClose()

		if err := app.InitFromCli(ctx, c); err != nil {
			return err
		}

		log.Info("Starting MiniPay application", "name", app.Name())

		if err := app.Start(); err != nil {
			log.Error("Starting application error", "name", app.Name(), "error", err)
			return err
		}

		defer func() {
			ctxClose()
			app.Close(ctx)
			log.Info("Application stopped", "name", app.Name())
		}()

		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, []os.Signal{
			os.Interrupt,
			syscall.SIGTERM,
			syscall.SIGQUIT,
		}...)
		<-quitCh

		return nil
	}
}

type OneShotApplication interface {
	InitFromCli(context.Context, *cli.Context) error
	Name() string
	Run(context.Context) error
	Close(context.Context)
}

// OneShotAction runs an application once, an interrupt cancels the run.
func OneShotAction(app OneShotApplication) cli.ActionFunc {
	return func(c *cli.Context) error {
		InitLogger(c)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.InitFromCli(ctx, c); err != nil {
			return err
		}
		defer app.Close(ctx)

		log.Debug("Running MiniPay command", "name", app.Name())

		return app.Run(ctx)
	}
}
