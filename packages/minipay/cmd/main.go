package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/api"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/flags"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/utils"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/tool"
)

func main() {
	app := cli.NewApp()

	// attempt to load a .env file to overwrite CLI flags, but allow it to not
	// exist.
	envFile := os.Getenv("MINIPAY_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)

	app.Name = "MiniPay Wallet"
	app.Usage = "The MiniPay cUSD wallet command line interface"
	app.Copyright = ""
	app.Description = "Stablecoin wallet client for the MiniPay wallet host on Celo"
	app.Authors = []*cli.Author{{Name: "", Email: ""}}
	app.EnableBashCompletion = true

	// All supported sub commands.
	app.Commands = []*cli.Command{
		{
			Name:        "serve",
			Flags:       flags.APIFlags,
			Usage:       "Starts the wallet HTTP API",
			Description: "Mounts a wallet session and serves its screens over HTTP",
			Action:      utils.SubcommandAction(new(api.API)),
		},
		{
			Name:        "address",
			Flags:       flags.AddressFlags,
			Usage:       "Prints the connected wallet address",
			Description: "Locates the wallet provider and requests its accounts",
			Action:      utils.OneShotAction(tool.New(tool.CommandAddress)),
		},
		{
			Name:        "balance",
			Flags:       flags.BalanceFlags,
			Usage:       "Prints the stablecoin balance of the connected wallet",
			Description: "Reads the cUSD balance of the connected wallet",
			Action:      utils.OneShotAction(tool.New(tool.CommandBalance)),
		},
		{
			Name:        "send",
			Flags:       flags.SendFlags,
			Usage:       "Sends stablecoin to an address",
			Description: "Submits a cUSD transfer through the wallet provider and waits for it to be mined",
			Action:      utils.OneShotAction(tool.New(tool.CommandSend)),
		},
		{
			Name:        "watch",
			Flags:       flags.WatchFlags,
			Usage:       "Prints transfer notifications",
			Description: "Consumes confirmed transfer notifications from the queue",
			Action:      utils.OneShotAction(tool.NewWatcher()),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
