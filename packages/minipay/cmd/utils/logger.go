package utils

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/flags"
)

// InitLogger initializes the root logger with the command line flags.
func InitLogger(c *cli.Context) {
	var (
		slogVerbosity = log.FromLegacyLevel(c.Int(flags.Verbosity.Name))
		glogger       *log.GlogHandler
	)

	// stdout is reserved for command output.
	if c.Bool(flags.LogJSON.Name) {
		glogger = log.NewGlogHandler(log.JSONHandler(os.Stderr))
	} else {
		glogger = log.NewGlogHandler(log.NewTerminalHandler(os.Stderr, true))
	}

	glogger.Verbosity(slogVerbosity)
	log.SetDefault(log.NewLogger(glogger))
}
