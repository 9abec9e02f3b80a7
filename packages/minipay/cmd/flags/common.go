package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	commonCategory   = "COMMON"
	providerCategory = "PROVIDER"
	apiCategory      = "API"
	queueCategory    = "QUEUE"
	loggingCategory  = "LOGGING"
)

// Chain flags used by all subcommands.
var (
	RPCUrl = &cli.StringFlag{
		Name:     "rpc.url",
		Usage:    "Read-only RPC endpoint of the Celo chain, used for balance reads",
		Value:    "https://forno.celo.org",
		Category: commonCategory,
		EnvVars:  []string{"RPC_URL"},
	}
	TokenAddress = &cli.StringFlag{
		Name:     "token.address",
		Usage:    "Address of the stablecoin (cUSD) contract",
		Value:    "0x765DE816845861e75A25fCA122bb6898B8B1282a",
		Category: commonCategory,
		EnvVars:  []string{"TOKEN_ADDRESS"},
	}
)

// Optional flags used by all subcommands.
var (
	Environment = &cli.StringFlag{
		Name:     "env",
		Usage:    "Deployment environment: production or development",
		Value:    "production",
		Category: commonCategory,
		EnvVars:  []string{"MINIPAY_ENV"},
	}
	TokenDecimals = &cli.UintFlag{
		Name:     "token.decimals",
		Usage:    "Decimals of the stablecoin contract",
		Value:    18,
		Category: commonCategory,
		EnvVars:  []string{"TOKEN_DECIMALS"},
	}
	ReceiptInterval = &cli.DurationFlag{
		Name:     "transfer.receiptInterval",
		Usage:    "Interval between transaction receipt lookups",
		Value:    1 * time.Second,
		Category: commonCategory,
		EnvVars:  []string{"TRANSFER_RECEIPT_INTERVAL"},
	}
	Verbosity = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: loggingCategory,
		EnvVars:  []string{"VERBOSITY"},
	}
	LogJSON = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs with JSON",
		Category: loggingCategory,
		EnvVars:  []string{"LOG_JSON"},
	}
)

// All common flags.
var CommonFlags = []cli.Flag{
	RPCUrl,
	TokenAddress,
	Environment,
	TokenDecimals,
	ReceiptInterval,
	Verbosity,
	LogJSON,
}

// MergeFlags merges the given flag slices.
func MergeFlags(groups ...[]cli.Flag) []cli.Flag {
	var merged []cli.Flag
	for _, group := range groups {
		merged = append(merged, group...)
	}

	return merged
}
