package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	SendDestination = &cli.StringFlag{
		Name:     "to",
		Usage:    "Destination address of the transfer",
		Required: true,
		Category: commonCategory,
	}
	SendAmount = &cli.StringFlag{
		Name:     "amount",
		Usage:    "Amount of stablecoin to transfer, e.g. 12.34",
		Required: true,
		Category: commonCategory,
	}
)

var AddressFlags = MergeFlags(CommonFlags, ProviderFlags)

var BalanceFlags = MergeFlags(CommonFlags, ProviderFlags)

var SendFlags = MergeFlags(CommonFlags, ProviderFlags, []cli.Flag{
	SendDestination,
	SendAmount,
})

var WatchFlags = MergeFlags(CommonFlags, QueueFlags)
