package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

// Flags used to locate the wallet provider.
var (
	ProviderMode = &cli.StringFlag{
		Name:     "provider",
		Usage:    "Wallet provider: host (injected MiniPay bridge), keyed (local private key) or simulated",
		Value:    "host",
		Category: providerCategory,
		EnvVars:  []string{"PROVIDER"},
	}
	ProviderHostEndpoint = &cli.StringFlag{
		Name:     "provider.hostEndpoint",
		Usage:    "JSON-RPC endpoint of the wallet host provider bridge",
		Value:    "http://127.0.0.1:8545",
		Category: providerCategory,
		EnvVars:  []string{"PROVIDER_HOST_ENDPOINT"},
	}
	ProviderPrivKey = &cli.StringFlag{
		Name:     "provider.privKey",
		Usage:    "Private key of the account used by the keyed provider",
		Category: providerCategory,
		EnvVars:  []string{"PROVIDER_PRIV_KEY"},
	}
	ProviderPollInterval = &cli.DurationFlag{
		Name:     "provider.pollInterval",
		Usage:    "Interval between wallet provider probes",
		Value:    100 * time.Millisecond,
		Category: providerCategory,
		EnvVars:  []string{"PROVIDER_POLL_INTERVAL"},
	}
	ProviderTimeout = &cli.DurationFlag{
		Name:     "provider.timeout",
		Usage:    "Time to wait for the wallet provider to appear",
		Value:    10 * time.Second,
		Category: providerCategory,
		EnvVars:  []string{"PROVIDER_TIMEOUT"},
	}
	ProviderSimulatedLatency = &cli.DurationFlag{
		Name:     "provider.simulatedLatency",
		Usage:    "Time the simulated provider takes to confirm a transaction",
		Value:    2 * time.Second,
		Category: providerCategory,
		EnvVars:  []string{"PROVIDER_SIMULATED_LATENCY"},
	}
)

var ProviderFlags = []cli.Flag{
	ProviderMode,
	ProviderHostEndpoint,
	ProviderPrivKey,
	ProviderPollInterval,
	ProviderTimeout,
	ProviderSimulatedLatency,
}
