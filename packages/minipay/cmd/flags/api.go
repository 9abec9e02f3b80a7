package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	HTTPPort = &cli.Uint64Flag{
		Name:     "http.port",
		Usage:    "Port to run the HTTP API on",
		Value:    8080,
		Category: apiCategory,
		EnvVars:  []string{"HTTP_PORT"},
	}
	CORSOrigins = &cli.StringFlag{
		Name:     "http.corsOrigins",
		Usage:    "Comma-delimited list of allowed CORS origins",
		Value:    "*",
		Category: apiCategory,
		EnvVars:  []string{"HTTP_CORS_ORIGINS"},
	}
	BuyDelay = &cli.DurationFlag{
		Name:     "buy.delay",
		Usage:    "Time the placeholder on-ramp takes before refreshing the balance",
		Value:    3 * time.Second,
		Category: apiCategory,
		EnvVars:  []string{"BUY_DELAY"},
	}
)

var APIFlags = MergeFlags(CommonFlags, ProviderFlags, QueueFlags, []cli.Flag{
	HTTPPort,
	CORSOrigins,
	BuyDelay,
})
