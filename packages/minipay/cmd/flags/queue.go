package flags

import (
	"github.com/urfave/cli/v2"
)

// Transfer notifications are only published when queue.host is set.
var (
	QueueUsername = &cli.StringFlag{
		Name:     "queue.username",
		Usage:    "Queue connection username",
		Category: queueCategory,
		EnvVars:  []string{"QUEUE_USER"},
	}
	QueuePassword = &cli.StringFlag{
		Name:     "queue.password",
		Usage:    "Queue connection password",
		Category: queueCategory,
		EnvVars:  []string{"QUEUE_PASSWORD"},
	}
	QueueHost = &cli.StringFlag{
		Name:     "queue.host",
		Usage:    "Queue connection host, transfer notifications are disabled when empty",
		Category: queueCategory,
		EnvVars:  []string{"QUEUE_HOST"},
	}
	QueuePort = &cli.Uint64Flag{
		Name:     "queue.port",
		Usage:    "Queue connection port",
		Value:    5672,
		Category: queueCategory,
		EnvVars:  []string{"QUEUE_PORT"},
	}
	QueueName = &cli.StringFlag{
		Name:     "queue.name",
		Usage:    "Name of the transfer notifications queue",
		Value:    "minipay-transfers",
		Category: queueCategory,
		EnvVars:  []string{"QUEUE_NAME"},
	}
	QueuePrefetch = &cli.Uint64Flag{
		Name:     "queue.prefetch",
		Usage:    "Number of unacknowledged notifications delivered to a consumer",
		Value:    10,
		Category: queueCategory,
		EnvVars:  []string{"QUEUE_PREFETCH"},
	}
)

var QueueFlags = []cli.Flag{
	QueueUsername,
	QueuePassword,
	QueueHost,
	QueuePort,
	QueueName,
	QueuePrefetch,
}
