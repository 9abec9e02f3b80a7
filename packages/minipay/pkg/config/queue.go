package config

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/cmd/flags"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/queue"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/queue/rabbitmq"
)

// OpenQueueFunc opens the transfer notifications queue.
type OpenQueueFunc func() (queue.Queue, error)

// NewQueueOptsFromCliContext returns the queue options, nil when no queue host is configured.
func NewQueueOptsFromCliContext(c *cli.Context) *queue.NewQueueOpts {
	if c.String(flags.QueueHost.Name) == "" {
		return nil
	}

	return &queue.NewQueueOpts{
		Username:      c.String(flags.QueueUsername.Name),
		Password:      c.String(flags.QueuePassword.Name),
		Host:          c.String(flags.QueueHost.Name),
		Port:          strconv.FormatUint(c.Uint64(flags.QueuePort.Name), 10),
		Name:          c.String(flags.QueueName.Name),
		PrefetchCount: c.Uint64(flags.QueuePrefetch.Name),
	}
}

// NewOpenQueueFunc returns a function dialing RabbitMQ with opts, nil when opts is nil.
func NewOpenQueueFunc(opts *queue.NewQueueOpts) OpenQueueFunc {
	if opts == nil {
		return nil
	}

	return func() (queue.Queue, error) {
		q, err := rabbitmq.NewRabbitMQ(*opts)
		if err != nil {
			return nil, err
		}

		return q, nil
	}
}
