package rabbitmq

import (
	"strconv"
	"testing"

	"github.com/phayes/freeport"
	"github.com/stretchr/testify/require"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/queue"
)

func TestNewRabbitMQUnreachable(t *testing.T) {
	port, err := freeport.GetFreePort()
	require.Nil(t, err)

	_, err = NewRabbitMQ(queue.NewQueueOpts{
		Username: "guest",
		Password: "guest",
		Host:     "127.0.0.1",
		Port:     strconv.Itoa(port),
	})
	require.Error(t, err)
}
