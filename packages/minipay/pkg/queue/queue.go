package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
)

const DefaultQueueName = "minipay-transfers"

var (
	ErrClosed = errors.New("queue connection closed")
)

type Queue interface {
	Close()
	Publish(ctx context.Context, transfer types.TransferConfirmed) error
	Subscribe(ctx context.Context, msgChan chan<- types.TransferConfirmed, wg *sync.WaitGroup) error
}

type NewQueueOpts struct {
	Username      string
	Password      string
	Host          string
	Port          string
	Name          string
	PrefetchCount uint64
}
