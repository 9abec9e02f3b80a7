package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/queue"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
)

type RabbitMQ struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string

	connErrCh chan *amqp.Error
	chErrCh   chan *amqp.Error

	closeOnce sync.Once

	opts queue.NewQueueOpts
}

func NewRabbitMQ(opts queue.NewQueueOpts) (*RabbitMQ, error) {
	log.Info("Dialing rabbitmq connection", "host", opts.Host, "port", opts.Port)

	queueName := opts.Name
	if queueName == "" {
		queueName = queue.DefaultQueueName
	}

	r := &RabbitMQ{
		opts:      opts,
		queueName: queueName,
	}

	if err := r.connect(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.DialConfig(
		fmt.Sprintf(
			"amqp://%v:%v@%v:%v/",
			r.opts.Username,
			r.opts.Password,
			r.opts.Host,
			r.opts.Port,
		),
		amqp.Config{
			Heartbeat: 1 * time.Second,
		})
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.Qos(int(r.opts.PrefetchCount), 0, false); err != nil {
		_ = conn.Close()
		return err
	}

	if _, err := ch.QueueDeclare(
		r.queueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = conn.Close()
		return err
	}

	r.conn = conn
	r.ch = ch
	r.connErrCh = conn.NotifyClose(make(chan *amqp.Error, 1))
	r.chErrCh = ch.NotifyClose(make(chan *amqp.Error, 1))

	log.Info("Connected to rabbitmq", "queue", r.queueName)

	return nil
}

func (r *RabbitMQ) Publish(ctx context.Context, transfer types.TransferConfirmed) error {
	if r.conn.IsClosed() {
		return queue.ErrClosed
	}

	body, err := json.Marshal(transfer)
	if err != nil {
		return err
	}

	err = r.ch.PublishWithContext(ctx,
		"",
		r.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    transfer.ConfirmedAt,
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	log.Debug("Transfer notification published", "queue", r.queueName, "hash", transfer.Hash)

	return nil
}

func (r *RabbitMQ) Subscribe(ctx context.Context, msgChan chan<- types.TransferConfirmed, wg *sync.WaitGroup) error {
	wg.Add(1)
	defer wg.Done()

	log.Info("Starting message consumer", "queue", r.queueName)

	msgs, err := r.ch.Consume(
		r.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("Consumer context cancelled")
			return nil
		case err := <-r.connErrCh:
			log.Error("RabbitMQ connection closed", "error", err)
			return queue.ErrClosed
		case err := <-r.chErrCh:
			log.Error("RabbitMQ channel closed", "error", err)
			return queue.ErrClosed
		case d, ok := <-msgs:
			if !ok {
				log.Error("Message channel closed")
				return queue.ErrClosed
			}

			var transfer types.TransferConfirmed
			if err := json.Unmarshal(d.Body, &transfer); err != nil {
				log.Error("Failed to parse message", "error", err)
				_ = d.Nack(false, false)
				continue
			}

			select {
			case msgChan <- transfer:
				_ = d.Ack(false)
			case <-ctx.Done():
				_ = d.Nack(false, true)
				return nil
			}
		}
	}
}

func (r *RabbitMQ) Close() {
	r.closeOnce.Do(func() {
		if err := r.ch.Close(); err != nil && err != amqp.ErrClosed {
			log.Error("Error closing RabbitMQ channel", "error", err)
		}

		if err := r.conn.Close(); err != nil && err != amqp.ErrClosed {
			log.Error("Error closing RabbitMQ connection", "error", err)
		}

		log.Info("RabbitMQ connection closed")
	})
}
