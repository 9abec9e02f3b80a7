package tool

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/queue"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/types"
)

// Watcher prints transfer notifications as JSON lines until interrupted.
type Watcher struct {
	queue queue.Queue
	out   io.Writer
	wg    sync.WaitGroup
}

func NewWatcher() *Watcher {
	return &Watcher{out: os.Stdout}
}

func (w *Watcher) InitFromCli(_ context.Context, c *cli.Context) error {
	cfg, err := NewWatchConfigFromCliContext(c)
	if err != nil {
		return err
	}

	q, err := cfg.OpenQueueFunc()
	if err != nil {
		return err
	}

	w.queue = q

	return nil
}

func (w *Watcher) Name() string {
	return "watch"
}

func (w *Watcher) Run(ctx context.Context) error {
	transfers := make(chan types.TransferConfirmed)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(transfers)
		return w.queue.Subscribe(gCtx, transfers, &w.wg)
	})
	g.Go(func() error {
		enc := json.NewEncoder(w.out)
		for transfer := range transfers {
			log.Debug("Transfer notification received", "hash", transfer.Hash)
			if err := enc.Encode(transfer); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func (w *Watcher) Close(_ context.Context) {
	w.wg.Wait()
	if w.queue != nil {
		w.queue.Close()
	}
}
