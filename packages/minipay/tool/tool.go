package tool

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/balance"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/locator"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/wallet"
)

// Command is a one-shot wallet command.
type Command string

const (
	CommandAddress Command = "address"
	CommandBalance Command = "balance"
	CommandSend    Command = "send"
)

// Tool runs a single wallet command and prints its result as JSON.
type Tool struct {
	command Command
	cfg     *Config
	out     io.Writer

	session *wallet.Session
	reader  *balance.Reader
}

type AddressResult struct {
	Address common.Address `json:"address"`
}

type BalanceResult struct {
	Address common.Address `json:"address"`
	Token   common.Address `json:"token"`
	Symbol  string         `json:"symbol,omitempty"`
	Raw     string         `json:"raw"`
	Balance string         `json:"balance"`
}

type SendResult struct {
	Hash   common.Hash    `json:"hash"`
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount string         `json:"amount"`
}

// New creates a tool running command.
func New(command Command) *Tool {
	return &Tool{command: command, out: os.Stdout}
}

func (t *Tool) InitFromCli(ctx context.Context, c *cli.Context) error {
	cfg, err := NewConfigFromCliContext(c)
	if err != nil {
		return err
	}

	return InitFromConfig(ctx, t, cfg)
}

func InitFromConfig(ctx context.Context, t *Tool, cfg *Config) error {
	if t.command == CommandSend {
		if err := cfg.Intent.Validate(); err != nil {
			return err
		}
	}

	l, err := locator.New(&cfg.Locator)
	if err != nil {
		return err
	}

	p, err := l.Locate(ctx)
	if err != nil {
		return err
	}

	t.cfg = cfg
	t.session = wallet.NewSession(p, cfg.Wallet.Wallet)

	return nil
}

func (t *Tool) Name() string {
	return string(t.command)
}

func (t *Tool) Run(ctx context.Context) error {
	var (
		result interface{}
		err    error
	)

	switch t.command {
	case CommandAddress:
		result, err = t.address(ctx)
	case CommandBalance:
		result, err = t.balance(ctx)
	case CommandSend:
		result, err = t.send(ctx)
	default:
		return cli.Exit("unknown command "+string(t.command), 1)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(t.out)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

func (t *Tool) Close(_ context.Context) {
	if t.session != nil {
		t.session.Provider().Close()
	}
	if t.reader != nil {
		t.reader.Close()
	}
}

func (t *Tool) address(ctx context.Context) (*AddressResult, error) {
	address, err := t.session.Address(ctx)
	if err != nil {
		return nil, err
	}

	return &AddressResult{Address: address}, nil
}

func (t *Tool) balance(ctx context.Context) (*BalanceResult, error) {
	var (
		address common.Address
		symbol  string
		reader  *balance.Reader
	)

	// The account request and the balance RPC connection are independent.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		address, err = t.session.Address(gCtx)
		return err
	})
	g.Go(func() (err error) {
		reader, err = balance.Dial(gCtx, t.cfg.RPCURL, t.cfg.Wallet.Wallet.Token, t.cfg.Wallet.Wallet.Decimals)
		if err != nil {
			return err
		}

		if err = reader.VerifyDecimals(gCtx); err != nil {
			return err
		}

		if symbol, err = reader.Symbol(gCtx); err != nil {
			log.Debug("Token symbol not available", "error", err)
		}

		return nil
	})
	if err := g.Wait(); err != nil {
		if reader != nil {
			reader.Close()
		}
		return nil, err
	}
	t.reader = reader

	b, err := reader.Balance(ctx, address)
	if err != nil {
		return nil, err
	}

	return &BalanceResult{
		Address: address,
		Token:   t.cfg.Wallet.Wallet.Token,
		Symbol:  symbol,
		Raw:     b.Raw.String(),
		Balance: b.Display(),
	}, nil
}

func (t *Tool) send(ctx context.Context) (*SendResult, error) {
	from, err := t.session.Address(ctx)
	if err != nil {
		return nil, err
	}

	to := t.cfg.Intent.To()

	hash, err := t.session.Send(ctx, to, t.cfg.Intent.Amount)
	if err != nil {
		return nil, err
	}

	return &SendResult{Hash: hash, From: from, To: to, Amount: t.cfg.Intent.Amount}, nil
}
