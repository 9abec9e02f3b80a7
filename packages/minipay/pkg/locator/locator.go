package locator

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Aswin-p-p/minipay-app/packages/minipay/internal/metrics"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/poll"
	"github.com/Aswin-p-p/minipay-app/packages/minipay/pkg/provider"
)

// Mode selects where the wallet provider comes from.
type Mode string

const (
	ModeHost      Mode = "host"
	ModeKeyed     Mode = "keyed"
	ModeSimulated Mode = "simulated"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultTimeout      = 10 * time.Second
)

var (
	// ErrProviderNotFound means no provider appeared within the locate timeout.
	ErrProviderNotFound = errors.New("MiniPay provider not found")
	ErrUnknownMode      = errors.New("unknown provider mode")
	ErrSimulatedInProd  = errors.New("simulated provider is not available in production")
)

// ParseMode parses a --provider flag value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeHost, ModeKeyed, ModeSimulated:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Config configures a Locator.
type Config struct {
	Mode Mode
	// HostEndpoint is the wallet host bridge, used in host mode.
	HostEndpoint string
	// RPCURL and PrivateKey are used in keyed mode.
	RPCURL     string
	PrivateKey *ecdsa.PrivateKey

	PollInterval     time.Duration
	Timeout          time.Duration
	SimulatedLatency time.Duration
	Production       bool
}

// Validate checks the locator configuration.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeHost:
		if c.HostEndpoint == "" {
			return errors.New("host endpoint is required in host mode")
		}
	case ModeKeyed:
		if c.RPCURL == "" {
			return errors.New("RPC URL is required in keyed mode")
		}
		if c.PrivateKey == nil {
			return errors.New("private key is required in keyed mode")
		}
	case ModeSimulated:
		if c.Production {
			return ErrSimulatedInProd
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}

	return poll.Options{Interval: c.PollInterval, Timeout: c.Timeout}.Validate()
}

// Locator finds the wallet provider handle for a session.
type Locator struct {
	cfg *Config

	dial     func(ctx context.Context) (provider.Provider, error)
	clock    backoff.Clock
	newTimer func() backoff.Timer
}

// New creates a Locator, zero intervals fall back to the defaults.
func New(cfg *Config) (*Locator, error) {
	c := *cfg
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	l := &Locator{cfg: &c}

	switch c.Mode {
	case ModeHost:
		l.dial = func(ctx context.Context) (provider.Provider, error) {
			return provider.DialHost(ctx, c.HostEndpoint)
		}
	case ModeKeyed:
		l.dial = func(ctx context.Context) (provider.Provider, error) {
			return provider.DialKeyed(ctx, c.RPCURL, c.PrivateKey)
		}
	}

	return l, nil
}

// Mode returns the configured provider mode.
func (l *Locator) Mode() Mode {
	return l.cfg.Mode
}

// Locate probes for the provider immediately and then on every poll interval.
// It returns within the configured timeout, failing with ErrProviderNotFound,
// or with the context error when ctx is cancelled first. The returned handle
// is owned by the caller.
func (l *Locator) Locate(ctx context.Context) (provider.Provider, error) {
	if l.cfg.Mode == ModeSimulated {
		log.Warn("Using simulated wallet provider", "latency", l.cfg.SimulatedLatency)
		metrics.LocatorResultsCounter.WithLabelValues(string(l.cfg.Mode), metrics.ResultSuccess).Inc()
		return provider.NewSimulated(l.cfg.SimulatedLatency), nil
	}

	start := time.Now()

	p, err := poll.Until(ctx, func(ctx context.Context) (provider.Provider, error) {
		metrics.LocatorProbesCounter.Inc()
		return l.dial(ctx)
	}, poll.Options{
		Interval: l.cfg.PollInterval,
		Timeout:  l.cfg.Timeout,
		Clock:    l.clock,
		NewTimer: l.newTimer,
		Notify: func(err error, next time.Duration) {
			log.Trace("Wallet provider not available yet", "next", next, "error", err)
		},
	})
	if err != nil {
		if errors.Is(err, poll.ErrTimeout) {
			metrics.LocatorResultsCounter.WithLabelValues(string(l.cfg.Mode), metrics.ResultTimeout).Inc()
			log.Error("Wallet provider not found", "mode", l.cfg.Mode, "timeout", l.cfg.Timeout, "error", err)

			return nil, fmt.Errorf(
				"%w after %s. Make sure you are in the MiniPay environment",
				ErrProviderNotFound,
				l.cfg.Timeout,
			)
		}

		metrics.LocatorResultsCounter.WithLabelValues(string(l.cfg.Mode), metrics.ResultFailure).Inc()
		return nil, err
	}

	metrics.LocatorResultsCounter.WithLabelValues(string(l.cfg.Mode), metrics.ResultSuccess).Inc()
	log.Info("Wallet provider located", "mode", l.cfg.Mode, "elapsed", time.Since(start))

	return p, nil
}
