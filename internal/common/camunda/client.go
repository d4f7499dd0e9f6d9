package camunda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"visa-pathway-workers/internal/common/config"
)

var (
	ErrBrokerUnavailable = errors.New("zeebe broker unavailable")
	ErrBrokerTimeout     = errors.New("zeebe request timed out")
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 3,
	BaseDelay:  time.Second,
	MaxDelay:   10 * time.Second,
}

type Client struct {
	zb             zbc.Client
	requestTimeout time.Duration
	retry          RetryConfig
}

// NewClient connects to the gateway and confirms it answers a topology request,
// retrying transient failures with exponential backoff.
func NewClient(ctx context.Context, cfg config.CamundaConfig) (*Client, error) {
	zb, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: cfg.UsePlaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{
		zb:             zb,
		requestTimeout: time.Duration(cfg.RequestTimeout) * time.Millisecond,
		retry:          DefaultRetryConfig,
	}
	if err := c.HealthCheck(ctx); err != nil {
		_ = zb.Close()
		return nil, fmt.Errorf("connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return c, nil
}

func (c *Client) Zeebe() zbc.Client {
	return c.zb
}

func (c *Client) Close() error {
	return c.zb.Close()
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return withRetry(ctx, c.retry, "topology", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
		_, err := c.zb.NewTopologyCommand().Send(ctx)
		return err
	})
}

// Ping checks the gateway once without retrying.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()
	if _, err := c.zb.NewTopologyCommand().Send(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func withRetry(ctx context.Context, rc RetryConfig, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == rc.MaxRetries {
			break
		}

		delay := rc.BaseDelay * time.Duration(1<<attempt)
		if delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", op, attempt+1, ctx.Err())
		}
	}
	return fmt.Errorf("%s: %w", op, classify(lastErr))
}

var retryablePhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return fmt.Errorf("%w: %v", ErrBrokerTimeout, err)
	case isRetryable(err):
		return fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	default:
		return err
	}
}
