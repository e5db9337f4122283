// internal/upload/upload.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// ErrUnderfunded is returned when the storage balance is still below the
// price after the single top-up.
var ErrUnderfunded = errors.New("storage balance below upload price after funding")

const readAttempts = 3

// Uploader stores a blob and returns its immutable URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Node is a pay-per-byte storage node.
type Node interface {
	// Price is the cost of size bytes in lamports.
	Price(ctx context.Context, size int) (uint64, error)
	// Balance is the prepaid balance in lamports.
	Balance(ctx context.Context) (uint64, error)
	Fund(ctx context.Context, lamports uint64) error
	// Upload returns the content id.
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Funded uploads through a Node, topping its balance up once when needed.
type Funded struct {
	node    Node
	gateway string
	topUp   uint64
	backoff func() backoff.BackOff
	logger  *zap.Logger
}

// NewFunded creates an uploader. topUp is the minimum lamports deposited on a top-up.
func NewFunded(node Node, gateway string, topUp uint64, logger *zap.Logger) *Funded {
	return &Funded{
		node:    node,
		gateway: strings.TrimRight(gateway, "/"),
		topUp:   topUp,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			return b
		},
		logger: logger.Named("uploader"),
	}
}

func (f *Funded) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	price, err := retryRead(ctx, f, "price", func() (uint64, error) { return f.node.Price(ctx, len(data)) })
	if err != nil {
		return "", fmt.Errorf("failed to get upload price: %w", err)
	}

	balance, err := retryRead(ctx, f, "balance", func() (uint64, error) { return f.node.Balance(ctx) })
	if err != nil {
		return "", fmt.Errorf("failed to get storage balance: %w", err)
	}

	if balance < price {
		amount := max(price-balance, f.topUp)
		f.logger.Debug("Funding storage node",
			zap.Uint64("price", price),
			zap.Uint64("balance", balance),
			zap.Uint64("amount", amount))

		if err := f.node.Fund(ctx, amount); err != nil {
			return "", fmt.Errorf("failed to fund storage node: %w", err)
		}
		f.logger.Info("Storage funded", zap.Uint64("lamports", amount))

		balance, err = retryRead(ctx, f, "balance", func() (uint64, error) { return f.node.Balance(ctx) })
		if err != nil {
			return "", fmt.Errorf("failed to get storage balance: %w", err)
		}
		if balance < price {
			return "", fmt.Errorf("%w: balance %d, price %d", ErrUnderfunded, balance, price)
		}
	}

	id, err := f.node.Upload(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload: %w", err)
	}

	url := f.gateway + "/" + id
	f.logger.Info("Asset uploaded",
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
		zap.String("url", url))
	return url, nil
}

func retryRead(ctx context.Context, f *Funded, what string, op func() (uint64, error)) (uint64, error) {
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(f.backoff()),
		backoff.WithMaxTries(readAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			f.logger.Debug("Storage read failed, retrying",
				zap.String("read", what),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
}
