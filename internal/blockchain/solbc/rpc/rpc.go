// internal/blockchain/solbc/rpc/rpc.go
package rpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

const (
	retryAttempts = 2
	retryDelay    = 500 * time.Millisecond
	reqTimeout    = 10 * time.Second
)

// RPCClient spreads requests over several nodes and fails over on
// transport errors.
type RPCClient struct {
	nodes   []*solanarpc.Client
	urls    []string
	current int
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewClient creates a failover client for urls.
func NewClient(urls []string, logger *zap.Logger) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, ErrNoRPCNodes
	}

	nodes := make([]*solanarpc.Client, len(urls))
	for i, url := range urls {
		nodes[i] = solanarpc.New(url)
	}

	return &RPCClient{
		nodes:  nodes,
		urls:   urls,
		logger: logger.Named("rpc-client"),
	}, nil
}

// next returns the current node and advances the cursor.
func (c *RPCClient) next() (*solanarpc.Client, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, url := c.nodes[c.current], c.urls[c.current]
	c.current = (c.current + 1) % len(c.nodes)
	return node, url
}

// ExecuteWithRetry runs operation against successive nodes until it succeeds,
// returns a non-retryable error, or every node has been tried retryAttempts times.
// Each attempt gets its own reqTimeout.
func (c *RPCClient) ExecuteWithRetry(ctx context.Context, method string, operation func(context.Context, *solanarpc.Client) error) error {
	maxTries := uint(retryAttempts * len(c.nodes))

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		node, url := c.next()

		attemptCtx, cancel := context.WithTimeout(ctx, reqTimeout)
		defer cancel()

		err := operation(attemptCtx, node)
		if err == nil {
			return struct{}{}, nil
		}
		wrapped := NewError(err, url, method)
		if !IsRetryable(err) {
			return struct{}{}, backoff.Permanent(wrapped)
		}
		return struct{}{}, wrapped
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(retryDelay)),
		backoff.WithMaxTries(maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Debug("RPC request failed, trying next node",
				zap.String("method", method),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
	return err
}

// IsRetryable reports whether another node might answer differently.
// Answers the node gave deliberately (JSON-RPC errors, empty accounts) are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, solanarpc.ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	var rpcErr *jsonrpc.RPCError
	return !errors.As(err, &rpcErr)
}
