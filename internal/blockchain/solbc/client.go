// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/rpc"
)

const defaultPollInterval = 500 * time.Millisecond

// ErrNotConfirmed is returned while a signature has not reached the target commitment.
var ErrNotConfirmed = errors.New("transaction not confirmed yet")

// TransactionFailedError carries the on-chain error reported in a signature status.
type TransactionFailedError struct {
	Signature solana.Signature
	Err       interface{}
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

// Client is a thin adapter over solana-go with multi-node failover.
type Client struct {
	rpc          *rpc.RPCClient
	commitment   solanarpc.CommitmentType
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewClient creates a client for the given RPC URLs.
func NewClient(urls []string, commitment solanarpc.CommitmentType, logger *zap.Logger) (*Client, error) {
	failover, err := rpc.NewClient(urls, logger)
	if err != nil {
		return nil, err
	}
	if commitment == "" {
		commitment = solanarpc.CommitmentConfirmed
	}
	return &Client{
		rpc:          failover,
		commitment:   commitment,
		pollInterval: defaultPollInterval,
		logger:       logger.Named("solbc-client"),
	}, nil
}

// GetLatestBlockhash returns a finalized blockhash.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var hash solana.Hash
	err := c.rpc.ExecuteWithRetry(ctx, "getLatestBlockhash", func(ctx context.Context, node *solanarpc.Client) error {
		result, err := node.GetLatestBlockhash(ctx, solanarpc.CommitmentFinalized)
		if err != nil {
			return err
		}
		hash = result.Value.Blockhash
		return nil
	})
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return hash, nil
}

// GetAccountInfo reads an account in base64 encoding.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*blockchain.Account, error) {
	var account *blockchain.Account
	err := c.rpc.ExecuteWithRetry(ctx, "getAccountInfo", func(ctx context.Context, node *solanarpc.Client) error {
		result, err := node.GetAccountInfoWithOpts(ctx, pubkey, &solanarpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		if err != nil {
			return err
		}
		if result == nil || result.Value == nil {
			return solanarpc.ErrNotFound
		}
		account = &blockchain.Account{
			Address:  pubkey,
			Owner:    result.Value.Owner,
			Lamports: result.Value.Lamports,
		}
		if result.Value.Data != nil {
			account.Data = result.Value.Data.GetBinary()
		}
		return nil
	})
	if errors.Is(err, solanarpc.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", pubkey, blockchain.ErrAccountNotFound)
	}
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, err
	}
	return account, nil
}

// GetBalance returns the lamport balance of pubkey.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	var balance uint64
	err := c.rpc.ExecuteWithRetry(ctx, "getBalance", func(ctx context.Context, node *solanarpc.Client) error {
		result, err := node.GetBalance(ctx, pubkey, c.commitment)
		if err != nil {
			return err
		}
		balance = result.Value
		return nil
	})
	if err != nil {
		c.logger.Error("GetBalance error", zap.String("pubkey", pubkey.String()), zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for size bytes.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	var lamports uint64
	err := c.rpc.ExecuteWithRetry(ctx, "getMinimumBalanceForRentExemption", func(ctx context.Context, node *solanarpc.Client) error {
		var err error
		lamports, err = node.GetMinimumBalanceForRentExemption(ctx, size, c.commitment)
		return err
	})
	if err != nil {
		c.logger.Error("GetMinimumBalanceForRentExemption error", zap.Uint64("size", size), zap.Error(err))
		return 0, err
	}
	return lamports, nil
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	preflight := opts.PreflightCommitment
	if preflight == "" {
		preflight = c.commitment
	}
	var sig solana.Signature
	err := c.rpc.ExecuteWithRetry(ctx, "sendTransaction", func(ctx context.Context, node *solanarpc.Client) error {
		var err error
		sig, err = node.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
			SkipPreflight:       opts.SkipPreflight,
			PreflightCommitment: preflight,
		})
		return err
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// WaitForConfirmation polls signature statuses until the client's commitment
// is reached. The deadline comes from ctx.
func (c *Client) WaitForConfirmation(ctx context.Context, signature solana.Signature) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		var statuses *solanarpc.GetSignatureStatusesResult
		err := c.rpc.ExecuteWithRetry(ctx, "getSignatureStatuses", func(ctx context.Context, node *solanarpc.Client) error {
			var err error
			statuses, err = node.GetSignatureStatuses(ctx, false, signature)
			return err
		})
		if err != nil {
			c.logger.Warn("Error getting signature statuses", zap.Error(err))
			return struct{}{}, err
		}
		if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
			return struct{}{}, ErrNotConfirmed
		}
		status := statuses.Value[0]
		if status.Err != nil {
			return struct{}{}, backoff.Permanent(&TransactionFailedError{Signature: signature, Err: status.Err})
		}
		if reached(status.ConfirmationStatus, c.commitment) {
			return struct{}{}, nil
		}
		return struct{}{}, ErrNotConfirmed
	}, backoff.WithBackOff(backoff.NewConstantBackOff(c.pollInterval)), backoff.WithMaxElapsedTime(0))
	return err
}

func reached(status solanarpc.ConfirmationStatusType, target solanarpc.CommitmentType) bool {
	switch target {
	case solanarpc.CommitmentProcessed:
		return status != ""
	case solanarpc.CommitmentFinalized:
		return status == solanarpc.ConfirmationStatusFinalized
	default:
		return status == solanarpc.ConfirmationStatusConfirmed || status == solanarpc.ConfirmationStatusFinalized
	}
}

var _ blockchain.Client = (*Client)(nil)
