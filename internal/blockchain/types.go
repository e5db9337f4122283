// internal/blockchain/types.go
package blockchain

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrAccountNotFound is returned by GetAccountInfo when the address holds no account.
var ErrAccountNotFound = errors.New("account not found")

// Account is the decoded subset of an on-chain account the launch flows read.
type Account struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// TransactionOptions controls preflight behaviour on send.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
}

// Client is the chain access the launch flows depend on.
type Client interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	// GetAccountInfo returns ErrAccountNotFound for an empty address.
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*Account, error)
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction, opts TransactionOptions) (solana.Signature, error)
	// WaitForConfirmation blocks until the signature reaches the client's
	// commitment, the transaction fails, or ctx is done.
	WaitForConfirmation(ctx context.Context, signature solana.Signature) error
}
