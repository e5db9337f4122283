package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

// Launcher runs the creation flows.
type Launcher interface {
	CreateToken(ctx context.Context, signer transaction.Signer, spec launch.TokenSpec) (*launch.TokenResult, error)
	CreateMarket(ctx context.Context, signer transaction.Signer, spec launch.MarketSpec) (*launch.MarketResult, error)
	CreatePool(ctx context.Context, signer transaction.Signer, spec launch.PoolSpec) (*launch.PoolResult, error)
}

// Services is what screens need from the rest of the application.
type Services struct {
	Ctx      context.Context
	Launcher Launcher
	Signer   transaction.Signer
	// Receipts seeds the activity list. Optional.
	Receipts storage.ReceiptStore
	Network  string
	Logger   *zap.Logger
}

// Context returns the application context, or Background when unset.
func (s *Services) Context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}
