// internal/launch/resolver.go
package launch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

// SPL mint layout: mint authority option (36), supply (8), decimals (1), ...
const (
	mintAccountSize    = 82
	mintDecimalsOffset = 44
)

// mintResolver reads mint decimals. Decimals never change, so results are cached.
type mintResolver struct {
	client blockchain.Client
	cache  sync.Map // solana.PublicKey -> uint8
	logger *zap.Logger
}

func newMintResolver(client blockchain.Client, logger *zap.Logger) *mintResolver {
	return &mintResolver{client: client, logger: logger.Named("mints")}
}

func (r *mintResolver) decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	if cached, ok := r.cache.Load(mint); ok {
		return cached.(uint8), nil
	}

	account, err := r.client.GetAccountInfo(ctx, mint)
	if errors.Is(err, blockchain.ErrAccountNotFound) {
		return 0, &ResolutionError{Address: mint, Reason: "mint account not found"}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read mint %s: %w", mint, err)
	}
	if !account.Owner.Equals(solana.TokenProgramID) {
		return 0, &ResolutionError{Address: mint, Reason: fmt.Sprintf("owned by %s, not the token program", account.Owner)}
	}
	if len(account.Data) != mintAccountSize {
		return 0, &ResolutionError{Address: mint, Reason: fmt.Sprintf("account size %d is not a mint", len(account.Data))}
	}

	decimals := account.Data[mintDecimalsOffset]
	r.cache.Store(mint, decimals)
	r.logger.Debug("Mint resolved", zap.String("mint", mint.String()), zap.Uint8("decimals", decimals))
	return decimals, nil
}

// pair resolves base and quote decimals concurrently. The first failure
// cancels the other read.
func (r *mintResolver) pair(ctx context.Context, base, quote solana.PublicKey) (uint8, uint8, error) {
	var baseDecimals, quoteDecimals uint8
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := r.decimals(gctx, base)
		baseDecimals = d
		return err
	})
	g.Go(func() error {
		d, err := r.decimals(gctx, quote)
		quoteDecimals = d
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return baseDecimals, quoteDecimals, nil
}
