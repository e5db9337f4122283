// internal/launch/market.go
package launch

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/dex/openbook"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/raydium"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

// Market batch steps.
const (
	StepCreateBaseVault     = "create-base-vault"
	StepInitBaseVault       = "init-base-vault"
	StepCreateQuoteVault    = "create-quote-vault"
	StepInitQuoteVault      = "init-quote-vault"
	StepCreateMarketAccount = "create-market-account"
	StepCreateRequestQueue  = "create-request-queue"
	StepCreateEventQueue    = "create-event-queue"
	StepCreateBids          = "create-bids"
	StepCreateAsks          = "create-asks"
	StepInitializeMarket    = "initialize-market"

	batchVaults = "vaults"
	batchMarket = "market"
)

// marketKeys are the fresh accounts of one market.
type marketKeys struct {
	market, requestQueue, eventQueue, bids, asks solana.PrivateKey
	baseVault, quoteVault                        solana.PrivateKey
}

// CreateMarket creates an order book market for two existing mints. The
// vaults go in a first transaction and the market accounts in a second;
// the market transaction is not sent when the vaults fail.
func (s *Service) CreateMarket(ctx context.Context, signer transaction.Signer, spec MarketSpec) (result *MarketResult, err error) {
	r, err := s.start(ctx, models.FlowMarket, &s.marketGuard, signer, spec.Validate)
	if err != nil {
		return nil, err
	}
	defer func() { s.finish(ctx, r, result, err) }()

	baseDecimals, quoteDecimals, err := s.mints.pair(ctx, spec.BaseMint, spec.QuoteMint)
	if err != nil {
		return nil, err
	}

	baseLot, quoteLot, err := openbook.LotSizes(spec.LotSize, spec.TickSize, baseDecimals, quoteDecimals)
	if err != nil {
		field := "lot_size"
		if errors.Is(err, openbook.ErrZeroLotSize) && baseLotIsFine(spec, baseDecimals) {
			field = "tick_size"
		}
		return nil, &ValidationError{Field: field, Reason: err.Error(), Err: err}
	}

	keys, err := s.newMarketKeys()
	if err != nil {
		return nil, err
	}
	program := s.settings.Programs.OpenBook
	vaultSigner, nonce, err := openbook.FindVaultSigner(keys.market.PublicKey(), program)
	if err != nil {
		return nil, err
	}
	r.receipt.Address = keys.market.PublicKey().String()
	r.logger.Info("Market prepared",
		zap.String("market", keys.market.PublicKey().String()),
		zap.Uint8("base_decimals", baseDecimals),
		zap.Uint8("quote_decimals", quoteDecimals),
		zap.Uint64("base_lot_size", baseLot),
		zap.Uint64("quote_lot_size", quoteLot),
		zap.Uint64("vault_signer_nonce", nonce))

	vaults, err := s.buildVaultBatch(ctx, r.payer, spec, keys, vaultSigner)
	if err != nil {
		return nil, err
	}
	market, err := s.buildMarketBatch(ctx, r.payer, spec, keys, openbook.InitializeMarketParams{
		BaseLotSize:      baseLot,
		QuoteLotSize:     quoteLot,
		VaultSignerNonce: nonce,
	})
	if err != nil {
		return nil, err
	}

	out := &MarketResult{
		MarketID:     keys.market.PublicKey(),
		BaseVault:    keys.baseVault.PublicKey(),
		QuoteVault:   keys.quoteVault.PublicKey(),
		VaultSigner:  vaultSigner,
		BaseLotSize:  baseLot,
		QuoteLotSize: quoteLot,
	}
	var created []solana.PublicKey
	for _, batch := range []*Batch{vaults, market} {
		sig, err := s.submit(ctx, r, signer, batch)
		if err != nil {
			var serr *SubmissionError
			if len(created) > 0 && errors.As(err, &serr) {
				serr.Created = created
				r.logger.Warn("Market transaction failed after the vaults were created",
					zap.Stringer("base_vault", out.BaseVault),
					zap.Stringer("quote_vault", out.QuoteVault))
			}
			return nil, err
		}
		out.Signatures = append(out.Signatures, sig)
		out.Signature = sig
		if batch == vaults {
			created = []solana.PublicKey{out.BaseVault, out.QuoteVault}
		}
	}
	return out, nil
}

func baseLotIsFine(spec MarketSpec, baseDecimals uint8) bool {
	return openbook.RawLotSize(spec.LotSize, baseDecimals).Sign() > 0
}

func (s *Service) newMarketKeys() (*marketKeys, error) {
	keys := &marketKeys{}
	for _, dst := range []*solana.PrivateKey{
		&keys.market, &keys.requestQueue, &keys.eventQueue, &keys.bids, &keys.asks,
		&keys.baseVault, &keys.quoteVault,
	} {
		key, err := s.newKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate market keypair: %w", err)
		}
		*dst = key
	}
	return keys, nil
}

// buildVaultBatch creates both token vaults owned by the market's vault signer.
func (s *Service) buildVaultBatch(ctx context.Context, payer solana.PublicKey, spec MarketSpec, keys *marketKeys, vaultSigner solana.PublicKey) (*Batch, error) {
	rent, err := s.rent(ctx, raydium.TokenAccountSize)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Label: batchVaults, Signers: []solana.PrivateKey{keys.baseVault, keys.quoteVault}}
	baseVault, quoteVault := keys.baseVault.PublicKey(), keys.quoteVault.PublicKey()

	batch.add(StepCreateBaseVault,
		system.NewCreateAccountInstruction(rent, raydium.TokenAccountSize, solana.TokenProgramID, payer, baseVault).Build())
	batch.add(StepInitBaseVault,
		token.NewInitializeAccountInstruction(baseVault, spec.BaseMint, vaultSigner, solana.SysVarRentPubkey).Build())
	batch.add(StepCreateQuoteVault,
		system.NewCreateAccountInstruction(rent, raydium.TokenAccountSize, solana.TokenProgramID, payer, quoteVault).Build())
	batch.add(StepInitQuoteVault,
		token.NewInitializeAccountInstruction(quoteVault, spec.QuoteMint, vaultSigner, solana.SysVarRentPubkey).Build())
	return batch, nil
}

// buildMarketBatch allocates the market, queues and books, initializes the
// market and appends the service fee.
func (s *Service) buildMarketBatch(ctx context.Context, payer solana.PublicKey, spec MarketSpec, keys *marketKeys, params openbook.InitializeMarketParams) (*Batch, error) {
	program := s.settings.Programs.OpenBook
	sizes := s.settings.MarketSizes

	batch := &Batch{
		Label:   batchMarket,
		Signers: []solana.PrivateKey{keys.market, keys.requestQueue, keys.eventQueue, keys.bids, keys.asks},
	}
	for _, acct := range []struct {
		label string
		key   solana.PrivateKey
		size  uint64
	}{
		{StepCreateMarketAccount, keys.market, openbook.MarketAccountSize},
		{StepCreateRequestQueue, keys.requestQueue, sizes.RequestQueue},
		{StepCreateEventQueue, keys.eventQueue, sizes.EventQueue},
		{StepCreateBids, keys.bids, sizes.Orderbook},
		{StepCreateAsks, keys.asks, sizes.Orderbook},
	} {
		rent, err := s.rent(ctx, acct.size)
		if err != nil {
			return nil, err
		}
		batch.add(acct.label,
			system.NewCreateAccountInstruction(rent, acct.size, program, payer, acct.key.PublicKey()).Build())
	}

	batch.add(StepInitializeMarket, openbook.NewInitializeMarketInstruction(program, openbook.InitializeMarketAccounts{
		Market:       keys.market.PublicKey(),
		RequestQueue: keys.requestQueue.PublicKey(),
		EventQueue:   keys.eventQueue.PublicKey(),
		Bids:         keys.bids.PublicKey(),
		Asks:         keys.asks.PublicKey(),
		BaseVault:    keys.baseVault.PublicKey(),
		QuoteVault:   keys.quoteVault.PublicKey(),
		BaseMint:     spec.BaseMint,
		QuoteMint:    spec.QuoteMint,
	}, params))

	if err := s.addFee(batch, payer, s.settings.Fees.Market); err != nil {
		return nil, err
	}
	return batch, nil
}
