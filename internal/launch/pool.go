// internal/launch/pool.go
package launch

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/openbook"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/raydium"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

// Pool batch steps.
const (
	StepCreateWSOLAccount = "create-wsol-account"
	StepWrapSOL           = "wrap-sol"
	StepSyncNative        = "sync-native"
	StepInitializePool    = "initialize-pool"
	StepCloseWSOLAccount  = "close-wsol-account"

	batchPool = "pool"
)

// CreatePool creates an AMM pool on an existing market and seeds it with
// the signer's base and quote tokens. A wrapped SOL side is funded from
// the signer's SOL balance.
func (s *Service) CreatePool(ctx context.Context, signer transaction.Signer, spec PoolSpec) (result *PoolResult, err error) {
	r, err := s.start(ctx, models.FlowPool, &s.poolGuard, signer, spec.Validate)
	if err != nil {
		return nil, err
	}
	defer func() { s.finish(ctx, r, result, err) }()

	market, err := s.readMarket(ctx, spec.MarketID)
	if err != nil {
		return nil, err
	}
	baseDecimals, quoteDecimals, err := s.mints.pair(ctx, market.BaseMint, market.QuoteMint)
	if err != nil {
		return nil, err
	}

	baseAmount, err := ToRaw(spec.BaseAmount, baseDecimals)
	if err != nil {
		return nil, &ValidationError{Field: "base_amount", Reason: err.Error(), Err: err}
	}
	quoteAmount, err := ToRaw(spec.QuoteAmount, quoteDecimals)
	if err != nil {
		return nil, &ValidationError{Field: "quote_amount", Reason: err.Error(), Err: err}
	}
	openTime := spec.StartTime
	if openTime.IsZero() {
		openTime = s.now()
	}
	if openTime.Unix() < 0 {
		return nil, invalid("start_time", "must not be before 1970")
	}

	keys, err := raydium.DerivePoolKeys(s.settings.Programs.RaydiumAMM, spec.MarketID)
	if err != nil {
		return nil, err
	}
	r.receipt.Address = keys.ID.String()
	r.logger.Info("Pool prepared",
		zap.String("pool", keys.ID.String()),
		zap.String("market", spec.MarketID.String()),
		zap.Uint64("base_amount", baseAmount),
		zap.Uint64("quote_amount", quoteAmount),
		zap.Time("open_time", openTime))

	batch, err := s.buildPoolBatch(r.payer, spec.MarketID, market, keys, raydium.Initialize2Params{
		OpenTime:    uint64(openTime.Unix()),
		BaseAmount:  baseAmount,
		QuoteAmount: quoteAmount,
	})
	if err != nil {
		return nil, err
	}

	sig, err := s.submit(ctx, r, signer, batch)
	if err != nil {
		return nil, err
	}
	return &PoolResult{
		Signature:   sig,
		PoolID:      keys.ID,
		LPMint:      keys.LPMint,
		OpenTime:    openTime.Unix(),
		BaseAmount:  baseAmount,
		QuoteAmount: quoteAmount,
	}, nil
}

// readMarket loads and decodes a market owned by the configured order book program.
func (s *Service) readMarket(ctx context.Context, id solana.PublicKey) (*openbook.MarketState, error) {
	account, err := s.client.GetAccountInfo(ctx, id)
	if errors.Is(err, blockchain.ErrAccountNotFound) {
		return nil, &ResolutionError{Address: id, Reason: "market account not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read market %s: %w", id, err)
	}

	program := s.settings.Programs.OpenBook
	if !account.Owner.Equals(program) {
		return nil, &ResolutionError{Address: id, Reason: fmt.Sprintf("owned by %s, not the market program %s", account.Owner, program)}
	}
	market, err := openbook.DecodeMarket(account.Data)
	if err != nil {
		return nil, &ResolutionError{Address: id, Reason: "not a market account", Err: err}
	}
	return market, nil
}

func (s *Service) buildPoolBatch(payer, marketID solana.PublicKey, market *openbook.MarketState, keys *raydium.PoolKeys, params raydium.Initialize2Params) (*Batch, error) {
	batch := &Batch{Label: batchPool}

	var wrapped uint64
	switch {
	case market.BaseMint.Equals(raydium.WrappedSolMint):
		wrapped = params.BaseAmount
	case market.QuoteMint.Equals(raydium.WrappedSolMint):
		wrapped = params.QuoteAmount
	}

	var wsolAccount solana.PublicKey
	if wrapped > 0 {
		var err error
		wsolAccount, _, err = solana.FindAssociatedTokenAddress(payer, raydium.WrappedSolMint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive wrapped SOL account: %w", err)
		}
		batch.add(StepCreateWSOLAccount,
			wallet.CreateAssociatedTokenAccountIdempotentInstruction(payer, payer, raydium.WrappedSolMint))
		batch.add(StepWrapSOL, system.NewTransferInstruction(wrapped, payer, wsolAccount).Build())
		batch.add(StepSyncNative, token.NewSyncNativeInstruction(wsolAccount).Build())
	}

	initialize, err := raydium.NewInitialize2Instruction(keys, raydium.Initialize2Accounts{
		AmmProgram:     s.settings.Programs.RaydiumAMM,
		MarketProgram:  s.settings.Programs.OpenBook,
		Market:         marketID,
		BaseMint:       market.BaseMint,
		QuoteMint:      market.QuoteMint,
		FeeDestination: s.settings.Programs.RaydiumFeeDestination,
		Payer:          payer,
	}, params)
	if err != nil {
		return nil, err
	}
	batch.add(StepInitializePool, initialize)

	if wrapped > 0 {
		batch.add(StepCloseWSOLAccount,
			token.NewCloseAccountInstruction(wsolAccount, payer, payer, []solana.PublicKey{}).Build())
	}

	if err := s.addFee(batch, payer, s.settings.Fees.Pool); err != nil {
		return nil, err
	}
	return batch, nil
}
