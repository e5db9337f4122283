package launch

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/openbook"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/raydium"
)

func marketAccount(owner, base, quote solana.PublicKey) *blockchain.Account {
	data := make([]byte, openbook.MarketAccountSize)
	copy(data[53:], base.Bytes())
	copy(data[85:], quote.Bytes())
	return &blockchain.Account{Owner: owner, Data: data}
}

func TestCreatePoolWrapsSOL(t *testing.T) {
	f := newFixture(t, Settings{})
	start := time.Unix(1_700_000_000, 0)
	f.svc.now = func() time.Time { return start }

	marketID := solana.NewWallet().PublicKey()
	base := solana.NewWallet().PublicKey()
	f.client.On("GetAccountInfo", mock.Anything, marketID).
		Return(marketAccount(openbook.MainnetProgramID, base, raydium.WrappedSolMint), nil)
	f.client.On("GetAccountInfo", mock.Anything, base).Return(mintAccount(6), nil)
	f.client.On("GetAccountInfo", mock.Anything, raydium.WrappedSolMint).Return(mintAccount(9), nil)
	sig := solana.Signature{7}
	f.expectSends(sig)

	res, err := f.svc.CreatePool(context.Background(), f.signer, PoolSpec{
		MarketID:    marketID,
		BaseAmount:  decimal.NewFromInt(500_000),
		QuoteAmount: decimal.RequireFromString("2.5"),
	})
	require.NoError(t, err)

	keys, err := raydium.DerivePoolKeys(raydium.MainnetAmmProgramID, marketID)
	require.NoError(t, err)
	assert.Equal(t, sig, res.Signature)
	assert.Equal(t, keys.ID, res.PoolID)
	assert.Equal(t, keys.LPMint, res.LPMint)
	assert.Equal(t, start.Unix(), res.OpenTime)
	assert.Equal(t, uint64(500_000_000_000), res.BaseAmount)
	assert.Equal(t, uint64(2_500_000_000), res.QuoteAmount)

	require.Len(t, f.sent, 1)
	ixs := f.sent[0].instructions
	require.Len(t, ixs, 5)
	assert.Empty(t, f.sent[0].coSigners)

	assert.Equal(t, raydium.AssociatedTokenProgramID, ixs[0].ProgramID())
	assert.Equal(t, uint64(2_500_000_000), binary.LittleEndian.Uint64(dataOf(t, ixs[1])[4:12]))
	assert.Equal(t, solana.TokenProgramID, ixs[2].ProgramID())

	initialize := ixs[3]
	assert.Equal(t, raydium.MainnetAmmProgramID, initialize.ProgramID())
	data := dataOf(t, initialize)
	assert.Equal(t, uint64(start.Unix()), binary.LittleEndian.Uint64(data[2:10]))
	assert.Equal(t, res.QuoteAmount, binary.LittleEndian.Uint64(data[10:18]))
	assert.Equal(t, res.BaseAmount, binary.LittleEndian.Uint64(data[18:26]))

	assert.Equal(t, solana.TokenProgramID, ixs[4].ProgramID())
}

func TestPoolBatchWithoutWrappedSOL(t *testing.T) {
	f := newFixture(t, Settings{})
	marketID := solana.NewWallet().PublicKey()
	market := &openbook.MarketState{
		BaseMint:  solana.NewWallet().PublicKey(),
		QuoteMint: solana.NewWallet().PublicKey(),
	}
	keys, err := raydium.DerivePoolKeys(raydium.MainnetAmmProgramID, marketID)
	require.NoError(t, err)

	batch, err := f.svc.buildPoolBatch(f.signer.Address, marketID, market, keys, raydium.Initialize2Params{BaseAmount: 1, QuoteAmount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{StepInitializePool}, batch.Labels())
}

func TestCreatePoolMarketChecks(t *testing.T) {
	tests := []struct {
		name    string
		account *blockchain.Account
		err     error
	}{
		{"missing", nil, blockchain.ErrAccountNotFound},
		{"wrong owner", marketAccount(solana.SystemProgramID, solana.PublicKey{1}, solana.PublicKey{2}), nil},
		{"wrong size", &blockchain.Account{Owner: openbook.MainnetProgramID, Data: make([]byte, 100)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Settings{})
			marketID := solana.NewWallet().PublicKey()
			f.client.On("GetAccountInfo", mock.Anything, marketID).Return(tt.account, tt.err)

			_, err := f.svc.CreatePool(context.Background(), f.signer, PoolSpec{
				MarketID:    marketID,
				BaseAmount:  decimal.NewFromInt(1),
				QuoteAmount: decimal.NewFromInt(1),
			})
			var resolution *ResolutionError
			require.True(t, errors.As(err, &resolution), "got %v", err)
			assert.Equal(t, marketID, resolution.Address)
			f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePoolAmountPrecision(t *testing.T) {
	f := newFixture(t, Settings{})
	marketID := solana.NewWallet().PublicKey()
	base, quote := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	f.client.On("GetAccountInfo", mock.Anything, marketID).
		Return(marketAccount(openbook.MainnetProgramID, base, quote), nil)
	f.client.On("GetAccountInfo", mock.Anything, base).Return(mintAccount(2), nil)
	f.client.On("GetAccountInfo", mock.Anything, quote).Return(mintAccount(6), nil)

	_, err := f.svc.CreatePool(context.Background(), f.signer, PoolSpec{
		MarketID:    marketID,
		BaseAmount:  decimal.RequireFromString("1.001"),
		QuoteAmount: decimal.NewFromInt(1),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "base_amount", verr.Field)
}
