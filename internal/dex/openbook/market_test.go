package openbook

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotSizes(t *testing.T) {
	tests := []struct {
		name          string
		lot, tick     string
		baseDecimals  uint8
		quoteDecimals uint8
		wantBase      uint64
		wantQuote     uint64
		wantErr       bool
	}{
		{name: "whole lot", lot: "1", tick: "0.01", baseDecimals: 9, quoteDecimals: 6, wantBase: 1_000_000_000, wantQuote: 10_000},
		{name: "fractional lot rounds half up", lot: "0.0015", tick: "0.1", baseDecimals: 3, quoteDecimals: 6, wantBase: 2, wantQuote: 150},
		{name: "fractional lot rounds down below half", lot: "0.0014", tick: "0.1", baseDecimals: 3, quoteDecimals: 6, wantBase: 1, wantQuote: 140},
		{name: "quote rounds up", lot: "1", tick: "0.0006", baseDecimals: 0, quoteDecimals: 3, wantBase: 1, wantQuote: 1},
		{name: "zero decimals", lot: "5", tick: "1", baseDecimals: 0, quoteDecimals: 0, wantBase: 5, wantQuote: 5},
		{name: "base rounds to zero", lot: "0.0001", tick: "1", baseDecimals: 2, quoteDecimals: 9, wantErr: true},
		{name: "quote rounds to zero", lot: "1", tick: "0.0001", baseDecimals: 9, quoteDecimals: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, quote, err := LotSizes(decimal.RequireFromString(tt.lot), decimal.RequireFromString(tt.tick), tt.baseDecimals, tt.quoteDecimals)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrZeroLotSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantQuote, quote)
		})
	}
}

func TestFindVaultSigner(t *testing.T) {
	market := solana.NewWallet().PublicKey()
	signer, nonce, err := FindVaultSigner(market, DevnetProgramID)
	require.NoError(t, err)

	expected, err := solana.CreateProgramAddress([][]byte{market[:], binary.LittleEndian.AppendUint64(nil, nonce)}, DevnetProgramID)
	require.NoError(t, err)
	assert.Equal(t, expected, signer)

	for n := uint64(0); n < nonce; n++ {
		_, err := solana.CreateProgramAddress([][]byte{market[:], binary.LittleEndian.AppendUint64(nil, n)}, DevnetProgramID)
		assert.Error(t, err, "nonce %d should be on curve", n)
	}
}

func TestInitializeMarketEncoding(t *testing.T) {
	accounts := InitializeMarketAccounts{
		Market:       solana.NewWallet().PublicKey(),
		RequestQueue: solana.NewWallet().PublicKey(),
		EventQueue:   solana.NewWallet().PublicKey(),
		Bids:         solana.NewWallet().PublicKey(),
		Asks:         solana.NewWallet().PublicKey(),
		BaseVault:    solana.NewWallet().PublicKey(),
		QuoteVault:   solana.NewWallet().PublicKey(),
		BaseMint:     solana.NewWallet().PublicKey(),
		QuoteMint:    solana.NewWallet().PublicKey(),
	}
	ix := NewInitializeMarketInstruction(MainnetProgramID, accounts, InitializeMarketParams{
		BaseLotSize:      1_000,
		QuoteLotSize:     10,
		VaultSignerNonce: 3,
	})

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 39)
	assert.Equal(t, byte(0), data[0])
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[1:]))
	assert.Equal(t, uint64(1_000), binary.LittleEndian.Uint64(data[5:]))
	assert.Equal(t, uint64(10), binary.LittleEndian.Uint64(data[13:]))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[21:]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(data[23:]))
	assert.Equal(t, uint64(100), binary.LittleEndian.Uint64(data[31:]))

	metas := ix.Accounts()
	require.Len(t, metas, 10)
	for i := 0; i < 7; i++ {
		assert.True(t, metas[i].IsWritable, "account %d", i)
		assert.False(t, metas[i].IsSigner, "account %d", i)
	}
	assert.Equal(t, accounts.BaseMint, metas[7].PublicKey)
	assert.Equal(t, solana.SysVarRentPubkey, metas[9].PublicKey)
}

func TestDecodeMarket(t *testing.T) {
	want := MarketState{
		VaultSignerNonce: 2,
		BaseMint:         solana.NewWallet().PublicKey(),
		QuoteMint:        solana.NewWallet().PublicKey(),
		BaseVault:        solana.NewWallet().PublicKey(),
		QuoteVault:       solana.NewWallet().PublicKey(),
		RequestQueue:     solana.NewWallet().PublicKey(),
		EventQueue:       solana.NewWallet().PublicKey(),
		Bids:             solana.NewWallet().PublicKey(),
		Asks:             solana.NewWallet().PublicKey(),
		BaseLotSize:      100,
		QuoteLotSize:     7,
	}

	data := make([]byte, MarketAccountSize)
	binary.LittleEndian.PutUint64(data[vaultSignerNonceOffset:], want.VaultSignerNonce)
	copy(data[baseMintOffset:], want.BaseMint[:])
	copy(data[quoteMintOffset:], want.QuoteMint[:])
	copy(data[baseVaultOffset:], want.BaseVault[:])
	copy(data[quoteVaultOffset:], want.QuoteVault[:])
	copy(data[requestQueueOffset:], want.RequestQueue[:])
	copy(data[eventQueueOffset:], want.EventQueue[:])
	copy(data[bidsOffset:], want.Bids[:])
	copy(data[asksOffset:], want.Asks[:])
	binary.LittleEndian.PutUint64(data[baseLotSizeOffset:], want.BaseLotSize)
	binary.LittleEndian.PutUint64(data[quoteLotSizeOffset:], want.QuoteLotSize)

	got, err := DecodeMarket(data)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	_, err = DecodeMarket(data[:100])
	assert.Error(t, err)
}

func TestProgramIDFor(t *testing.T) {
	mainnet, err := ProgramIDFor("mainnet")
	require.NoError(t, err)
	assert.Equal(t, "srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX", mainnet.String())
	assert.Equal(t, MainnetProgramID, mainnet)

	devnet, err := ProgramIDFor("devnet")
	require.NoError(t, err)
	assert.Equal(t, "EoTcMgcDRTJVZDMZWBoU6rhYHZfkNTVEAfz3uMWrtPsj", devnet.String())
	assert.Equal(t, DevnetProgramID, devnet)
	assert.NotEqual(t, mainnet, devnet)

	def, err := ProgramIDFor("")
	require.NoError(t, err)
	assert.Equal(t, MainnetProgramID, def)

	_, err = ProgramIDFor("testnet")
	assert.Error(t, err)
}

func TestProgramIDsDecode(t *testing.T) {
	for _, raw := range []string{
		"srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX",
		"EoTcMgcDRTJVZDMZWBoU6rhYHZfkNTVEAfz3uMWrtPsj",
	} {
		key, err := solana.PublicKeyFromBase58(raw)
		require.NoError(t, err, raw)
		assert.Len(t, key.Bytes(), 32)
	}
}
