// internal/dex/openbook/layout.go
package openbook

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Account sizes of a Serum v3 layout market.
const (
	MarketAccountSize = 388
	// Default queue and book sizes give a small market that costs about 0.4 SOL in rent.
	DefaultRequestQueueSize = 5132
	DefaultEventQueueSize   = 262156
	DefaultOrderbookSize    = 65548
)

// Byte offsets inside the market account, after the 5-byte "serum" padding
// and the 8-byte account flags.
const (
	vaultSignerNonceOffset = 45
	baseMintOffset         = 53
	quoteMintOffset        = 85
	baseVaultOffset        = 117
	quoteVaultOffset       = 165
	requestQueueOffset     = 221
	eventQueueOffset       = 253
	bidsOffset             = 285
	asksOffset             = 317
	baseLotSizeOffset      = 349
	quoteLotSizeOffset     = 357
)

// MarketState is the part of a market account pools are built from.
type MarketState struct {
	VaultSignerNonce uint64
	BaseMint         solana.PublicKey
	QuoteMint        solana.PublicKey
	BaseVault        solana.PublicKey
	QuoteVault       solana.PublicKey
	RequestQueue     solana.PublicKey
	EventQueue       solana.PublicKey
	Bids             solana.PublicKey
	Asks             solana.PublicKey
	BaseLotSize      uint64
	QuoteLotSize     uint64
}

// DecodeMarket reads a market account.
func DecodeMarket(data []byte) (*MarketState, error) {
	if len(data) != MarketAccountSize {
		return nil, fmt.Errorf("invalid market data length: %d, expected %d", len(data), MarketAccountSize)
	}

	key := func(offset int) solana.PublicKey {
		return solana.PublicKeyFromBytes(data[offset : offset+32])
	}

	return &MarketState{
		VaultSignerNonce: binary.LittleEndian.Uint64(data[vaultSignerNonceOffset:]),
		BaseMint:         key(baseMintOffset),
		QuoteMint:        key(quoteMintOffset),
		BaseVault:        key(baseVaultOffset),
		QuoteVault:       key(quoteVaultOffset),
		RequestQueue:     key(requestQueueOffset),
		EventQueue:       key(eventQueueOffset),
		Bids:             key(bidsOffset),
		Asks:             key(asksOffset),
		BaseLotSize:      binary.LittleEndian.Uint64(data[baseLotSizeOffset:]),
		QuoteLotSize:     binary.LittleEndian.Uint64(data[quoteLotSizeOffset:]),
	}, nil
}

// VaultSigner derives the market's vault signer from its stored nonce.
func (m *MarketState) VaultSigner(market, program solana.PublicKey) (solana.PublicKey, error) {
	return solana.CreateProgramAddress(
		[][]byte{market.Bytes(), binary.LittleEndian.AppendUint64(nil, m.VaultSignerNonce)},
		program,
	)
}
