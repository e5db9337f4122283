// Package openbook builds Serum v3 layout market instructions.
package openbook

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var (
	MainnetProgramID = solana.MustPublicKeyFromBase58("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	DevnetProgramID  = solana.MustPublicKeyFromBase58("EoTcMgcDRTJVZDMZWBoU6rhYHZfkNTVEAfz3uMWrtPsj")
)

// ProgramIDFor returns the market program deployed on network.
func ProgramIDFor(network string) (solana.PublicKey, error) {
	switch network {
	case "mainnet", "":
		return MainnetProgramID, nil
	case "devnet":
		return DevnetProgramID, nil
	default:
		return solana.PublicKey{}, fmt.Errorf("no market program for network %q", network)
	}
}

const (
	instructionInitializeMarket = 0
	defaultQuoteDustThreshold   = 100
	maxVaultSignerNonce         = 255
)

// ErrZeroLotSize is returned when a lot or tick size rounds to zero raw units.
var ErrZeroLotSize = errors.New("lot size rounds to zero")

// LotSizes converts UI lot and tick sizes to raw units, rounding half up:
// base = round(lot * 10^baseDecimals), quote = round(lot * tick * 10^quoteDecimals).
func LotSizes(lotSize, tickSize decimal.Decimal, baseDecimals, quoteDecimals uint8) (base, quote uint64, err error) {
	baseRaw := RawLotSize(lotSize, baseDecimals)
	quoteRaw := RawLotSize(lotSize.Mul(tickSize), quoteDecimals)

	if baseRaw.Sign() <= 0 {
		return 0, 0, fmt.Errorf("base %w", ErrZeroLotSize)
	}
	if quoteRaw.Sign() <= 0 {
		return 0, 0, fmt.Errorf("quote %w", ErrZeroLotSize)
	}
	if !baseRaw.BigInt().IsUint64() || !quoteRaw.BigInt().IsUint64() {
		return 0, 0, errors.New("lot size overflows u64")
	}
	return baseRaw.BigInt().Uint64(), quoteRaw.BigInt().Uint64(), nil
}

// RawLotSize scales a UI size to raw units and rounds it half up.
func RawLotSize(size decimal.Decimal, decimals uint8) decimal.Decimal {
	return size.Shift(int32(decimals)).Round(0)
}

// FindVaultSigner returns the first nonce from 0 for which
// CreateProgramAddress([market, nonce]) is off the curve.
func FindVaultSigner(market, program solana.PublicKey) (solana.PublicKey, uint64, error) {
	for nonce := uint64(0); nonce <= maxVaultSignerNonce; nonce++ {
		signer, err := solana.CreateProgramAddress(
			[][]byte{market.Bytes(), binary.LittleEndian.AppendUint64(nil, nonce)},
			program,
		)
		if err == nil {
			return signer, nonce, nil
		}
	}
	return solana.PublicKey{}, 0, fmt.Errorf("no vault signer nonce for market %s", market)
}

// InitializeMarketAccounts lists the accounts of InitializeMarket.
type InitializeMarketAccounts struct {
	Market       solana.PublicKey
	RequestQueue solana.PublicKey
	EventQueue   solana.PublicKey
	Bids         solana.PublicKey
	Asks         solana.PublicKey
	BaseVault    solana.PublicKey
	QuoteVault   solana.PublicKey
	BaseMint     solana.PublicKey
	QuoteMint    solana.PublicKey
}

// InitializeMarketParams holds the instruction arguments.
type InitializeMarketParams struct {
	BaseLotSize      uint64
	QuoteLotSize     uint64
	FeeRateBps       uint16
	VaultSignerNonce uint64
}

// NewInitializeMarketInstruction encodes InitializeMarket:
// version u8, tag u32, base lot u64, quote lot u64, fee bps u16, nonce u64, dust u64.
func NewInitializeMarketInstruction(program solana.PublicKey, accounts InitializeMarketAccounts, params InitializeMarketParams) solana.Instruction {
	data := make([]byte, 0, 39)
	data = append(data, 0)
	data = binary.LittleEndian.AppendUint32(data, instructionInitializeMarket)
	data = binary.LittleEndian.AppendUint64(data, params.BaseLotSize)
	data = binary.LittleEndian.AppendUint64(data, params.QuoteLotSize)
	data = binary.LittleEndian.AppendUint16(data, params.FeeRateBps)
	data = binary.LittleEndian.AppendUint64(data, params.VaultSignerNonce)
	data = binary.LittleEndian.AppendUint64(data, defaultQuoteDustThreshold)

	accountMetas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.Market, true, false),
		solana.NewAccountMeta(accounts.RequestQueue, true, false),
		solana.NewAccountMeta(accounts.EventQueue, true, false),
		solana.NewAccountMeta(accounts.Bids, true, false),
		solana.NewAccountMeta(accounts.Asks, true, false),
		solana.NewAccountMeta(accounts.BaseVault, true, false),
		solana.NewAccountMeta(accounts.QuoteVault, true, false),
		solana.NewAccountMeta(accounts.BaseMint, false, false),
		solana.NewAccountMeta(accounts.QuoteMint, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
	}

	return solana.NewInstruction(program, accountMetas, data)
}
