// internal/dex/raydium/pool.go
package raydium

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PoolKeys are the program-derived accounts of an AMM v4 pool created on a market.
type PoolKeys struct {
	ID           solana.PublicKey
	Authority    solana.PublicKey
	Nonce        uint8
	OpenOrders   solana.PublicKey
	LPMint       solana.PublicKey
	BaseVault    solana.PublicKey
	QuoteVault   solana.PublicKey
	TargetOrders solana.PublicKey
	Config       solana.PublicKey
}

// DerivePoolKeys derives every pool account from the program and market ids.
func DerivePoolKeys(program, market solana.PublicKey) (*PoolKeys, error) {
	associated := func(seed string) (solana.PublicKey, error) {
		addr, _, err := solana.FindProgramAddress(
			[][]byte{program.Bytes(), market.Bytes(), []byte(seed)},
			program,
		)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("failed to derive %s: %w", seed, err)
		}
		return addr, nil
	}

	keys := &PoolKeys{}
	var err error
	for _, target := range []struct {
		seed string
		dst  *solana.PublicKey
	}{
		{AmmAssociatedSeed, &keys.ID},
		{LpMintAssociatedSeed, &keys.LPMint},
		{CoinVaultAssociatedSeed, &keys.BaseVault},
		{PcVaultAssociatedSeed, &keys.QuoteVault},
		{TargetAssociatedSeed, &keys.TargetOrders},
		{OpenOrderAssociatedSeed, &keys.OpenOrders},
	} {
		if *target.dst, err = associated(target.seed); err != nil {
			return nil, err
		}
	}

	keys.Authority, keys.Nonce, err = solana.FindProgramAddress([][]byte{[]byte(AmmAuthoritySeed)}, program)
	if err != nil {
		return nil, fmt.Errorf("failed to derive amm authority: %w", err)
	}
	keys.Config, _, err = solana.FindProgramAddress([][]byte{[]byte(AmmConfigAccountSeed)}, program)
	if err != nil {
		return nil, fmt.Errorf("failed to derive amm config: %w", err)
	}
	return keys, nil
}

// Initialize2Accounts holds the non-derived accounts of initialize2.
type Initialize2Accounts struct {
	AmmProgram     solana.PublicKey
	MarketProgram  solana.PublicKey
	Market         solana.PublicKey
	BaseMint       solana.PublicKey
	QuoteMint      solana.PublicKey
	FeeDestination solana.PublicKey
	Payer          solana.PublicKey
}

// Initialize2Params are the instruction arguments. Amounts are raw units.
type Initialize2Params struct {
	OpenTime    uint64
	BaseAmount  uint64
	QuoteAmount uint64
}

// NewInitialize2Instruction builds the AMM v4 pool creation instruction.
// Data layout: tag u8, nonce u8, open time u64, pc amount u64, coin amount u64.
func NewInitialize2Instruction(keys *PoolKeys, accounts Initialize2Accounts, params Initialize2Params) (solana.Instruction, error) {
	userBase, _, err := solana.FindAssociatedTokenAddress(accounts.Payer, accounts.BaseMint)
	if err != nil {
		return nil, fmt.Errorf("failed to find user base token account: %w", err)
	}
	userQuote, _, err := solana.FindAssociatedTokenAddress(accounts.Payer, accounts.QuoteMint)
	if err != nil {
		return nil, fmt.Errorf("failed to find user quote token account: %w", err)
	}
	userLP, _, err := solana.FindAssociatedTokenAddress(accounts.Payer, keys.LPMint)
	if err != nil {
		return nil, fmt.Errorf("failed to find user LP token account: %w", err)
	}

	data := make([]byte, 0, 26)
	data = append(data, instructionInitialize2, keys.Nonce)
	data = binary.LittleEndian.AppendUint64(data, params.OpenTime)
	data = binary.LittleEndian.AppendUint64(data, params.QuoteAmount)
	data = binary.LittleEndian.AppendUint64(data, params.BaseAmount)

	accountMetas := solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(AssociatedTokenProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(keys.ID, true, false),
		solana.NewAccountMeta(keys.Authority, false, false),
		solana.NewAccountMeta(keys.OpenOrders, true, false),
		solana.NewAccountMeta(keys.LPMint, true, false),
		solana.NewAccountMeta(accounts.BaseMint, false, false),
		solana.NewAccountMeta(accounts.QuoteMint, false, false),
		solana.NewAccountMeta(keys.BaseVault, true, false),
		solana.NewAccountMeta(keys.QuoteVault, true, false),
		solana.NewAccountMeta(keys.TargetOrders, true, false),
		solana.NewAccountMeta(keys.Config, false, false),
		solana.NewAccountMeta(accounts.FeeDestination, true, false),
		solana.NewAccountMeta(accounts.MarketProgram, false, false),
		solana.NewAccountMeta(accounts.Market, false, false),
		solana.NewAccountMeta(accounts.Payer, true, true),
		solana.NewAccountMeta(userBase, true, false),
		solana.NewAccountMeta(userQuote, true, false),
		solana.NewAccountMeta(userLP, true, false),
	}

	return solana.NewInstruction(accounts.AmmProgram, accountMetas, data), nil
}
