// internal/dex/raydium/constants.go
package raydium

import (
	"github.com/gagliardetto/solana-go"
)

// Program IDs
var (
	MainnetAmmProgramID = solana.MPK("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	DevnetAmmProgramID  = solana.MPK("HWy1jotHpo6UqeQxx49dpYYdQB8wj9Qk9MdxwjLvDHB8")

	// Pool creation fees are paid to these accounts.
	MainnetFeeDestination = solana.MPK("7YttLkHDoNj9wyDur5pM1ejNaAvT9X4eqaYcHQqtj2G5")
	DevnetFeeDestination  = solana.MPK("3XMrhbv989VxAMi3DErLV9eJht1pHppW5LbKxe9fkEFR")

	AssociatedTokenProgramID = solana.MPK("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	WrappedSolMint           = solana.MPK("So11111111111111111111111111111111111111112")
)

// PDA seeds
const (
	AmmAssociatedSeed       = "amm_associated_seed"
	LpMintAssociatedSeed    = "lp_mint_associated_seed"
	CoinVaultAssociatedSeed = "coin_vault_associated_seed"
	PcVaultAssociatedSeed   = "pc_vault_associated_seed"
	TargetAssociatedSeed    = "target_associated_seed"
	OpenOrderAssociatedSeed = "open_order_associated_seed"
	AmmAuthoritySeed        = "amm authority"
	AmmConfigAccountSeed    = "amm_config_account_seed"
)

const instructionInitialize2 = 1

// Account size constants
const (
	TokenAccountSize = 165
	MintAccountSize  = 82
)
