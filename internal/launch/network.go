// internal/launch/network.go
package launch

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/openbook"
	"github.com/rovshanmuradov/solana-launchpad/internal/dex/raydium"
)

// Programs are the external program ids the flows target.
type Programs struct {
	OpenBook              solana.PublicKey
	RaydiumAMM            solana.PublicKey
	RaydiumFeeDestination solana.PublicKey
}

// ProgramsFor returns the program set of network with any overrides applied.
func ProgramsFor(network string, overrides config.ProgramsConfig) (Programs, error) {
	market, err := openbook.ProgramIDFor(network)
	if err != nil {
		return Programs{}, fmt.Errorf("unknown network %q", network)
	}
	p := Programs{OpenBook: market}
	if network == config.NetworkDevnet {
		p.RaydiumAMM = raydium.DevnetAmmProgramID
		p.RaydiumFeeDestination = raydium.DevnetFeeDestination
	} else {
		p.RaydiumAMM = raydium.MainnetAmmProgramID
		p.RaydiumFeeDestination = raydium.MainnetFeeDestination
	}

	for _, o := range []struct {
		raw string
		dst *solana.PublicKey
	}{
		{overrides.OpenBook, &p.OpenBook},
		{overrides.RaydiumAMM, &p.RaydiumAMM},
		{overrides.RaydiumFeeDestination, &p.RaydiumFeeDestination},
	} {
		if o.raw == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(o.raw)
		if err != nil {
			return Programs{}, fmt.Errorf("invalid program override %q: %w", o.raw, err)
		}
		*o.dst = key
	}
	return p, nil
}

// Fees are per-flow service fees in lamports. Zero disables the fee transfer.
type Fees struct {
	Token  uint64
	Market uint64
	Pool   uint64
}

// MarketSizes are the byte sizes allocated for a new market's queues and books.
type MarketSizes struct {
	RequestQueue uint64
	EventQueue   uint64
	Orderbook    uint64
}

// Settings configure a Service.
type Settings struct {
	Programs       Programs
	FeeDestination solana.PublicKey
	Fees           Fees
	MarketSizes    MarketSizes
	UploadTimeout  time.Duration
}

// SettingsFromConfig resolves the launch settings from the loaded config.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	programs, err := ProgramsFor(cfg.Network, cfg.Programs)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Programs: programs,
		MarketSizes: MarketSizes{
			RequestQueue: cfg.Market.RequestQueueSize,
			EventQueue:   cfg.Market.EventQueueSize,
			Orderbook:    cfg.Market.OrderbookSize,
		},
		UploadTimeout: cfg.UploadTimeout,
	}
	if cfg.FeeDestination != "" {
		if s.FeeDestination, err = solana.PublicKeyFromBase58(cfg.FeeDestination); err != nil {
			return Settings{}, fmt.Errorf("invalid fee_destination: %w", err)
		}
	}
	if s.Fees.Token, err = ParseSOL(cfg.Fees.Token); err != nil {
		return Settings{}, fmt.Errorf("fees.token: %w", err)
	}
	if s.Fees.Market, err = ParseSOL(cfg.Fees.Market); err != nil {
		return Settings{}, fmt.Errorf("fees.market: %w", err)
	}
	if s.Fees.Pool, err = ParseSOL(cfg.Fees.Pool); err != nil {
		return Settings{}, fmt.Errorf("fees.pool: %w", err)
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.Programs.OpenBook.IsZero() {
		s.Programs = Programs{
			OpenBook:              openbook.MainnetProgramID,
			RaydiumAMM:            raydium.MainnetAmmProgramID,
			RaydiumFeeDestination: raydium.MainnetFeeDestination,
		}
	}
	if s.MarketSizes.RequestQueue == 0 {
		s.MarketSizes.RequestQueue = openbook.DefaultRequestQueueSize
	}
	if s.MarketSizes.EventQueue == 0 {
		s.MarketSizes.EventQueue = openbook.DefaultEventQueueSize
	}
	if s.MarketSizes.Orderbook == 0 {
		s.MarketSizes.Orderbook = openbook.DefaultOrderbookSize
	}
	if s.UploadTimeout <= 0 {
		s.UploadTimeout = config.DefaultUploadTimeout
	}
}
