package main

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Create an SPL token with metadata",
		RunE:  runToken,
	}
	cmd.Flags().String("name", "", "token name")
	cmd.Flags().String("symbol", "", "token symbol")
	cmd.Flags().Uint8("decimals", 9, "mint decimals (0-9)")
	cmd.Flags().String("supply", "", "initial supply in whole tokens")
	cmd.Flags().String("description", "", "token description")
	cmd.Flags().String("image", "", "path to the token image")
	cmd.Flags().String("website", "", "website URL")
	cmd.Flags().String("twitter", "", "Twitter/X URL")
	cmd.Flags().String("telegram", "", "Telegram URL")
	cmd.Flags().String("discord", "", "Discord URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("supply")
	return cmd
}

func newMarketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Create an OpenBook market",
		RunE:  runMarket,
	}
	cmd.Flags().String("base", "", "base mint address")
	cmd.Flags().String("quote", solana.SolMint.String(), "quote mint address")
	cmd.Flags().String("lot-size", "1", "minimum order size in base tokens")
	cmd.Flags().String("tick-size", "0.0001", "price tick in quote tokens")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

func newPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Create a Raydium AMM pool on an OpenBook market",
		RunE:  runPool,
	}
	cmd.Flags().String("market", "", "OpenBook market id")
	cmd.Flags().String("base-amount", "", "base liquidity in whole tokens")
	cmd.Flags().String("quote-amount", "", "quote liquidity in whole tokens")
	cmd.Flags().String("start", "", "open time, RFC3339 or unix seconds (default now)")
	_ = cmd.MarkFlagRequired("market")
	_ = cmd.MarkFlagRequired("base-amount")
	_ = cmd.MarkFlagRequired("quote-amount")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	spec, err := tokenSpecFromFlags(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd, app.ModeCLI, func(ctx context.Context, a *app.App) error {
		res, err := a.Launch.CreateToken(ctx, a.Wallet, spec)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

func runMarket(cmd *cobra.Command, _ []string) error {
	spec, err := marketSpecFromFlags(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd, app.ModeCLI, func(ctx context.Context, a *app.App) error {
		res, err := a.Launch.CreateMarket(ctx, a.Wallet, spec)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

func runPool(cmd *cobra.Command, _ []string) error {
	spec, err := poolSpecFromFlags(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd, app.ModeCLI, func(ctx context.Context, a *app.App) error {
		res, err := a.Launch.CreatePool(ctx, a.Wallet, spec)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

func tokenSpecFromFlags(cmd *cobra.Command) (launch.TokenSpec, error) {
	flags := cmd.Flags()
	get := func(name string) string {
		v, _ := flags.GetString(name)
		return strings.TrimSpace(v)
	}
	decimals, _ := flags.GetUint8("decimals")

	supply, err := decimal.NewFromString(get("supply"))
	if err != nil {
		return launch.TokenSpec{}, flagError("supply", "not a number", err)
	}

	spec := launch.TokenSpec{
		Name:        get("name"),
		Symbol:      get("symbol"),
		Description: get("description"),
		Decimals:    decimals,
		Supply:      supply,
		Socials: launch.SocialLinks{
			Website:  get("website"),
			Twitter:  get("twitter"),
			Telegram: get("telegram"),
			Discord:  get("discord"),
		},
	}
	if path := get("image"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return launch.TokenSpec{}, flagError("image", "cannot read file", err)
		}
		spec.Image = data
		spec.ImageContentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
		if spec.ImageContentType == "" {
			spec.ImageContentType = http.DetectContentType(data)
		}
	}
	return spec, spec.Validate()
}

func marketSpecFromFlags(cmd *cobra.Command) (launch.MarketSpec, error) {
	var spec launch.MarketSpec
	var err error
	if spec.BaseMint, err = publicKeyFlag(cmd, "base"); err != nil {
		return spec, err
	}
	if spec.QuoteMint, err = publicKeyFlag(cmd, "quote"); err != nil {
		return spec, err
	}
	if spec.LotSize, err = decimalFlag(cmd, "lot-size"); err != nil {
		return spec, err
	}
	if spec.TickSize, err = decimalFlag(cmd, "tick-size"); err != nil {
		return spec, err
	}
	return spec, spec.Validate()
}

func poolSpecFromFlags(cmd *cobra.Command) (launch.PoolSpec, error) {
	var spec launch.PoolSpec
	var err error
	if spec.MarketID, err = publicKeyFlag(cmd, "market"); err != nil {
		return spec, err
	}
	if spec.BaseAmount, err = decimalFlag(cmd, "base-amount"); err != nil {
		return spec, err
	}
	if spec.QuoteAmount, err = decimalFlag(cmd, "quote-amount"); err != nil {
		return spec, err
	}
	if spec.StartTime, err = startFlag(cmd); err != nil {
		return spec, err
	}
	return spec, spec.Validate()
}

func publicKeyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	raw, _ := cmd.Flags().GetString(name)
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw))
	if err != nil {
		return solana.PublicKey{}, flagError(name, "not a valid address", err)
	}
	return key, nil
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, flagError(name, "not a number", err)
	}
	return d, nil
}

// startFlag parses --start as unix seconds or RFC3339. Empty means now.
func startFlag(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("start")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, flagError("start", "use RFC3339 or unix seconds", err)
	}
	return t, nil
}

func flagError(name, reason string, err error) error {
	return &launch.ValidationError{Field: "--" + name, Reason: reason, Err: err}
}
