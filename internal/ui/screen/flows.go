package screen

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
)

// flowDef describes one creation form: its fields, how its values become a
// launch request and how the result is shown.
type flowDef struct {
	route    ui.Route
	flow     string
	title    string
	subtitle string
	fields   func(f *component.Form)
	run      func(ctx context.Context, svc *ui.Services, values map[string]string) (interface{}, error)
	summary  func(result interface{}) []string
}

var tokenFlow = flowDef{
	route:    ui.RouteCreateToken,
	flow:     models.FlowToken,
	title:    "Create Token",
	subtitle: "Mint a new SPL token with metadata",
	fields: func(f *component.Form) {
		f.AddField("name", component.FieldTypeText, "Name", true, "My Token").
			AddField("symbol", component.FieldTypeText, "Symbol", true, "MTK").
			AddField("decimals", component.FieldTypeNumber, "Decimals", true, "9").
			AddField("supply", component.FieldTypeNumber, "Supply", true, "1000000000").
			AddField("description", component.FieldTypeText, "Description", false, "").
			AddField("image", component.FieldTypePath, "Image", false, "./logo.png").
			AddField("socials.website", component.FieldTypeText, "Website", false, "https://").
			AddField("socials.twitter", component.FieldTypeText, "Twitter", false, "https://x.com/...").
			AddField("socials.telegram", component.FieldTypeText, "Telegram", false, "https://t.me/...").
			AddField("socials.discord", component.FieldTypeText, "Discord", false, "https://discord.gg/...").
			SetFieldValue("decimals", "9").
			SetFieldValidation("decimals", validateDecimals).
			SetFieldValidation("supply", validatePositive)
	},
	run: func(ctx context.Context, svc *ui.Services, values map[string]string) (interface{}, error) {
		spec, err := parseTokenSpec(values)
		if err != nil {
			return nil, err
		}
		return svc.Launcher.CreateToken(ctx, svc.Signer, spec)
	},
	summary: func(result interface{}) []string {
		res, ok := result.(*launch.TokenResult)
		if !ok || res == nil {
			return nil
		}
		lines := []string{
			"Mint:          " + res.Mint.String(),
			"Token account: " + res.TokenAccount.String(),
			"Metadata:      " + res.MetadataURI,
		}
		if res.ImageURL != "" {
			lines = append(lines, "Image:         "+res.ImageURL)
		}
		return append(lines, "Signature:     "+res.Signature.String())
	},
}

var marketFlow = flowDef{
	route:    ui.RouteCreateMarket,
	flow:     models.FlowMarket,
	title:    "Create Market",
	subtitle: "List an OpenBook market for a token pair",
	fields: func(f *component.Form) {
		f.AddField("base_mint", component.FieldTypeText, "Base mint", true, "token mint address").
			AddField("quote_mint", component.FieldTypeText, "Quote mint", true, solana.SolMint.String()).
			AddField("lot_size", component.FieldTypeNumber, "Min order size (base)", true, "1").
			AddField("tick_size", component.FieldTypeNumber, "Tick size (quote)", true, "0.0001").
			SetFieldValue("quote_mint", solana.SolMint.String()).
			SetFieldValidation("base_mint", validatePublicKey).
			SetFieldValidation("quote_mint", validatePublicKey).
			SetFieldValidation("lot_size", validatePositive).
			SetFieldValidation("tick_size", validatePositive)
	},
	run: func(ctx context.Context, svc *ui.Services, values map[string]string) (interface{}, error) {
		spec, err := parseMarketSpec(values)
		if err != nil {
			return nil, err
		}
		return svc.Launcher.CreateMarket(ctx, svc.Signer, spec)
	},
	summary: func(result interface{}) []string {
		res, ok := result.(*launch.MarketResult)
		if !ok || res == nil {
			return nil
		}
		lines := []string{
			"Market:      " + res.MarketID.String(),
			"Base vault:  " + res.BaseVault.String(),
			"Quote vault: " + res.QuoteVault.String(),
			fmt.Sprintf("Lots:        base %d / quote %d", res.BaseLotSize, res.QuoteLotSize),
		}
		for i, sig := range res.Signatures {
			lines = append(lines, fmt.Sprintf("Tx %d:        %s", i+1, sig))
		}
		return lines
	},
}

var poolFlow = flowDef{
	route:    ui.RouteCreatePool,
	flow:     models.FlowPool,
	title:    "Create Pool",
	subtitle: "Open a Raydium AMM pool on an existing market",
	fields: func(f *component.Form) {
		f.AddField("market_id", component.FieldTypeText, "Market ID", true, "OpenBook market address").
			AddField("base_amount", component.FieldTypeNumber, "Base amount", true, "1000000").
			AddField("quote_amount", component.FieldTypeNumber, "Quote amount", true, "10").
			AddField("start_time", component.FieldTypeText, "Open time", false, "now, RFC3339 or unix seconds").
			SetFieldValidation("market_id", validatePublicKey).
			SetFieldValidation("base_amount", validatePositive).
			SetFieldValidation("quote_amount", validatePositive).
			SetFieldValidation("start_time", func(s string) error {
				_, err := parseStartTime(s)
				return err
			})
	},
	run: func(ctx context.Context, svc *ui.Services, values map[string]string) (interface{}, error) {
		spec, err := parsePoolSpec(values)
		if err != nil {
			return nil, err
		}
		return svc.Launcher.CreatePool(ctx, svc.Signer, spec)
	},
	summary: func(result interface{}) []string {
		res, ok := result.(*launch.PoolResult)
		if !ok || res == nil {
			return nil
		}
		return []string{
			"Pool:      " + res.PoolID.String(),
			"LP mint:   " + res.LPMint.String(),
			"Opens at:  " + time.Unix(res.OpenTime, 0).UTC().Format(time.RFC3339),
			"Signature: " + res.Signature.String(),
		}
	},
}

func parseTokenSpec(values map[string]string) (launch.TokenSpec, error) {
	decimals, err := strconv.ParseUint(values["decimals"], 10, 8)
	if err != nil {
		return launch.TokenSpec{}, &launch.ValidationError{Field: "decimals", Reason: "must be a whole number", Err: err}
	}
	supply, err := parseDecimal("supply", values["supply"])
	if err != nil {
		return launch.TokenSpec{}, err
	}

	spec := launch.TokenSpec{
		Name:        values["name"],
		Symbol:      values["symbol"],
		Description: values["description"],
		Decimals:    uint8(decimals),
		Supply:      supply,
		Socials: launch.SocialLinks{
			Website:  values["socials.website"],
			Twitter:  values["socials.twitter"],
			Telegram: values["socials.telegram"],
			Discord:  values["socials.discord"],
		},
	}
	if path := values["image"]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return launch.TokenSpec{}, &launch.ValidationError{Field: "image", Reason: "cannot read file", Err: err}
		}
		spec.Image = data
		spec.ImageContentType = imageContentType(path, data)
	}
	return spec, nil
}

func parseMarketSpec(values map[string]string) (launch.MarketSpec, error) {
	var spec launch.MarketSpec
	var err error
	if spec.BaseMint, err = parsePublicKey("base_mint", values["base_mint"]); err != nil {
		return spec, err
	}
	if spec.QuoteMint, err = parsePublicKey("quote_mint", values["quote_mint"]); err != nil {
		return spec, err
	}
	if spec.LotSize, err = parseDecimal("lot_size", values["lot_size"]); err != nil {
		return spec, err
	}
	if spec.TickSize, err = parseDecimal("tick_size", values["tick_size"]); err != nil {
		return spec, err
	}
	return spec, nil
}

func parsePoolSpec(values map[string]string) (launch.PoolSpec, error) {
	var spec launch.PoolSpec
	var err error
	if spec.MarketID, err = parsePublicKey("market_id", values["market_id"]); err != nil {
		return spec, err
	}
	if spec.BaseAmount, err = parseDecimal("base_amount", values["base_amount"]); err != nil {
		return spec, err
	}
	if spec.QuoteAmount, err = parseDecimal("quote_amount", values["quote_amount"]); err != nil {
		return spec, err
	}
	if spec.StartTime, err = parseStartTime(values["start_time"]); err != nil {
		return spec, &launch.ValidationError{Field: "start_time", Reason: err.Error(), Err: err}
	}
	return spec, nil
}

// parseStartTime accepts "", "now", RFC3339 or unix seconds. The zero time
// means "open immediately".
func parseStartTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "now") {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("use RFC3339 or unix seconds")
	}
	return t, nil
}

func parsePublicKey(field, raw string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, &launch.ValidationError{Field: field, Reason: "not a valid address", Err: err}
	}
	return key, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &launch.ValidationError{Field: field, Reason: "not a number", Err: err}
	}
	return d, nil
}

// imageContentType prefers the file extension and falls back to sniffing.
func imageContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

func validatePublicKey(s string) error {
	if _, err := solana.PublicKeyFromBase58(s); err != nil {
		return fmt.Errorf("not a valid address")
	}
	return nil
}

func validatePositive(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func validateDecimals(s string) error {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 9 {
		return fmt.Errorf("must be between 0 and 9")
	}
	return nil
}
