// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	License        string         `mapstructure:"license"`
	Keygen         KeygenConfig   `mapstructure:"keygen"`
	Network        string         `mapstructure:"network"`
	RPCList        []string       `mapstructure:"rpc_list"`
	Commitment     string         `mapstructure:"commitment"`
	DebugLogging   bool           `mapstructure:"debug_logging"`
	Wallet         WalletConfig   `mapstructure:"wallet"`
	FeeDestination string         `mapstructure:"fee_destination"`
	Fees           FeeConfig      `mapstructure:"fees"`
	PriorityFee    uint64         `mapstructure:"priority_fee"`
	ComputeUnits   uint32         `mapstructure:"compute_units"`
	ConfirmTimeout time.Duration  `mapstructure:"confirm_timeout"`
	UploadTimeout  time.Duration  `mapstructure:"upload_timeout"`
	Bundlr         BundlrConfig   `mapstructure:"bundlr"`
	Market         MarketConfig   `mapstructure:"market"`
	Programs       ProgramsConfig `mapstructure:"programs"`
	PostgresURL    string         `mapstructure:"postgres_url"`
	WebhookURL     string         `mapstructure:"webhook_url"`
	SentryDSN      string         `mapstructure:"sentry_dsn"`
	Log            LogConfig      `mapstructure:"log"`
	HTTP           HTTPConfig     `mapstructure:"http"`
}

// WalletConfig selects the signing identity. The first non-empty source wins:
// private_key, keypair_path, then wallets_file + name.
type WalletConfig struct {
	PrivateKey  string `mapstructure:"private_key"`
	KeypairPath string `mapstructure:"keypair_path"`
	WalletsFile string `mapstructure:"wallets_file"`
	Name        string `mapstructure:"name"`
}

// FeeConfig holds per-flow service fees in SOL.
type FeeConfig struct {
	Token  string `mapstructure:"token"`
	Market string `mapstructure:"market"`
	Pool   string `mapstructure:"pool"`
}

// KeygenConfig identifies the keygen.sh product licenses are validated against.
// An empty account falls back to an offline format check.
type KeygenConfig struct {
	AccountID    string `mapstructure:"account_id"`
	ProductID    string `mapstructure:"product_id"`
	ProductToken string `mapstructure:"product_token"`
}

type BundlrConfig struct {
	NodeURL    string `mapstructure:"node_url"`
	GatewayURL string `mapstructure:"gateway_url"`
	TopUp      string `mapstructure:"top_up"`
}

// MarketConfig sets the account sizes allocated for a new order book market.
type MarketConfig struct {
	RequestQueueSize uint64 `mapstructure:"request_queue_size"`
	EventQueueSize   uint64 `mapstructure:"event_queue_size"`
	OrderbookSize    uint64 `mapstructure:"orderbook_size"`
}

// ProgramsConfig overrides the network defaults when set.
type ProgramsConfig struct {
	OpenBook              string `mapstructure:"openbook"`
	RaydiumAMM            string `mapstructure:"raydium_amm"`
	RaydiumFeeDestination string `mapstructure:"raydium_fee_destination"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

const (
	NetworkMainnet = "mainnet"
	NetworkDevnet  = "devnet"

	DefaultConfirmTimeout   = 60 * time.Second
	DefaultUploadTimeout    = 2 * time.Minute
	DefaultComputeUnits     = 400_000
	DefaultRequestQueueSize = 5120 + 12
	DefaultEventQueueSize   = 262144 + 12
	DefaultOrderbookSize    = 65536 + 12
	DefaultBundlrNode       = "https://node1.bundlr.network"
	DefaultGateway          = "https://arweave.net"
	DefaultTopUp            = "0.1"
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"network":                   NetworkMainnet,
		"commitment":                "confirmed",
		"fees.token":                "0",
		"fees.market":               "0",
		"fees.pool":                 "0",
		"compute_units":             DefaultComputeUnits,
		"confirm_timeout":           DefaultConfirmTimeout,
		"upload_timeout":            DefaultUploadTimeout,
		"bundlr.node_url":           DefaultBundlrNode,
		"bundlr.gateway_url":        DefaultGateway,
		"bundlr.top_up":             DefaultTopUp,
		"market.request_queue_size": DefaultRequestQueueSize,
		"market.event_queue_size":   DefaultEventQueueSize,
		"market.orderbook_size":     DefaultOrderbookSize,
		"log.file":                  "logs/launchpad.log",
		"log.max_size":              100,
		"log.max_backups":           3,
		"log.max_age":               7,
		"log.compress":              true,
		"http.addr":                 ":8080",
	}
}

// LoadConfig reads the config file at path. An empty path looks for
// ./config.{yaml,json}; a missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

// loadEnvironmentVariables covers keys AutomaticEnv cannot map onto
// Unmarshal: slices given as comma separated strings.
func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	envRPCList := v.GetString("RPC_LIST")
	if envRPCList == "" || strings.HasPrefix(envRPCList, "[") {
		return
	}
	var cleanRPCs []string
	for _, rpc := range strings.Split(envRPCList, ",") {
		if clean := strings.TrimSpace(rpc); clean != "" {
			cleanRPCs = append(cleanRPCs, clean)
		}
	}
	if len(cleanRPCs) > 0 {
		cfg.RPCList = cleanRPCs
	}
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}
	if cfg.Network != NetworkMainnet && cfg.Network != NetworkDevnet {
		return fmt.Errorf("unknown network %q", cfg.Network)
	}
	switch cfg.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("unknown commitment %q", cfg.Commitment)
	}
	if cfg.FeeDestination != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.FeeDestination); err != nil {
			return fmt.Errorf("invalid fee_destination: %w", err)
		}
	}
	if err := validateFees(cfg); err != nil {
		return err
	}
	for name, key := range map[string]string{
		"programs.openbook":                cfg.Programs.OpenBook,
		"programs.raydium_amm":             cfg.Programs.RaydiumAMM,
		"programs.raydium_fee_destination": cfg.Programs.RaydiumFeeDestination,
	} {
		if key == "" {
			continue
		}
		if _, err := solana.PublicKeyFromBase58(key); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if cfg.ConfirmTimeout <= 0 {
		return errors.New("invalid confirm_timeout")
	}
	if cfg.UploadTimeout <= 0 {
		return errors.New("invalid upload_timeout")
	}
	if err := validateURLWithCache(cfg.Bundlr.NodeURL, "http"); err != nil {
		return fmt.Errorf("invalid bundlr.node_url: %w", err)
	}
	if err := validateURLWithCache(cfg.Bundlr.GatewayURL, "http"); err != nil {
		return fmt.Errorf("invalid bundlr.gateway_url: %w", err)
	}
	if cfg.Market.RequestQueueSize == 0 || cfg.Market.EventQueueSize == 0 || cfg.Market.OrderbookSize == 0 {
		return errors.New("market account sizes must be positive")
	}
	if cfg.WebhookURL != "" {
		if err := validateURLWithCache(cfg.WebhookURL, "https"); err != nil {
			return errors.New("webhook URL must use HTTPS")
		}
	}
	return nil
}

func validateFees(cfg *Config) error {
	for name, raw := range map[string]string{
		"fees.token":    cfg.Fees.Token,
		"fees.market":   cfg.Fees.Market,
		"fees.pool":     cfg.Fees.Pool,
		"bundlr.top_up": cfg.Bundlr.TopUp,
	} {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("invalid %s: negative amount", name)
		}
	}
	if cfg.FeeDestination == "" && (nonZero(cfg.Fees.Token) || nonZero(cfg.Fees.Market) || nonZero(cfg.Fees.Pool)) {
		return errors.New("fee_destination is required when a fee is set")
	}
	return nil
}

func nonZero(raw string) bool {
	amount, err := decimal.NewFromString(raw)
	return err == nil && !amount.IsZero()
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL + "|" + protocol); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL+"|"+protocol, parsed)
	return nil
}
