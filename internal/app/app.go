// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/license"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/notify"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/memory"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/postgres"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/upload"
	"github.com/rovshanmuradov/solana-launchpad/internal/upload/bundlr"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

const (
	eventBufferSize   = 256
	sentryFlushWindow = 2 * time.Second
)

// Mode selects where logs go.
type Mode int

const (
	// ModeCLI prints short human lines to the terminal and JSON to the log file
	ModeCLI Mode = iota
	// ModeServer writes structured lines to stdout and the log file
	ModeServer
	// ModeTUI writes only to the log file
	ModeTUI
)

// Options are the command line overrides.
type Options struct {
	ConfigPath string
	Debug      bool
	Mode       Mode
	// Priority overrides the configured compute budget with a preset
	Priority transaction.PriorityLevel
}

// App holds the wired components of one process.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Wallet   *wallet.Wallet
	Client   *solbc.Client
	Sender   *transaction.Sender
	Receipts storage.ReceiptStore
	Bus      *events.Bus
	Launch   *launch.Service

	shutdown *ShutdownHandler
}

// New loads the configuration and wires every component. On error the
// components created so far are released.
func New(ctx context.Context, opts Options) (_ *App, err error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{Config: cfg, Logger: log, shutdown: NewShutdownHandler(log, 0)}
	a.shutdown.Add("logger", func(context.Context) error { return logger.Sync(log) })
	if cfg.SentryDSN != "" {
		a.shutdown.Add("sentry", func(context.Context) error {
			sentry.Flush(sentryFlushWindow)
			return nil
		})
	}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	if err = license.Check(ctx, cfg, log); err != nil {
		return nil, fmt.Errorf("license validation failed: %w", err)
	}

	if a.Client, err = solbc.NewClient(cfg.RPCList, rpc.CommitmentType(cfg.Commitment), log); err != nil {
		return nil, fmt.Errorf("create rpc client: %w", err)
	}
	if a.Wallet, err = wallet.FromConfig(cfg.Wallet); err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}

	priority := transaction.PriorityConfig{ComputeUnits: cfg.ComputeUnits, PriorityFee: cfg.PriorityFee}
	if opts.Priority != "" {
		if priority, err = transaction.Profile(opts.Priority); err != nil {
			return nil, err
		}
	}
	a.Sender = transaction.NewSender(a.Client, transaction.Options{
		Priority:       priority,
		ConfirmTimeout: cfg.ConfirmTimeout,
	}, log)

	uploader, err := newUploader(cfg, a.Wallet, a.Sender, log)
	if err != nil {
		return nil, err
	}

	if a.Receipts, err = a.openStore(ctx); err != nil {
		return nil, err
	}

	a.Bus = events.NewBus(log, eventBufferSize)
	a.shutdown.Add("event_bus", a.Bus.Shutdown)

	settings, err := launch.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	a.Launch = launch.NewService(&launch.ServiceConfig{
		Logger:   log,
		Client:   a.Client,
		Sender:   a.Sender,
		Uploader: uploader,
		Receipts: a.Receipts,
		Bus:      a.Bus,
		Notifier: newNotifier(cfg, log, a.Bus),
		Settings: settings,
	})

	log.Info("Launchpad ready",
		zap.String("network", cfg.Network),
		zap.String("wallet", a.Wallet.PublicKey().String()),
		zap.Int("rpc_endpoints", len(cfg.RPCList)))
	return a, nil
}

// Close releases every component in reverse creation order.
func (a *App) Close(ctx context.Context) error {
	return a.shutdown.Shutdown(ctx)
}

func (a *App) openStore(ctx context.Context) (storage.ReceiptStore, error) {
	if a.Config.PostgresURL == "" {
		a.Logger.Debug("No postgres_url configured, keeping receipts in memory")
		return memory.NewStorage(), nil
	}

	store, err := postgres.NewStorage(a.Config.PostgresURL, a.Logger)
	if err != nil {
		return nil, err
	}
	a.shutdown.Add("postgres", func(context.Context) error { return store.Close() })
	if err := store.RunMigrations(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newUploader(cfg *config.Config, w *wallet.Wallet, sender *transaction.Sender, log *zap.Logger) (upload.Uploader, error) {
	topUp, err := launch.ParseSOL(cfg.Bundlr.TopUp)
	if err != nil {
		return nil, fmt.Errorf("invalid bundlr.top_up: %w", err)
	}
	node := bundlr.NewClient(cfg.Bundlr.NodeURL, w.PrivateKey, &bundlr.SenderFunder{Sender: sender, Signer: w}, log)
	return upload.NewFunded(node, cfg.Bundlr.GatewayURL, topUp, log), nil
}

func newNotifier(cfg *config.Config, log *zap.Logger, bus *events.Bus) notify.Notifier {
	sinks := notify.Multi{
		notify.Log{Logger: log.Named("notify")},
		notify.Bus{Bus: bus},
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhook(cfg.WebhookURL))
	}
	return sinks
}

func newLogger(cfg *config.Config, opts Options) (*zap.Logger, error) {
	debug := opts.Debug || cfg.DebugLogging
	lc := &logger.Config{
		LogFile:     cfg.Log.File,
		MaxSize:     cfg.Log.MaxSize,
		MaxAge:      cfg.Log.MaxAge,
		MaxBackups:  cfg.Log.MaxBackups,
		Compress:    cfg.Log.Compress,
		Development: debug,
		Console:     opts.Mode == ModeServer,
		SentryDSN:   cfg.SentryDSN,
		SentryLevel: zapcore.ErrorLevel,
	}

	fileLogger, err := logger.New(lc)
	if err != nil {
		return nil, err
	}
	if opts.Mode != ModeCLI {
		return fileLogger, nil
	}
	pretty := logger.CreatePrettyLogger(debug)
	return zap.New(zapcore.NewTee(pretty.Core(), fileLogger.Core()), zap.AddCaller()), nil
}
