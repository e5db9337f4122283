package main

import (
	"context"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/screen"
)

func runTUI(ctx context.Context, a *app.App) error {
	a.Logger.Info("Starting launchpad TUI")
	return screen.Run(ctx, &ui.Services{
		Ctx:      ctx,
		Launcher: a.Launch,
		Signer:   a.Wallet,
		Receipts: a.Receipts,
		Network:  a.Config.Network,
		Logger:   a.Logger,
	}, a.Bus)
}
