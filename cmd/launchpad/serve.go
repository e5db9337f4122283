package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/api"
	"github.com/rovshanmuradov/solana-launchpad/internal/app"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the launch flows over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return withApp(cmd, app.ModeServer, func(ctx context.Context, a *app.App) error {
				if addr == "" {
					addr = a.Config.HTTP.Addr
				}
				srv := api.NewServer(&api.ServerConfig{
					Logger:   a.Logger,
					Launcher: a.Launch,
					Receipts: a.Receipts,
					Signer:   a.Wallet,
					// two uploads, two market batches and the RPC reads around them
					FlowTimeout: 2*a.Config.UploadTimeout + 2*a.Config.ConfirmTimeout + time.Minute,
				})
				return srv.ListenAndServe(ctx, addr)
			})
		},
	}
	cmd.Flags().String("addr", "", "listen address (default http.addr from config)")
	return cmd
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, app.ModeTUI, runTUI)
		},
	}
}
