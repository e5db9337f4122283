package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "launchpad",
		Short:         "Create Solana tokens, OpenBook markets and Raydium pools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file path (default ./config.yaml)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.PersistentFlags().String("priority", "", "compute budget preset: none, low, medium, high, extreme")

	root.AddCommand(newTokenCmd(), newMarketCmd(), newPoolCmd(), newServeCmd(), newTUICmd())
	return root
}

// withApp wires the application for one command and releases it afterwards.
func withApp(cmd *cobra.Command, mode app.Mode, fn func(ctx context.Context, a *app.App) error) error {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	priority, _ := cmd.Flags().GetString("priority")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		Debug:      debug,
		Mode:       mode,
		Priority:   transaction.PriorityLevel(priority),
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

	return fn(ctx, a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError writes the failure kind and the tail of the program logs, if any.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error (%s): %v\n", launch.Kind(err), err)
	for _, line := range launch.Logs(err) {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
