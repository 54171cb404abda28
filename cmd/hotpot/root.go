package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hotpot-dev/hotpot/internal/qr"
	"github.com/hotpot-dev/hotpot/internal/storage"
	"github.com/hotpot-dev/hotpot/internal/terminal"
	"github.com/hotpot-dev/hotpot/internal/ui"
)

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hotpot",
		Short: "A local TOTP manager",
		Long: `hotpot keeps TOTP accounts in the system keyring (or a JSON file) and shows
live codes in a terminal dashboard.

Run without arguments to open the dashboard.`,
		Example: `  hotpot
  hotpot --file ~/otp.json
  hotpot add github --issuer GitHub
  hotpot code github
  hotpot watch
  hotpot list --output json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), a)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "Path to config.toml")
	rootCmd.PersistentFlags().StringVar(&a.file, "file", "", "Store accounts in this JSON file instead of the keyring")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(codeCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(exportQRCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(watchCmd(a))

	return rootCmd
}

// runDashboard loads the accounts before touching the terminal so a broken
// store is reported on a normal screen.
func runDashboard(ctx context.Context, a *app) error {
	initial, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	opts := ui.Options{
		CopiedDuration: a.cfg.Dashboard.Copied(),
		StatusDuration: a.cfg.Dashboard.Status(),
		Clipboard:      ui.SystemClipboard{},
		Theme:          ui.ThemeFor(a.cfg.Dashboard.Theme),
		DecodeImage:    qr.DecodeFile,
	}
	if runtime.GOOS == "darwin" {
		opts.Capture = qr.CaptureScreen
	}
	d := ui.New(a.store, initial, opts)

	runOpts := ui.RunOptions{
		TickInterval: a.cfg.Dashboard.Tick(),
		Debug:        a.cfg.Log.Debug,
	}
	if path, ok := a.filePath(); ok {
		if w, err := storage.NewWatcher(path); err != nil {
			log.Printf("[CLI] file watch disabled: %v", err)
		} else {
			defer w.Close()
			runOpts.Changes = w.Changes()
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ui.Run(ctx, d, terminal.Open(), runOpts)
}
