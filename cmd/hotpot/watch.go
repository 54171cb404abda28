package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hotpot-dev/hotpot/internal/screen"
	"github.com/hotpot-dev/hotpot/internal/totp"
)

const watchBarWidth = 10

func watchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print live codes for every account until interrupted",
		Long: `Prints a table of current codes and refreshes it every interval. Unlike the
dashboard it reads no keys, so its output can be piped or logged.`,
		Example: `  hotpot watch
  hotpot watch --interval 5s
  hotpot watch --count 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(st.Accounts) == 0 {
				fmt.Fprintln(out, "No accounts.")
				return nil
			}
			if interval <= 0 {
				interval = time.Second
			}
			accounts := st.Sorted().Accounts
			redraw := isTerminal(out)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for n := 0; count <= 0 || n < count; n++ {
				if n > 0 {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
					}
				}
				if redraw {
					fmt.Fprint(out, "\x1b[H\x1b[2J")
				}
				if _, err := fmt.Fprintln(out, watchTable(accounts, now())); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Time between refreshes")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many refreshes (0 runs until interrupted)")
	return cmd
}

// watchTable renders one refresh. An account whose code cannot be generated
// shows the error instead of a code.
func watchTable(accounts []totp.Account, at time.Time) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ACCOUNT", "ISSUER", "CODE", "LEFT")
	for _, acct := range accounts {
		code, err := totp.Generate(acct, at)
		if err != nil {
			t.Row(acct.Name, acct.Issuer, "error", err.Error())
			continue
		}
		left := fmt.Sprintf("%s %2ds", screen.ProgressBar(code.Fraction(), watchBarWidth), code.SecondsRemaining)
		t.Row(acct.Name, acct.Issuer, code.Value, left)
	}
	return t.Render()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
