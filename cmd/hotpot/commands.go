package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hotpot-dev/hotpot/internal/qr"
	"github.com/hotpot-dev/hotpot/internal/storage"
	"github.com/hotpot-dev/hotpot/internal/totp"
	"github.com/hotpot-dev/hotpot/internal/ui"
)

// now is swapped in tests.
var now = time.Now

func addCmd(a *app) *cobra.Command {
	var (
		issuer    string
		algorithm string
		digits    uint32
		period    uint64
		epoch     uint64
		uri       string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an account; the secret is read from the terminal",
		Example: `  hotpot add github --issuer GitHub
  hotpot add --uri 'otpauth://totp/GitHub:alice?secret=JBSWY3DPEHPK3PXP'
  echo JBSWY3DPEHPK3PXP | hotpot add work`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var acct totp.Account
			if uri != "" {
				parsed, err := totp.ParseURI(uri)
				if err != nil {
					return err
				}
				acct = parsed
				if len(args) == 1 {
					acct.Name = args[0]
				}
			} else {
				if len(args) != 1 {
					return errors.New("add needs NAME or --uri")
				}
				alg, err := totp.ParseAlgorithm(algorithm)
				if err != nil {
					return err
				}
				secret, err := readValue("Secret:", true, cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				acct = totp.Account{
					Name:      args[0],
					Secret:    secret,
					Issuer:    issuer,
					Algorithm: alg,
					Digits:    digits,
					Period:    period,
					Epoch:     epoch,
				}
			}

			if _, err := storage.Add(a.store, acct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", strings.TrimSpace(acct.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&issuer, "issuer", "", "Issuer shown next to the name")
	cmd.Flags().StringVar(&algorithm, "algorithm", string(totp.DefaultAlgorithm), "HMAC algorithm: SHA1, SHA256 or SHA512")
	cmd.Flags().Uint32Var(&digits, "digits", totp.DefaultDigits, "Code length (6-8)")
	cmd.Flags().Uint64Var(&period, "period", totp.DefaultPeriod, "Seconds per code")
	cmd.Flags().Uint64Var(&epoch, "epoch", 0, "Unix time of counter zero")
	cmd.Flags().StringVar(&uri, "uri", "", "Add from an otpauth:// URI instead")
	return cmd
}

func codeCmd(a *app) *cobra.Command {
	var (
		copyCode bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "code NAME",
		Short: "Print the current code for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := storage.Get(a.store, args[0])
			if err != nil {
				return err
			}
			code, err := totp.Generate(acct, now())
			if err != nil {
				return err
			}
			if copyCode {
				if err := (ui.SystemClipboard{}).WriteAll(code.Value); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
			}
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%ds left)\n", code.Value, code.SecondsRemaining)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), code.Value)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyCode, "copy", "c", false, "Also copy the code to the clipboard")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show seconds until the code changes")
	return cmd
}

// listEntry is the exported view of an account. It never carries the secret.
type listEntry struct {
	Name      string `json:"name" yaml:"name"`
	Issuer    string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Digits    uint32 `json:"digits" yaml:"digits"`
	Period    uint64 `json:"period" yaml:"period"`
	Epoch     uint64 `json:"epoch,omitempty" yaml:"epoch,omitempty"`
}

func listCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts without secrets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store.Load()
			if err != nil {
				return err
			}
			entries := make([]listEntry, 0, len(st.Accounts))
			for _, acct := range st.Sorted().Accounts {
				entries = append(entries, listEntry{
					Name:      acct.Name,
					Issuer:    acct.Issuer,
					Algorithm: string(acct.Algorithm),
					Digits:    acct.Digits,
					Period:    acct.Period,
					Epoch:     acct.Epoch,
				})
			}
			return writeList(cmd.OutOrStdout(), output, entries)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func writeList(w io.Writer, output string, entries []listEntry) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(entries)
	case "text":
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No accounts.")
			return err
		}
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			Headers("NAME", "ISSUER", "ALGORITHM", "DIGITS", "PERIOD")
		for _, e := range entries {
			t.Row(e.Name, e.Issuer, e.Algorithm, strconv.FormatUint(uint64(e.Digits), 10), strconv.FormatUint(e.Period, 10)+"s")
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
	}
}

func deleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := storage.Get(a.store, name); err != nil {
				return err
			}
			if !yes {
				answer, err := readValue(fmt.Sprintf("Delete account '%s'? [y/N]", name), false, cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if _, err := storage.Remove(a.store, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func exportQRCmd(a *app) *cobra.Command {
	var (
		png    string
		size   int
		invert bool
	)

	cmd := &cobra.Command{
		Use:   "export-qr NAME",
		Short: "Show an account as an otpauth:// URI and QR code",
		Long: `Prints the otpauth:// URI followed by a QR code drawn with block characters.
With --png the QR code is written to an image file instead. The output
contains the secret.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := storage.Get(a.store, args[0])
			if err != nil {
				return err
			}
			uri := totp.URI(acct)

			if png != "" {
				if err := qr.WritePNG(uri, png, size); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", png)
				return nil
			}

			lines, err := qr.Lines(uri, invert)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, uri)
			for _, l := range lines {
				fmt.Fprintln(out, l)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&png, "png", "", "Write a PNG image to this path")
	cmd.Flags().IntVar(&size, "size", qr.DefaultPNGSize, "PNG size in pixels")
	cmd.Flags().BoolVar(&invert, "invert", false, "Swap dark and light modules for light terminals")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import SOURCE",
		Short: "Import an account from an otpauth:// URI or a QR code image",
		Example: `  hotpot import 'otpauth://totp/GitHub:alice?secret=JBSWY3DPEHPK3PXP'
  hotpot import ~/Downloads/qr.png --name work`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if !strings.HasPrefix(strings.ToLower(source), "otpauth://") {
				text, err := qr.DecodeFile(source)
				if err != nil {
					return err
				}
				source = text
			}
			acct, err := totp.ParseURI(source)
			if err != nil {
				return err
			}
			if name != "" {
				acct.Name = name
			}
			if _, err := storage.Add(a.store, acct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", strings.TrimSpace(acct.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Override the account name")
	return cmd
}
