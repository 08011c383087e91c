// Package cmd provides the commands of the offline ledger CLI.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/ledgerfile"
	"github.com/mmynk/splitledger/pkg/logging"
)

type rootOptions struct {
	file      string
	debug     bool
	logFormat string
}

// NewRootCmd builds the ledger command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ledger",
		Short: "Balance shared expenses from a YAML ledger",
		Long: `ledger computes who owes whom from a YAML file of transactions and
settlements, without running the server.

Example:
  ledger balances -f trip.yaml --group Trip
  ledger plan -f trip.yaml
  ledger person Alice -f trip.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "info"
			if opts.debug {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logging.ParseLevel(level), opts.logFormat))
		},
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "ledger.yaml", "ledger file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", logging.FormatTint, "log format (tint or json)")

	root.AddCommand(newBalancesCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newPersonCmd(opts))

	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) load() (*ledgerfile.Ledger, error) {
	ledger, err := ledgerfile.Load(o.file)
	if err != nil {
		return nil, err
	}
	slog.Debug("Ledger loaded",
		"file", o.file,
		"transactions", len(ledger.Transactions),
		"settlements", len(ledger.Settlements),
	)
	return ledger, nil
}

// money formats an amount the way every command prints it.
func money(v float64) string {
	return fmt.Sprintf("Rs.%.2f", v)
}
