package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest payments that clear all balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := opts.load()
			if err != nil {
				return err
			}

			balances, err := calculator.CalculateNetBalances(ledger.Transactions, ledger.Settlements, group)
			if err != nil {
				return fmt.Errorf("failed to calculate balances: %w", err)
			}
			plan := calculator.MinimizeSettlements(balances)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "=== Settlement Plan ===")
			if len(plan.Payments) == 0 && plan.Warning == nil {
				fmt.Fprintln(w, "All settlements are complete! No pending transactions.")
				return nil
			}
			for _, p := range plan.Payments {
				fmt.Fprintf(w, "%s ---> %s: %s\n", p.From, p.To, money(p.Amount))
			}
			if plan.Warning != nil {
				slog.Warn("Inconsistent balances", "residual", plan.Warning.Residual())
				fmt.Fprintf(w, "Warning: %v\n", plan.Warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only count this group")
	return cmd
}
