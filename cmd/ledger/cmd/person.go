package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
)

func newPersonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "person NAME",
		Short: "List one person's transactions and overall balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			person := strings.TrimSpace(args[0])
			if person == "" {
				return fmt.Errorf("person name is required")
			}

			ledger, err := opts.load()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "=== Transactions for %s ===\n", person)

			found := false
			for _, txn := range ledger.Transactions {
				if !txn.Involves(person) {
					continue
				}
				found = true

				share, _, err := calculator.ShareOf(txn, person)
				if err != nil {
					return err
				}

				payer := txn.Payer + " paid"
				if txn.Payer == person {
					payer = "You paid"
				}
				scope := "[Personal]"
				if txn.GroupID != "" {
					scope = "[Group: " + txn.GroupID + "]"
				}
				fmt.Fprintf(w, "#%d %s %s (Your share: %s) %s\n", txn.ID, payer, money(txn.Amount), money(share), scope)
				if txn.Description != "" {
					fmt.Fprintf(w, "  Description: %s\n", txn.Description)
				}
			}
			if !found {
				fmt.Fprintf(w, "No transactions found for %s.\n", person)
			}

			balances, err := calculator.CalculateNetBalances(ledger.Transactions, ledger.Settlements, "")
			if err != nil {
				return fmt.Errorf("failed to calculate balances: %w", err)
			}

			net := balances[person]
			switch calculator.StatusOf(net) {
			case calculator.StatusGets:
				fmt.Fprintf(w, "Your overall balance: You get %s\n", money(net))
			case calculator.StatusOwes:
				fmt.Fprintf(w, "Your overall balance: You owe %s\n", money(-net))
			default:
				fmt.Fprintln(w, "Your overall balance: Settled")
			}
			return nil
		},
	}
}
