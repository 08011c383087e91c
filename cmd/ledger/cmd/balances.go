package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/calculator"
)

func newBalancesCmd(opts *rootOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show each person's net balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := opts.load()
			if err != nil {
				return err
			}

			members, err := calculator.CalculateMemberBalances(ledger.Transactions, ledger.Settlements, group)
			if err != nil {
				return fmt.Errorf("failed to calculate balances: %w", err)
			}

			printBalances(cmd.OutOrStdout(), group, members)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only count this group")
	return cmd
}

func printBalances(w io.Writer, group string, members []calculator.MemberBalance) {
	if group == "" {
		fmt.Fprintln(w, "=== Net Balances ===")
	} else {
		fmt.Fprintf(w, "=== Net Balances (%s) ===\n", group)
	}

	if len(members) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}

	settled := true
	for _, m := range members {
		switch m.Status() {
		case calculator.StatusGets:
			settled = false
			fmt.Fprintf(w, "%s: Gets %s\n", m.MemberName, money(m.NetBalance))
		case calculator.StatusOwes:
			settled = false
			fmt.Fprintf(w, "%s: Owes %s\n", m.MemberName, money(-m.NetBalance))
		default:
			fmt.Fprintf(w, "%s: Settled\n", m.MemberName)
		}
	}
	if settled {
		fmt.Fprintln(w, "All debts settled!")
	}
}
