// Package commission holds the commission CLI commands.
package commission

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

// Cmd is the commission command group
var Cmd = &cobra.Command{
	Use:   "commission",
	Short: "Calculate partner commissions",
}

var calcCmd = &cobra.Command{
	Use:   "calc [store-id] [amount]",
	Short: "Calculate the commission on a sale",
	Long: `Calculate the commission owed on a sale at a partner store.

Examples:
  supplifit commission calc 6f1c... 1500.00
  supplifit commission calc 6f1c... 300000 --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		storeID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid store ID: %w", err)
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}

		result, err := app.CalculateCommissionHandler.Handle(cmd.Context(), queries.CalculateCommissionQuery{
			StoreID: storeID,
			Amount:  amount,
		})
		if err != nil {
			return fmt.Errorf("failed to calculate commission: %w", err)
		}

		return cli.Output(cmd.OutOrStdout(), result, func(w io.Writer) {
			fmt.Fprintf(w, "Commission for %s (%s)\n", result.StoreID, result.Tier)
			fmt.Fprintf(w, "  sale:       %s\n", result.SaleAmount.StringFixed(2))
			fmt.Fprintf(w, "  rate:       %s\n", result.EffectiveRate)
			fmt.Fprintf(w, "  commission: %s\n", result.Commission.StringFixed(2))
			fmt.Fprintf(w, "  net:        %s\n", result.NetAmount.StringFixed(2))
			if result.Capped {
				fmt.Fprintln(w, "  capped at the enterprise ceiling")
			}
		})
	},
}

func init() {
	Cmd.AddCommand(calcCmd)
}
