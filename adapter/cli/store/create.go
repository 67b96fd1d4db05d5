package store

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/adapter/cli"
	"github.com/supplifit/supplifit/internal/partners/application/commands"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

var (
	ownerID      string
	tier         string
	registration string
	address      string
	phone        string
	email        string
	description  string
	rate         string
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a partner store",
	Long: `Register a partner store. New stores start pending review and take the
commission rate of their tier unless --rate is given.

Examples:
  supplifit store create "Whey Station" --owner 0b6e... --registration 12345678000199
  supplifit store create "Vitamin Hub" --owner 0b6e... --registration 98765432000155 --tier enterprise`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		owner, err := uuid.Parse(ownerID)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}

		create := commands.CreateStoreCommand{
			OwnerID:            owner,
			Tier:               tier,
			Name:               args[0],
			RegistrationNumber: registration,
			Address:            address,
			Phone:              phone,
			Email:              email,
			Description:        description,
		}
		if rate != "" {
			r, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", rate, err)
			}
			create.CommissionRate = &r
		}

		ctx := cmd.Context()
		result, err := app.CreateStoreHandler.Handle(ctx, create)
		if err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}

		store, err := app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: result.StoreID})
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), store, func(w io.Writer) {
			printStore(w, store)
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&ownerID, "owner", "", "owner user ID")
	createCmd.Flags().StringVarP(&tier, "tier", "t", "regular", "store tier (regular, premium, enterprise)")
	createCmd.Flags().StringVar(&registration, "registration", "", "14-digit registration number")
	createCmd.Flags().StringVar(&address, "address", "", "store address")
	createCmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	createCmd.Flags().StringVar(&email, "email", "", "contact email")
	createCmd.Flags().StringVar(&description, "description", "", "store description")
	createCmd.Flags().StringVar(&rate, "rate", "", "commission rate override between 0 and 1")
	_ = createCmd.MarkFlagRequired("owner")
	_ = createCmd.MarkFlagRequired("registration")
}
