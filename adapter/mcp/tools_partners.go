package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/application/commands"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

type commissionInput struct {
	StoreID string `json:"store_id" jsonschema:"required"`
	Amount  string `json:"amount" jsonschema:"required"`
}

type storeIDInput struct {
	StoreID string `json:"store_id" jsonschema:"required"`
}

type storeSearchInput struct {
	Query   string `json:"query,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

type storeCreateInput struct {
	OwnerID            string `json:"owner_id" jsonschema:"required"`
	Tier               string `json:"tier,omitempty"`
	Name               string `json:"name" jsonschema:"required"`
	RegistrationNumber string `json:"registration_number" jsonschema:"required"`
	Address            string `json:"address,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Description        string `json:"description,omitempty"`
	CommissionRate     string `json:"commission_rate,omitempty"`
}

type storeUpdateInput struct {
	StoreID        string  `json:"store_id" jsonschema:"required"`
	Name           *string `json:"name,omitempty"`
	Address        *string `json:"address,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	Description    *string `json:"description,omitempty"`
	CommissionRate *string `json:"commission_rate,omitempty"`
}

type storeStatusInput struct {
	StoreID string `json:"store_id" jsonschema:"required"`
	Status  string `json:"status" jsonschema:"required"`
}

func registerPartnerTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("commission.calculate").
		Description("Calculate the commission owed on a sale at a partner store").
		Handler(func(ctx context.Context, input commissionInput) (*queries.CommissionDTO, error) {
			if app == nil || app.CalculateCommissionHandler == nil {
				return nil, errors.New("commission requires database connection")
			}
			storeID, err := parseUUID(input.StoreID)
			if err != nil {
				return nil, err
			}
			amount, err := parseDecimal(input.Amount)
			if err != nil {
				return nil, err
			}
			return app.CalculateCommissionHandler.Handle(ctx, queries.CalculateCommissionQuery{
				StoreID: storeID,
				Amount:  amount,
			})
		})

	srv.Tool("store.get").
		Description("Get a partner store by ID").
		Handler(func(ctx context.Context, input storeIDInput) (*queries.StoreDTO, error) {
			if app == nil || app.StoreQueries == nil {
				return nil, errors.New("store lookup requires database connection")
			}
			storeID, err := parseUUID(input.StoreID)
			if err != nil {
				return nil, err
			}
			return app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: storeID})
		})

	srv.Tool("store.list").
		Description("List an owner's stores, or search stores by name, registration number or address").
		Handler(func(ctx context.Context, input storeSearchInput) ([]*queries.StoreDTO, error) {
			if app == nil || app.StoreQueries == nil {
				return nil, errors.New("store listing requires database connection")
			}
			if strings.TrimSpace(input.Query) != "" {
				return app.StoreQueries.Search(ctx, queries.SearchStoresQuery{Query: input.Query})
			}
			ownerID, err := parseUUID(input.OwnerID)
			if err != nil {
				return nil, fmt.Errorf("query or owner_id is required: %w", err)
			}
			return app.StoreQueries.ListByOwner(ctx, queries.ListStoresByOwnerQuery{OwnerID: ownerID})
		})

	srv.Tool("store.create").
		Description("Register a partner store. Tier is regular, premium or enterprise.").
		Handler(func(ctx context.Context, input storeCreateInput) (*queries.StoreDTO, error) {
			if app == nil || app.CreateStoreHandler == nil {
				return nil, errors.New("store creation requires database connection")
			}
			ownerID, err := parseUUID(input.OwnerID)
			if err != nil {
				return nil, err
			}
			tier := input.Tier
			if tier == "" {
				tier = "regular"
			}
			cmd := commands.CreateStoreCommand{
				OwnerID:            ownerID,
				Tier:               tier,
				Name:               input.Name,
				RegistrationNumber: input.RegistrationNumber,
				Address:            input.Address,
				Phone:              input.Phone,
				Email:              input.Email,
				Description:        input.Description,
			}
			if input.CommissionRate != "" {
				rate, err := parseDecimal(input.CommissionRate)
				if err != nil {
					return nil, err
				}
				cmd.CommissionRate = &rate
			}

			result, err := app.CreateStoreHandler.Handle(ctx, cmd)
			if err != nil {
				return nil, err
			}
			return app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: result.StoreID})
		})

	srv.Tool("store.status").
		Description("Change a store's review status: pending, approved, rejected or suspended").
		Handler(func(ctx context.Context, input storeStatusInput) (*queries.StoreDTO, error) {
			if app == nil || app.ChangeStoreStatusHandler == nil {
				return nil, errors.New("status change requires database connection")
			}
			storeID, err := parseUUID(input.StoreID)
			if err != nil {
				return nil, err
			}
			err = app.ChangeStoreStatusHandler.Handle(ctx, commands.ChangeStoreStatusCommand{
				StoreID: storeID,
				Status:  input.Status,
				ActorID: app.ActorID,
			})
			if err != nil {
				return nil, err
			}
			return app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: storeID})
		})

	srv.Tool("store.update").
		Description("Edit a store's contact details or commission rate. Omitted fields are left unchanged.").
		Handler(func(ctx context.Context, input storeUpdateInput) (*queries.StoreDTO, error) {
			if app == nil || app.UpdateStoreHandler == nil {
				return nil, errors.New("store update requires database connection")
			}
			storeID, err := parseUUID(input.StoreID)
			if err != nil {
				return nil, err
			}
			cmd := commands.UpdateStoreCommand{
				StoreID:     storeID,
				Name:        input.Name,
				Address:     input.Address,
				Phone:       input.Phone,
				Email:       input.Email,
				Description: input.Description,
				ActorID:     app.ActorID,
			}
			if input.CommissionRate != nil {
				rate, err := parseDecimal(*input.CommissionRate)
				if err != nil {
					return nil, err
				}
				cmd.CommissionRate = &rate
			}
			if _, err := app.UpdateStoreHandler.Handle(ctx, cmd); err != nil {
				return nil, err
			}
			return app.StoreQueries.Get(ctx, queries.GetStoreQuery{StoreID: storeID})
		})

	return nil
}

func parseDecimal(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Decimal{}, errors.New("amount is required")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal %q: %w", value, err)
	}
	return d, nil
}
