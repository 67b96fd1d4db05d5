package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/supplifit/supplifit/internal/catalog/application/commands"
	"github.com/supplifit/supplifit/internal/catalog/application/queries"
)

type supplementSearchInput struct {
	Query      string `json:"query,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Brand      string `json:"brand,omitempty"`
	Available  *bool  `json:"available,omitempty"`
	Ordering   string `json:"ordering,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type supplementIDInput struct {
	SupplementID string `json:"supplement_id" jsonschema:"required"`
}

type supplementCreateInput struct {
	CategoryID        string `json:"category_id" jsonschema:"required"`
	Name              string `json:"name" jsonschema:"required"`
	Brand             string `json:"brand" jsonschema:"required"`
	Type              string `json:"type" jsonschema:"required"`
	Price             string `json:"price" jsonschema:"required"`
	Description       string `json:"description,omitempty"`
	ServingSize       string `json:"serving_size,omitempty"`
	Ingredients       string `json:"ingredients,omitempty"`
	Benefits          string `json:"benefits,omitempty"`
	UsageInstructions string `json:"usage_instructions,omitempty"`
}

type supplementUpdateInput struct {
	SupplementID      string  `json:"supplement_id" jsonschema:"required"`
	CategoryID        *string `json:"category_id,omitempty"`
	Name              *string `json:"name,omitempty"`
	Brand             *string `json:"brand,omitempty"`
	Type              *string `json:"type,omitempty"`
	Price             *string `json:"price,omitempty"`
	Description       *string `json:"description,omitempty"`
	ServingSize       *string `json:"serving_size,omitempty"`
	Ingredients       *string `json:"ingredients,omitempty"`
	Benefits          *string `json:"benefits,omitempty"`
	UsageInstructions *string `json:"usage_instructions,omitempty"`
	Available         *bool   `json:"available,omitempty"`
}

type categoryListInput struct {
	Query string `json:"query,omitempty"`
}

type categoryCreateInput struct {
	Name        string `json:"name" jsonschema:"required"`
	Description string `json:"description,omitempty"`
}

func registerCatalogTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("supplements.search").
		Description("Search the supplement catalog by text, category, type, brand or availability. Ordering is name, price or created_at, prefixed with - to reverse.").
		Handler(func(ctx context.Context, input supplementSearchInput) ([]*queries.SupplementDTO, error) {
			if app == nil || app.CatalogQueries == nil {
				return nil, errors.New("catalog search requires database connection")
			}
			query := queries.SearchSupplementsQuery{
				Query:     input.Query,
				Type:      input.Type,
				Brand:     input.Brand,
				Available: input.Available,
				Ordering:  input.Ordering,
				Limit:     input.Limit,
			}
			if input.CategoryID != "" {
				id, err := parseUUID(input.CategoryID)
				if err != nil {
					return nil, err
				}
				query.CategoryID = &id
			}
			return app.CatalogQueries.Supplements(ctx, query)
		})

	srv.Tool("supplement.get").
		Description("Get a supplement by ID").
		Handler(func(ctx context.Context, input supplementIDInput) (*queries.SupplementDTO, error) {
			if app == nil || app.CatalogQueries == nil {
				return nil, errors.New("catalog lookup requires database connection")
			}
			id, err := parseUUID(input.SupplementID)
			if err != nil {
				return nil, err
			}
			return app.CatalogQueries.Supplement(ctx, id)
		})

	srv.Tool("supplement.create").
		Description("Add a supplement to a category. Type is protein, pre_workout, bcaa, creatine, vitamins or other.").
		Handler(func(ctx context.Context, input supplementCreateInput) (*queries.SupplementDTO, error) {
			if app == nil || app.CreateSupplementHandler == nil {
				return nil, errors.New("supplement creation requires database connection")
			}
			categoryID, err := parseUUID(input.CategoryID)
			if err != nil {
				return nil, err
			}
			price, err := parseDecimal(input.Price)
			if err != nil {
				return nil, err
			}
			created, err := app.CreateSupplementHandler.Handle(ctx, commands.CreateSupplementCommand{
				CategoryID:        categoryID,
				Name:              input.Name,
				Description:       input.Description,
				Brand:             input.Brand,
				Type:              input.Type,
				ServingSize:       input.ServingSize,
				Ingredients:       input.Ingredients,
				Benefits:          input.Benefits,
				UsageInstructions: input.UsageInstructions,
				Price:             price,
				ActorID:           app.ActorID,
			})
			if err != nil {
				return nil, err
			}
			return app.CatalogQueries.Supplement(ctx, created.ID())
		})

	srv.Tool("supplement.update").
		Description("Edit a supplement. Omitted fields are left unchanged.").
		Handler(func(ctx context.Context, input supplementUpdateInput) (*queries.SupplementDTO, error) {
			if app == nil || app.UpdateSupplementHandler == nil {
				return nil, errors.New("supplement update requires database connection")
			}
			id, err := parseUUID(input.SupplementID)
			if err != nil {
				return nil, err
			}
			cmd := commands.UpdateSupplementCommand{
				SupplementID:      id,
				Name:              input.Name,
				Description:       input.Description,
				Brand:             input.Brand,
				Type:              input.Type,
				ServingSize:       input.ServingSize,
				Ingredients:       input.Ingredients,
				Benefits:          input.Benefits,
				UsageInstructions: input.UsageInstructions,
				Available:         input.Available,
				ActorID:           app.ActorID,
			}
			if input.CategoryID != nil {
				categoryID, err := parseUUID(*input.CategoryID)
				if err != nil {
					return nil, err
				}
				cmd.CategoryID = &categoryID
			}
			if input.Price != nil {
				price, err := parseDecimal(*input.Price)
				if err != nil {
					return nil, err
				}
				cmd.Price = &price
			}
			if _, err := app.UpdateSupplementHandler.Handle(ctx, cmd); err != nil {
				return nil, err
			}
			return app.CatalogQueries.Supplement(ctx, id)
		})

	srv.Tool("categories.list").
		Description("List supplement categories, optionally filtered by name").
		Handler(func(ctx context.Context, input categoryListInput) ([]*queries.CategoryDTO, error) {
			if app == nil || app.CatalogQueries == nil {
				return nil, errors.New("category listing requires database connection")
			}
			return app.CatalogQueries.Categories(ctx, input.Query)
		})

	srv.Tool("category.create").
		Description("Add a supplement category").
		Handler(func(ctx context.Context, input categoryCreateInput) (*queries.CategoryDTO, error) {
			if app == nil || app.CreateCategoryHandler == nil {
				return nil, errors.New("category creation requires database connection")
			}
			category, err := app.CreateCategoryHandler.Handle(ctx, commands.CreateCategoryCommand{
				Name:        input.Name,
				Description: input.Description,
				ActorID:     app.ActorID,
			})
			if err != nil {
				return nil, err
			}
			return queries.ToCategoryDTO(category), nil
		})

	return nil
}
