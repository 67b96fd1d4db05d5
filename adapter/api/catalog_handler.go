package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/catalog/application/commands"
	"github.com/supplifit/supplifit/internal/catalog/application/queries"
)

// CatalogHandler serves the category and supplement endpoints.
type CatalogHandler struct {
	createCategory   *commands.CreateCategoryHandler
	deleteCategory   *commands.DeleteCategoryHandler
	createSupplement *commands.CreateSupplementHandler
	updateSupplement *commands.UpdateSupplementHandler
	deleteSupplement *commands.DeleteSupplementHandler
	queries          *queries.CatalogQueries
	logger           *slog.Logger
}

// CatalogHandlerConfig holds dependencies for the catalog handler.
type CatalogHandlerConfig struct {
	CreateCategory   *commands.CreateCategoryHandler
	DeleteCategory   *commands.DeleteCategoryHandler
	CreateSupplement *commands.CreateSupplementHandler
	UpdateSupplement *commands.UpdateSupplementHandler
	DeleteSupplement *commands.DeleteSupplementHandler
	Queries          *queries.CatalogQueries
	Logger           *slog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(cfg CatalogHandlerConfig) *CatalogHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &CatalogHandler{
		createCategory:   cfg.CreateCategory,
		deleteCategory:   cfg.DeleteCategory,
		createSupplement: cfg.CreateSupplement,
		updateSupplement: cfg.UpdateSupplement,
		deleteSupplement: cfg.DeleteSupplement,
		queries:          cfg.Queries,
		logger:           cfg.Logger,
	}
}

// ListCategories handles GET /api/v1/categories?q=
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.Categories(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, h.logger, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetCategory handles GET /api/v1/categories/{categoryID}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathUUID(r, "categoryID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	category, err := h.queries.Category(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, "get category", err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory handles POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	category, err := h.createCategory.Handle(r.Context(), commands.CreateCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
		ActorID:     actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, queries.ToCategoryDTO(category))
}

// DeleteCategory handles DELETE /api/v1/categories/{categoryID}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathUUID(r, "categoryID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	err := h.deleteCategory.Handle(r.Context(), commands.DeleteCategoryCommand{CategoryID: id, ActorID: actorFrom(r)})
	if err != nil {
		handleError(w, r, h.logger, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSupplements handles
// GET /api/v1/supplements?q=&category=&type=&brand=&available=&ordering=&limit=
func (h *CatalogHandler) ListSupplements(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := queries.SearchSupplementsQuery{
		Query:    params.Get("q"),
		Type:     params.Get("type"),
		Brand:    params.Get("brand"),
		Ordering: params.Get("ordering"),
		Limit:    parseIntParam(r, "limit", 0),
	}
	if raw := params.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, badRequest("query parameter 'category' must be a UUID"))
			return
		}
		query.CategoryID = &id
	}
	if raw := params.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, badRequest("query parameter 'available' must be true or false"))
			return
		}
		query.Available = &available
	}

	supplements, err := h.queries.Supplements(r.Context(), query)
	if err != nil {
		handleError(w, r, h.logger, "list supplements", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"supplements": supplements})
}

// GetSupplement handles GET /api/v1/supplements/{supplementID}
func (h *CatalogHandler) GetSupplement(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathUUID(r, "supplementID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	supplement, err := h.queries.Supplement(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, "get supplement", err)
		return
	}
	writeJSON(w, http.StatusOK, supplement)
}

type createSupplementRequest struct {
	CategoryID        uuid.UUID        `json:"category_id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Brand             string           `json:"brand"`
	Type              string           `json:"type"`
	ServingSize       string           `json:"serving_size"`
	Ingredients       string           `json:"ingredients"`
	Benefits          string           `json:"benefits"`
	UsageInstructions string           `json:"usage_instructions"`
	Price             *decimal.Decimal `json:"price"`
}

// CreateSupplement handles POST /api/v1/supplements
func (h *CatalogHandler) CreateSupplement(w http.ResponseWriter, r *http.Request) {
	var req createSupplementRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if req.Price == nil {
		writeError(w, badRequest("price is required"))
		return
	}

	created, err := h.createSupplement.Handle(r.Context(), commands.CreateSupplementCommand{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Brand:             req.Brand,
		Type:              req.Type,
		ServingSize:       req.ServingSize,
		Ingredients:       req.Ingredients,
		Benefits:          req.Benefits,
		UsageInstructions: req.UsageInstructions,
		Price:             *req.Price,
		ActorID:           actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "create supplement", err)
		return
	}
	h.respondSupplement(w, r, http.StatusCreated, created.ID())
}

type updateSupplementRequest struct {
	CategoryID        *uuid.UUID       `json:"category_id"`
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Brand             *string          `json:"brand"`
	Type              *string          `json:"type"`
	ServingSize       *string          `json:"serving_size"`
	Ingredients       *string          `json:"ingredients"`
	Benefits          *string          `json:"benefits"`
	UsageInstructions *string          `json:"usage_instructions"`
	Price             *decimal.Decimal `json:"price"`
	Available         *bool            `json:"available"`
}

// UpdateSupplement handles PATCH /api/v1/supplements/{supplementID}
func (h *CatalogHandler) UpdateSupplement(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathUUID(r, "supplementID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	var req updateSupplementRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	_, err := h.updateSupplement.Handle(r.Context(), commands.UpdateSupplementCommand{
		SupplementID:      id,
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Brand:             req.Brand,
		Type:              req.Type,
		ServingSize:       req.ServingSize,
		Ingredients:       req.Ingredients,
		Benefits:          req.Benefits,
		UsageInstructions: req.UsageInstructions,
		Price:             req.Price,
		Available:         req.Available,
		ActorID:           actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "update supplement", err)
		return
	}
	h.respondSupplement(w, r, http.StatusOK, id)
}

// DeleteSupplement handles DELETE /api/v1/supplements/{supplementID}
func (h *CatalogHandler) DeleteSupplement(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathUUID(r, "supplementID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	err := h.deleteSupplement.Handle(r.Context(), commands.DeleteSupplementCommand{SupplementID: id, ActorID: actorFrom(r)})
	if err != nil {
		handleError(w, r, h.logger, "delete supplement", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondSupplement writes the read model, which carries the category name.
func (h *CatalogHandler) respondSupplement(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID) {
	supplement, err := h.queries.Supplement(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, "load supplement", err)
		return
	}
	writeJSON(w, status, supplement)
}
