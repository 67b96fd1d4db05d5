package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/application/commands"
	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

// PartnersHandler serves the partner store and commission endpoints.
type PartnersHandler struct {
	createStore  *commands.CreateStoreHandler
	updateStore  *commands.UpdateStoreHandler
	changeStatus *commands.ChangeStoreStatusHandler
	commission   *queries.CalculateCommissionHandler
	stores       *queries.StoreQueries
	logger       *slog.Logger
}

// PartnersHandlerConfig holds dependencies for the partners handler.
type PartnersHandlerConfig struct {
	CreateStore  *commands.CreateStoreHandler
	UpdateStore  *commands.UpdateStoreHandler
	ChangeStatus *commands.ChangeStoreStatusHandler
	Commission   *queries.CalculateCommissionHandler
	Stores       *queries.StoreQueries
	Logger       *slog.Logger
}

// NewPartnersHandler creates a new partners handler.
func NewPartnersHandler(cfg PartnersHandlerConfig) *PartnersHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &PartnersHandler{
		createStore:  cfg.CreateStore,
		updateStore:  cfg.UpdateStore,
		changeStatus: cfg.ChangeStatus,
		commission:   cfg.Commission,
		stores:       cfg.Stores,
		logger:       cfg.Logger,
	}
}

type commissionRequest struct {
	StoreID uuid.UUID        `json:"store_id"`
	Amount  *decimal.Decimal `json:"amount"`
}

// CalculateCommission handles POST /api/v1/commission
func (h *PartnersHandler) CalculateCommission(w http.ResponseWriter, r *http.Request) {
	var req commissionRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if req.StoreID == uuid.Nil {
		writeError(w, badRequest("store_id is required"))
		return
	}
	h.calculate(w, r, req.StoreID, req.Amount)
}

// StoreCommission handles POST /api/v1/stores/{storeID}/commission
func (h *PartnersHandler) StoreCommission(w http.ResponseWriter, r *http.Request) {
	storeID, apiErr := pathUUID(r, "storeID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	var req commissionRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	h.calculate(w, r, storeID, req.Amount)
}

func (h *PartnersHandler) calculate(w http.ResponseWriter, r *http.Request, storeID uuid.UUID, amount *decimal.Decimal) {
	if amount == nil {
		writeError(w, badRequest("amount is required"))
		return
	}
	result, err := h.commission.Handle(r.Context(), queries.CalculateCommissionQuery{
		StoreID: storeID,
		Amount:  *amount,
	})
	if err != nil {
		handleError(w, r, h.logger, "calculate commission", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createStoreRequest struct {
	OwnerID            uuid.UUID        `json:"owner_id"`
	Tier               string           `json:"tier"`
	Name               string           `json:"name"`
	RegistrationNumber string           `json:"registration_number"`
	Address            string           `json:"address"`
	Phone              string           `json:"phone"`
	Email              string           `json:"email"`
	Description        string           `json:"description"`
	CommissionRate     *decimal.Decimal `json:"commission_rate,omitempty"`
}

// CreateStore handles POST /api/v1/stores
func (h *PartnersHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	created, err := h.createStore.Handle(r.Context(), commands.CreateStoreCommand{
		OwnerID:            req.OwnerID,
		Tier:               req.Tier,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		Description:        req.Description,
		CommissionRate:     req.CommissionRate,
	})
	if err != nil {
		handleError(w, r, h.logger, "create store", err)
		return
	}

	store, err := h.stores.Get(r.Context(), queries.GetStoreQuery{StoreID: created.StoreID})
	if err != nil {
		handleError(w, r, h.logger, "load created store", err)
		return
	}
	writeJSON(w, http.StatusCreated, store)
}

// GetStore handles GET /api/v1/stores/{storeID}
func (h *PartnersHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	storeID, apiErr := pathUUID(r, "storeID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	store, err := h.stores.Get(r.Context(), queries.GetStoreQuery{StoreID: storeID})
	if err != nil {
		handleError(w, r, h.logger, "get store", err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

// ListStores handles GET /api/v1/stores?owner_id=
func (h *PartnersHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(r.URL.Query().Get("owner_id"))
	if err != nil {
		writeError(w, badRequest("query parameter 'owner_id' must be a UUID"))
		return
	}
	stores, err := h.stores.ListByOwner(r.Context(), queries.ListStoresByOwnerQuery{OwnerID: ownerID})
	if err != nil {
		handleError(w, r, h.logger, "list stores", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stores": stores})
}

// SearchStores handles GET /api/v1/stores/search?q=
func (h *PartnersHandler) SearchStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.Search(r.Context(), queries.SearchStoresQuery{
		Query: r.URL.Query().Get("q"),
		Limit: parseIntParam(r, "limit", 0),
	})
	if err != nil {
		handleError(w, r, h.logger, "search stores", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stores": stores})
}

type updateStoreRequest struct {
	Name           *string          `json:"name"`
	Address        *string          `json:"address"`
	Phone          *string          `json:"phone"`
	Email          *string          `json:"email"`
	Description    *string          `json:"description"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// UpdateStore handles PATCH /api/v1/stores/{storeID}
func (h *PartnersHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	storeID, apiErr := pathUUID(r, "storeID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	var req updateStoreRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	_, err := h.updateStore.Handle(r.Context(), commands.UpdateStoreCommand{
		StoreID:        storeID,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		Description:    req.Description,
		CommissionRate: req.CommissionRate,
		ActorID:        actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "update store", err)
		return
	}

	store, err := h.stores.Get(r.Context(), queries.GetStoreQuery{StoreID: storeID})
	if err != nil {
		handleError(w, r, h.logger, "load store", err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus handles POST /api/v1/stores/{storeID}/status
func (h *PartnersHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	storeID, apiErr := pathUUID(r, "storeID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	var req changeStatusRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	err := h.changeStatus.Handle(r.Context(), commands.ChangeStoreStatusCommand{
		StoreID: storeID,
		Status:  req.Status,
		ActorID: actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "change store status", err)
		return
	}

	store, err := h.stores.Get(r.Context(), queries.GetStoreQuery{StoreID: storeID})
	if err != nil {
		handleError(w, r, h.logger, "load store", err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}
