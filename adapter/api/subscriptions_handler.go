package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	"github.com/supplifit/supplifit/internal/subscriptions/application/queries"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// SubscriptionsHandler serves the plan, subscription and sweep endpoints.
type SubscriptionsHandler struct {
	createPlan *commands.CreatePlanHandler
	updatePlan *commands.UpdatePlanHandler
	planStatus *commands.SetPlanActiveHandler
	create     *commands.CreateSubscriptionHandler
	activate   *commands.ActivateSubscriptionHandler
	cancel     *commands.CancelSubscriptionHandler
	renew      *commands.RenewSubscriptionHandler
	consume    *commands.ConsumeUnitHandler
	expireDue  *commands.ExpireDueHandler
	queries    *queries.SubscriptionQueries
	logger     *slog.Logger
}

// SubscriptionsHandlerConfig holds dependencies for the subscriptions handler.
type SubscriptionsHandlerConfig struct {
	CreatePlan *commands.CreatePlanHandler
	UpdatePlan *commands.UpdatePlanHandler
	PlanStatus *commands.SetPlanActiveHandler
	Create     *commands.CreateSubscriptionHandler
	Activate   *commands.ActivateSubscriptionHandler
	Cancel     *commands.CancelSubscriptionHandler
	Renew      *commands.RenewSubscriptionHandler
	Consume    *commands.ConsumeUnitHandler
	ExpireDue  *commands.ExpireDueHandler
	Queries    *queries.SubscriptionQueries
	Logger     *slog.Logger
}

// NewSubscriptionsHandler creates a new subscriptions handler.
func NewSubscriptionsHandler(cfg SubscriptionsHandlerConfig) *SubscriptionsHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SubscriptionsHandler{
		createPlan: cfg.CreatePlan,
		updatePlan: cfg.UpdatePlan,
		planStatus: cfg.PlanStatus,
		create:     cfg.Create,
		activate:   cfg.Activate,
		cancel:     cfg.Cancel,
		renew:      cfg.Renew,
		consume:    cfg.Consume,
		expireDue:  cfg.ExpireDue,
		queries:    cfg.Queries,
		logger:     cfg.Logger,
	}
}

// ListPlans handles GET /api/v1/plans?active=true
func (h *SubscriptionsHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.queries.Plans(r.Context(), queries.ListPlansQuery{
		ActiveOnly: parseBoolParam(r, "active", false),
	})
	if err != nil {
		handleError(w, r, h.logger, "list plans", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

// GetPlan handles GET /api/v1/plans/{planID}
func (h *SubscriptionsHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, apiErr := pathUUID(r, "planID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	plan, err := h.queries.Plan(r.Context(), planID)
	if err != nil {
		handleError(w, r, h.logger, "get plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type createPlanRequest struct {
	Name           string          `json:"name"`
	PlanType       string          `json:"plan_type"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	UnitsPerPeriod int             `json:"units_per_period"`
	Features       []string        `json:"features"`
}

// CreatePlan handles POST /api/v1/plans
func (h *SubscriptionsHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	created, err := h.createPlan.Handle(r.Context(), commands.CreatePlanCommand{
		Name:           req.Name,
		PlanType:       req.PlanType,
		Description:    req.Description,
		Price:          req.Price,
		UnitsPerPeriod: req.UnitsPerPeriod,
		Features:       req.Features,
		ActorID:        actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "create plan", err)
		return
	}

	plan, err := h.queries.Plan(r.Context(), created.PlanID)
	if err != nil {
		handleError(w, r, h.logger, "load created plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

type updatePlanRequest struct {
	Name           *string          `json:"name"`
	PlanType       *string          `json:"plan_type"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	UnitsPerPeriod *int             `json:"units_per_period"`
	Features       *[]string        `json:"features"`
}

// UpdatePlan handles PATCH /api/v1/plans/{planID}
func (h *SubscriptionsHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, apiErr := pathUUID(r, "planID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	var req updatePlanRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	plan, err := h.updatePlan.Handle(r.Context(), commands.UpdatePlanCommand{
		PlanID:         planID,
		Name:           req.Name,
		PlanType:       req.PlanType,
		Description:    req.Description,
		Price:          req.Price,
		UnitsPerPeriod: req.UnitsPerPeriod,
		Features:       req.Features,
		ActorID:        actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "update plan", err)
		return
	}
	writeJSON(w, http.StatusOK, queries.ToPlanDTO(plan))
}

type planStatusRequest struct {
	Active *bool `json:"active"`
}

// PlanStatus handles POST /api/v1/plans/{planID}/status
func (h *SubscriptionsHandler) PlanStatus(w http.ResponseWriter, r *http.Request) {
	planID, apiErr := pathUUID(r, "planID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	var req planStatusRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if req.Active == nil {
		writeError(w, badRequest("active is required"))
		return
	}

	plan, err := h.planStatus.Handle(r.Context(), commands.SetPlanActiveCommand{
		PlanID:  planID,
		Active:  *req.Active,
		ActorID: actorFrom(r),
	})
	if err != nil {
		handleError(w, r, h.logger, "change plan status", err)
		return
	}
	writeJSON(w, http.StatusOK, queries.ToPlanDTO(plan))
}

type createSubscriptionRequest struct {
	UserID    uuid.UUID          `json:"user_id"`
	PlanID    uuid.UUID          `json:"plan_id"`
	StartDate *sharedDomain.Date `json:"start_date,omitempty"`
}

// Create handles POST /api/v1/subscriptions
func (h *SubscriptionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if apiErr := decodeJSON(w, r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	sub, err := h.create.Handle(r.Context(), commands.CreateSubscriptionCommand{
		UserID:    req.UserID,
		PlanID:    req.PlanID,
		StartDate: req.StartDate,
	})
	if err != nil {
		handleError(w, r, h.logger, "create subscription", err)
		return
	}
	writeJSON(w, http.StatusCreated, queries.ToSubscriptionDTO(sub))
}

// Get handles GET /api/v1/subscriptions/{subscriptionID}
func (h *SubscriptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathUUID(r, "subscriptionID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	sub, err := h.queries.Get(r.Context(), queries.GetSubscriptionQuery{SubscriptionID: id})
	if err != nil {
		handleError(w, r, h.logger, "get subscription", err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// ListByUser handles GET /api/v1/users/{userID}/subscriptions
func (h *SubscriptionsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, apiErr := pathUUID(r, "userID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	subs, err := h.queries.ListByUser(r.Context(), queries.ListUserSubscriptionsQuery{UserID: userID})
	if err != nil {
		handleError(w, r, h.logger, "list subscriptions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscriptions": subs})
}

// Active handles GET /api/v1/users/{userID}/subscriptions/active
func (h *SubscriptionsHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, apiErr := pathUUID(r, "userID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	sub, err := h.queries.Active(r.Context(), queries.GetActiveSubscriptionQuery{UserID: userID})
	if err != nil {
		handleError(w, r, h.logger, "get active subscription", err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// transition runs a lifecycle command on the subscription named in the path.
func (h *SubscriptionsHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	status int,
	fn func(ctx context.Context, id, actor uuid.UUID) (*domain.Subscription, error),
) {
	id, apiErr := pathUUID(r, "subscriptionID")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	sub, err := fn(r.Context(), id, actorFrom(r))
	if err != nil {
		handleError(w, r, h.logger, op, err)
		return
	}
	writeJSON(w, status, queries.ToSubscriptionDTO(sub))
}

// Activate handles POST /api/v1/subscriptions/{subscriptionID}/activate
func (h *SubscriptionsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "activate subscription", http.StatusOK, func(ctx context.Context, id, actor uuid.UUID) (*domain.Subscription, error) {
		return h.activate.Handle(ctx, commands.ActivateSubscriptionCommand{SubscriptionID: id, ActorID: actor})
	})
}

// Cancel handles POST /api/v1/subscriptions/{subscriptionID}/cancel
func (h *SubscriptionsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel subscription", http.StatusOK, func(ctx context.Context, id, actor uuid.UUID) (*domain.Subscription, error) {
		return h.cancel.Handle(ctx, commands.CancelSubscriptionCommand{SubscriptionID: id, ActorID: actor})
	})
}

// Renew handles POST /api/v1/subscriptions/{subscriptionID}/renew and
// returns the successor subscription.
func (h *SubscriptionsHandler) Renew(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "renew subscription", http.StatusCreated, func(ctx context.Context, id, actor uuid.UUID) (*domain.Subscription, error) {
		return h.renew.Handle(ctx, commands.RenewSubscriptionCommand{SubscriptionID: id, ActorID: actor})
	})
}

// Consume handles POST /api/v1/subscriptions/{subscriptionID}/consume
func (h *SubscriptionsHandler) Consume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "consume unit", http.StatusOK, func(ctx context.Context, id, actor uuid.UUID) (*domain.Subscription, error) {
		return h.consume.Handle(ctx, commands.ConsumeUnitCommand{SubscriptionID: id, ActorID: actor})
	})
}

type expirySweepResponse struct {
	Today        sharedDomain.Date          `json:"today"`
	Expired      []*queries.SubscriptionDTO `json:"expired"`
	SoonToExpire []*queries.SubscriptionDTO `json:"soon_to_expire"`
	Notified     int                        `json:"notified"`
}

// ExpirySweep handles POST /api/v1/jobs/expiry-sweep
func (h *SubscriptionsHandler) ExpirySweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.expireDue.Handle(r.Context(), commands.ExpireDueCommand{ActorID: actorFrom(r)})
	if err != nil {
		handleError(w, r, h.logger, "expiry sweep", err)
		return
	}
	writeJSON(w, http.StatusOK, expirySweepResponse{
		Today:        result.Today,
		Expired:      queries.ToSubscriptionDTOs(result.Expired),
		SoonToExpire: queries.ToSubscriptionDTOs(result.SoonToExpire),
		Notified:     result.Notified,
	})
}
