package queries

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

// CalculateCommissionQuery asks for the commission on a sale at a store.
type CalculateCommissionQuery struct {
	StoreID uuid.UUID
	Amount  decimal.Decimal
}

// CommissionDTO is the commission breakdown returned to callers.
type CommissionDTO struct {
	StoreID       uuid.UUID       `json:"store_id"`
	Tier          string          `json:"tier"`
	SaleAmount    decimal.Decimal `json:"sale_amount"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	Commission    decimal.Decimal `json:"commission"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Capped        bool            `json:"capped"`
}

// CalculateCommissionHandler handles CalculateCommissionQuery.
type CalculateCommissionHandler struct {
	storeRepo domain.StoreRepository
	policy    domain.CommissionPolicy
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewCalculateCommissionHandler creates a new CalculateCommissionHandler.
func NewCalculateCommissionHandler(
	storeRepo domain.StoreRepository,
	policy domain.CommissionPolicy,
	logger *slog.Logger,
	metrics observability.Metrics,
) *CalculateCommissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CalculateCommissionHandler{
		storeRepo: storeRepo,
		policy:    policy,
		logger:    logger,
		metrics:   metrics,
	}
}

// Handle executes the query.
func (h *CalculateCommissionHandler) Handle(ctx context.Context, query CalculateCommissionQuery) (*CommissionDTO, error) {
	if query.Amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	store, err := h.storeRepo.FindByID(ctx, query.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}

	res, err := store.Commission(h.policy, query.Amount)
	if err != nil {
		return nil, err
	}

	tierTag := observability.T("tier", string(res.Tier))
	h.metrics.Counter(observability.MetricCommissionCalculated, 1, tierTag)
	if res.Capped {
		h.metrics.Counter(observability.MetricCommissionCapped, 1, tierTag)
		h.logger.InfoContext(ctx, "enterprise commission capped",
			"store_id", store.ID(),
			"sale_amount", res.SaleAmount.String(),
			"cap", h.policy.EnterpriseCap().String(),
		)
	}

	return &CommissionDTO{
		StoreID:       store.ID(),
		Tier:          string(res.Tier),
		SaleAmount:    res.SaleAmount,
		BaseRate:      res.BaseRate,
		EffectiveRate: res.EffectiveRate,
		Commission:    res.Commission,
		NetAmount:     res.NetAmount,
		Capped:        res.Capped,
	}, nil
}
