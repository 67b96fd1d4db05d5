// Package api provides the SuppliFit HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

// CorrelationHeader carries the correlation ID in and out of the API.
const CorrelationHeader = "X-Correlation-ID"

const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	mux           *http.ServeMux
	server        *http.Server
	logger        *slog.Logger
	metrics       observability.Metrics
	health        *observability.HealthRegistry
	partners      *PartnersHandler
	subscriptions *SubscriptionsHandler
	catalog       *CatalogHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server. health and metrics may be nil.
func NewServer(
	cfg ServerConfig,
	partners *PartnersHandler,
	subscriptions *SubscriptionsHandler,
	catalog *CatalogHandler,
	health *observability.HealthRegistry,
	metrics observability.Metrics,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		metrics:       metrics,
		health:        health,
		partners:      partners,
		subscriptions: subscriptions,
		catalog:       catalog,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Partner stores and commission
	s.mux.HandleFunc("POST /api/v1/commission", s.partners.CalculateCommission)
	s.mux.HandleFunc("POST /api/v1/stores", s.partners.CreateStore)
	s.mux.HandleFunc("GET /api/v1/stores", s.partners.ListStores)
	s.mux.HandleFunc("GET /api/v1/stores/search", s.partners.SearchStores)
	s.mux.HandleFunc("GET /api/v1/stores/{storeID}", s.partners.GetStore)
	s.mux.HandleFunc("PATCH /api/v1/stores/{storeID}", s.partners.UpdateStore)
	s.mux.HandleFunc("POST /api/v1/stores/{storeID}/status", s.partners.ChangeStatus)
	s.mux.HandleFunc("POST /api/v1/stores/{storeID}/commission", s.partners.StoreCommission)

	// Plans and subscriptions
	s.mux.HandleFunc("GET /api/v1/plans", s.subscriptions.ListPlans)
	s.mux.HandleFunc("POST /api/v1/plans", s.subscriptions.CreatePlan)
	s.mux.HandleFunc("GET /api/v1/plans/{planID}", s.subscriptions.GetPlan)
	s.mux.HandleFunc("PATCH /api/v1/plans/{planID}", s.subscriptions.UpdatePlan)
	s.mux.HandleFunc("POST /api/v1/plans/{planID}/status", s.subscriptions.PlanStatus)
	s.mux.HandleFunc("POST /api/v1/subscriptions", s.subscriptions.Create)
	s.mux.HandleFunc("GET /api/v1/subscriptions/{subscriptionID}", s.subscriptions.Get)
	s.mux.HandleFunc("POST /api/v1/subscriptions/{subscriptionID}/activate", s.subscriptions.Activate)
	s.mux.HandleFunc("POST /api/v1/subscriptions/{subscriptionID}/cancel", s.subscriptions.Cancel)
	s.mux.HandleFunc("POST /api/v1/subscriptions/{subscriptionID}/renew", s.subscriptions.Renew)
	s.mux.HandleFunc("POST /api/v1/subscriptions/{subscriptionID}/consume", s.subscriptions.Consume)
	s.mux.HandleFunc("GET /api/v1/users/{userID}/subscriptions", s.subscriptions.ListByUser)
	s.mux.HandleFunc("GET /api/v1/users/{userID}/subscriptions/active", s.subscriptions.Active)

	// Catalog
	s.mux.HandleFunc("GET /api/v1/categories", s.catalog.ListCategories)
	s.mux.HandleFunc("POST /api/v1/categories", s.catalog.CreateCategory)
	s.mux.HandleFunc("GET /api/v1/categories/{categoryID}", s.catalog.GetCategory)
	s.mux.HandleFunc("DELETE /api/v1/categories/{categoryID}", s.catalog.DeleteCategory)
	s.mux.HandleFunc("GET /api/v1/supplements", s.catalog.ListSupplements)
	s.mux.HandleFunc("POST /api/v1/supplements", s.catalog.CreateSupplement)
	s.mux.HandleFunc("GET /api/v1/supplements/{supplementID}", s.catalog.GetSupplement)
	s.mux.HandleFunc("PATCH /api/v1/supplements/{supplementID}", s.catalog.UpdateSupplement)
	s.mux.HandleFunc("DELETE /api/v1/supplements/{supplementID}", s.catalog.DeleteSupplement)

	// Jobs
	s.mux.HandleFunc("POST /api/v1/jobs/expiry-sweep", s.subscriptions.ExpirySweep)
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestContext(s.mux)
}

// withRequestContext attaches correlation and request IDs and counts requests.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get(CorrelationHeader))
		w.Header().Set(CorrelationHeader, observability.CorrelationIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.metrics.Counter(observability.MetricHTTPRequests, 1,
			observability.T("method", r.Method),
			observability.T("status", strconv.Itoa(rec.status)),
		)
		s.logger.DebugContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handleHealth reports the aggregated component health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.Check(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// APIError is the error envelope returned by every endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "invalid request",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal server error",
	}
)

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, apiErr *APIError) {
	writeJSON(w, apiErr.Status, apiErr)
}

func badRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrBadRequest.Code, Message: message}
}

// toAPIError maps domain error categories to HTTP statuses.
func toAPIError(err error) *APIError {
	switch {
	case errors.Is(err, sharedDomain.ErrValidation):
		return &APIError{Status: http.StatusBadRequest, Code: "validation_failed", Message: err.Error()}
	case errors.Is(err, sharedDomain.ErrInvalidStateTransition):
		return &APIError{Status: http.StatusBadRequest, Code: "invalid_state", Message: err.Error()}
	case errors.Is(err, sharedDomain.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "not_found", Message: err.Error()}
	case errors.Is(err, sharedDomain.ErrConflict):
		return &APIError{Status: http.StatusConflict, Code: "conflict", Message: err.Error()}
	default:
		return ErrInternalServer
	}
}

// handleError writes err as an envelope, logging anything unexpected.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), op+" failed", "error", err)
	}
	writeError(w, apiErr)
}

// decodeJSON reads a bounded JSON body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) *APIError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, *APIError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, badRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func parseBoolParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

// actorFrom reads the optional acting user for event metadata.
func actorFrom(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
