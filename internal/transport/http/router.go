// Package httptransport is the thin HTTP layer. It delegates to domain
// services without embedding business logic so transport concerns stay
// isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	certservice "certivault/internal/certificate/service"
	"certivault/internal/platform/metrics"
	"certivault/internal/platform/middleware"
	shareservice "certivault/internal/sharetoken/service"
	"certivault/internal/verification"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/requestcontext"
)

// Handler wires domain services into HTTP endpoints.
type Handler struct {
	logger          *slog.Logger
	issuance        *certservice.Service
	engine          *verification.Engine
	shares          *shareservice.Service
	shareDefaultTTL time.Duration
	shareBaseURL    string
}

func NewHandler(
	issuance *certservice.Service,
	engine *verification.Engine,
	shares *shareservice.Service,
	logger *slog.Logger,
	shareDefaultTTL time.Duration,
	shareBaseURL string,
) *Handler {
	return &Handler{
		logger:          logger,
		issuance:        issuance,
		engine:          engine,
		shares:          shares,
		shareDefaultTTL: shareDefaultTTL,
		shareBaseURL:    shareBaseURL,
	}
}

// NewRouter wires all public endpoints. Issuance and revocation require an
// authenticated issuer; verification and token redemption are public read
// paths.
func NewRouter(h *Handler, issuerAuth middleware.IssuerValidator, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIssuer(issuerAuth, h.logger))
		r.Post("/certificates", h.handleIssue)
		r.Post("/certificates/{certificateID}/revoke", h.handleRevoke)
	})

	r.Get("/certificates", h.handleList)
	r.Get("/certificates/{certificateID}/verify", h.handleSelfCheck)
	r.Post("/certificates/{certificateID}/verify", h.handleReverify)
	r.Post("/certificates/{certificateID}/share", h.handleShare)
	r.Post("/verify/shared", h.handleRedeem)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// logError keeps handler error paths uniform: caller faults at warn,
// infrastructure at error.
func (h *Handler) logError(ctx context.Context, operation string, err error) {
	code := dErrors.CodeOf(err)
	attrs := []any{
		"operation", operation,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	}
	switch code {
	case dErrors.CodeUnavailable, dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, "operation failed", attrs...)
	default:
		h.logger.WarnContext(ctx, "operation rejected", attrs...)
	}
}
