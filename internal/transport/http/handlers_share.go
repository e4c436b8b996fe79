package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"certivault/internal/transport/http/shared"
	dErrors "certivault/pkg/domain-errors"
)

type shareRequest struct {
	TTLSeconds *int64 `json:"ttlSeconds"`
}

type shareResponse struct {
	Token         string    `json:"token"`
	CertificateID string    `json:"certificateId"`
	ExpiresAt     time.Time `json:"expiresAt"`
	ShareURL      string    `json:"shareUrl"`
}

// handleShare mints a share token for one certificate. An omitted TTL uses
// the configured default; a present one is validated by the service, so
// ttlSeconds=0 is rejected rather than silently defaulted.
func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	certificateID := chi.URLParam(r, "certificateID")

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ttl := h.shareDefaultTTL
	if req.TTLSeconds != nil {
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	token, err := h.shares.CreateToken(ctx, certificateID, ttl)
	if err != nil {
		h.logError(ctx, "mint share token", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, shareResponse{
		Token:         token.Token,
		CertificateID: token.CertificateID,
		ExpiresAt:     token.ExpiresAt,
		ShareURL: fmt.Sprintf("%s?id=%s&token=%s",
			h.shareBaseURL,
			url.QueryEscape(token.CertificateID),
			url.QueryEscape(token.Token),
		),
	})
}

type redeemRequest struct {
	Token    string `json:"token"`
	Document []byte `json:"document"`
}

// handleRedeem runs the token-gated verification entry point. The result is
// always scoped to the certificate the token was minted for; no certificate
// ID is accepted here.
func (h *Handler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.shares.Redeem(ctx, req.Token, req.Document)
	if err != nil {
		h.logError(ctx, "redeem share token", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
