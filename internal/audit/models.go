package audit

import "time"

// Actions recorded by the certificate core.
const (
	ActionCertificateIssued   = "certificate_issued"
	ActionCertificateRevoked  = "certificate_revoked"
	ActionCertificateVerified = "certificate_verified"
	ActionShareTokenMinted    = "share_token_minted"
	ActionShareTokenRedeemed  = "share_token_redeemed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	CertificateID string    `json:"certificateId,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	Outcome       string    `json:"outcome,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}
