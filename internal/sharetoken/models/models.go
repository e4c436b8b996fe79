package models

import "time"

// ShareToken is a time-boxed capability: it authorizes verification of
// exactly one certificate and nothing else. Tokens are multi-use until
// expiry, since a verifier may legitimately re-check.
type ShareToken struct {
	Token         string    `json:"token"`
	CertificateID string    `json:"certificateId"`
	IssuedAt      time.Time `json:"issuedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Expired reports whether the token is past its expiry. The boundary is
// exclusive: a redemption at exactly ExpiresAt still succeeds, expiry kicks
// in strictly after.
func (t ShareToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
