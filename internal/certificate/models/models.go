package models

import "time"

// Status tracks the lifecycle of an issued certificate. The only legal
// transition is Active -> Revoked.
type Status string

const (
	StatusActive  Status = "Active"
	StatusRevoked Status = "Revoked"
)

// Certificate is the official record captured at issuance time. All attested
// fields and the digest are immutable after creation; only Status may change,
// and only one way.
type Certificate struct {
	CertificateID  string     `json:"certificateId"`
	StudentName    string     `json:"studentName"`
	StudentID      string     `json:"studentId"`
	Course         string     `json:"course"`
	IssueDate      string     `json:"issueDate"`
	IssuerName     string     `json:"issuerName"`
	DocumentRef    string     `json:"documentRef"`
	OfficialDigest string     `json:"officialDigest"`
	Status         Status     `json:"status"`
	IssuedAt       time.Time  `json:"issuedAt"`
	RevokedAt      *time.Time `json:"revokedAt,omitempty"`
}

// CertificateRequest carries the attested fields and document for issuance.
type CertificateRequest struct {
	StudentName string `json:"studentName"`
	StudentID   string `json:"studentId"`
	Course      string `json:"course"`
	IssueDate   string `json:"issueDate"`
	IssuerName  string `json:"issuerName"`
	Document    []byte `json:"document"`
}

// Outcome classifies a verification attempt. Tampered and Revoked are
// legitimate results, not errors; callers branch on them programmatically.
type Outcome string

const (
	OutcomeNotFound Outcome = "NotFound"
	OutcomeVerified Outcome = "Verified"
	OutcomeTampered Outcome = "Tampered"
	OutcomeRevoked  Outcome = "Revoked"
)

// VerificationResult is the value object returned per verification attempt.
// It is owned by the caller; nothing here is shared or persisted.
type VerificationResult struct {
	CertificateID    string       `json:"certificateId"`
	Outcome          Outcome      `json:"outcome"`
	RecomputedDigest string       `json:"recomputedDigest,omitempty"`
	Certificate      *Certificate `json:"certificate,omitempty"`
}
