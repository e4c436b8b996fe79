// Package digest computes the content commitment binding a certificate's
// attested fields and its document bytes. Any bit-level change to either
// input changes the output.
package digest

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"

	dErrors "certivault/pkg/domain-errors"
)

// Size is the digest length in bytes.
const Size = sha256.Size

// Digest is a fixed-length content commitment.
type Digest [Size]byte

// Hex returns the lowercase hex encoding used for persisted records.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// ParseHex decodes a persisted hex digest.
func ParseHex(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != Size {
		return d, dErrors.New(dErrors.CodeBadRequest, "malformed digest encoding")
	}
	copy(d[:], raw)
	return d, nil
}

// Equal compares two digests over their full fixed length.
func (d Digest) Equal(other Digest) bool {
	return subtle.ConstantTimeCompare(d[:], other[:]) == 1
}

// Field is one attested (name, value) pair. Field order is part of the
// digest contract: callers must supply fields in the canonical order.
type Field struct {
	Name  string
	Value string
}

// AttestedFields builds the canonical ordered field set for a certificate.
// The order here is the contract: issuance and every later verification must
// feed Compute the same sequence.
func AttestedFields(studentName, studentID, course, issueDate, issuerName string) []Field {
	return []Field{
		{Name: "studentName", Value: studentName},
		{Name: "studentId", Value: studentID},
		{Name: "course", Value: course},
		{Name: "issueDate", Value: issueDate},
		{Name: "issuerName", Value: issuerName},
	}
}

// Compute hashes the canonical encoding of fields plus the document bytes.
// Each component is length-prefixed before concatenation so field boundaries
// are unambiguous ("ab"+"c" never collides with "a"+"bc").
func Compute(fields []Field, document []byte) (Digest, error) {
	var d Digest
	if len(fields) == 0 {
		return d, dErrors.New(dErrors.CodeBadRequest, "at least one attested field is required")
	}
	for _, f := range fields {
		if f.Name == "" {
			return d, dErrors.New(dErrors.CodeBadRequest, "attested field name must not be empty")
		}
		if f.Value == "" {
			return d, dErrors.New(dErrors.CodeBadRequest, "attested field "+f.Name+" must not be empty")
		}
	}
	if len(document) == 0 {
		return d, dErrors.New(dErrors.CodeBadRequest, "certificate document must not be empty")
	}

	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte
	writeChunk := func(p []byte) {
		n := binary.PutUvarint(scratch[:], uint64(len(p)))
		buf.Write(scratch[:n])
		buf.Write(p)
	}
	for _, f := range fields {
		writeChunk([]byte(f.Name))
		writeChunk([]byte(f.Value))
	}
	writeChunk(document)

	return sha256.Sum256(buf.Bytes()), nil
}
