package digest

import (
	"testing"

	dErrors "certivault/pkg/domain-errors"

	"github.com/stretchr/testify/suite"
)

type DigestSuite struct {
	suite.Suite
	fields   []Field
	document []byte
}

func (s *DigestSuite) SetupTest() {
	s.fields = []Field{
		{Name: "studentName", Value: "Ada Lovelace"},
		{Name: "studentId", Value: "STU-1815"},
		{Name: "course", Value: "Blockchain Fundamentals"},
		{Name: "issueDate", Value: "2023-11-01"},
		{Name: "issuerName", Value: "Global Tech Institute"},
	}
	s.document = []byte("PDF-CONTENT-1")
}

func TestDigestSuite(t *testing.T) {
	suite.Run(t, new(DigestSuite))
}

func (s *DigestSuite) TestDeterminism() {
	first, err := Compute(s.fields, s.document)
	s.Require().NoError(err)

	for i := 0; i < 10; i++ {
		again, err := Compute(s.fields, s.document)
		s.Require().NoError(err)
		s.True(first.Equal(again))
		s.Equal(first.Hex(), again.Hex())
	}
}

func (s *DigestSuite) TestFieldSensitivity() {
	original, err := Compute(s.fields, s.document)
	s.Require().NoError(err)

	for i := range s.fields {
		mutated := make([]Field, len(s.fields))
		copy(mutated, s.fields)
		mutated[i].Value = mutated[i].Value + "x"

		changed, err := Compute(mutated, s.document)
		s.Require().NoError(err)
		s.False(original.Equal(changed), "changing field %s must change the digest", s.fields[i].Name)
	}
}

func (s *DigestSuite) TestDocumentSensitivity() {
	original, err := Compute(s.fields, s.document)
	s.Require().NoError(err)

	for i := range s.document {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), s.document...)
			mutated[i] ^= 1 << bit

			changed, err := Compute(s.fields, mutated)
			s.Require().NoError(err)
			s.False(original.Equal(changed), "flipping byte %d bit %d must change the digest", i, bit)
		}
	}
}

// Length-prefixing keeps field boundaries unambiguous: moving bytes between
// adjacent values must not produce the same commitment.
func (s *DigestSuite) TestBoundaryAmbiguity() {
	left, err := Compute([]Field{{Name: "a", Value: "ab"}, {Name: "b", Value: "c"}}, s.document)
	s.Require().NoError(err)
	right, err := Compute([]Field{{Name: "a", Value: "a"}, {Name: "b", Value: "bc"}}, s.document)
	s.Require().NoError(err)
	s.False(left.Equal(right))
}

func (s *DigestSuite) TestMalformedInput() {
	s.Run("empty field value rejected", func() {
		fields := append([]Field(nil), s.fields...)
		fields[2].Value = ""
		_, err := Compute(fields, s.document)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("empty field name rejected", func() {
		_, err := Compute([]Field{{Name: "", Value: "x"}}, s.document)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("no fields rejected", func() {
		_, err := Compute(nil, s.document)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("empty document rejected", func() {
		_, err := Compute(s.fields, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *DigestSuite) TestHexRoundTrip() {
	d, err := Compute(s.fields, s.document)
	s.Require().NoError(err)

	parsed, err := ParseHex(d.Hex())
	s.Require().NoError(err)
	s.True(d.Equal(parsed))

	_, err = ParseHex("not-hex")
	s.Require().Error(err)

	_, err = ParseHex("abcdef")
	s.Require().Error(err, "truncated digests must be rejected")
}
