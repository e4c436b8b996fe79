package httptransport

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certivault/internal/certificate/models"
	"certivault/internal/transport/http/shared"
	dErrors "certivault/pkg/domain-errors"
	"certivault/pkg/requestcontext"
)

type issueRequest struct {
	StudentName string `json:"studentName"`
	StudentID   string `json:"studentId"`
	Course      string `json:"course"`
	IssueDate   string `json:"issueDate"`
	IssuerName  string `json:"issuerName"`
	Document    []byte `json:"document"`
}

type issueResponse struct {
	CertificateID string `json:"certificateId"`
}

// maxDocumentBytes caps uploaded document size at 16 MiB.
const maxDocumentBytes = 16 << 20

// handleIssue turns an issuance request into an immutable record. The
// issuer identity comes from the validated bearer token, not the body.
// Accepts JSON with a base64 document, or multipart/form-data with the
// document as a file part.
func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeIssueRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.IssuerName == "" {
		req.IssuerName = requestcontext.IssuerID(ctx)
	}

	certificateID, err := h.issuance.Issue(ctx, models.CertificateRequest{
		StudentName: req.StudentName,
		StudentID:   req.StudentID,
		Course:      req.Course,
		IssueDate:   req.IssueDate,
		IssuerName:  req.IssuerName,
		Document:    req.Document,
	})
	if err != nil {
		h.logError(ctx, "issue certificate", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, issueResponse{CertificateID: certificateID})
}

func decodeIssueRequest(r *http.Request) (issueRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeIssueMultipart(r)
	}

	var req issueRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes*2)).Decode(&req); err != nil {
		return issueRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return req, nil
}

func decodeIssueMultipart(r *http.Request) (issueRequest, error) {
	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		return issueRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body")
	}
	file, _, err := r.FormFile("document")
	if err != nil {
		return issueRequest{}, dErrors.New(dErrors.CodeBadRequest, "document file part is required")
	}
	defer file.Close()
	document, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes))
	if err != nil {
		return issueRequest{}, dErrors.New(dErrors.CodeBadRequest, "unreadable document part")
	}

	return issueRequest{
		StudentName: r.FormValue("studentName"),
		StudentID:   r.FormValue("studentId"),
		Course:      r.FormValue("course"),
		IssueDate:   r.FormValue("issueDate"),
		IssuerName:  r.FormValue("issuerName"),
		Document:    document,
	}, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certs, err := h.issuance.ListByStudent(ctx, r.URL.Query().Get("studentId"))
	if err != nil {
		h.logError(ctx, "list certificates", err)
		shared.WriteError(w, err)
		return
	}
	if certs == nil {
		certs = []models.Certificate{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"certificates": certs})
}

// handleSelfCheck verifies a certificate against the document bytes the
// store holds for it.
func (h *Handler) handleSelfCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.engine.Verify(ctx, chi.URLParam(r, "certificateID"), nil)
	if err != nil {
		h.logError(ctx, "verify certificate", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

type verifyRequest struct {
	Document []byte `json:"document"`
}

// handleReverify verifies a certificate against freshly supplied document
// bytes, the mode a third party uses when handed a copy of the document.
func (h *Handler) handleReverify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Document) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "document is required"))
		return
	}

	result, err := h.engine.Verify(ctx, chi.URLParam(r, "certificateID"), req.Document)
	if err != nil {
		h.logError(ctx, "verify certificate", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.issuance.Revoke(ctx, chi.URLParam(r, "certificateID")); err != nil {
		h.logError(ctx, "revoke certificate", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
