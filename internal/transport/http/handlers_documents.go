package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docgate/internal/audit"
	"docgate/internal/document/models"
	"docgate/internal/document/store"
	"docgate/internal/expiry"
	"docgate/internal/lifecycle"
	"docgate/internal/transport/http/shared"
	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
	"docgate/pkg/requestcontext"
)

// DocumentService defines the lifecycle operations the handlers delegate to.
type DocumentService interface {
	ApplyTransition(ctx context.Context, req lifecycle.TransitionRequest) (*models.Document, error)
	GetDocument(ctx context.Context, id domain.DocumentID) (*models.Document, error)
	ListDocuments(ctx context.Context, filter store.Filter) ([]*models.Document, error)
}

// AuditTrail exposes the per-document admin action log.
type AuditTrail interface {
	Trail(ctx context.Context, documentID string) ([]audit.Entry, error)
}

// documentView is a document decorated with its derived expiration state.
// The classification is computed per request and never stored.
type documentView struct {
	*models.Document
	ExpirationStatus expiry.Bucket `json:"expiration_status"`
	DaysRemaining    *int          `json:"days_remaining,omitempty"`
	DaysText         string        `json:"days_text,omitempty"`
}

func (h *Handler) view(doc *models.Document, now time.Time) documentView {
	c := h.classifier.Classify(doc.ExpiryDate, now)
	return documentView{
		Document:         doc,
		ExpirationStatus: c.Bucket,
		DaysRemaining:    c.DaysRemaining,
		DaysText:         c.DaysText,
	}
}

// transitionRequest is the body of POST /api/admin/documents/{id}/status.
type transitionRequest struct {
	Status          string `json:"status"`
	Note            string `json:"note,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// listQuery carries the parsed filters of the listing endpoints.
type listQuery struct {
	filter         store.Filter
	classification *expiry.Bucket
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query, err := parseListQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	docs, err := h.documents.ListDocuments(ctx, query.filter)
	if err != nil {
		h.logError(ctx, "list documents failed", err)
		shared.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		view := h.view(doc, now)
		if query.classification != nil && view.ExpirationStatus != *query.classification {
			continue
		}
		views = append(views, view)
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"documents": views})
}

func (h *Handler) handleListWithStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query, err := parseListQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	docs, err := h.documents.ListDocuments(ctx, query.filter)
	if err != nil {
		h.logError(ctx, "list documents failed", err)
		shared.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		view := h.view(doc, now)
		if query.classification != nil && view.ExpirationStatus != *query.classification {
			continue
		}
		views = append(views, view)
	}
	// Stats summarize the unfiltered set: the dashboard counters describe the
	// whole document population, not the current filter.
	stats := h.classifier.Summarize(docs, now)
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"documents": views,
		"stats":     stats,
	})
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doc, err := h.documents.GetDocument(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	response := map[string]any{"document": h.view(doc, now)}
	if h.trail != nil {
		entries, err := h.trail.Trail(ctx, id.String())
		if err != nil {
			h.logError(ctx, "audit trail lookup failed", err)
		} else {
			response["audit_trail"] = entries
		}
	}
	shared.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) handleApplyStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var body transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	target, err := models.ParseStatus(body.Status)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doc, err := h.documents.ApplyTransition(ctx, lifecycle.TransitionRequest{
		DocumentID:      id,
		Target:          target,
		Note:            body.Note,
		RejectionReason: body.RejectionReason,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	shared.WriteJSON(w, http.StatusOK, map[string]any{"document": h.view(doc, now)})
}

func parseListQuery(r *http.Request) (listQuery, error) {
	var query listQuery
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return query, err
		}
		query.filter.Status = &status
	}
	if raw := q.Get("citizen_id"); raw != "" {
		ownerID, err := domain.ParseCitizenID(raw)
		if err != nil {
			return query, err
		}
		query.filter.OwnerID = &ownerID
	}
	if raw := q.Get("classification"); raw != "" {
		bucket, err := parseBucket(raw)
		if err != nil {
			return query, err
		}
		query.classification = &bucket
	}
	return query, nil
}

func parseBucket(raw string) (expiry.Bucket, error) {
	switch bucket := expiry.Bucket(raw); bucket {
	case expiry.BucketExpired, expiry.BucketCritical, expiry.BucketWarning,
		expiry.BucketNormal, expiry.BucketNotApplicable:
		return bucket, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown classification: "+raw)
	}
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
