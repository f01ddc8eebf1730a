package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"docgate/internal/reminder"
	"docgate/internal/transport/http/shared"
	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
	"docgate/pkg/requestcontext"
)

// ReminderService defines the dispatch operation the handler delegates to.
type ReminderService interface {
	SendReminders(ctx context.Context, ids []domain.DocumentID) (*reminder.DispatchReport, error)
}

// sendRemindersRequest is the body of POST /api/admin/send-reminders. A single
// document and a bulk selection are the same request shape.
type sendRemindersRequest struct {
	DocumentIDs []string `json:"document_ids"`
}

func (h *Handler) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body sendRemindersRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	ids := make([]domain.DocumentID, 0, len(body.DocumentIDs))
	for _, raw := range body.DocumentIDs {
		id, err := domain.ParseDocumentID(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		ids = append(ids, id)
	}

	report, err := h.reminders.SendReminders(ctx, ids)
	if err != nil {
		h.logger.WarnContext(ctx, "reminder batch rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}
