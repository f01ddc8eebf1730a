// Package lifecycle implements the document status state machine.
//
// The service validates a requested transition against the aggregate's rules,
// persists the result under the store's optimistic version check, and emits a
// StatusChanged event. It is the single writer of document status; the console
// re-renders from its results instead of mutating view state first.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"docgate/internal/document/models"
	"docgate/internal/document/store"
	lcmetrics "docgate/internal/lifecycle/metrics"
	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
	"docgate/pkg/platform/sentinel"
	"docgate/pkg/requestcontext"
)

// Service orchestrates document status transitions.
type Service struct {
	docs    store.Store
	emitter Emitter
	metrics *lcmetrics.Metrics
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithEmitter sets the StatusChanged event emitter.
func WithEmitter(emitter Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *lcmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets a logger for denial and conflict reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(docs store.Store, opts ...Option) *Service {
	s := &Service{
		docs:   docs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TransitionRequest carries one requested status change.
type TransitionRequest struct {
	DocumentID      domain.DocumentID
	Target          models.Status
	Note            string
	RejectionReason string
}

// ApplyTransition validates and applies one status change.
//
// The actor and the request-scoped clock come from the context. On success it
// returns the stored document (status set, first-occurrence issue stamps,
// history entry appended) and emits StatusChanged. A losing concurrent writer
// receives a conflict error and must decide about retrying itself.
func (s *Service) ApplyTransition(ctx context.Context, req TransitionRequest) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, req.DocumentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	if err := doc.CanTransitionTo(req.Target, req.RejectionReason); err != nil {
		s.metrics.IncDenied(string(dErrors.CodeOf(err)))
		s.logger.WarnContext(ctx, "transition denied",
			"document_id", req.DocumentID.String(),
			"from", doc.Status,
			"to", req.Target,
			"code", dErrors.CodeOf(err),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	actor := requestcontext.ActorID(ctx)
	from := doc.Status
	expectedVersion := doc.Version

	doc.ApplyTransition(req.Target, actor, req.Note, req.RejectionReason, newDocumentNumber(), now)

	saved, err := s.docs.Save(ctx, doc, expectedVersion)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncDenied(string(dErrors.CodeConflict))
			return nil, dErrors.Wrap(err, dErrors.CodeConflict,
				"document was modified concurrently, reload and retry")
		}
		return nil, wrapStoreErr(err)
	}

	s.metrics.IncApplied(string(req.Target))
	if s.emitter != nil {
		s.emitter.Emit(StatusChanged{
			DocumentID: saved.ID,
			From:       from,
			To:         saved.Status,
			ActorID:    actor,
			At:         now,
		})
	}
	return saved, nil
}

// GetDocument fetches one document with its full history.
func (s *Service) GetDocument(ctx context.Context, id domain.DocumentID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return doc, nil
}

// ListDocuments returns documents matching the filter.
func (s *Service) ListDocuments(ctx context.Context, filter store.Filter) ([]*models.Document, error) {
	docs, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return docs, nil
}

func wrapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "document store failure")
}

// newDocumentNumber mints the operator-facing number assigned on first issue.
func newDocumentNumber() string {
	return "DOC-" + strings.ToUpper(uuid.NewString()[:8])
}
