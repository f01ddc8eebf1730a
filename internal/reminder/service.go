package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"docgate/internal/document/models"
	"docgate/internal/document/store"
	"docgate/internal/expiry"
	rmetrics "docgate/internal/reminder/metrics"
	"docgate/internal/reminder/ports"
	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
	"docgate/pkg/platform/collections"
	"docgate/pkg/platform/sentinel"
	"docgate/pkg/requestcontext"
)

// Config tunes the dispatch engine. The zero value is replaced by defaults.
type Config struct {
	// Cooldown is the window after a successful send during which further
	// reminders for the same document are rejected as cooldown_active.
	Cooldown time.Duration

	// MaxInFlight bounds concurrent transport sends within one batch.
	MaxInFlight int

	// SendTimeout bounds one eligibility-check-plus-send; expiry surfaces as
	// a per-item timeout failure.
	SendTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Cooldown <= 0 {
		c.Cooldown = 24 * time.Hour
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = 10
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 10 * time.Second
	}
	return c
}

// Service selects eligible documents from an explicit admin selection and
// dispatches one reminder per eligible document through the notification
// transport. Batches are not atomic: one document failing never rolls back or
// blocks the others.
type Service struct {
	docs       store.Store
	log        Log
	wallet     ports.WalletStatusProvider
	contacts   ports.ContactResolver
	transport  ports.NotificationTransport
	classifier *expiry.Classifier
	cfg        Config
	emitter    Emitter
	metrics    *rmetrics.Metrics
	logger     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithConfig overrides the default cooldown, concurrency, and timeout tuning.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithEmitter sets the Sent event emitter.
func WithEmitter(emitter Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *rmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the batch logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(
	docs store.Store,
	log Log,
	wallet ports.WalletStatusProvider,
	contacts ports.ContactResolver,
	transport ports.NotificationTransport,
	classifier *expiry.Classifier,
	opts ...Option,
) *Service {
	s := &Service{
		docs:       docs,
		log:        log,
		wallet:     wallet,
		contacts:   contacts,
		transport:  transport,
		classifier: classifier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.withDefaults()
	return s
}

// SendReminders dispatches reminders for the selected documents.
//
// The selection is deduplicated, then each document is resolved and checked
// for eligibility: owner wallet not suspended, at least one contact channel,
// and no successful reminder within the cooldown. Eligible documents are sent
// concurrently, bounded by MaxInFlight, each under its own SendTimeout.
// Per-item failures land in the report; only a document store failure aborts
// the batch. The report covers every deduplicated id and is only returned
// after all sends have finished.
func (s *Service) SendReminders(ctx context.Context, ids []domain.DocumentID) (*DispatchReport, error) {
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no documents selected")
	}

	started := time.Now()
	now := requestcontext.Now(ctx)
	unique := collections.Dedupe(ids)

	report := &DispatchReport{
		Attempted: len(unique),
		Details:   make([]ItemResult, 0, len(unique)),
	}
	var mu sync.Mutex
	record := func(result ItemResult) {
		mu.Lock()
		defer mu.Unlock()
		if result.Outcome == OutcomeSuccess {
			report.Succeeded++
		} else {
			report.Failed++
			s.metrics.IncFailed(string(result.Reason))
		}
		report.Details = append(report.Details, result)
	}

	// Resolve sequentially before fanning out: a missing document is a
	// per-item failure, but a store outage fails the whole batch before any
	// transport call happens.
	eligible := make([]*models.Document, 0, len(unique))
	for _, id := range unique {
		doc, err := s.docs.FindByID(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			record(ItemResult{DocumentID: id, Outcome: OutcomeFailure, Reason: ReasonNotFound})
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "document store failure")
		}
		eligible = append(eligible, doc)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxInFlight)
	for _, doc := range eligible {
		g.Go(func() error {
			record(s.dispatchOne(gctx, doc, now))
			return nil
		})
	}
	// Workers never return errors; Wait is purely the join point.
	_ = g.Wait()

	s.metrics.ObserveBatch(time.Since(started))
	s.logger.InfoContext(ctx, "reminder batch finished",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"request_id", requestcontext.RequestID(ctx),
	)
	return report, nil
}

// dispatchOne runs the eligibility checks and the transport send for a single
// document under the per-send timeout.
func (s *Service) dispatchOne(ctx context.Context, doc *models.Document, now time.Time) ItemResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	suspended, err := s.wallet.IsSuspended(ctx, doc.OwnerID)
	if err != nil {
		return s.failure(ctx, doc.ID, err)
	}
	if suspended {
		return ItemResult{DocumentID: doc.ID, Outcome: OutcomeFailure, Reason: ReasonWalletSuspended}
	}

	contact, err := s.contacts.Contact(ctx, doc.OwnerID)
	if err != nil {
		return s.failure(ctx, doc.ID, err)
	}
	if !contact.Usable() {
		return ItemResult{DocumentID: doc.ID, Outcome: OutcomeFailure, Reason: ReasonNoContactInfo}
	}

	last, err := s.log.LastSuccess(ctx, doc.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return s.failure(ctx, doc.ID, err)
	}
	if err == nil && now.Sub(last) < s.cfg.Cooldown {
		return ItemResult{DocumentID: doc.ID, Outcome: OutcomeFailure, Reason: ReasonCooldownActive}
	}

	classification := s.classifier.Classify(doc.ExpiryDate, now)
	err = s.transport.Send(ctx, ports.Reminder{
		DocumentID:   doc.ID,
		OwnerID:      doc.OwnerID,
		Contact:      contact,
		DocumentType: doc.Type,
		DaysText:     classification.DaysText,
	})

	// One log entry per transport attempt; eligibility rejections above never
	// reach the log. Successes arm the cooldown.
	rec := Record{DocumentID: doc.ID, AttemptedAt: now}
	if err != nil {
		rec.Outcome = OutcomeFailure
		rec.ErrorDetail = err.Error()
		if appendErr := s.log.Append(ctx, rec); appendErr != nil {
			s.logger.ErrorContext(ctx, "reminder record append failed",
				"document_id", doc.ID.String(), "error", appendErr)
		}
		return s.failure(ctx, doc.ID, err)
	}

	rec.Outcome = OutcomeSuccess
	if appendErr := s.log.Append(ctx, rec); appendErr != nil {
		// The send already happened; a lost record weakens the cooldown but
		// must not turn a delivered reminder into a reported failure.
		s.logger.ErrorContext(ctx, "reminder record append failed",
			"document_id", doc.ID.String(), "error", appendErr)
	}

	s.metrics.IncSent()
	if s.emitter != nil {
		s.emitter.Emit(Sent{DocumentID: doc.ID, OwnerID: doc.OwnerID, At: now})
	}
	return ItemResult{DocumentID: doc.ID, Outcome: OutcomeSuccess}
}

// failure maps a collaborator error to a per-item result, distinguishing the
// per-send deadline from ordinary transport failures.
func (s *Service) failure(ctx context.Context, id domain.DocumentID, err error) ItemResult {
	reason := ReasonTransportFailure
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		reason = ReasonTimeout
	}
	return ItemResult{DocumentID: id, Outcome: OutcomeFailure, Reason: reason, Detail: err.Error()}
}
