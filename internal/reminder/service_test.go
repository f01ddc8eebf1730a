package reminder_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"docgate/internal/collaborators"
	"docgate/internal/document/models"
	"docgate/internal/document/store"
	"docgate/internal/expiry"
	"docgate/internal/reminder"
	"docgate/internal/reminder/ports"
	remstore "docgate/internal/reminder/store"
	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
	"docgate/pkg/requestcontext"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// fakeTransport records sends and fails selected documents.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []ports.Reminder
	fail   map[domain.DocumentID]error
	block  bool
	sendFn func(ctx context.Context, r ports.Reminder) error
}

func (f *fakeTransport) Send(ctx context.Context, r ports.Reminder) error {
	if f.sendFn != nil {
		return f.sendFn(ctx, r)
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[r.DocumentID]; ok {
		return err
	}
	f.sent = append(f.sent, r)
	return nil
}

func (f *fakeTransport) sentIDs() []domain.DocumentID {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]domain.DocumentID, 0, len(f.sent))
	for _, r := range f.sent {
		ids = append(ids, r.DocumentID)
	}
	return ids
}

type ServiceSuite struct {
	suite.Suite
	docs      *store.InMemoryStore
	log       *remstore.InMemoryLog
	wallet    *collaborators.MockWallet
	contacts  *collaborators.MockContacts
	transport *fakeTransport
	events    []reminder.Sent
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.docs = store.NewInMemoryStore()
	s.log = remstore.NewInMemoryLog()
	s.wallet = collaborators.NewMockWallet()
	s.contacts = collaborators.NewMockContacts()
	s.transport = &fakeTransport{fail: make(map[domain.DocumentID]error)}
	s.events = nil
	s.ctx = requestcontext.WithTime(context.Background(), fixedNow)
}

func (s *ServiceSuite) newService(opts ...reminder.Option) *reminder.Service {
	base := []reminder.Option{
		reminder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reminder.WithEmitter(reminder.EmitterFunc(func(e reminder.Sent) {
			s.events = append(s.events, e)
		})),
	}
	return reminder.NewService(
		s.docs, s.log, s.wallet, s.contacts, s.transport,
		expiry.NewClassifier(expiry.DefaultThresholds()),
		append(base, opts...)...,
	)
}

func (s *ServiceSuite) seedDocument() *models.Document {
	expiryDate := fixedNow.Add(5 * 24 * time.Hour)
	doc, err := models.NewDocument(
		domain.NewDocumentID(),
		domain.CitizenID(uuid.New()),
		domain.ServiceID(uuid.New()),
		domain.DepartmentID(uuid.New()),
		"passport renewal",
		models.CategoryApplication,
		&expiryDate,
		fixedNow.Add(-24*time.Hour),
	)
	s.Require().NoError(err)
	s.Require().NoError(s.docs.Create(s.ctx, doc))
	return doc
}

func resultFor(report *reminder.DispatchReport, id domain.DocumentID) *reminder.ItemResult {
	for i := range report.Details {
		if report.Details[i].DocumentID == id {
			return &report.Details[i]
		}
	}
	return nil
}

func (s *ServiceSuite) TestEmptySelectionRejected() {
	service := s.newService()

	_, err := service.SendReminders(s.ctx, nil)
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Empty(s.T(), s.transport.sentIDs(), "no transport calls on empty selection")
}

func (s *ServiceSuite) TestSuccessfulDispatch() {
	doc := s.seedDocument()
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 1, report.Attempted)
	assert.Equal(s.T(), 1, report.Succeeded)
	assert.Equal(s.T(), 0, report.Failed)

	require.Len(s.T(), s.transport.sent, 1)
	sent := s.transport.sent[0]
	assert.Equal(s.T(), doc.ID, sent.DocumentID)
	assert.Equal(s.T(), doc.OwnerID, sent.OwnerID)
	assert.Equal(s.T(), "passport renewal", sent.DocumentType)
	assert.Equal(s.T(), "expires in 5 days", sent.DaysText)
	assert.True(s.T(), sent.Contact.Usable())

	records := s.log.Records(doc.ID)
	require.Len(s.T(), records, 1)
	assert.Equal(s.T(), reminder.OutcomeSuccess, records[0].Outcome)
	assert.Equal(s.T(), fixedNow, records[0].AttemptedAt)

	require.Len(s.T(), s.events, 1)
	assert.Equal(s.T(), doc.ID, s.events[0].DocumentID)
}

func (s *ServiceSuite) TestSelectionIsDeduplicated() {
	doc := s.seedDocument()
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID, doc.ID, doc.ID})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 1, report.Attempted)
	assert.Equal(s.T(), 1, report.Succeeded)
	assert.Len(s.T(), s.transport.sent, 1)
	assert.Len(s.T(), s.log.Records(doc.ID), 1)
}

func (s *ServiceSuite) TestMissingDocumentIsPerItemFailure() {
	doc := s.seedDocument()
	missing := domain.NewDocumentID()
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{missing, doc.ID})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 2, report.Attempted)
	assert.Equal(s.T(), 1, report.Succeeded)
	assert.Equal(s.T(), 1, report.Failed)

	failed := resultFor(report, missing)
	require.NotNil(s.T(), failed)
	assert.Equal(s.T(), reminder.OutcomeFailure, failed.Outcome)
	assert.Equal(s.T(), reminder.ReasonNotFound, failed.Reason)

	// A missing document never reaches the transport or the log.
	assert.Empty(s.T(), s.log.Records(missing))
}

func (s *ServiceSuite) TestSuspendedWalletBlocksDelivery() {
	doc := s.seedDocument()
	s.wallet.Suspend(doc.OwnerID)
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 1, report.Failed)
	result := resultFor(report, doc.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), reminder.ReasonWalletSuspended, result.Reason)
	assert.Empty(s.T(), s.transport.sentIDs())
	assert.Empty(s.T(), s.log.Records(doc.ID), "eligibility rejections are not logged")
}

func (s *ServiceSuite) TestUnreachableOwnerBlocksDelivery() {
	doc := s.seedDocument()
	s.contacts.Set(doc.OwnerID, ports.Contact{})
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.NoError(s.T(), err)

	result := resultFor(report, doc.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), reminder.ReasonNoContactInfo, result.Reason)
	assert.Empty(s.T(), s.transport.sentIDs())
}

func (s *ServiceSuite) TestCooldownBlocksRecentlyRemindedDocument() {
	recent := s.seedDocument()
	fresh := s.seedDocument()
	s.Require().NoError(s.log.Append(s.ctx, reminder.Record{
		DocumentID:  recent.ID,
		AttemptedAt: fixedNow.Add(-2 * time.Hour),
		Outcome:     reminder.OutcomeSuccess,
	}))
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{recent.ID, fresh.ID})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 2, report.Attempted)
	assert.Equal(s.T(), 1, report.Succeeded)
	assert.Equal(s.T(), 1, report.Failed)

	blocked := resultFor(report, recent.ID)
	require.NotNil(s.T(), blocked)
	assert.Equal(s.T(), reminder.ReasonCooldownActive, blocked.Reason)
	assert.Equal(s.T(), []domain.DocumentID{fresh.ID}, s.transport.sentIDs())
}

func (s *ServiceSuite) TestExpiredCooldownAllowsResend() {
	doc := s.seedDocument()
	s.Require().NoError(s.log.Append(s.ctx, reminder.Record{
		DocumentID:  doc.ID,
		AttemptedAt: fixedNow.Add(-25 * time.Hour),
		Outcome:     reminder.OutcomeSuccess,
	}))
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, report.Succeeded)
}

func (s *ServiceSuite) TestFailedAttemptDoesNotArmCooldown() {
	doc := s.seedDocument()
	s.Require().NoError(s.log.Append(s.ctx, reminder.Record{
		DocumentID:  doc.ID,
		AttemptedAt: fixedNow.Add(-time.Hour),
		Outcome:     reminder.OutcomeFailure,
		ErrorDetail: "smtp unavailable",
	}))
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, report.Succeeded)
}

func (s *ServiceSuite) TestPartialTransportFailure() {
	failing := s.seedDocument()
	healthy := s.seedDocument()
	s.transport.fail[failing.ID] = errors.New("smtp connection refused")
	service := s.newService()

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{failing.ID, healthy.ID})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 2, report.Attempted)
	assert.Equal(s.T(), 1, report.Succeeded)
	assert.Equal(s.T(), 1, report.Failed)

	failed := resultFor(report, failing.ID)
	require.NotNil(s.T(), failed)
	assert.Equal(s.T(), reminder.ReasonTransportFailure, failed.Reason)
	assert.Contains(s.T(), failed.Detail, "smtp connection refused")

	// The failed attempt is logged too, without arming the cooldown.
	records := s.log.Records(failing.ID)
	require.Len(s.T(), records, 1)
	assert.Equal(s.T(), reminder.OutcomeFailure, records[0].Outcome)
	assert.Contains(s.T(), records[0].ErrorDetail, "smtp connection refused")

	require.Len(s.T(), s.events, 1)
	assert.Equal(s.T(), healthy.ID, s.events[0].DocumentID)
}

func (s *ServiceSuite) TestSlowTransportTimesOut() {
	doc := s.seedDocument()
	s.transport.block = true
	service := s.newService(reminder.WithConfig(reminder.Config{SendTimeout: 30 * time.Millisecond}))

	report, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.NoError(s.T(), err)

	result := resultFor(report, doc.ID)
	require.NotNil(s.T(), result)
	assert.Equal(s.T(), reminder.OutcomeFailure, result.Outcome)
	assert.Equal(s.T(), reminder.ReasonTimeout, result.Reason)
}

// The report is complete when SendReminders returns: every send has finished,
// no result arrives later.
func (s *ServiceSuite) TestReportIsCompleteOnReturn() {
	var docs []domain.DocumentID
	for i := 0; i < 25; i++ {
		docs = append(docs, s.seedDocument().ID)
	}
	var inFlight, peak int
	var mu sync.Mutex
	s.transport.sendFn = func(ctx context.Context, r ports.Reminder) error {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	}
	service := s.newService(reminder.WithConfig(reminder.Config{MaxInFlight: 4}))

	report, err := service.SendReminders(s.ctx, docs)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 25, report.Attempted)
	assert.Equal(s.T(), 25, report.Succeeded)
	assert.Len(s.T(), report.Details, 25)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(s.T(), inFlight)
	assert.LessOrEqual(s.T(), peak, 4, "fan-out bounded by MaxInFlight")
}

func (s *ServiceSuite) TestStoreOutageAbortsBatch() {
	doc := s.seedDocument()
	service := reminder.NewService(
		&failingDocStore{}, s.log, s.wallet, s.contacts, s.transport,
		expiry.NewClassifier(expiry.DefaultThresholds()),
		reminder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	_, err := service.SendReminders(s.ctx, []domain.DocumentID{doc.ID})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInternal))
	assert.Empty(s.T(), s.transport.sentIDs())
}

type failingDocStore struct{}

func (f *failingDocStore) Create(context.Context, *models.Document) error {
	return errors.New("store down")
}

func (f *failingDocStore) FindByID(context.Context, domain.DocumentID) (*models.Document, error) {
	return nil, errors.New("store down")
}

func (f *failingDocStore) Save(context.Context, *models.Document, int64) (*models.Document, error) {
	return nil, errors.New("store down")
}

func (f *failingDocStore) List(context.Context, store.Filter) ([]*models.Document, error) {
	return nil, errors.New("store down")
}
