package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	reqtypes "github.com/adiwjy/go-procurement-api/internal/domains/requests/application/types"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/requests/ports"
)

// DefaultStoreTimeout bounds every store call so a hung store surfaces as a
// timeout failure instead of a forever-busy record.
const DefaultStoreTimeout = 10 * time.Second

// Service owns the request lifecycle use cases: it loads the record, runs
// the state machine, and writes the result back through the repository with
// a conditional update.
type Service struct {
	repo         ports.Repository
	notifier     ports.Notifier
	storeTimeout time.Duration
	newID        func() string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option customizes the service.
type Option func(*Service)

// WithNotifier wires the fire-and-forget status-change channel.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStoreTimeout overrides the per-call store deadline.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithIDGenerator overrides request ID generation, for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService wires the lifecycle service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		notifier:     ports.NoopNotifier,
		storeTimeout: DefaultStoreTimeout,
		newID:        uuid.NewString,
		inFlight:     map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateRequest opens a new request: items validated, status In Progress,
// every stage pending.
func (s *Service) CreateRequest(ctx context.Context, input reqtypes.CreateRequestInput) (*reqtypes.RequestProjection, error) {
	record, err := domain.NewRequestRecord(s.newID(), input.RequestNumber, input.Requester, input.Entity, input.Items)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.createRecord(ctx, record)
	if err != nil {
		return nil, err
	}
	s.notifyStatusChange(ctx, saved)
	return saved, nil
}

// Submit overwrites the item list of an existing request and resets the
// approval chain. It is a full overwrite of items/status/approvals guarded
// by the revision read at fetch time, so a concurrent decision surfaces as a
// conflict instead of being silently discarded.
func (s *Service) Submit(ctx context.Context, input reqtypes.SubmitInput) (*reqtypes.RequestProjection, error) {
	if err := s.acquire(input.RequestNumber); err != nil {
		return nil, err
	}
	defer s.release(input.RequestNumber)

	proj, err := s.findByNumber(ctx, input.RequestNumber)
	if err != nil {
		return nil, err
	}
	record := proj.Entity
	if err := record.Resubmit(input.Requester, input.Items); err != nil {
		return nil, mapError(err)
	}
	patch := ports.UpdatePatch{
		Items:     &record.Items,
		Status:    &record.Status,
		Approvals: &record.Approvals,
	}
	saved, err := s.update(ctx, record.ID, patch, proj.Metadata.Revision)
	if err != nil {
		return nil, err
	}
	s.notifyStatusChange(ctx, saved)
	return saved, nil
}

// Decide records one stage actor's outcome on the next eligible stage.
func (s *Service) Decide(ctx context.Context, input reqtypes.DecideInput) (*reqtypes.RequestProjection, error) {
	if err := s.acquire(input.RequestNumber); err != nil {
		return nil, err
	}
	defer s.release(input.RequestNumber)

	proj, err := s.findByNumber(ctx, input.RequestNumber)
	if err != nil {
		return nil, err
	}
	record := proj.Entity
	if err := record.Decide(input.Stage, input.Outcome, input.Feedback); err != nil {
		return nil, mapError(err)
	}
	patch := ports.UpdatePatch{
		Status:    &record.Status,
		Approvals: &record.Approvals,
	}
	saved, err := s.update(ctx, record.ID, patch, proj.Metadata.Revision)
	if err != nil {
		return nil, err
	}
	s.notifyStatusChange(ctx, saved)
	return saved, nil
}

// GetByNumber loads a single record by business key.
func (s *Service) GetByNumber(ctx context.Context, input reqtypes.RequestIdentifier) (*reqtypes.RequestProjection, error) {
	return s.findByNumber(ctx, input.RequestNumber)
}

// ListByStatus feeds the incoming-request queue views.
func (s *Service) ListByStatus(ctx context.Context, statuses []string) ([]*reqtypes.RequestProjection, error) {
	filter := make([]domain.Status, 0, len(statuses))
	for _, status := range statuses {
		filter = append(filter, domain.Status(status))
	}
	if len(filter) == 0 {
		filter = []domain.Status{domain.StatusInProgress}
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	result, err := s.repo.ListByStatus(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return result, nil
}

// List exposes all requests for admin or audit views.
func (s *Service) List(ctx context.Context) ([]*reqtypes.RequestProjection, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return result, nil
}

func (s *Service) findByNumber(ctx context.Context, requestNumber string) (*reqtypes.RequestProjection, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	proj, err := s.repo.FindByNumber(ctx, requestNumber)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return proj, nil
}

func (s *Service) createRecord(ctx context.Context, record *domain.RequestRecord) (*reqtypes.RequestProjection, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	saved, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return saved, nil
}

func (s *Service) update(ctx context.Context, id string, patch ports.UpdatePatch, expectedRevision int64) (*reqtypes.RequestProjection, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	saved, err := s.repo.Update(ctx, id, patch, expectedRevision)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return saved, nil
}

// notifyStatusChange fires the notification side effect after a committed
// transition. Failures are swallowed: the record update already happened and
// must not be rolled back.
func (s *Service) notifyStatusChange(ctx context.Context, proj *reqtypes.RequestProjection) {
	if proj == nil || proj.Entity == nil {
		return
	}
	event := reqtypes.StatusChangeEvent{
		ID:            proj.Entity.ID,
		RequestNumber: proj.Entity.RequestNumber,
		Status:        proj.Entity.Status,
	}
	_ = s.notifier.StatusChanged(context.WithoutCancel(ctx), event)
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// acquire marks a request number busy for the duration of one transition.
func (s *Service) acquire(requestNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[requestNumber]; busy {
		return ErrTransitionInFlight
	}
	s.inFlight[requestNumber] = struct{}{}
	return nil
}

func (s *Service) release(requestNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, requestNumber)
}

var _ ports.Service = (*Service)(nil)
