package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chorelink/internal/domain"
	"chorelink/internal/repository"
)

// ChoreStore is an in-memory ChoreRepository. AtomicUpdate holds the
// store lock for the whole closure, so concurrent updates to the same
// chore serialize exactly like the row lock does, and a failing closure
// leaves the store untouched.
type ChoreStore struct {
	mu       sync.Mutex
	chores   map[uuid.UUID]domain.Chore
	requests map[uuid.UUID]domain.CancellationRequest
}

func NewChoreStore() *ChoreStore {
	return &ChoreStore{
		chores:   make(map[uuid.UUID]domain.Chore),
		requests: make(map[uuid.UUID]domain.CancellationRequest),
	}
}

func (s *ChoreStore) Create(ctx context.Context, chore *domain.Chore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chore.CreatedAt = time.Now()
	chore.UpdatedAt = chore.CreatedAt
	s.chores[chore.ID] = *chore
	return nil
}

func (s *ChoreStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chore, ok := s.chores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chore, nil
}

func (s *ChoreStore) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Chore, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var chores []domain.Chore
	for _, chore := range s.chores {
		if chore.CreatedBy == userID || (chore.AssignedWorkerID != nil && *chore.AssignedWorkerID == userID) {
			chores = append(chores, chore)
		}
	}
	sort.Slice(chores, func(i, j int) bool { return chores[i].CreatedAt.After(chores[j].CreatedAt) })
	return chores, int64(len(chores)), nil
}

func (s *ChoreStore) AtomicUpdate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, tx repository.ChoreTx, chore *domain.Chore) error) (*domain.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.chores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	chore := stored
	tx := &choreStoreTx{store: s, resolved: make(map[uuid.UUID]domain.CancellationRequest)}
	if err := fn(ctx, tx, &chore); err != nil {
		return nil, err
	}

	for _, req := range tx.created {
		s.requests[req.ID] = req
	}
	for id, req := range tx.resolved {
		s.requests[id] = req
	}
	chore.UpdatedAt = time.Now()
	s.chores[id] = chore
	return &chore, nil
}

// choreStoreTx stages request writes so a failed closure discards them.
type choreStoreTx struct {
	store    *ChoreStore
	created  []domain.CancellationRequest
	resolved map[uuid.UUID]domain.CancellationRequest
}

func (t *choreStoreTx) FindPendingCancellation(ctx context.Context, choreID uuid.UUID) (*domain.CancellationRequest, error) {
	var found *domain.CancellationRequest
	for _, req := range t.store.requests {
		if req.ChoreID != choreID || req.Status != domain.CancellationPending {
			continue
		}
		if _, wasResolved := t.resolved[req.ID]; wasResolved {
			continue
		}
		req := req
		if found == nil || req.CreatedAt.After(found.CreatedAt) {
			found = &req
		}
	}
	return found, nil
}

func (t *choreStoreTx) CreateCancellation(ctx context.Context, req *domain.CancellationRequest) error {
	req.CreatedAt = time.Now()
	t.created = append(t.created, *req)
	return nil
}

func (t *choreStoreTx) ResolveCancellation(ctx context.Context, id uuid.UUID, status domain.CancellationRequestStatus, resolvedAt time.Time) error {
	req, ok := t.store.requests[id]
	if !ok || req.Status != domain.CancellationPending {
		return domain.ErrConflict
	}
	if _, wasResolved := t.resolved[id]; wasResolved {
		return domain.ErrConflict
	}
	req.Status = status
	req.ResolvedAt = &resolvedAt
	t.resolved[id] = req
	return nil
}

// Put seeds a chore directly, bypassing Create.
func (s *ChoreStore) Put(chore domain.Chore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chore.CreatedAt.IsZero() {
		chore.CreatedAt = time.Now()
		chore.UpdatedAt = chore.CreatedAt
	}
	s.chores[chore.ID] = chore
}

// Chore reads back the stored copy.
func (s *ChoreStore) Chore(id uuid.UUID) (domain.Chore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chore, ok := s.chores[id]
	return chore, ok
}

// RequestByID reads back a stored cancellation request.
func (s *ChoreStore) RequestByID(id uuid.UUID) (domain.CancellationRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	return req, ok
}

// RequestsFor lists all cancellation requests stored for a chore.
func (s *ChoreStore) RequestsFor(choreID uuid.UUID) []domain.CancellationRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []domain.CancellationRequest
	for _, req := range s.requests {
		if req.ChoreID == choreID {
			requests = append(requests, req)
		}
	}
	return requests
}
