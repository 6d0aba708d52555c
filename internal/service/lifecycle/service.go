package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"chorelink/internal/domain"
	"chorelink/internal/repository"
)

// Notifier is the slice of the notification service the engine fires
// after a committed transition. Delivery runs in the background; its
// failure never reaches the transition's caller.
type Notifier interface {
	NotifyCancellationRequested(ctx context.Context, choreID, requestID uuid.UUID) error
	NotifyCancellationDecided(ctx context.Context, choreID, requestID uuid.UUID) error
	NotifyChoreAssigned(ctx context.Context, choreID uuid.UUID) error
	NotifyChoreCompleted(ctx context.Context, choreID uuid.UUID) error
}

// Service owns the chore status state machine and its cancellation
// sub-workflow. Every transition is a single atomic unit over the chore
// row and any cancellation-request rows it touches, with preconditions
// re-validated under the row lock.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input domain.CreateChoreInput) (*domain.Chore, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chore, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Chore], error)

	Publish(ctx context.Context, choreID, customerID uuid.UUID) (*domain.Chore, error)
	Assign(ctx context.Context, choreID, customerID, workerID uuid.UUID) (*domain.Chore, error)
	Start(ctx context.Context, choreID, workerID uuid.UUID) (*domain.Chore, error)
	Complete(ctx context.Context, choreID, workerID uuid.UUID) (*domain.Chore, error)
	Close(ctx context.Context, choreID, customerID uuid.UUID) (*domain.Chore, error)

	RequestCancellation(ctx context.Context, choreID, workerID uuid.UUID, reason *string) (*domain.Chore, *domain.CancellationRequest, error)
	DecideCancellation(ctx context.Context, choreID, customerID uuid.UUID, decision domain.CancellationDecision) (*domain.Chore, *domain.CancellationRequest, error)
	DirectCancel(ctx context.Context, choreID, customerID uuid.UUID, reason *string) (*domain.Chore, error)

	ListCancellations(ctx context.Context, choreID, callerID uuid.UUID) ([]domain.CancellationRequest, error)
}

type service struct {
	choreRepo repository.ChoreRepository
	crRepo    repository.CancellationRequestRepository
	notifSvc  Notifier
	now       func() time.Time
}

func NewService(choreRepo repository.ChoreRepository, crRepo repository.CancellationRequestRepository, notifSvc Notifier) Service {
	return &service{
		choreRepo: choreRepo,
		crRepo:    crRepo,
		notifSvc:  notifSvc,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input domain.CreateChoreInput) (*domain.Chore, error) {
	chore := &domain.Chore{
		ID:            uuid.New(),
		CreatedBy:     customerID,
		Title:         input.Title,
		Description:   input.Description,
		Budget:        input.Budget,
		Status:        domain.ChoreDraft,
		PaymentStatus: domain.PaymentUnpaid,
	}
	if err := s.choreRepo.Create(ctx, chore); err != nil {
		return nil, err
	}
	return chore, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chore, error) {
	return s.choreRepo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Chore], error) {
	chores, total, err := s.choreRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Chore]{}, err
	}
	return domain.NewPaginatedResponse(chores, params.Page, params.PageSize, total), nil
}

func (s *service) Publish(ctx context.Context, choreID, customerID uuid.UUID) (*domain.Chore, error) {
	return s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, _ repository.ChoreTx, chore *domain.Chore) error {
		if chore.CreatedBy != customerID {
			return fmt.Errorf("%w: only the chore owner can publish it", domain.ErrForbidden)
		}
		return chore.Transition(domain.ChorePublished)
	})
}

func (s *service) Assign(ctx context.Context, choreID, customerID, workerID uuid.UUID) (*domain.Chore, error) {
	updated, err := s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, _ repository.ChoreTx, chore *domain.Chore) error {
		if chore.CreatedBy != customerID {
			return fmt.Errorf("%w: only the chore owner can assign a worker", domain.ErrForbidden)
		}
		if err := chore.Transition(domain.ChoreAssigned); err != nil {
			return err
		}
		chore.AssignedWorkerID = &workerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifSvc.NotifyChoreAssigned(ctx, updated.ID)
	})
	return updated, nil
}

func (s *service) Start(ctx context.Context, choreID, workerID uuid.UUID) (*domain.Chore, error) {
	return s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, _ repository.ChoreTx, chore *domain.Chore) error {
		if err := requireWorker(chore, workerID); err != nil {
			return err
		}
		// The transition table also reaches IN_PROGRESS via a rejected
		// cancellation; starting is only legal from ASSIGNED.
		if chore.Status != domain.ChoreAssigned {
			return fmt.Errorf("%w: chore cannot be started from %s", domain.ErrInvalidState, chore.Status)
		}
		return chore.Transition(domain.ChoreInProgress)
	})
}

func (s *service) Complete(ctx context.Context, choreID, workerID uuid.UUID) (*domain.Chore, error) {
	updated, err := s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, _ repository.ChoreTx, chore *domain.Chore) error {
		if err := requireWorker(chore, workerID); err != nil {
			return err
		}
		return chore.Transition(domain.ChoreCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifSvc.NotifyChoreCompleted(ctx, updated.ID)
	})
	return updated, nil
}

func (s *service) Close(ctx context.Context, choreID, customerID uuid.UUID) (*domain.Chore, error) {
	return s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, _ repository.ChoreTx, chore *domain.Chore) error {
		if chore.CreatedBy != customerID {
			return fmt.Errorf("%w: only the chore owner can close it", domain.ErrForbidden)
		}
		return chore.Transition(domain.ChoreClosed)
	})
}

func (s *service) RequestCancellation(ctx context.Context, choreID, workerID uuid.UUID, reason *string) (*domain.Chore, *domain.CancellationRequest, error) {
	var req *domain.CancellationRequest

	updated, err := s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, tx repository.ChoreTx, chore *domain.Chore) error {
		if err := requireWorker(chore, workerID); err != nil {
			return err
		}

		// Re-checked under the row lock before the status moves: of two
		// concurrent requests, exactly one creates the PENDING row and
		// the other conflicts.
		pending, err := tx.FindPendingCancellation(ctx, chore.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return fmt.Errorf("%w: a cancellation request is already pending for this chore", domain.ErrConflict)
		}

		original := chore.Status
		if err := chore.Transition(domain.ChoreCancellationRequested); err != nil {
			return err
		}

		req = &domain.CancellationRequest{
			ID:             uuid.New(),
			ChoreID:        chore.ID,
			RequestedBy:    workerID,
			OriginalStatus: original,
			Reason:         reason,
			Status:         domain.CancellationPending,
		}
		return tx.CreateCancellation(ctx, req)
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifSvc.NotifyCancellationRequested(ctx, updated.ID, req.ID)
	})
	return updated, req, nil
}

func (s *service) DecideCancellation(ctx context.Context, choreID, customerID uuid.UUID, decision domain.CancellationDecision) (*domain.Chore, *domain.CancellationRequest, error) {
	if !decision.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidState, decision)
	}

	var req *domain.CancellationRequest

	updated, err := s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, tx repository.ChoreTx, chore *domain.Chore) error {
		if chore.CreatedBy != customerID {
			return fmt.Errorf("%w: only the chore owner can decide a cancellation request", domain.ErrForbidden)
		}
		if chore.Status != domain.ChoreCancellationRequested {
			return fmt.Errorf("%w: chore has no cancellation awaiting a decision", domain.ErrInvalidState)
		}

		// Re-fetched under the row lock so the decision only ever lands
		// on the request that is still the current PENDING one.
		pending, err := tx.FindPendingCancellation(ctx, chore.ID)
		if err != nil {
			return err
		}
		if pending == nil {
			return fmt.Errorf("%w: no pending cancellation request for this chore", domain.ErrInvalidState)
		}

		resolvedAt := s.now()
		if decision == domain.DecisionApprove {
			if err := chore.Transition(domain.ChoreCancelled); err != nil {
				return err
			}
			// A cancelled chore carries no worker; the request row keeps
			// who asked.
			chore.AssignedWorkerID = nil
			pending.Status = domain.CancellationApproved
		} else {
			// Restoring originalStatus is only safe while the chore is
			// still held by the worker who asked.
			if chore.AssignedWorkerID == nil || *chore.AssignedWorkerID != pending.RequestedBy {
				return fmt.Errorf("%w: chore was reassigned after the cancellation was requested", domain.ErrConflict)
			}
			if err := chore.Transition(pending.OriginalStatus); err != nil {
				return err
			}
			pending.Status = domain.CancellationRejected
		}
		pending.ResolvedAt = &resolvedAt

		if err := tx.ResolveCancellation(ctx, pending.ID, pending.Status, resolvedAt); err != nil {
			return err
		}
		req = pending
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifSvc.NotifyCancellationDecided(ctx, updated.ID, req.ID)
	})
	return updated, req, nil
}

func (s *service) DirectCancel(ctx context.Context, choreID, customerID uuid.UUID, reason *string) (*domain.Chore, error) {
	return s.choreRepo.AtomicUpdate(ctx, choreID, func(ctx context.Context, tx repository.ChoreTx, chore *domain.Chore) error {
		if chore.CreatedBy != customerID {
			return fmt.Errorf("%w: only the chore owner can cancel it", domain.ErrForbidden)
		}
		// CANCELLED is also reachable via an approved cancellation
		// request; cancelling without the approval round-trip is only
		// legal before a worker is involved.
		if chore.Status != domain.ChoreDraft && chore.Status != domain.ChorePublished {
			return fmt.Errorf("%w: only draft or published chores can be cancelled without approval", domain.ErrInvalidState)
		}

		original := chore.Status
		if err := chore.Transition(domain.ChoreCancelled); err != nil {
			return err
		}

		// Pre-resolved request row kept for audit history. No worker is
		// assigned yet, so nobody is notified.
		resolvedAt := s.now()
		return tx.CreateCancellation(ctx, &domain.CancellationRequest{
			ID:             uuid.New(),
			ChoreID:        chore.ID,
			RequestedBy:    customerID,
			OriginalStatus: original,
			Reason:         reason,
			Status:         domain.CancellationApproved,
			ResolvedAt:     &resolvedAt,
		})
	})
}

func (s *service) ListCancellations(ctx context.Context, choreID, callerID uuid.UUID) ([]domain.CancellationRequest, error) {
	chore, err := s.choreRepo.GetByID(ctx, choreID)
	if err != nil {
		return nil, err
	}
	if chore.CreatedBy != callerID && (chore.AssignedWorkerID == nil || *chore.AssignedWorkerID != callerID) {
		return nil, fmt.Errorf("%w: only the chore's customer or worker can view its cancellation history", domain.ErrForbidden)
	}
	return s.crRepo.ListByChore(ctx, choreID)
}

func requireWorker(chore *domain.Chore, workerID uuid.UUID) error {
	if chore.AssignedWorkerID == nil || *chore.AssignedWorkerID != workerID {
		return fmt.Errorf("%w: caller is not the assigned worker for this chore", domain.ErrForbidden)
	}
	return nil
}

// notifyAsync fires a notification without blocking the committed
// transition; failures are logged and contained.
func (s *service) notifyAsync(fn func(ctx context.Context) error) {
	if s.notifSvc == nil {
		return
	}
	go func() {
		if err := fn(context.Background()); err != nil {
			log.Printf("notification dispatch failed: %v", err)
		}
	}()
}
