package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Chore struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	CreatedBy        uuid.UUID     `json:"created_by" db:"created_by"`
	AssignedWorkerID *uuid.UUID    `json:"assigned_worker_id,omitempty" db:"assigned_worker_id"`
	Title            string        `json:"title" db:"title"`
	Description      string        `json:"description" db:"description"`
	Budget           float64       `json:"budget" db:"budget"`
	Status           ChoreStatus   `json:"status" db:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

type ChoreStatus string

const (
	ChoreDraft                 ChoreStatus = "DRAFT"
	ChorePublished             ChoreStatus = "PUBLISHED"
	ChoreAssigned              ChoreStatus = "ASSIGNED"
	ChoreInProgress            ChoreStatus = "IN_PROGRESS"
	ChoreCancellationRequested ChoreStatus = "CANCELLATION_REQUESTED"
	ChoreCompleted             ChoreStatus = "COMPLETED"
	ChoreClosed                ChoreStatus = "CLOSED"
	ChoreCancelled             ChoreStatus = "CANCELLED"
)

// choreTransitions is the single authoritative transition table. All
// status legality checks go through Transition; services never compare
// statuses inline.
var choreTransitions = map[ChoreStatus][]ChoreStatus{
	ChoreDraft:                 {ChorePublished, ChoreCancelled},
	ChorePublished:             {ChoreAssigned, ChoreCancelled},
	ChoreAssigned:              {ChoreInProgress, ChoreCancellationRequested},
	ChoreInProgress:            {ChoreCompleted, ChoreCancellationRequested},
	ChoreCancellationRequested: {ChoreAssigned, ChoreInProgress, ChoreCancelled},
	ChoreCompleted:             {ChoreClosed},
	ChoreClosed:                {},
	ChoreCancelled:             {},
}

func (s ChoreStatus) CanTransitionTo(to ChoreStatus) bool {
	for _, next := range choreTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the chore to the target status, failing with
// ErrInvalidState when the transition table does not permit it.
func (c *Chore) Transition(to ChoreStatus) error {
	if !c.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: chore cannot move from %s to %s", ErrInvalidState, c.Status, to)
	}
	c.Status = to
	return nil
}

// AllowsAssignedWorker reports whether a chore in this status carries a
// non-nil assigned worker. CANCELLED is excluded: an approved
// cancellation clears the worker and the request row keeps who asked.
func (s ChoreStatus) AllowsAssignedWorker() bool {
	switch s {
	case ChoreAssigned, ChoreInProgress, ChoreCancellationRequested, ChoreCompleted, ChoreClosed:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPending  PaymentStatus = "PENDING"
	PaymentFunded   PaymentStatus = "FUNDED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type CreateChoreInput struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
}
