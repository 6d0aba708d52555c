package domain

import (
	"time"

	"github.com/google/uuid"
)

// CancellationRequest records one cancellation attempt against a chore.
// OriginalStatus holds the chore status captured at request time so a
// rejection can restore it. Resolved requests are immutable.
type CancellationRequest struct {
	ID             uuid.UUID                 `json:"id" db:"id"`
	ChoreID        uuid.UUID                 `json:"chore_id" db:"chore_id"`
	RequestedBy    uuid.UUID                 `json:"requested_by" db:"requested_by"`
	OriginalStatus ChoreStatus               `json:"original_status" db:"original_status"`
	Reason         *string                   `json:"reason,omitempty" db:"reason"`
	Status         CancellationRequestStatus `json:"status" db:"status"`
	ResolvedAt     *time.Time                `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt      time.Time                 `json:"created_at" db:"created_at"`
}

type CancellationRequestStatus string

const (
	CancellationPending  CancellationRequestStatus = "PENDING"
	CancellationApproved CancellationRequestStatus = "APPROVED"
	CancellationRejected CancellationRequestStatus = "REJECTED"
)

type CancellationDecision string

const (
	DecisionApprove CancellationDecision = "APPROVE"
	DecisionReject  CancellationDecision = "REJECT"
)

func (d CancellationDecision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

type RequestCancellationInput struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type DecideCancellationInput struct {
	Decision CancellationDecision `json:"decision" validate:"required,oneof=APPROVE REJECT"`
}
