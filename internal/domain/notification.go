package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	UserID        uuid.UUID        `json:"user_id" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	ChoreID       *uuid.UUID       `json:"chore_id,omitempty" db:"chore_id"`
	ApplicationID *uuid.UUID       `json:"application_id,omitempty" db:"application_id"`
	PaymentID     *uuid.UUID       `json:"payment_id,omitempty" db:"payment_id"`
	Link          string           `json:"link" db:"link"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// NotificationType is an open enum; callers may introduce new values
// without breaking existing consumers.
type NotificationType string

const (
	NotifCancellationRequested NotificationType = "CANCELLATION_REQUESTED"
	NotifCancellationDecided   NotificationType = "CANCELLATION_DECIDED"
	NotifChoreAssigned         NotificationType = "CHORE_ASSIGNED"
	NotifChoreCompleted        NotificationType = "CHORE_COMPLETED"
	NotifSystem                NotificationType = "SYSTEM"
)

// NotificationDelivery is one external-delivery attempt. Rows are
// append-only; the notification id is nullable because some sends are
// fire-and-forget with no in-app record.
type NotificationDelivery struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	NotificationID *uuid.UUID     `json:"notification_id,omitempty" db:"notification_id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	Provider       string         `json:"provider" db:"provider"`
	Status         DeliveryStatus `json:"status" db:"status"`
	Response       string         `json:"response" db:"response"`
	RetryCount     int            `json:"retry_count" db:"retry_count"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)
