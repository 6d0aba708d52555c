package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Chore        ChoreRepository
	Cancellation CancellationRequestRepository
	Notification NotificationRepository
	Delivery     DeliveryRepository
	Preference   PreferenceRepository
	User         UserRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Chore:        NewChoreRepository(db),
		Cancellation: NewCancellationRequestRepository(db),
		Notification: NewNotificationRepository(db),
		Delivery:     NewDeliveryRepository(db),
		Preference:   NewPreferenceRepository(db),
		User:         NewUserRepository(db),
	}
}
