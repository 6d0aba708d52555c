package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"chorelink/internal/domain"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type DeliveryRepository struct {
	mock.Mock
}

func (m *DeliveryRepository) Append(ctx context.Context, delivery *domain.NotificationDelivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *DeliveryRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.NotificationDelivery, int64, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).([]domain.NotificationDelivery), args.Get(1).(int64), args.Error(2)
}

type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type CancellationRequestRepository struct {
	mock.Mock
}

func (m *CancellationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CancellationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CancellationRequest), args.Error(1)
}

func (m *CancellationRequestRepository) ListByChore(ctx context.Context, choreID uuid.UUID) ([]domain.CancellationRequest, error) {
	args := m.Called(ctx, choreID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CancellationRequest), args.Error(1)
}

// Notifier matches the lifecycle engine's notification hook.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) NotifyCancellationRequested(ctx context.Context, choreID, requestID uuid.UUID) error {
	args := m.Called(ctx, choreID, requestID)
	return args.Error(0)
}

func (m *Notifier) NotifyCancellationDecided(ctx context.Context, choreID, requestID uuid.UUID) error {
	args := m.Called(ctx, choreID, requestID)
	return args.Error(0)
}

func (m *Notifier) NotifyChoreAssigned(ctx context.Context, choreID uuid.UUID) error {
	args := m.Called(ctx, choreID)
	return args.Error(0)
}

func (m *Notifier) NotifyChoreCompleted(ctx context.Context, choreID uuid.UUID) error {
	args := m.Called(ctx, choreID)
	return args.Error(0)
}
