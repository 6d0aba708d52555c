package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chorelink/internal/domain"
	"chorelink/internal/mocks"
)

type stubRouter struct {
	events []Event
	result DispatchResult
}

func (s *stubRouter) Dispatch(ctx context.Context, event Event) DispatchResult {
	s.events = append(s.events, event)
	return s.result
}

func TestService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("success", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		notifRepo.On("MarkAsRead", mock.Anything, notifID, userID).Return(nil).Once()

		svc := NewService(notifRepo, nil, nil, nil, nil, nil)
		err := svc.MarkAsRead(ctx, notifID, userID)

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})

	t.Run("someone else's notification is not found", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		notifRepo.On("MarkAsRead", mock.Anything, notifID, userID).Return(domain.ErrNotFound).Once()

		svc := NewService(notifRepo, nil, nil, nil, nil, nil)
		err := svc.MarkAsRead(ctx, notifID, userID)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_MarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	notifRepo := new(mocks.NotificationRepository)
	notifRepo.On("MarkAllAsRead", mock.Anything, userID).Return(int64(3), nil).Once()
	notifRepo.On("MarkAllAsRead", mock.Anything, userID).Return(int64(0), nil).Once()

	svc := NewService(notifRepo, nil, nil, nil, nil, nil)

	affected, err := svc.MarkAllAsRead(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	// Second call is a no-op.
	affected, err = svc.MarkAllAsRead(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	notifRepo.AssertExpectations(t)
}

func TestService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	notifRepo := new(mocks.NotificationRepository)
	notifRepo.On("CountUnread", mock.Anything, userID).Return(int64(7), nil).Once()

	svc := NewService(notifRepo, nil, nil, nil, nil, nil)

	count, err := svc.UnreadCount(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestService_NotifyCancellationRequested(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	workerID := uuid.New()
	reason := "equipment broke"

	store := mocks.NewChoreStore()
	chore := domain.Chore{
		ID:               uuid.New(),
		CreatedBy:        customerID,
		AssignedWorkerID: &workerID,
		Title:            "Paint the fence",
		Status:           domain.ChoreCancellationRequested,
	}
	store.Put(chore)

	req := &domain.CancellationRequest{
		ID:          uuid.New(),
		ChoreID:     chore.ID,
		RequestedBy: workerID,
		Reason:      &reason,
		Status:      domain.CancellationPending,
	}
	crRepo := new(mocks.CancellationRequestRepository)
	crRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)

	var created *domain.Notification
	notifRepo := new(mocks.NotificationRepository)
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Notification) }).
		Return(nil).Once()

	router := &stubRouter{result: DispatchResult{Ok: true, Channel: domain.ChannelEmail}}
	svc := NewService(notifRepo, store, crRepo, nil, router, nil)

	err := svc.NotifyCancellationRequested(ctx, chore.ID, req.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, created) {
		assert.Equal(t, customerID, created.UserID)
		assert.Equal(t, domain.NotifCancellationRequested, created.Type)
		assert.Contains(t, created.Message, chore.Title)
		assert.Contains(t, created.Message, reason)
	}
	if assert.Len(t, router.events, 1) {
		assert.Equal(t, customerID, router.events[0].UserID)
		assert.Equal(t, &created.ID, router.events[0].NotificationID)
	}
	notifRepo.AssertExpectations(t)
}

func TestService_NotifyCancellationDecided(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	workerID := uuid.New()

	store := mocks.NewChoreStore()
	chore := domain.Chore{
		ID:               uuid.New(),
		CreatedBy:        customerID,
		AssignedWorkerID: &workerID,
		Title:            "Clean the gutters",
		Status:           domain.ChoreCancelled,
	}
	store.Put(chore)

	req := &domain.CancellationRequest{
		ID:          uuid.New(),
		ChoreID:     chore.ID,
		RequestedBy: workerID,
		Status:      domain.CancellationApproved,
	}
	crRepo := new(mocks.CancellationRequestRepository)
	crRepo.On("GetByID", mock.Anything, req.ID).Return(req, nil)

	var created *domain.Notification
	notifRepo := new(mocks.NotificationRepository)
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Notification) }).
		Return(nil).Once()

	router := &stubRouter{}
	svc := NewService(notifRepo, store, crRepo, nil, router, nil)

	err := svc.NotifyCancellationDecided(ctx, chore.ID, req.ID)

	assert.NoError(t, err)
	if assert.NotNil(t, created) {
		// The worker who asked hears the outcome, not the customer.
		assert.Equal(t, workerID, created.UserID)
		assert.Equal(t, domain.NotifCancellationDecided, created.Type)
		assert.Equal(t, "Cancellation approved", created.Title)
	}
}

func TestService_DeliverContainsRouterFailure(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	store := mocks.NewChoreStore()
	chore := domain.Chore{
		ID:        uuid.New(),
		CreatedBy: customerID,
		Title:     "Assemble furniture",
		Status:    domain.ChoreCompleted,
	}
	store.Put(chore)

	notifRepo := new(mocks.NotificationRepository)
	notifRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

	router := &stubRouter{result: DispatchResult{Ok: false, Reason: "max attempts reached"}}
	svc := NewService(notifRepo, store, nil, nil, router, nil)

	err := svc.NotifyChoreCompleted(ctx, chore.ID)

	assert.NoError(t, err)
	assert.Len(t, router.events, 1)
}
