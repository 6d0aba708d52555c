package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chorelink/internal/domain"
	"chorelink/internal/repository"
)

type Service interface {
	Create(ctx context.Context, notif *domain.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	ListDeliveries(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationDelivery], error)

	NotifyCancellationRequested(ctx context.Context, choreID, requestID uuid.UUID) error
	NotifyCancellationDecided(ctx context.Context, choreID, requestID uuid.UUID) error
	NotifyChoreAssigned(ctx context.Context, choreID uuid.UUID) error
	NotifyChoreCompleted(ctx context.Context, choreID uuid.UUID) error
}

const unreadCacheTTL = time.Minute

type service struct {
	notifRepo    repository.NotificationRepository
	choreRepo    repository.ChoreRepository
	crRepo       repository.CancellationRequestRepository
	deliveryRepo repository.DeliveryRepository
	router       Router
	redis        *redis.Client
}

func NewService(
	notifRepo repository.NotificationRepository,
	choreRepo repository.ChoreRepository,
	crRepo repository.CancellationRequestRepository,
	deliveryRepo repository.DeliveryRepository,
	router Router,
	redisClient *redis.Client,
) Service {
	return &service{
		notifRepo:    notifRepo,
		choreRepo:    choreRepo,
		crRepo:       crRepo,
		deliveryRepo: deliveryRepo,
		router:       router,
		redis:        redisClient,
	}
}

func (s *service) Create(ctx context.Context, notif *domain.Notification) error {
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return err
	}
	s.invalidateUnread(ctx, notif.UserID)
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAsRead(ctx, id, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.notifRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.invalidateUnread(ctx, userID)
	}
	return affected, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	cacheKey := unreadCacheKey(userID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, cacheKey, count, unreadCacheTTL).Err()
	}
	return count, nil
}

func (s *service) ListDeliveries(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationDelivery], error) {
	deliveries, total, err := s.deliveryRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationDelivery]{}, err
	}
	return domain.NewPaginatedResponse(deliveries, params.Page, params.PageSize, total), nil
}

func (s *service) NotifyCancellationRequested(ctx context.Context, choreID, requestID uuid.UUID) error {
	chore, err := s.choreRepo.GetByID(ctx, choreID)
	if err != nil {
		return fmt.Errorf("failed to get chore: %w", err)
	}
	req, err := s.crRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get cancellation request: %w", err)
	}

	message := fmt.Sprintf("The worker asked to cancel %q", chore.Title)
	if req.Reason != nil && *req.Reason != "" {
		message += ": " + *req.Reason
	}

	return s.deliver(ctx, &domain.Notification{
		ID:      uuid.New(),
		UserID:  chore.CreatedBy,
		Type:    domain.NotifCancellationRequested,
		Title:   "Cancellation requested",
		Message: message,
		ChoreID: &chore.ID,
		Link:    choreLink(chore.ID),
	})
}

func (s *service) NotifyCancellationDecided(ctx context.Context, choreID, requestID uuid.UUID) error {
	chore, err := s.choreRepo.GetByID(ctx, choreID)
	if err != nil {
		return fmt.Errorf("failed to get chore: %w", err)
	}
	req, err := s.crRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get cancellation request: %w", err)
	}

	var title, message string
	if req.Status == domain.CancellationApproved {
		title = "Cancellation approved"
		message = fmt.Sprintf("The customer approved your cancellation of %q; the chore is now cancelled", chore.Title)
	} else {
		title = "Cancellation declined"
		message = fmt.Sprintf("The customer declined your cancellation of %q; the chore stays active", chore.Title)
	}

	return s.deliver(ctx, &domain.Notification{
		ID:      uuid.New(),
		UserID:  req.RequestedBy,
		Type:    domain.NotifCancellationDecided,
		Title:   title,
		Message: message,
		ChoreID: &chore.ID,
		Link:    choreLink(chore.ID),
	})
}

func (s *service) NotifyChoreAssigned(ctx context.Context, choreID uuid.UUID) error {
	chore, err := s.choreRepo.GetByID(ctx, choreID)
	if err != nil {
		return fmt.Errorf("failed to get chore: %w", err)
	}
	if chore.AssignedWorkerID == nil {
		return nil
	}

	return s.deliver(ctx, &domain.Notification{
		ID:      uuid.New(),
		UserID:  *chore.AssignedWorkerID,
		Type:    domain.NotifChoreAssigned,
		Title:   "You got the chore",
		Message: fmt.Sprintf("You have been assigned to %q", chore.Title),
		ChoreID: &chore.ID,
		Link:    choreLink(chore.ID),
	})
}

func (s *service) NotifyChoreCompleted(ctx context.Context, choreID uuid.UUID) error {
	chore, err := s.choreRepo.GetByID(ctx, choreID)
	if err != nil {
		return fmt.Errorf("failed to get chore: %w", err)
	}

	return s.deliver(ctx, &domain.Notification{
		ID:      uuid.New(),
		UserID:  chore.CreatedBy,
		Type:    domain.NotifChoreCompleted,
		Title:   "Chore completed",
		Message: fmt.Sprintf("The worker marked %q as completed", chore.Title),
		ChoreID: &chore.ID,
		Link:    choreLink(chore.ID),
	})
}

// deliver stores the in-app record first, then routes the external copy.
// A failed or skipped external delivery never fails the notification
// itself; the dispatcher has already recorded it.
func (s *service) deliver(ctx context.Context, notif *domain.Notification) error {
	if err := s.Create(ctx, notif); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.router.Dispatch(ctx, Event{
		UserID:         notif.UserID,
		NotificationID: &notif.ID,
		Type:           notif.Type,
		Title:          notif.Title,
		Message:        notif.Message,
		Link:           notif.Link,
	})
	return nil
}

func (s *service) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, unreadCacheKey(userID)).Err()
	}
}

func unreadCacheKey(userID uuid.UUID) string {
	return "notif:unread:" + userID.String()
}

func choreLink(choreID uuid.UUID) string {
	return "/chores/" + choreID.String()
}
