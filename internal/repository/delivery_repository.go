package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chorelink/internal/domain"
)

// DeliveryRepository is the append-only ledger of external-delivery
// attempts. Rows are never updated or deleted.
type DeliveryRepository interface {
	Append(ctx context.Context, delivery *domain.NotificationDelivery) error
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.NotificationDelivery, int64, error)
}

type deliveryRepository struct {
	db *sqlx.DB
}

func NewDeliveryRepository(db *sqlx.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Append(ctx context.Context, delivery *domain.NotificationDelivery) error {
	query := `
		INSERT INTO notification_deliveries (id, notification_id, user_id, provider, status, response, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		delivery.ID, delivery.NotificationID, delivery.UserID, delivery.Provider,
		delivery.Status, delivery.Response, delivery.RetryCount,
	).Scan(&delivery.CreatedAt)
}

func (r *deliveryRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.NotificationDelivery, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM notification_deliveries WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	var deliveries []domain.NotificationDelivery
	query := `
		SELECT * FROM notification_deliveries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &deliveries, query, userID, params.PageSize, params.Offset())
	return deliveries, total, err
}
