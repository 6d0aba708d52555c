package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chorelink/internal/domain"
)

// CancellationRequestRepository serves reads outside a chore transition.
// Writes only happen through ChoreTx so they always share the chore's
// transaction.
type CancellationRequestRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CancellationRequest, error)
	ListByChore(ctx context.Context, choreID uuid.UUID) ([]domain.CancellationRequest, error)
}

type cancellationRequestRepository struct {
	db *sqlx.DB
}

func NewCancellationRequestRepository(db *sqlx.DB) CancellationRequestRepository {
	return &cancellationRequestRepository{db: db}
}

func (r *cancellationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CancellationRequest, error) {
	var req domain.CancellationRequest
	query := `SELECT * FROM cancellation_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *cancellationRequestRepository) ListByChore(ctx context.Context, choreID uuid.UUID) ([]domain.CancellationRequest, error) {
	var requests []domain.CancellationRequest
	query := `
		SELECT * FROM cancellation_requests
		WHERE chore_id = $1
		ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &requests, query, choreID)
	return requests, err
}
