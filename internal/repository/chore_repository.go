package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chorelink/internal/domain"
)

// ChoreTx exposes the subordinate writes that may join a chore transition
// inside the same transaction. The row lock taken by AtomicUpdate covers
// only the one chore and its cancellation requests, so unrelated chores
// never contend.
type ChoreTx interface {
	// FindPendingCancellation returns the most recent PENDING request for
	// the chore, or nil when there is none. The row is locked until the
	// transaction ends.
	FindPendingCancellation(ctx context.Context, choreID uuid.UUID) (*domain.CancellationRequest, error)
	CreateCancellation(ctx context.Context, req *domain.CancellationRequest) error
	// ResolveCancellation resolves a still-PENDING request. It fails with
	// ErrConflict when the request was already resolved, which closes the
	// race against a concurrently superseded request.
	ResolveCancellation(ctx context.Context, id uuid.UUID, status domain.CancellationRequestStatus, resolvedAt time.Time) error
}

type ChoreRepository interface {
	Create(ctx context.Context, chore *domain.Chore) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Chore, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Chore, int64, error)
	// AtomicUpdate loads the chore under a row lock, runs fn to
	// re-validate preconditions and mutate the chore (plus any
	// cancellation-request writes through ChoreTx), then persists the
	// mutated chore. Any error from fn rolls the whole unit back.
	AtomicUpdate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, tx ChoreTx, chore *domain.Chore) error) (*domain.Chore, error)
}

type choreRepository struct {
	db *sqlx.DB
}

func NewChoreRepository(db *sqlx.DB) ChoreRepository {
	return &choreRepository{db: db}
}

func (r *choreRepository) Create(ctx context.Context, chore *domain.Chore) error {
	query := `
		INSERT INTO chores (id, created_by, title, description, budget, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		chore.ID, chore.CreatedBy, chore.Title, chore.Description,
		chore.Budget, chore.Status, chore.PaymentStatus,
	).Scan(&chore.CreatedAt, &chore.UpdatedAt)
}

func (r *choreRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chore, error) {
	var chore domain.Chore
	query := `SELECT * FROM chores WHERE id = $1`
	if err := r.db.GetContext(ctx, &chore, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &chore, nil
}

func (r *choreRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Chore, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM chores WHERE created_by = $1 OR assigned_worker_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	var chores []domain.Chore
	query := `
		SELECT * FROM chores
		WHERE created_by = $1 OR assigned_worker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &chores, query, userID, params.PageSize, params.Offset())
	return chores, total, err
}

func (r *choreRepository) AtomicUpdate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, tx ChoreTx, chore *domain.Chore) error) (*domain.Chore, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var chore domain.Chore
	if err := tx.GetContext(ctx, &chore, `SELECT * FROM chores WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := fn(ctx, &choreTx{tx: tx}, &chore); err != nil {
		return nil, err
	}

	query := `
		UPDATE chores
		SET assigned_worker_id = $2, status = $3, payment_status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	if err := tx.QueryRowxContext(ctx, query,
		chore.ID, chore.AssignedWorkerID, chore.Status, chore.PaymentStatus,
	).Scan(&chore.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &chore, nil
}

type choreTx struct {
	tx *sqlx.Tx
}

func (t *choreTx) FindPendingCancellation(ctx context.Context, choreID uuid.UUID) (*domain.CancellationRequest, error) {
	var req domain.CancellationRequest
	query := `
		SELECT * FROM cancellation_requests
		WHERE chore_id = $1 AND status = 'PENDING'
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`
	if err := t.tx.GetContext(ctx, &req, query, choreID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (t *choreTx) CreateCancellation(ctx context.Context, req *domain.CancellationRequest) error {
	query := `
		INSERT INTO cancellation_requests (id, chore_id, requested_by, original_status, reason, status, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return t.tx.QueryRowxContext(ctx, query,
		req.ID, req.ChoreID, req.RequestedBy, req.OriginalStatus,
		req.Reason, req.Status, req.ResolvedAt,
	).Scan(&req.CreatedAt)
}

func (t *choreTx) ResolveCancellation(ctx context.Context, id uuid.UUID, status domain.CancellationRequestStatus, resolvedAt time.Time) error {
	query := `
		UPDATE cancellation_requests
		SET status = $2, resolved_at = $3
		WHERE id = $1 AND status = 'PENDING'`
	res, err := t.tx.ExecContext(ctx, query, id, status, resolvedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConflict
	}
	return nil
}
