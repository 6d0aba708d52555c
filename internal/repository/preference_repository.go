package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chorelink/internal/domain"
)

// PreferenceRepository reads notification channel preferences. Account
// settings own the writes.
type PreferenceRepository interface {
	// GetByUser returns nil when the user has no stored preference.
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	var pref domain.NotificationPreference
	query := `SELECT * FROM notification_preferences WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &pref, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}
