package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chorelink/internal/domain"
	"chorelink/internal/repository"
)

// PreferenceResolver returns a user's channel preferences, falling back
// to the hard defaults when no row exists. Every dispatch resolves a
// preference, so lookups go through a short-lived Redis cache.
type PreferenceResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
}

const prefCacheTTL = 5 * time.Minute

type preferenceResolver struct {
	prefRepo repository.PreferenceRepository
	redis    *redis.Client
}

func NewPreferenceResolver(prefRepo repository.PreferenceRepository, redisClient *redis.Client) PreferenceResolver {
	return &preferenceResolver{
		prefRepo: prefRepo,
		redis:    redisClient,
	}
}

func (r *preferenceResolver) Resolve(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	cacheKey := "notif:pref:" + userID.String()

	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var pref domain.NotificationPreference
			if json.Unmarshal([]byte(cached), &pref) == nil {
				return &pref, nil
			}
		}
	}

	pref, err := r.prefRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = domain.DefaultPreference(userID)
	}

	if r.redis != nil {
		if data, err := json.Marshal(pref); err == nil {
			_ = r.redis.Set(ctx, cacheKey, data, prefCacheTTL).Err()
		}
	}
	return pref, nil
}
