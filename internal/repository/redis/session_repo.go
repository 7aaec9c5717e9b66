package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

const (
	sessionKeyPrefix     = "session:"
	currentCategoryField = "current_category"
)

// SessionRepo реализует repository.SessionRepository поверх Redis.
// Сессия хранится в хеше session:<id>, TTL продлевается при каждой записи.
type SessionRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSessionRepo создает новый репозиторий сессий и возвращает ошибку при проблемах
func NewSessionRepo(client redis.UniversalClient, ttl time.Duration) (*SessionRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for SessionRepo")
	}
	return &SessionRepo{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// GetCurrentCategory возвращает текущую категорию сессии
func (r *SessionRepo) GetCurrentCategory(ctx context.Context, sessionID string) (uint, error) {
	val, err := r.client.HGet(ctx, sessionKey(sessionID), currentCategoryField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get session %s: %w: %v", sessionID, apperrors.ErrStorage, err)
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		// Битое значение трактуем как "все категории"
		return 0, nil
	}
	return uint(id), nil
}

// SetCurrentCategory сохраняет текущую категорию и продлевает сессию
func (r *SessionRepo) SetCurrentCategory(ctx context.Context, sessionID string, categoryID uint) error {
	key := sessionKey(sessionID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, currentCategoryField, categoryID)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set session %s: %w: %v", sessionID, apperrors.ErrStorage, err)
	}
	return nil
}
