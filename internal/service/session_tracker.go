package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/domain/repository"
)

// SessionTracker ведет текущую категорию клиентской сессии.
// Ошибки хранилища сессий не прерывают запрос: они логируются, а чтение возвращает 0.
type SessionTracker struct {
	repo   repository.SessionRepository
	logger *zap.Logger
}

// NewSessionTracker создает трекер поверх репозитория сессий
func NewSessionTracker(repo repository.SessionRepository, logger *zap.Logger) *SessionTracker {
	return &SessionTracker{repo: repo, logger: logger}
}

// Current возвращает текущую категорию сессии (0 = все категории)
func (t *SessionTracker) Current(ctx context.Context, sessionID string) uint {
	if sessionID == "" {
		return 0
	}
	categoryID, err := t.repo.GetCurrentCategory(ctx, sessionID)
	if err != nil {
		t.logger.Warn("failed to read session", zap.String("session_id", sessionID), zap.Error(err))
		return 0
	}
	return categoryID
}

// Set делает категорию текущей для сессии
func (t *SessionTracker) Set(ctx context.Context, sessionID string, categoryID uint) {
	if sessionID == "" {
		return
	}
	if err := t.repo.SetCurrentCategory(ctx, sessionID, categoryID); err != nil {
		t.logger.Warn("failed to update session",
			zap.String("session_id", sessionID), zap.Uint("category_id", categoryID), zap.Error(err))
	}
}

// Reset возвращает сессию к "все категории"
func (t *SessionTracker) Reset(ctx context.Context, sessionID string) {
	t.Set(ctx, sessionID, 0)
}
