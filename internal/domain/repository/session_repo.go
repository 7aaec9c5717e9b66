package repository

import "context"

// SessionRepository хранит состояние клиентской сессии.
// Сейчас в сессии живет только текущая категория (0 = все категории).
type SessionRepository interface {
	// GetCurrentCategory возвращает 0, если сессия или значение отсутствуют.
	GetCurrentCategory(ctx context.Context, sessionID string) (uint, error)
	SetCurrentCategory(ctx context.Context, sessionID string, categoryID uint) error
}
