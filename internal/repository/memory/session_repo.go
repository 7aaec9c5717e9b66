package memory

import (
	"context"
	"sync"
	"time"
)

type sessionEntry struct {
	currentCategory uint
	expiresAt       time.Time
}

// SessionRepo хранит сессии в памяти процесса.
// Используется, когда Redis отключен (локальная разработка, один инстанс).
type SessionRepo struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]sessionEntry
	now      func() time.Time
}

// NewSessionRepo создает in-memory репозиторий сессий. ttl <= 0 отключает истечение.
func NewSessionRepo(ttl time.Duration) *SessionRepo {
	return &SessionRepo{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// GetCurrentCategory возвращает текущую категорию сессии
func (r *SessionRepo) GetCurrentCategory(_ context.Context, sessionID string) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[sessionID]
	if !ok {
		return 0, nil
	}
	if r.ttl > 0 && r.now().After(entry.expiresAt) {
		delete(r.sessions, sessionID)
		return 0, nil
	}
	return entry.currentCategory, nil
}

// SetCurrentCategory сохраняет текущую категорию и продлевает сессию
func (r *SessionRepo) SetCurrentCategory(_ context.Context, sessionID string, categoryID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = sessionEntry{
		currentCategory: categoryID,
		expiresAt:       r.now().Add(r.ttl),
	}
	return nil
}

// Cleanup удаляет истекшие сессии и возвращает их количество
func (r *SessionRepo) Cleanup() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, entry := range r.sessions {
		if now.After(entry.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
