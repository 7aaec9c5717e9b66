package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionContextKey: ключ контекста Gin, под которым лежит id сессии
const SessionContextKey = "sessionID"

// SessionConfig содержит параметры cookie сессии
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   http.SameSite
}

// Session выдает клиенту cookie с id сессии и кладет id в контекст.
// Само состояние сессии хранится на сервере (Redis или память), в cookie только UUID.
func Session(cfg SessionConfig) gin.HandlerFunc {
	maxAge := int(cfg.TTL.Seconds())
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || !isValidSessionID(sessionID) {
			sessionID = uuid.NewString()
		}

		// Cookie переустанавливается на каждом запросе, чтобы продлевать срок жизни
		c.SetSameSite(cfg.SameSite)
		c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.Secure, true)

		c.Set(SessionContextKey, sessionID)
		c.Next()
	}
}

// SessionID возвращает id сессии текущего запроса или пустую строку
func SessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}

func isValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
