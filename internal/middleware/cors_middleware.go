package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	allowHeaders = "Content-Type,Authorization,true"
	allowMethods = "POST,GET,PUT,DELETE,OPTIONS"
)

// CORS разрешает любые origin для путей с префиксом pathPrefix (обычно "/api/")
// и добавляет заголовки Allow-Headers/Allow-Methods к каждому ответу.
func CORS(pathPrefix string) gin.HandlerFunc {
	corsHandler := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    strings.Split(allowMethods, ","),
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	})

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Allow-Methods", allowMethods)

		if strings.HasPrefix(c.Request.URL.Path, pathPrefix) {
			corsHandler(c)
			return
		}
		c.Next()
	}
}
