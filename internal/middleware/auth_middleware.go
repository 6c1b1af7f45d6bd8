package middleware

import (
	"log"
	"net/http"
	"strings"

	"latribu-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// bearer достаёт токен из заголовка Authorization; ok=false при неверном формате.
// Браузер не может задать заголовок для WebSocket, поэтому принимается и ?token=
func bearer(c *gin.Context) (token string, present bool, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if t := c.Query("token"); t != "" {
			return t, true, true
		}
		return "", false, true
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true, false
	}
	return parts[1], true, true
}

// OptionalJWT проставляет user_id и role, если передан валидный токен.
// Без токена запрос проходит анонимно: поиск публичный, авторизация нужна только для оформления.
func OptionalJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, ok := bearer(c)
		if !present {
			c.Next()
			return
		}
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Formato de token inválido"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, token)
		if err != nil {
			log.Printf("[auth] недействительный токен: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin пропускает только токены с ролью admin
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, ok := bearer(c)
		if !present {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Falta el token de autorización"})
			c.Abort()
			return
		}
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Formato de token inválido"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			c.Abort()
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Acceso solo para administradores"})
			c.Abort()
			return
		}

		c.Set("user_id", uint(0)) // Для админа устанавливаем user_id = 0
		c.Set("role", utils.RoleAdmin)
		c.Next()
	}
}

// RequestID пробрасывает X-Request-ID или генерирует новый
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// UserID возвращает id авторизованного пассажира или 0
func UserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
