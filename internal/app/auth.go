package app

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// actorKey is the gin context key carrying the authenticated identity,
// recorded as the actor on status log rows.
const actorKey = "actor"

// AuthMiddlewareFromEnv validates bearer tokens: JWTs signed with
// JWT_HMAC_SECRET, or one of the comma-separated STATIC_TOKENS (kiosk
// and display devices use static tokens and act as "device").
func AuthMiddlewareFromEnv() gin.HandlerFunc {
	staticTokens := strings.Split(strings.TrimSpace(os.Getenv("STATIC_TOKENS")), ",")
	jwtSecret := strings.TrimSpace(os.Getenv("JWT_HMAC_SECRET"))

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		if jwtSecret != "" {
			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenMalformed
				}
				return []byte(jwtSecret), nil
			}, jwt.WithLeeway(5*time.Second))
			if err == nil {
				if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
					c.Set(actorKey, sub)
				}
				c.Next()
				return
			}
		}

		for _, t := range staticTokens {
			if t != "" && tokenStr == strings.TrimSpace(t) {
				c.Set(actorKey, "device")
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}
