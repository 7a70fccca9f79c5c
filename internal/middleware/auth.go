// Package middleware holds the gin middleware shared by all routes.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"codequest-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// userIDKey is the gin context key carrying the authenticated user id.
const userIDKey = "auth.userID"

// VerifyToken parses and validates a bearer token, mapping library errors
// onto the shared sentinel errors.
func VerifyToken(secret, tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, models.ErrTokenMalformed
		default:
			return nil, models.ErrTokenInvalid
		}
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// Auth returns the JWT-checking middleware. On success the user id is
// stored in the gin context for handlers to pick up via UserID.
func Auth(secret string, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed token header"})
			return
		}

		claims, err := VerifyToken(secret, parts[1])
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, models.ErrTokenExpired) {
				msg = "token expired"
			}
			log.Debug("Token verification failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID extracts the authenticated user id set by Auth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
