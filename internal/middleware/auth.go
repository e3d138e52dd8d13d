package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"artistic-unity-backend/internal/models"
)

const (
	AdminSubjectKey = "admin_subject"
	adminRole       = "admin"
)

// AdminAuth accepts HS256 bearer tokens signed with secret whose "role"
// claim is "admin". The token subject is stored under AdminSubjectKey.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			unauthorized(c, "empty token")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			if secret == "" {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			var msg string
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				msg = "token has expired"
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				msg = "token signature is invalid"
			case errors.Is(err, jwt.ErrTokenMalformed):
				msg = "token is malformed"
			default:
				msg = "invalid token"
			}
			unauthorized(c, msg)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			unauthorized(c, "invalid token claims")
			return
		}

		if role, _ := claims["role"].(string); role != adminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.FailureResponse{
				Success: false,
				Message: "Forbidden",
				Error:   "admin role required",
			})
			return
		}

		sub, _ := claims.GetSubject()
		c.Set(AdminSubjectKey, sub)
		c.Next()
	}
}

func unauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.FailureResponse{
		Success: false,
		Message: "Unauthorized",
		Error:   detail,
	})
}
