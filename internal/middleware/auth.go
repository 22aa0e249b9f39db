package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// ErrMissingAuthHeader marks a request without an Authorization header.
var ErrMissingAuthHeader = errors.New("missing Authorization header")

// Auth returns a middleware that requires a valid JWT and stores the
// authenticated user id in the gin context under "user_id".
func Auth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, ErrMissingAuthHeader) {
				logrus.Warn("Auth middleware: Missing Authorization header")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			} else {
				logrus.WithError(err).Warn("Auth middleware: Error extracting token")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			}
			c.Abort()
			return
		}

		userID, err := ParseUserID(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: Invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		logrus.WithField("user_id", userID).Debug("Auth middleware: User authenticated via JWT")
		c.Next()
	}
}

// OptionalAuth resolves a user id when a token is present but lets
// anonymous requests through with user_id 0. Used on the websocket
// endpoint, where unauthenticated collaborators are allowed.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for OptionalAuth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			// Websocket clients cannot set headers; accept a query token.
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.Set("user_id", uint(0))
			c.Next()
			return
		}

		userID, err := ParseUserID(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Debug("OptionalAuth: invalid token, treating as anonymous")
			c.Set("user_id", uint(0))
			c.Next()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// UserID reads the authenticated user id set by Auth/OptionalAuth.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// ParseUserID validates a signed token and extracts the user_id claim.
func ParseUserID(tokenStr, secret string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token or claims type")
	}

	// JWT numbers decode as float64.
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
		return 0, errors.New("user_id claim is not a valid positive integer")
	}
	return uint(userIDFloat), nil
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}
