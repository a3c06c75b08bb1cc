// session.go provides session-token authentication middleware.
//
// There are no user accounts: creating a session returns a signed token
// scoped to that one session, and every session route requires it. The
// token proves the caller created the session — it does not identify a
// person.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
)

const sessionContextKey = "session"

// SessionClaims extends standard JWT claims with the session binding.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	Tool      string `json:"tool"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a signed token for a newly created session.
// The token lives slightly longer than the session itself so an expired
// session fails with "session not found" rather than a confusing 401.
func GenerateSessionToken(sessionID, tool, secret string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		Tool:      tool,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl + time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates and parses a session token string.
func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// SessionAuth returns middleware that validates Bearer session tokens and
// resolves the live session. It sets the session in the context.
func SessionAuth(store *session.Store, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or invalid Authorization header. Use 'Bearer <token>'",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ParseSessionToken(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		s, ok := store.Get(claims.SessionID)
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "session_not_found",
				Message: "Session expired or was never created. Start a new session.",
				Code:    http.StatusNotFound,
			})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// GetSession retrieves the authenticated session from the request context.
func GetSession(c *gin.Context) *session.Session {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	s, ok := val.(*session.Session)
	if !ok {
		return nil
	}
	return s
}
