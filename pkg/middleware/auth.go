package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/richxcame/localeflow/pkg/common"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id
	UserIDKey = "user_id"
	// UserRoleKey is the gin context key holding the authenticated user role
	UserRoleKey = "user_role"
	// UserEmailKey is the gin context key holding the authenticated user email
	UserEmailKey = "user_email"
)

// Claims are the JWT claims issued at login
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed JWT for the given user
func GenerateToken(secret string, userID uuid.UUID, email, role string, expiration time.Duration) (string, error) {
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a JWT and returns its claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthMiddleware validates the bearer token and stores the user identity
// in the gin context. WebSocket clients may pass the token as a query
// parameter since browsers cannot set headers on WS upgrade requests.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := ParseToken(jwtSecret, tokenString)
		if err != nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}

// RequireRole allows only the listed roles past this middleware
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		common.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// GetUserID returns the authenticated user id from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserRole returns the authenticated user role from the gin context
func GetUserRole(c *gin.Context) string {
	if raw, exists := c.Get(UserRoleKey); exists {
		if role, ok := raw.(string); ok {
			return role
		}
	}
	return ""
}

// GetUserEmail returns the authenticated user email from the gin context
func GetUserEmail(c *gin.Context) string {
	if raw, exists := c.Get(UserEmailKey); exists {
		if email, ok := raw.(string); ok {
			return email
		}
	}
	return ""
}
