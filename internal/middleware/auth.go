package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, validator)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		setActor(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer when a token is present but lets
// anonymous requests through. Handlers see a nil actor for anonymous callers.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, validator)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		if claims != nil {
			setActor(c, claims)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, validator TokenValidator) (*types.TokenClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errInvalidAuthHeader
	}

	return validator.ValidateToken(parts[1])
}

func setActor(c *gin.Context, claims *types.TokenClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("current_user", &models.User{
		ID:       claims.UserID,
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
	})
}

// CurrentUser returns the authenticated actor, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get("current_user")
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the authenticated user id, or nil.
func CurrentUserID(c *gin.Context) *uuid.UUID {
	user := CurrentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

var errInvalidAuthHeader = errors.New("invalid authorization header format")
