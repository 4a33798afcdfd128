package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/uapconnect/backend/internal/auth"
	"github.com/uapconnect/backend/internal/profiles"
	"go.uber.org/zap"
)

const identityContextKey = "alumni_identity"

var errInvalidAuthorization = errors.New("authorization header missing or invalid")

// authorizeRequest validates the bearer credential and attaches the verified
// identity to the request context. Guarded handlers never run without it.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: errInvalidAuthorization.Error()})
		return
	}
	identity, err := h.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Info("token validation failed", zap.Error(err))
		} else {
			h.logger.Warn("token validation failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: "unauthorized"})
		return
	}
	c.Set(identityContextKey, identity)
	c.Next()
}

// requireAdmin passes callers whose role clears the moderation threshold.
// A role-resolution fault is a 500, never a 403: "could not determine role"
// must not read as "role insufficient".
func (h *httpHandler) requireAdmin(c *gin.Context) {
	h.requireRole(c, func(role profiles.Role) bool { return role.IsAtLeastAdmin() }, "admin access required")
}

// requireSuperAdmin passes only super admins.
func (h *httpHandler) requireSuperAdmin(c *gin.Context) {
	h.requireRole(c, func(role profiles.Role) bool { return role == profiles.RoleSuperAdmin }, "super admin access required")
}

func (h *httpHandler) requireRole(c *gin.Context, allowed func(profiles.Role) bool, denial string) {
	identity, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: "authentication required"})
		return
	}

	role, err := h.roles.RoleOf(c.Request.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("role resolution failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Success: false, Error: genericServerError})
		return
	}
	if !allowed(role) {
		c.AbortWithStatusJSON(http.StatusForbidden, envelope{Success: false, Error: denial})
		return
	}
	c.Next()
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	if !ok || identity.UserID == "" {
		return auth.Identity{}, false
	}
	return identity, true
}

// mustIdentity aborts with 401 when no verified identity is attached.
func mustIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Error: "authentication required"})
	}
	return identity, ok
}
