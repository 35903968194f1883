package middleware

import (
	"net/http"

	"mallfront/internal/dispatch"
	"mallfront/internal/pkg/config"
	"mallfront/internal/pkg/cookie"
	"mallfront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	registry *session.Registry
	cfg      config.SessionConfig
}

const (
	ctxSessionIDKey = "session_id"
	ctxBuyerIDKey   = "buyer_id"
)

func NewAuthMiddleware(registry *session.Registry, cfg config.SessionConfig) *AuthMiddleware {
	return &AuthMiddleware{
		registry: registry,
		cfg:      cfg,
	}
}

// RequireSession resolves the sid cookie to a live session manager and
// threads it into the request context so upstream calls are dispatched with
// the member's credentials. A missing or dead session aborts with 401; the
// browser is expected to clear local state and show the login screen.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := cookie.GetSessionID(c, m.cfg)
		if !ok {
			cookie.ClearSessionCookie(c, m.cfg)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session required",
			})
			c.Abort()
			return
		}

		entry, ok := m.registry.Get(sid)
		if !ok || entry.Manager.State() == session.StateInvalid {
			cookie.ClearSessionCookie(c, m.cfg)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired",
			})
			c.Abort()
			return
		}

		c.Set(ctxSessionIDKey, sid)
		c.Set(ctxBuyerIDKey, entry.BuyerID)
		c.Request = c.Request.WithContext(dispatch.WithSession(c.Request.Context(), entry.Manager))
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (uuid.UUID, bool) {
	sid, exists := c.Get(ctxSessionIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := sid.(uuid.UUID)
	return id, ok
}

func GetBuyerID(c *gin.Context) (string, bool) {
	buyerID, exists := c.Get(ctxBuyerIDKey)
	if !exists {
		return "", false
	}

	id, ok := buyerID.(string)
	return id, ok
}
