package cookie

import (
	"net/http"

	"mallfront/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SetSessionCookie binds the browser to its server-side session manager. The
// cookie carries only the opaque id; tokens never leave the server.
func SetSessionCookie(c *gin.Context, cfg config.SessionConfig, sessionID uuid.UUID) {
	c.SetSameSite(http.SameSiteLaxMode)

	c.SetCookie(
		cfg.CookieName,
		sessionID.String(),
		int(cfg.IdleTimeout.Seconds()),
		"/",
		cfg.CookieDomain,
		cfg.CookieSecure,
		true, // HttpOnly
	)
}

func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)

	c.SetCookie(
		cfg.CookieName,
		"",
		-1,
		"/",
		cfg.CookieDomain,
		cfg.CookieSecure,
		true,
	)
}

func GetSessionID(c *gin.Context, cfg config.SessionConfig) (uuid.UUID, bool) {
	raw, err := c.Cookie(cfg.CookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
