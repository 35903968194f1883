package api

import (
	"errors"
	"net/http"

	reqdto "mallfront/internal/handler/dto/request"
	resdto "mallfront/internal/handler/dto/response"
	"mallfront/internal/pkg/config"
	"mallfront/internal/pkg/cookie"
	"mallfront/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
	sessionCfg   config.SessionConfig
}

func NewAuthHandler(authCommands commands.AuthCommands, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
		sessionCfg:   cfg.Session,
	}
}

// @Summary Member login
// @Description Login with mall credentials; the session is kept server-side and bound to a cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	cookie.SetSessionCookie(c, h.sessionCfg, result.SessionID)

	c.JSON(http.StatusOK, resdto.LoginResponse{
		BuyerID:  result.BuyerID,
		Nickname: result.Nickname,
	})
}

// @Summary Member logout
// @Description Destroy the server-side session and clear the cookie
// @Tags auth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, ok := cookie.GetSessionID(c, h.sessionCfg); ok {
		// Best effort: an already-reaped session still logs the browser out.
		_ = h.authCommands.Logout(sid)
	}
	cookie.ClearSessionCookie(c, h.sessionCfg)
	c.Status(http.StatusNoContent)
}
