package api

import (
	"errors"
	"net/http"

	reqdto "mallfront/internal/handler/dto/request"
	resdto "mallfront/internal/handler/dto/response"
	"mallfront/internal/handler/middleware"
	"mallfront/internal/session"
	"mallfront/internal/usecase/commands"
	"mallfront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartCommands commands.CartCommands
	cartQueries  queries.CartQueries
}

func NewCartHandler(cartCommands commands.CartCommands, cartQueries queries.CartQueries) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
		cartQueries:  cartQueries,
	}
}

// @Summary Get cart
// @Description Get the member's cart with line subtotals
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartQueries.GetCart(c.Request.Context())
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}

	response, err := resdto.FromCartView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Change cart line
// @Description Set a cart line's quantity; qty 0 removes the line
// @Tags cart
// @Accept json
// @Param request body reqdto.CartChangeRequest true "Cart change request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /cart/lines [post]
func (h *CartHandler) ChangeLine(c *gin.Context) {
	buyerID, ok := middleware.GetBuyerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CartChangeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.cartCommands.SetLine(c.Request.Context(), buyerID, req.ProductID, req.Qty); err != nil {
		h.writeUpstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) writeUpstreamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrAuthExpired):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session expired",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
