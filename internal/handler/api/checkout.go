package api

import (
	"errors"
	"net/http"

	"mallfront/internal/domain/checkout"
	reqdto "mallfront/internal/handler/dto/request"
	resdto "mallfront/internal/handler/dto/response"
	"mallfront/internal/handler/middleware"
	"mallfront/internal/session"
	"mallfront/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	purchaseCommands commands.PurchaseCommands
}

func NewCheckoutHandler(purchaseCommands commands.PurchaseCommands) *CheckoutHandler {
	return &CheckoutHandler{
		purchaseCommands: purchaseCommands,
	}
}

// @Summary Purchase
// @Description Run payment and the dependent order, collection and cart steps
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.PurchaseRequest true "Purchase request"
// @Success 200 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 402 {object} resdto.PurchaseResponse
// @Failure 422 {object} map[string]string
// @Router /checkout [post]
func (h *CheckoutHandler) Purchase(c *gin.Context) {
	buyerID, ok := middleware.GetBuyerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.PurchaseRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	intent, err := req.ToDomain(buyerID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrAmountMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Total amount does not match line items",
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid purchase data",
			})
		}
		return
	}

	rec, err := h.purchaseCommands.Purchase(c.Request.Context(), intent)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrAuthExpired):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired",
			})
		case errors.Is(err, commands.ErrGatewayInterrupted):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment gateway unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := resdto.FromSagaRecord(rec)

	// A declined or cancelled payment is a terminal answer, not a server
	// error. Anything past a confirmed payment reports 200 with the record;
	// the buyer's money has moved and must never look like a payment failure.
	status := http.StatusOK
	if rec.Status == checkout.StatusFailed {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, response)
}
