package orders

import (
	"errors"
	"net/http"

	"screenly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// purchaserFrom builds the acting principal from the request context. An
// authenticated user always acts as themselves; otherwise the guest email
// from the request body is used.
func purchaserFrom(ctx *gin.Context, guestEmail string) (Purchaser, bool) {
	if idVal, exists := ctx.Get("user_id"); exists {
		userID, err := uuid.Parse(idVal.(string))
		if err != nil {
			return Purchaser{}, false
		}
		email := ""
		if emailVal, ok := ctx.Get("user_email"); ok {
			email, _ = emailVal.(string)
		}
		return Purchaser{UserID: &userID, Email: email}, true
	}
	return Purchaser{Email: guestEmail}, true
}

// PlaceOrder handles POST /orders
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	var req PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	purchaser, ok := purchaserFrom(ctx, req.GuestEmail)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	order, err := c.service.PlaceOrder(ctx.Request.Context(), purchaser, req)
	if err != nil {
		c.respondOrderError(ctx, err, "Failed to place order")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Order placed", order, nil)
}

// GetOrder handles GET /orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid order ID", nil, nil)
		return
	}

	purchaser, ok := purchaserFrom(ctx, "")
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	order, err := c.service.GetOrder(ctx.Request.Context(), purchaser, orderID)
	if err != nil {
		c.respondOrderError(ctx, err, "Failed to get order")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Order retrieved", order, nil)
}

// GetMyOrders handles GET /orders (authenticated only)
func (c *Controller) GetMyOrders(ctx *gin.Context) {
	idVal, _ := ctx.Get("user_id")
	userID, err := uuid.Parse(idVal.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	orders, err := c.service.GetUserOrders(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list orders", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Orders retrieved", orders, nil)
}

// ConfirmPayment handles POST /orders/:id/confirm
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid order ID", nil, nil)
		return
	}

	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	purchaser, ok := purchaserFrom(ctx, req.ContactEmail)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	order, err := c.service.ConfirmPayment(ctx.Request.Context(), purchaser, orderID, req)
	if err != nil {
		c.respondOrderError(ctx, err, "Failed to confirm payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed", order, nil)
}

// CancelPayment handles POST /orders/:id/cancel
func (c *Controller) CancelPayment(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid order ID", nil, nil)
		return
	}

	purchaser, ok := purchaserFrom(ctx, "")
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	order, err := c.service.CancelPayment(ctx.Request.Context(), purchaser, orderID)
	if err != nil {
		c.respondOrderError(ctx, err, "Failed to cancel order")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Order cancelled", order, nil)
}

// Refund handles POST /orders/:id/refund
func (c *Controller) Refund(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid order ID", nil, nil)
		return
	}

	var req RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	purchaser, ok := purchaserFrom(ctx, "")
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	order, err := c.service.Refund(ctx.Request.Context(), purchaser, orderID, req)
	if err != nil {
		c.respondOrderError(ctx, err, "Failed to refund tickets")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tickets refunded", order, nil)
}

func (c *Controller) respondOrderError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSeatNotFound), errors.Is(err, ErrTicketNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrSeatUnavailable):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrValidation):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
