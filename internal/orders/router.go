package orders

import (
	"screenly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes configures order lifecycle routes. Placement,
// confirmation, cancellation and refunds accept both authenticated
// customers and guests; the order listing requires an account.
func SetupOrderRoutes(rg *gin.RouterGroup, controller *Controller) {
	orders := rg.Group("/orders")
	orders.Use(middleware.OptionalAuth())
	{
		orders.POST("", controller.PlaceOrder)              // POST /api/v1/orders
		orders.GET("/:id", controller.GetOrder)             // GET /api/v1/orders/:id
		orders.POST("/:id/confirm", controller.ConfirmPayment) // POST /api/v1/orders/:id/confirm
		orders.POST("/:id/cancel", controller.CancelPayment)   // POST /api/v1/orders/:id/cancel
		orders.POST("/:id/refund", controller.Refund)          // POST /api/v1/orders/:id/refund
	}

	mine := rg.Group("/orders")
	mine.Use(middleware.JWTAuth())
	{
		mine.GET("", controller.GetMyOrders) // GET /api/v1/orders
	}
}
