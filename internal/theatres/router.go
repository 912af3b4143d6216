package theatres

import (
	"screenly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTheatreRoutes configures theatre management routes
func SetupTheatreRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse theatres
	public := rg.Group("/theatres")
	{
		public.GET("", controller.ListTheatres)    // GET /api/v1/theatres
		public.GET("/:id", controller.GetTheatre) // GET /api/v1/theatres/:id
	}

	// Manager routes - hall and pricing-tier setup
	manager := rg.Group("/manager")
	manager.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		manager.POST("/theatres", controller.CreateTheatre)          // POST /api/v1/manager/theatres
		manager.POST("/theatres/:id/halls", controller.CreateHall)   // POST /api/v1/manager/theatres/:id/halls
		manager.POST("/seat-types", controller.CreateSeatType)       // POST /api/v1/manager/seat-types
		manager.GET("/seat-types", controller.ListSeatTypes)         // GET /api/v1/manager/seat-types
	}
}
