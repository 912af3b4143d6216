package sessions

import (
	"screenly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSessionRoutes configures session browsing and scheduling routes
func SetupSessionRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - browsing sessions and seat maps needs no account
	public := rg.Group("/sessions")
	{
		public.GET("", controller.ListUpcoming)         // GET /api/v1/sessions?movie_id=...
		public.GET("/:id", controller.GetSession)       // GET /api/v1/sessions/:id
		public.GET("/:id/seats", controller.GetSeatMap) // GET /api/v1/sessions/:id/seats
	}

	// Manager routes - scheduling
	manager := rg.Group("/manager/sessions")
	manager.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		manager.POST("", controller.ScheduleSession) // POST /api/v1/manager/sessions
	}
}
