package movies

import (
	"screenly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMovieRoutes configures catalog routes
func SetupMovieRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse the catalog
	public := rg.Group("/movies")
	{
		public.GET("", controller.ListMovies)   // GET /api/v1/movies
		public.GET("/:id", controller.GetMovie) // GET /api/v1/movies/:id
	}

	// Manager routes - catalog management
	manager := rg.Group("/manager/movies")
	manager.Use(middleware.JWTAuth(), middleware.RequireManager())
	{
		manager.POST("", controller.CreateMovie)       // POST /api/v1/manager/movies
		manager.PUT("/:id", controller.UpdateMovie)    // PUT /api/v1/manager/movies/:id
		manager.DELETE("/:id", controller.DeleteMovie) // DELETE /api/v1/manager/movies/:id
	}
}
