package routes

import (
	"net/http"
	"time"

	"screenly/internal/auth"
	"screenly/internal/movies"
	"screenly/internal/orders"
	"screenly/internal/sessions"
	"screenly/internal/shared/config"
	"screenly/internal/shared/database"
	"screenly/internal/sweeper"
	"screenly/internal/theatres"
	"screenly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	log      *logger.Logger
	notifier orders.Notifier

	// services shared across feature packages
	movieService   movies.Service
	theatreService theatres.Service
	sessionService sessions.Service
	orderService   orders.Service
	orderRepo      orders.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier orders.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		log:      logger.GetDefault(),
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupTheatreRoutes(api)
		r.setupMovieRoutes(api)
		r.setupSessionRoutes(api)
		r.setupOrderRoutes(api)
	}
}

// OrderRepository exposes the order repository for the sweep loop
func (r *Router) OrderRepository() sweeper.Store {
	return r.orderRepo
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "screenly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "screenly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController)
}

func (r *Router) setupTheatreRoutes(rg *gin.RouterGroup) {
	theatreRepo := theatres.NewRepository(r.db.PostgreSQL)
	r.theatreService = theatres.NewService(theatreRepo)
	theatreController := theatres.NewController(r.theatreService)

	theatres.SetupTheatreRoutes(rg, theatreController)
}

func (r *Router) setupMovieRoutes(rg *gin.RouterGroup) {
	movieRepo := movies.NewRepository(r.db.PostgreSQL)
	r.movieService = movies.NewService(movieRepo)
	movieController := movies.NewController(r.movieService)

	movies.SetupMovieRoutes(rg, movieController)
}

func (r *Router) setupSessionRoutes(rg *gin.RouterGroup) {
	sessionRepo := sessions.NewRepository(r.db.PostgreSQL)
	r.sessionService = sessions.NewService(sessionRepo, r.movieService, r.theatreService)
	sessionController := sessions.NewController(r.sessionService)

	sessions.SetupSessionRoutes(rg, sessionController)
}

func (r *Router) setupOrderRoutes(rg *gin.RouterGroup) {
	r.orderRepo = orders.NewRepository(r.db.PostgreSQL)
	r.orderService = orders.NewService(
		r.orderRepo,
		r.sessionService,
		r.theatreService,
		r.notifier,
		r.config.Booking,
		r.log,
	)
	orderController := orders.NewController(r.orderService)

	orders.SetupOrderRoutes(rg, orderController)
}
