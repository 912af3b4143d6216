package movies

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

// CreateMovie handles POST /manager/movies
func (c *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := c.service.CreateMovie(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create movie", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Movie created", movie, nil)
}

// ListMovies handles GET /movies
func (c *Controller) ListMovies(ctx *gin.Context) {
	movies, err := c.service.ListMovies(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list movies", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Movies retrieved", movies, nil)
}

// GetMovie handles GET /movies/:id
func (c *Controller) GetMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	movie, err := c.service.GetMovie(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get movie", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie retrieved", movie, nil)
}

// UpdateMovie handles PUT /manager/movies/:id
func (c *Controller) UpdateMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	var req UpdateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := c.service.UpdateMovie(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update movie", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie updated", movie, nil)
}

// DeleteMovie handles DELETE /manager/movies/:id
func (c *Controller) DeleteMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
		return
	}

	if err := c.service.DeleteMovie(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete movie", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie deleted", nil, nil)
}
