package sessions

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

// ScheduleSession handles POST /manager/sessions
func (c *Controller) ScheduleSession(ctx *gin.Context) {
	userIDStr, _ := ctx.Get("user_id")
	createdBy, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user identity", nil, nil)
		return
	}

	var req ScheduleSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	session, err := c.service.ScheduleSession(ctx.Request.Context(), createdBy, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMovieNotFound), errors.Is(err, ErrHallNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrPastSession):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to schedule session", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Session scheduled", session, nil)
}

// ListUpcoming handles GET /sessions
func (c *Controller) ListUpcoming(ctx *gin.Context) {
	if movieIDStr := ctx.Query("movie_id"); movieIDStr != "" {
		movieID, err := uuid.Parse(movieIDStr)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid movie ID", nil, nil)
			return
		}
		sessions, err := c.service.ListUpcomingByMovie(ctx.Request.Context(), movieID)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list sessions", nil, nil)
			return
		}
		response.RespondJSON(ctx, "success", http.StatusOK, "Sessions retrieved", sessions, nil)
		return
	}

	sessions, err := c.service.ListUpcoming(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list sessions", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Sessions retrieved", sessions, nil)
}

// GetSession handles GET /sessions/:id
func (c *Controller) GetSession(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid session ID", nil, nil)
		return
	}

	session, err := c.service.GetSession(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Session not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get session", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Session retrieved", session, nil)
}

// GetSeatMap handles GET /sessions/:id/seats
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid session ID", nil, nil)
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Session not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to compute seat map", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved", seatMap, nil)
}
