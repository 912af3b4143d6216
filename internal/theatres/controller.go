package theatres

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

// CreateTheatre handles POST /manager/theatres
func (c *Controller) CreateTheatre(ctx *gin.Context) {
	var req CreateTheatreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	theatre, err := c.service.CreateTheatre(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create theatre", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Theatre created", theatre, nil)
}

// ListTheatres handles GET /theatres
func (c *Controller) ListTheatres(ctx *gin.Context) {
	theatres, err := c.service.ListTheatres(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list theatres", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theatres retrieved", theatres, nil)
}

// GetTheatre handles GET /theatres/:id
func (c *Controller) GetTheatre(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid theatre ID", nil, nil)
		return
	}

	theatre, err := c.service.GetTheatre(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTheatreNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Theatre not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get theatre", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Theatre retrieved", theatre, nil)
}

// CreateHall handles POST /manager/theatres/:id/halls
func (c *Controller) CreateHall(ctx *gin.Context) {
	theatreID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid theatre ID", nil, nil)
		return
	}

	var req CreateHallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	hall, err := c.service.CreateHall(ctx.Request.Context(), theatreID, req)
	if err != nil {
		if errors.Is(err, ErrTheatreNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Theatre not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create hall", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Hall created", hall, nil)
}

// CreateSeatType handles POST /manager/seat-types
func (c *Controller) CreateSeatType(ctx *gin.Context) {
	var req CreateSeatTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	seatType, err := c.service.CreateSeatType(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create seat type", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seat type created", seatType, nil)
}

// ListSeatTypes handles GET /manager/seat-types
func (c *Controller) ListSeatTypes(ctx *gin.Context) {
	seatTypes, err := c.service.ListSeatTypes(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list seat types", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seat types retrieved", seatTypes, nil)
}
