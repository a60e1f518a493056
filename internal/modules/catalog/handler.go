package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"roombooking/internal/pkg/response"
	"roombooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only catalog listing.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ListRooms)
}

// RegisterAdminRoutes mounts the staff-only room management endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/rooms/", h.CreateRoom)
	rg.PUT("/admin/rooms/:roomID/", h.UpdateRoom)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListAvailableRooms(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load rooms")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var p RoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(p); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room payload", fields)
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, ErrCodeTaken) {
			response.Error(c, http.StatusConflict, "CODE_TAKEN", "Room code already in use")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create room")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	var p RoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(p); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room payload", fields)
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), roomID, p)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
		case errors.Is(err, ErrCodeTaken):
			response.Error(c, http.StatusConflict, "CODE_TAKEN", "Room code already in use")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update room")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"room": room})
}
