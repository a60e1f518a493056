package booking

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"roombooking/internal/middleware"
	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the session-required endpoints onto the
// authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/room/:roomID/", h.RoomDetail)
	rg.POST("/room/:roomID/", h.CreateBooking)
	rg.GET("/my_bookings/", h.MyBookings)
	rg.POST("/booking/cancel/:bookingID/", h.CancelBooking)
}

func (h *Handler) RoomDetail(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	user := middleware.CurrentUser(c)
	detail, err := h.service.RoomDetail(c.Request.Context(), user, roomID, c.Query("date"))
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
		case errors.Is(err, ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid date format")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load room")
		}
		return
	}

	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	req := ProposeBookingRequest{
		BookingDate: c.PostForm("booking_date"),
		StartTime:   c.PostForm("start_time"),
	}

	user := middleware.CurrentUser(c)
	b, err := h.service.ProposeBooking(c.Request.Context(), user, roomID, req)
	if err != nil {
		h.rejectProposal(c, roomID, req, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"data":     gin.H{"booking": b},
		"redirect": "/my_bookings/",
	})
}

// rejectProposal maps a validator rejection onto the error envelope. The
// redirect sends the client back to the originating form, keeping the
// selected date so the user does not lose context.
func (h *Handler) rejectProposal(c *gin.Context, roomID int64, req ProposeBookingRequest, err error) {
	formURL := fmt.Sprintf("/room/%d/", roomID)
	withDate := formURL
	if req.BookingDate != "" {
		withDate = formURL + "?date=" + url.QueryEscape(req.BookingDate)
	}

	switch {
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	case errors.Is(err, ErrMissingTimeSlot):
		response.Rejected(c, http.StatusBadRequest, "MISSING_TIME_SLOT", "Please choose a time slot", withDate)
	case errors.Is(err, ErrInvalidInput):
		response.Rejected(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid date or time", formURL)
	case errors.Is(err, ErrPastTime):
		response.Rejected(c, http.StatusUnprocessableEntity, "PAST_TIME", "Cannot book a time in the past", withDate)
	case errors.Is(err, ErrAdvanceBookingForbidden):
		response.Rejected(c, http.StatusUnprocessableEntity, "ADVANCE_BOOKING_FORBIDDEN", "You are not permitted to book in advance", withDate)
	case errors.Is(err, ErrSlotTaken):
		response.Rejected(c, http.StatusConflict, "SLOT_TAKEN", "Sorry, this slot was just booked", withDate)
	case errors.Is(err, ErrUserAlreadyBooked):
		response.Rejected(c, http.StatusConflict, "USER_ALREADY_BOOKED", "You already have a booking at this time", withDate)
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
	}
}

func (h *Handler) MyBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	bookings, err := h.service.MyBookings(c.Request.Context(), user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := h.service.CancelBooking(c.Request.Context(), user.ID, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": "/my_bookings/",
	})
}
