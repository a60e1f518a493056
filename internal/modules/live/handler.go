package live

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"roombooking/internal/modules/booking"
	jwtsvc "roombooking/internal/pkg/jwt"
	"roombooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// TODO: restrict origins once the frontend host list is settled
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades room watchers to a websocket and keeps them fed with the
// slot board for their selected date. Browsers cannot set headers on
// websocket requests, so the token travels in the query string.
type Handler struct {
	hub     *Hub
	jwt     *jwtsvc.Service
	booking *booking.Service
}

func NewHandler(hub *Hub, jwt *jwtsvc.Service, bookingService *booking.Service) *Handler {
	return &Handler{
		hub:     hub,
		jwt:     jwt,
		booking: bookingService,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/room/:roomID/live", h.Watch)
}

// Watch handles GET /room/{roomID}/live?token=JWT&date=YYYY-MM-DD.
func (h *Handler) Watch(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}
	if _, err := h.jwt.ValidateToken(token); err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	roomID, err := strconv.ParseInt(c.Param("roomID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "date query parameter is required")
		return
	}

	// Validate the room and date before upgrading; an HTTP error is far
	// easier for clients to handle than a websocket close frame.
	slots, err := h.booking.SlotBoard(c.Request.Context(), roomID, date)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid date format")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load slot board")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("live: websocket upgrade failed: %v", err)
		return
	}

	sub := h.hub.Register(roomID, conn, date)

	first := boardMessage{Type: "slot_board", RoomID: roomID, Date: date, Slots: slots}
	if err := conn.WriteJSON(first); err != nil {
		h.hub.Unregister(roomID, sub)
		return
	}

	// Drain the connection; clients send nothing meaningful, the read loop
	// only detects the close.
	go func() {
		defer h.hub.Unregister(roomID, sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
