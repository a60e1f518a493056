package booking

import (
	"time"

	"roombooking/internal/domain"
)

// ProposeBookingRequest carries the raw form submission. The strings stay
// unparsed so the validator can tell an absent time slot from a malformed one.
type ProposeBookingRequest struct {
	BookingDate string `form:"booking_date"`
	StartTime   string `form:"start_time"`
}

// RoomDetail is the room page payload: the room, the slot board for the
// selected date, and (for staff only) every booking the room holds.
type RoomDetail struct {
	Room         *domain.Room     `json:"room"`
	Today        string           `json:"today"`
	SelectedDate string           `json:"selected_date,omitempty"`
	Slots        []Slot           `json:"slots"`
	RoomBookings []domain.Booking `json:"room_bookings,omitempty"`
}

type BookingDetails struct {
	ID          int64     `json:"id"`
	RoomID      int64     `json:"room_id"`
	RoomCode    string    `json:"room_code"`
	RoomName    string    `json:"room_name"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}
