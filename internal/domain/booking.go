package domain

import "time"

// DateLayout and TimeLayout are the wire and storage formats for booking
// dates and slot times. Both sort lexicographically in chronological order.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking is a one-hour reservation of a room. At most one booking may exist
// per (room, booking_date, start_time); the constraint lives in the storage
// layer, not only in the validator.
type Booking struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	RoomID      int64     `json:"room_id"`
	BookingDate string    `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`

	Room *Room `json:"room,omitempty"`
}
