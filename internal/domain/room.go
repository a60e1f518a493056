package domain

import "time"

// Room is a bookable room. Rooms are created and edited by administrators
// only; end users never create them. MaxBookingHours is carried in the model
// but not enforced by the booking validator.
type Room struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code" validate:"required,max=10"`
	Name            string    `json:"name" validate:"required,max=100"`
	Capacity        int       `json:"capacity" validate:"required,gt=0"`
	MaxBookingHours int       `json:"max_booking_hours" validate:"required,gt=0"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
