package catalog

// RoomPayload is the admin room-management submission. IsAvailable defaults
// to true on create so a new room shows up in the catalog immediately.
type RoomPayload struct {
	Code            string `json:"code" validate:"required,max=10"`
	Name            string `json:"name" validate:"required,max=100"`
	Capacity        int    `json:"capacity" validate:"required,gt=0"`
	MaxBookingHours int    `json:"max_booking_hours" validate:"omitempty,gt=0"`
	IsAvailable     *bool  `json:"is_available"`
}
