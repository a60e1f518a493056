package domain

// User is the request principal derived from the identity service's token
// claims. Users are owned by the external identity service and are never
// persisted here; bookings reference them by id only.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}
