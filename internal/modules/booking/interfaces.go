package booking

import (
	"context"

	"roombooking/internal/domain"
	"roombooking/internal/repository"
)

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	ExistsForRoomSlot(ctx context.Context, roomID int64, date, start string) (bool, error)
	ExistsForUserSlot(ctx context.Context, userID int64, date, start string) (bool, error)
	ListForRoomDate(ctx context.Context, roomID int64, date string) ([]domain.Booking, error)
	ListByRoom(ctx context.Context, roomID int64) ([]domain.Booking, error)
	ListByUserWithRooms(ctx context.Context, userID int64) ([]repository.UserBookingRow, error)
	GetOwned(ctx context.Context, bookingID, userID int64) (*domain.Booking, error)
	DeleteOwned(ctx context.Context, bookingID, userID int64) (bool, error)
}

// RoomRepository defines the interface for room lookups
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// BoardNotifier receives a refreshed slot board after a booking for the room
// is created or cancelled. Wired to the live websocket hub; nil disables it.
type BoardNotifier interface {
	BoardChanged(roomID int64, date string, slots []Slot)
}
