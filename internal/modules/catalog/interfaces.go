package catalog

import (
	"context"

	"roombooking/internal/domain"
)

// RoomRepository defines the interface for room storage
type RoomRepository interface {
	ListAvailable(ctx context.Context) ([]domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
}
