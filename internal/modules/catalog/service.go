package catalog

import (
	"context"
	"errors"

	"roombooking/internal/database"
	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	rooms RoomRepository
}

func NewService(rooms RoomRepository) *Service {
	return &Service{rooms: rooms}
}

// ListAvailableRooms returns the bookable catalog: rooms with the
// availability flag set, in storage order.
func (s *Service) ListAvailableRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListAvailable(ctx)
}

// GetRoom returns a room by id. Unavailable rooms are retrievable too; the
// flag only hides them from the listing.
func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// CreateRoom adds a room to the catalog. Admin only; end users never create
// rooms.
func (s *Service) CreateRoom(ctx context.Context, p RoomPayload) (*domain.Room, error) {
	room := &domain.Room{
		Code:            p.Code,
		Name:            p.Name,
		Capacity:        p.Capacity,
		MaxBookingHours: p.MaxBookingHours,
		IsAvailable:     true,
	}
	if room.MaxBookingHours == 0 {
		room.MaxBookingHours = 1
	}
	if p.IsAvailable != nil {
		room.IsAvailable = *p.IsAvailable
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, p RoomPayload) (*domain.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Code = p.Code
	room.Name = p.Name
	room.Capacity = p.Capacity
	if p.MaxBookingHours > 0 {
		room.MaxBookingHours = p.MaxBookingHours
	}
	if p.IsAvailable != nil {
		room.IsAvailable = *p.IsAvailable
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return room, nil
}
