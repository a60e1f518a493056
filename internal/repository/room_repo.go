package repository

import (
	"context"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Code            string    `gorm:"column:code;size:10;uniqueIndex"`
	Name            string    `gorm:"column:name;size:100"`
	Capacity        int       `gorm:"column:capacity"`
	MaxBookingHours int       `gorm:"column:max_booking_hours;default:1"`
	IsAvailable     bool      `gorm:"column:is_available;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:              m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Capacity:        m.Capacity,
		MaxBookingHours: m.MaxBookingHours,
		IsAvailable:     m.IsAvailable,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:              r.ID,
		Code:            r.Code,
		Name:            r.Name,
		Capacity:        r.Capacity,
		MaxBookingHours: r.MaxBookingHours,
		IsAvailable:     r.IsAvailable,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ListAvailable returns rooms whose availability flag is set, in storage order.
func (r *RoomRepository) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	var rows []roomModel
	tx := r.db.WithContext(ctx).Where("is_available = ?", true).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

// GetByID returns a room regardless of its availability flag. Unavailability
// only hides a room from the catalog listing, not from direct access.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*room = *toDomainRoom(m)
	return nil
}

// Migrate creates the rooms table.
func (r *RoomRepository) Migrate() error {
	return r.db.AutoMigrate(&roomModel{})
}
