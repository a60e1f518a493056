package repository

import (
	"context"
	"time"

	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// The composite unique index is the authority on slot ownership: two
// concurrent writers can both pass the existence check, but only one insert
// survives. The loser gets a duplicate-key error that the booking service
// maps back to a slot-taken rejection.
type bookingModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;index"`
	RoomID      int64     `gorm:"column:room_id;uniqueIndex:idx_room_slot"`
	BookingDate string    `gorm:"column:booking_date;size:10;uniqueIndex:idx_room_slot;index:idx_user_slot"`
	StartTime   string    `gorm:"column:start_time;size:5;uniqueIndex:idx_room_slot;index:idx_user_slot"`
	EndTime     string    `gorm:"column:end_time;size:5"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:          m.ID,
		UserID:      m.UserID,
		RoomID:      m.RoomID,
		BookingDate: m.BookingDate,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		CreatedAt:   m.CreatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:          b.ID,
		UserID:      b.UserID,
		RoomID:      b.RoomID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		CreatedAt:   b.CreatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) ExistsForRoomSlot(ctx context.Context, roomID int64, date, start string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("room_id = ? AND booking_date = ? AND start_time = ?", roomID, date, start).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// ExistsForUserSlot reports whether the user already holds a booking at the
// given date and start time in any room.
func (r *BookingRepository) ExistsForUserSlot(ctx context.Context, userID int64, date, start string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("user_id = ? AND booking_date = ? AND start_time = ?", userID, date, start).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// UserBookingRow is a booking joined with the room it reserves, for the
// my-bookings listing.
type UserBookingRow struct {
	ID          int64     `gorm:"column:id"`
	RoomID      int64     `gorm:"column:room_id"`
	RoomCode    string    `gorm:"column:room_code"`
	RoomName    string    `gorm:"column:room_name"`
	BookingDate string    `gorm:"column:booking_date"`
	StartTime   string    `gorm:"column:start_time"`
	EndTime     string    `gorm:"column:end_time"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// ListByUserWithRooms returns the user's bookings ordered most recent first,
// each joined with its room.
func (r *BookingRepository) ListByUserWithRooms(ctx context.Context, userID int64) ([]UserBookingRow, error) {
	q := `
SELECT b.id, b.room_id, r.code AS room_code, r.name AS room_name,
       b.booking_date, b.start_time, b.end_time, b.created_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE b.user_id = ?
ORDER BY b.booking_date DESC, b.start_time DESC
`
	var rows []UserBookingRow
	tx := r.db.WithContext(ctx).Raw(q, userID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// ListByRoom returns every booking for a room ordered most recent first.
// Only surfaced to staff.
func (r *BookingRepository) ListByRoom(ctx context.Context, roomID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("booking_date DESC, start_time DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// ListForRoomDate returns the bookings for a room on a single date, used by
// the slot-board projection.
func (r *BookingRepository) ListForRoomDate(ctx context.Context, roomID int64, date string) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("room_id = ? AND booking_date = ?", roomID, date).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// GetOwned looks a booking up with ownership in the query predicate, so a
// caller can never learn that another user's booking exists.
func (r *BookingRepository) GetOwned(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// DeleteOwned removes a booking scoped by owner and reports whether a row
// was actually deleted.
func (r *BookingRepository) DeleteOwned(ctx context.Context, bookingID, userID int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookingID, userID).
		Delete(&bookingModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

// Migrate creates the bookings table with the composite unique index.
func (r *BookingRepository) Migrate() error {
	return r.db.AutoMigrate(&bookingModel{})
}
