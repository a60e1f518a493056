package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roombooking/internal/database"
	"roombooking/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	notifier BoardNotifier
	clock    Clock
}

func NewService(bookings BookingRepository, rooms RoomRepository, notifier BoardNotifier, clock Clock) *Service {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		notifier: notifier,
		clock:    clock,
	}
}

// ProposeBooking runs the ordered admission checks for a booking submission.
// The first failing check decides the single rejection returned; only the
// success path mutates state. Order: missing slot, malformed input, past
// time, advance-booking rule, room conflict, user conflict.
func (s *Service) ProposeBooking(ctx context.Context, user domain.User, roomID int64, req ProposeBookingRequest) (*domain.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if req.StartTime == "" {
		return nil, ErrMissingTimeSlot
	}

	bookingDate, err := time.Parse(domain.DateLayout, req.BookingDate)
	if err != nil {
		return nil, ErrInvalidInput
	}
	startTime, err := time.Parse(domain.TimeLayout, req.StartTime)
	if err != nil {
		return nil, ErrInvalidInput
	}

	now := s.clock.Now()
	proposed := time.Date(
		bookingDate.Year(), bookingDate.Month(), bookingDate.Day(),
		startTime.Hour(), startTime.Minute(), 0, 0, now.Location(),
	)
	if proposed.Before(now) {
		return nil, ErrPastTime
	}

	dateStr := bookingDate.Format(domain.DateLayout)
	if !user.IsStaff && dateStr > now.Format(domain.DateLayout) {
		return nil, ErrAdvanceBookingForbidden
	}

	startStr := startTime.Format(domain.TimeLayout)

	taken, err := s.bookings.ExistsForRoomSlot(ctx, room.ID, dateStr, startStr)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	double, err := s.bookings.ExistsForUserSlot(ctx, user.ID, dateStr, startStr)
	if err != nil {
		return nil, err
	}
	if double {
		return nil, ErrUserAlreadyBooked
	}

	// Fixed one-hour granularity; minutes do not carry into the end time.
	b := &domain.Booking{
		UserID:      user.ID,
		RoomID:      room.ID,
		BookingDate: dateStr,
		StartTime:   startStr,
		EndTime:     fmt.Sprintf("%02d:00", startTime.Hour()+1),
		CreatedAt:   now,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		// A concurrent writer may win the slot between the existence check
		// and the insert; the unique index reports it here.
		if database.IsDuplicateKey(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	s.broadcastBoard(ctx, room.ID, dateStr)
	return b, nil
}

// RoomDetail returns the room with its slot board for the selected date.
// Staff additionally see every booking the room holds, most recent first.
func (s *Service) RoomDetail(ctx context.Context, user domain.User, roomID int64, selectedDate string) (*RoomDetail, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	detail := &RoomDetail{
		Room:  room,
		Today: now.Format(domain.DateLayout),
	}

	if selectedDate != "" {
		slots, err := s.SlotBoard(ctx, room.ID, selectedDate)
		if err != nil {
			return nil, err
		}
		detail.SelectedDate = selectedDate
		detail.Slots = slots
	}

	if user.IsStaff {
		roomBookings, err := s.bookings.ListByRoom(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		detail.RoomBookings = roomBookings
	}

	return detail, nil
}

// SlotBoard projects the hourly slot statuses for a room-day. Pure and
// display-only; it does not gate the validator.
func (s *Service) SlotBoard(ctx context.Context, roomID int64, dateStr string) ([]Slot, error) {
	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return nil, ErrInvalidInput
	}

	bookings, err := s.bookings.ListForRoomDate(ctx, roomID, date.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}

	return buildSlotBoard(date, bookings, s.clock.Now()), nil
}

// MyBookings lists the caller's bookings, date then start time descending.
func (s *Service) MyBookings(ctx context.Context, userID int64) ([]BookingDetails, error) {
	rows, err := s.bookings.ListByUserWithRooms(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingDetails, 0, len(rows))
	for _, r := range rows {
		out = append(out, BookingDetails{
			ID:          r.ID,
			RoomID:      r.RoomID,
			RoomCode:    r.RoomCode,
			RoomName:    r.RoomName,
			BookingDate: r.BookingDate,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}

// CancelBooking deletes the caller's booking. Ownership is part of the lookup
// predicate, so a booking owned by someone else is indistinguishable from a
// missing one. No time-based restriction: past bookings cancel too.
func (s *Service) CancelBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetOwned(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	deleted, err := s.bookings.DeleteOwned(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrBookingNotFound
	}

	s.broadcastBoard(ctx, b.RoomID, b.BookingDate)
	return b, nil
}

func (s *Service) broadcastBoard(ctx context.Context, roomID int64, date string) {
	if s.notifier == nil {
		return
	}
	slots, err := s.SlotBoard(ctx, roomID, date)
	if err != nil {
		return
	}
	s.notifier.BoardChanged(roomID, date, slots)
}
