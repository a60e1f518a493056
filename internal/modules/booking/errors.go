package booking

import "errors"

var (
	ErrRoomNotFound            = errors.New("room not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrMissingTimeSlot         = errors.New("no time slot selected")
	ErrInvalidInput            = errors.New("invalid date or time")
	ErrPastTime                = errors.New("requested time is in the past")
	ErrAdvanceBookingForbidden = errors.New("advance booking not permitted")
	ErrSlotTaken               = errors.New("slot already booked")
	ErrUserAlreadyBooked       = errors.New("user already has a booking at this time")
)
