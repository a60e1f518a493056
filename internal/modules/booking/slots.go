package booking

import (
	"fmt"
	"time"

	"roombooking/internal/domain"
)

// Bookable hours run 08:00 to 16:00 inclusive, one-hour slots on the hour.
const (
	firstSlotHour = 8
	lastSlotHour  = 16
	slotCount     = lastSlotHour - firstSlotHour + 1
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotPast      SlotStatus = "past"
)

type Slot struct {
	Time   string     `json:"time"`
	Status SlotStatus `json:"status"`
}

// buildSlotBoard projects the hourly slots for a room-day. A slot is booked
// when a booking starts at it; otherwise it is past when its start instant
// (in now's zone) is strictly before now. Booked wins over past.
func buildSlotBoard(date time.Time, bookings []domain.Booking, now time.Time) []Slot {
	bookedStarts := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		bookedStarts[b.StartTime] = struct{}{}
	}

	slots := make([]Slot, 0, slotCount)
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		timeStr := fmt.Sprintf("%02d:00", hour)
		slotStart := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, now.Location())

		status := SlotAvailable
		if _, taken := bookedStarts[timeStr]; taken {
			status = SlotBooked
		} else if slotStart.Before(now) {
			status = SlotPast
		}

		slots = append(slots, Slot{Time: timeStr, Status: status})
	}
	return slots
}
