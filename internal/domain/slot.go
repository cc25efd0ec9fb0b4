package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// SlotStatus represents the derived availability status of a slot
type SlotStatus string

const (
	SlotStatusAvailable  SlotStatus = "available"
	SlotStatusAlmostFull SlotStatus = "almost_full"
	SlotStatusFull       SlotStatus = "full"
	SlotStatusBlocked    SlotStatus = "blocked"
)

// Slot represents a bookable time slot with bounded capacity
type Slot struct {
	ID              int64
	EstablishmentID int64
	Date            time.Time
	StartTime       types.TimeString
	Capacity        int
	Occupied        int
	Blocked         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status derives the availability status from the raw fields.
// Blocked wins over everything else; a blocked slot never accepts
// reservations regardless of remaining capacity.
func (s *Slot) Status() SlotStatus {
	switch {
	case s.Blocked:
		return SlotStatusBlocked
	case s.Occupied >= s.Capacity:
		return SlotStatusFull
	case float64(s.Occupied) >= float64(s.Capacity)*AlmostFullThreshold:
		return SlotStatusAlmostFull
	default:
		return SlotStatusAvailable
	}
}

// IsFull returns true if the slot has no remaining capacity
func (s *Slot) IsFull() bool {
	return s.Occupied >= s.Capacity
}

// AcceptsReservations returns true if the slot can take one more order
func (s *Slot) AcceptsReservations() bool {
	return !s.Blocked && !s.IsFull()
}

// RemainingSpots returns the number of free spots, floored at 0
func (s *Slot) RemainingSpots() int {
	remaining := s.Capacity - s.Occupied
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SlotUpdate partial update of slot fields; nil fields are left untouched
type SlotUpdate struct {
	Date      *time.Time
	StartTime *types.TimeString
	Capacity  *int
}

// IsEmpty returns true if no fields are set
func (u *SlotUpdate) IsEmpty() bool {
	return u.Date == nil && u.StartTime == nil && u.Capacity == nil
}
