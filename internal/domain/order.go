package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// OrderStatus represents the status of a scheduled order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ScheduledOrder is the scheduling-relevant subset of an order.
// The wider order subsystem owns the rows; this service mutates only the
// scheduling fields (slot reference, reschedule flags, status).
type ScheduledOrder struct {
	ID              int64
	EstablishmentID int64
	CustomerID      int64

	// Scheduling state
	SlotID          *int64
	ScheduledDate   time.Time
	ScheduledTime   types.TimeString
	IsScheduled     bool
	CanReschedule   bool
	RescheduleLimit *time.Time
	IsRescheduled   bool
	RescheduleCount int
	PredecessorID   *int64
	SlotReleased    bool

	Status OrderStatus

	// Denormalized customer/delivery/payment copy fields carried over to
	// successor orders on reschedule
	CustomerName     string
	CustomerPhone    string
	DeliveryAddress  *string
	PaymentMethod    string
	TotalPrice       float64
	LoyaltyPointsUsed int
	Notes            *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the order has been cancelled
func (o *ScheduledOrder) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsTerminal returns true if the order is in a terminal state for scheduling
func (o *ScheduledOrder) IsTerminal() bool {
	return o.Status == StatusCancelled || o.Status == StatusDelivered || o.IsRescheduled
}

// ScheduledAt returns the full timestamp the order is scheduled for
func (o *ScheduledOrder) ScheduledAt() time.Time {
	at, err := o.ScheduledTime.OnDate(o.ScheduledDate)
	if err != nil {
		return o.ScheduledDate
	}
	return at
}

// RescheduleDeadline returns the moment after which rescheduling is refused.
// Falls back to RescheduleNoticeHours before the scheduled time when no
// explicit limit is stored.
func (o *ScheduledOrder) RescheduleDeadline() time.Time {
	if o.RescheduleLimit != nil {
		return *o.RescheduleLimit
	}
	return o.ScheduledAt().Add(-RescheduleNoticeHours * time.Hour)
}
