package domain

import "time"

// RescheduleDenialReason machine-readable reason a reschedule is refused
type RescheduleDenialReason string

const (
	ReasonNotScheduled       RescheduleDenialReason = "not_scheduled"
	ReasonOrderCancelled     RescheduleDenialReason = "order_cancelled"
	ReasonAlreadyRescheduled RescheduleDenialReason = "already_rescheduled"
	ReasonNotPermitted       RescheduleDenialReason = "reschedule_not_permitted"
	ReasonDeadlineExpired    RescheduleDenialReason = "deadline_expired"
)

// RescheduleCheck result of the reschedule policy check
type RescheduleCheck struct {
	Allowed  bool
	Reason   RescheduleDenialReason
	Deadline time.Time
}

// CheckReschedulable runs the ordered precondition chain for rescheduling,
// short-circuiting on the first failed check. The deadline is populated on
// success and on deadline expiry so callers can surface it.
func (o *ScheduledOrder) CheckReschedulable(now time.Time) RescheduleCheck {
	if !o.IsScheduled {
		return RescheduleCheck{Reason: ReasonNotScheduled}
	}

	if o.IsCancelled() {
		return RescheduleCheck{Reason: ReasonOrderCancelled}
	}

	// A superseded order cannot be moved again through this path; the
	// successor carries its own fresh policy state
	if o.IsRescheduled {
		return RescheduleCheck{Reason: ReasonAlreadyRescheduled}
	}

	if !o.CanReschedule {
		return RescheduleCheck{Reason: ReasonNotPermitted}
	}

	deadline := o.RescheduleDeadline()
	if !now.Before(deadline) {
		return RescheduleCheck{Reason: ReasonDeadlineExpired, Deadline: deadline}
	}

	return RescheduleCheck{Allowed: true, Deadline: deadline}
}
