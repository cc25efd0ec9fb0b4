package domain

// Default scheduling policy values
const (
	// RescheduleNoticeHours срок до слота, после которого перенос закрыт,
	// если для заказа не задан явный дедлайн
	RescheduleNoticeHours = 48

	// AlmostFullThreshold доля занятости, начиная с которой слот считается
	// почти заполненным
	AlmostFullThreshold = 0.8
)

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 500

	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
