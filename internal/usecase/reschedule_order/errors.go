package reschedule_order

import "errors"

var (
	// Ошибки валидации — возвращаются до каких-либо побочных эффектов

	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("reschedule_order: order not found")

	// ErrNotScheduled возвращается, когда заказ не является плановым
	ErrNotScheduled = errors.New("reschedule_order: order is not scheduled")

	// ErrOrderCancelled возвращается, когда заказ уже отменен
	ErrOrderCancelled = errors.New("reschedule_order: order is cancelled")

	// ErrAlreadyRescheduled возвращается, когда заказ уже перенесен
	ErrAlreadyRescheduled = errors.New("reschedule_order: order has already been rescheduled")

	// ErrRescheduleNotPermitted возвращается, когда перенос запрещен политикой
	ErrRescheduleNotPermitted = errors.New("reschedule_order: reschedule is not permitted for this order")

	// ErrDeadlineExpired возвращается, когда срок переноса истек
	ErrDeadlineExpired = errors.New("reschedule_order: reschedule deadline has expired")

	// ErrSlotMismatch возвращается, когда переданный текущий слот не совпадает
	// со слотом, который заказ фактически занимает
	ErrSlotMismatch = errors.New("reschedule_order: current slot does not match the order's slot")

	// Ошибки середины саги — перед возвратом выполняется компенсация

	// ErrSlotNotFound возвращается, когда целевой слот не найден
	ErrSlotNotFound = errors.New("reschedule_order: slot not found")

	// ErrSlotUnavailable возвращается, когда целевой слот заблокирован или заполнен
	ErrSlotUnavailable = errors.New("reschedule_order: target slot is blocked or full")

	// ErrReservationFailed возвращается при сбое резервирования целевого слота
	ErrReservationFailed = errors.New("reschedule_order: failed to reserve target slot")

	// ErrUpdateFailed возвращается при сбое обновления исходного заказа
	ErrUpdateFailed = errors.New("reschedule_order: failed to update original order")

	// ErrOrderCreationFailed возвращается при сбое создания заказа-преемника
	ErrOrderCreationFailed = errors.New("reschedule_order: failed to create successor order")

	// ErrCompensationFailed возвращается, когда компенсирующая запись не прошла
	// даже после повтора — счетчики слотов могут расходиться на единицу,
	// требуется ручная сверка оператором
	ErrCompensationFailed = errors.New("reschedule_order: compensation failed, manual reconciliation required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_order: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_order: internal error")
)
