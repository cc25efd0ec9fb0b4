package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotInUse возвращается при попытке удалить слот с активными бронированиями
	ErrSlotInUse = errors.New("slot.repository: slot has active bookings")

	// ErrSlotUnavailable возвращается, когда слот заблокирован или заполнен
	ErrSlotUnavailable = errors.New("slot.repository: slot is blocked or full")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
