package cancel_order

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("cancel_order: order not found")

	// ErrNotScheduled возвращается, когда заказ не является плановым
	ErrNotScheduled = errors.New("cancel_order: order is not scheduled")

	// ErrOrderCancelled возвращается, когда заказ уже отменен
	ErrOrderCancelled = errors.New("cancel_order: order is already cancelled")

	// ErrUpdateFailed возвращается, когда место освобождено, но смена статуса
	// не прошла; расхождение устраняется синхронизацией отмен или повтором
	ErrUpdateFailed = errors.New("cancel_order: failed to update order status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_order: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_order: internal error")
)
