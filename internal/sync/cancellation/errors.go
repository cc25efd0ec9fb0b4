package cancellation

import "errors"

var (
	// ErrMalformedEvent возвращается при нечитаемом событии
	ErrMalformedEvent = errors.New("sync.cancellation: malformed event")

	// ErrOrderNotFound возвращается, если заказ из события не найден
	ErrOrderNotFound = errors.New("sync.cancellation: order not found")

	// ErrInternal возвращается при внутренних ошибках обработки
	ErrInternal = errors.New("sync.cancellation: internal error")
)
