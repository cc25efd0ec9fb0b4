package reschedule_order

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на перенос заказа
type Request struct {
	OrderID       int64            // ID переносимого заказа
	CurrentSlotID int64            // ID слота, который заказ занимает сейчас
	NewSlotID     int64            // ID целевого слота
	NewSlotDate   time.Time        // Дата целевого слота
	NewSlotTime   types.TimeString // Время целевого слота
}

// Response модель ответа с заказом-преемником
type Response struct {
	NewOrderID    int64            `json:"newOrderId"`
	ScheduledDate time.Time        `json:"scheduledDate"`
	ScheduledTime types.TimeString `json:"scheduledTime"`
	Message       string           `json:"message"`
}
