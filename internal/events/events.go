package events

import (
	"time"
)

// Типы событий смены статуса заказа
const (
	EventOrderRescheduled = "order.rescheduled"
	EventOrderCancelled   = "order.cancelled"
)

// OrderStatusEvent событие смены статуса заказа
// Публикуется этим сервисом после успешного переноса/отмены и потребляется
// синхронизацией отмен (в том числе для отмен, инициированных заказной
// подсистемой напрямую)
type OrderStatusEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	OccurredAt      time.Time `json:"occurred_at"`
	EstablishmentID int64     `json:"establishment_id"`
	CustomerID      int64     `json:"customer_id"`
	OrderID         int64     `json:"order_id"`
	SlotID          *int64    `json:"slot_id,omitempty"`
	SuccessorID     *int64    `json:"successor_id,omitempty"`
	Status          string    `json:"status"`
	Reason          *string   `json:"reason,omitempty"`
}
