package notifier

// rescheduleNotice тело уведомления о переносе заказа
type rescheduleNotice struct {
	OrderID       int64  `json:"order_id"`
	CustomerID    int64  `json:"customer_id"`
	CustomerPhone string `json:"customer_phone"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
}

// cancellationNotice тело уведомления об отмене заказа
type cancellationNotice struct {
	OrderID       int64   `json:"order_id"`
	CustomerID    int64   `json:"customer_id"`
	CustomerPhone string  `json:"customer_phone"`
	Reason        *string `json:"reason,omitempty"`
}
