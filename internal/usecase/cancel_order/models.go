package cancel_order

// Request модель запроса на отмену планового заказа
type Request struct {
	OrderID int64
	Reason  *string
}

// Response модель ответа
type Response struct {
	Message string `json:"message"`
}
