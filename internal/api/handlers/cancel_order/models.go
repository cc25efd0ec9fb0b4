package cancel_order

import (
	cancelOrder "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_order"
)

// CancelOrderRequest HTTP request model
type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CancelOrderRequest) ToUseCaseRequest(orderID int64) *cancelOrder.Request {
	return &cancelOrder.Request{
		OrderID: orderID,
		Reason:  r.Reason,
	}
}
