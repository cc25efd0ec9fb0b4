package reschedule_order

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	rescheduleOrder "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_order"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RescheduleOrderRequest HTTP request model
type RescheduleOrderRequest struct {
	CurrentSlotID int64  `json:"currentSlotId"`
	NewSlotID     int64  `json:"newSlotId"`
	NewSlotDate   string `json:"newSlotDate"`
	NewSlotTime   string `json:"newSlotTime"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *RescheduleOrderRequest) ToUseCaseRequest(orderID int64) (*rescheduleOrder.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.NewSlotDate)
	if err != nil {
		return nil, fmt.Errorf("invalid newSlotDate %q: %w", r.NewSlotDate, err)
	}

	slotTime, err := types.NewTimeStringFromString(r.NewSlotTime)
	if err != nil {
		return nil, fmt.Errorf("invalid newSlotTime %q: %w", r.NewSlotTime, err)
	}

	return &rescheduleOrder.Request{
		OrderID:       orderID,
		CurrentSlotID: r.CurrentSlotID,
		NewSlotID:     r.NewSlotID,
		NewSlotDate:   date,
		NewSlotTime:   slotTime,
	}, nil
}

// RescheduleOrderResponse HTTP response model
type RescheduleOrderResponse struct {
	NewOrderID    int64  `json:"newOrderId"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	Message       string `json:"message"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *rescheduleOrder.Response) *RescheduleOrderResponse {
	return &RescheduleOrderResponse{
		NewOrderID:    resp.NewOrderID,
		ScheduledDate: resp.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: resp.ScheduledTime.String(),
		Message:       resp.Message,
	}
}
