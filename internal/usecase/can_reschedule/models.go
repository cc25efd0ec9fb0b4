package can_reschedule

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса проверки возможности переноса
type Request struct {
	OrderID int64
}

// Response результат проверки
// Reason заполняется только при отказе; Deadline — при успехе и при
// истекшем дедлайне, чтобы UI мог объяснить, когда перенос был закрыт
type Response struct {
	Allowed  bool                          `json:"allowed"`
	Reason   domain.RescheduleDenialReason `json:"reason,omitempty"`
	Deadline *time.Time                    `json:"deadline,omitempty"`
}
