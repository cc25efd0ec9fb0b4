package can_reschedule

import (
	"context"

	canReschedule "github.com/m04kA/SMC-SchedulingService/internal/usecase/can_reschedule"
)

type CanRescheduleUseCase interface {
	Execute(ctx context.Context, req *canReschedule.Request) (*canReschedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
