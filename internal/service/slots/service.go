package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
)

// Service сервис администрирования слотов
// Все операции атомарны на уровне одной строки; кросс-слотовые инварианты —
// зона ответственности движка переносов
type Service struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Create создает новый слот с occupied = 0 и blocked = false
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: establishment=%d, date=%s, time=%s, capacity=%d",
		req.EstablishmentID, req.Date.Format(domain.DateFormat), req.StartTime, req.Capacity)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, &domain.Slot{
		EstablishmentID: req.EstablishmentID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		Capacity:        req.Capacity,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// Update обновляет поля слота; nil поля не трогаются
func (s *Service) Update(ctx context.Context, slotID int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: slot id=%d", slotID)

	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for slot id=%d: %v", slotID, err)
		return nil, err
	}

	if err := s.slotRepo.Update(ctx, slotID, req.ToDomainUpdate()); err != nil {
		return nil, s.mapRepoError("Update", slotID, err)
	}

	updated, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, s.mapRepoError("Update", slotID, err)
	}

	s.logger.Info("Update: successfully updated slot id=%d", slotID)
	return models.FromDomainSlot(updated), nil
}

// Delete удаляет слот; слот с активными бронированиями не удаляется
func (s *Service) Delete(ctx context.Context, slotID int64) error {
	s.logger.Info("Delete: slot id=%d", slotID)

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotInUse) {
			s.logger.Warn("Delete: slot id=%d has active bookings", slotID)
			return ErrSlotInUse
		}
		return s.mapRepoError("Delete", slotID, err)
	}

	s.logger.Info("Delete: successfully deleted slot id=%d", slotID)
	return nil
}

// ToggleBlock выставляет флаг блокировки слота
// Счетчик занятости не меняется; заблокированный слот не принимает новые
// бронирования независимо от остатка мест
func (s *Service) ToggleBlock(ctx context.Context, slotID int64, blocked bool) (*models.SlotResponse, error) {
	s.logger.Info("ToggleBlock: slot id=%d, blocked=%t", slotID, blocked)

	if err := s.slotRepo.SetBlocked(ctx, slotID, blocked); err != nil {
		return nil, s.mapRepoError("ToggleBlock", slotID, err)
	}

	updated, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, s.mapRepoError("ToggleBlock", slotID, err)
	}

	s.logger.Info("ToggleBlock: slot id=%d now blocked=%t", slotID, blocked)
	return models.FromDomainSlot(updated), nil
}

// ResetCounter принудительно обнуляет счетчик занятости слота
// Административный инструмент для ручной сверки после рассинхронизации;
// применение к слоту с живыми бронированиями рассинхронизирует счетчик
func (s *Service) ResetCounter(ctx context.Context, slotID int64) (*models.SlotResponse, error) {
	s.logger.Warn("ResetCounter: manually resetting occupancy for slot id=%d", slotID)

	if err := s.slotRepo.ResetOccupied(ctx, slotID); err != nil {
		return nil, s.mapRepoError("ResetCounter", slotID, err)
	}

	updated, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, s.mapRepoError("ResetCounter", slotID, err)
	}

	s.logger.Info("ResetCounter: slot id=%d occupancy reset to 0", slotID)
	return models.FromDomainSlot(updated), nil
}

// mapRepoError конвертирует ошибки репозитория в ошибки сервиса
func (s *Service) mapRepoError(op string, slotID int64, err error) error {
	if errors.Is(err, slotRepo.ErrSlotNotFound) {
		s.logger.Warn("%s: slot id=%d not found", op, slotID)
		return ErrSlotNotFound
	}
	s.logger.Error("%s: repository error for slot id=%d: %v", op, slotID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// validateCreateRequest валидирует запрос на создание слота
func validateCreateRequest(req *models.CreateSlotRequest) error {
	if req.EstablishmentID <= 0 {
		return fmt.Errorf("%w: establishmentID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return validateCapacity(req.Capacity)
}

// validateUpdateRequest валидирует запрос на обновление слота
func validateUpdateRequest(req *models.UpdateSlotRequest) error {
	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
	}
	if req.Capacity != nil {
		return validateCapacity(*req.Capacity)
	}
	return nil
}

func validateCapacity(capacity int) error {
	if capacity < domain.MinSlotCapacity {
		return fmt.Errorf("%w: capacity must be at least %d", ErrInvalidInput, domain.MinSlotCapacity)
	}
	if capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must not exceed %d", ErrInvalidInput, domain.MaxSlotCapacity)
	}
	return nil
}
