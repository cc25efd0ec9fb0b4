package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с плановой частью заказов
// Таблицей orders владеет заказная подсистема; этот репозиторий мутирует
// только поля, относящиеся к планированию
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заказ-преемник при переносе
// Если в контексте передана активная транзакция (через context.Value), использует её
func (r *Repository) Create(ctx context.Context, o *domain.ScheduledOrder) (*domain.ScheduledOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("orders").
		Columns(
			"establishment_id",
			"customer_id",
			"slot_id",
			"scheduled_date",
			"scheduled_time",
			"is_scheduled",
			"can_reschedule",
			"reschedule_limit",
			"is_rescheduled",
			"reschedule_count",
			"predecessor_id",
			"slot_released",
			"status",
			"customer_name",
			"customer_phone",
			"delivery_address",
			"payment_method",
			"total_price",
			"loyalty_points_used",
			"notes",
		).
		Values(
			o.EstablishmentID,
			o.CustomerID,
			o.SlotID,
			o.ScheduledDate,
			o.ScheduledTime,
			o.IsScheduled,
			o.CanReschedule,
			o.RescheduleLimit,
			o.IsRescheduled,
			o.RescheduleCount,
			o.PredecessorID,
			o.SlotReleased,
			o.Status,
			o.CustomerName,
			o.CustomerPhone,
			o.DeliveryAddress,
			o.PaymentMethod,
			o.TotalPrice,
			o.LoyaltyPointsUsed,
			o.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduledOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := orderSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOrder(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan order: %v", ErrScanRow, err)
	}

	return o, nil
}

// MarkRescheduled помечает заказ как перенесенный: is_rescheduled = true,
// статус cancelled, счетчик переносов увеличивается
// Маркер slot_released выставляется здесь же: место предшественника уже
// возвращено сагой переноса, событие отмены по этому заказу не должно
// декрементировать слот повторно
func (r *Repository) MarkRescheduled(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("is_rescheduled", true).
		Set("status", domain.StatusCancelled).
		Set("slot_released", true).
		Set("reschedule_count", squirrel.Expr("reschedule_count + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRescheduled - execute update: %v", ErrExecQuery, err)
	}

	return requireRowAffected(result, "MarkRescheduled")
}

// Cancel переводит заказ в статус cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return requireRowAffected(result, "Cancel")
}

// MarkSlotReleased помечает, что занятое заказом место освобождено
// Условный UPDATE служит идемпотентным барьером: true возвращается только
// тому вызову, который первым выставил маркер, — именно он и должен
// декрементировать счетчик слота
func (r *Repository) MarkSlotReleased(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("slot_released", true).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"slot_released": false}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkSlotReleased - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkSlotReleased - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkSlotReleased - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// UnmarkSlotReleased снимает маркер освобождения
// Используется компенсацией, если декремент слота после маркировки не прошел
func (r *Repository) UnmarkSlotReleased(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("slot_released", false).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UnmarkSlotReleased - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UnmarkSlotReleased - execute update: %v", ErrExecQuery, err)
	}

	return requireRowAffected(result, "UnmarkSlotReleased")
}

// requireRowAffected возвращает ErrOrderNotFound, если запрос не затронул ни одной строки
func requireRowAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// orderSelect базовый SELECT по всем плановым колонкам заказа
func orderSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"establishment_id",
		"customer_id",
		"slot_id",
		"scheduled_date",
		"scheduled_time",
		"is_scheduled",
		"can_reschedule",
		"reschedule_limit",
		"is_rescheduled",
		"reschedule_count",
		"predecessor_id",
		"slot_released",
		"status",
		"customer_name",
		"customer_phone",
		"delivery_address",
		"payment_method",
		"total_price",
		"loyalty_points_used",
		"notes",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	).From("orders")
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanOrder сканирует одну строку в domain.ScheduledOrder
func scanOrder(row rowScanner) (*domain.ScheduledOrder, error) {
	var o domain.ScheduledOrder
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&o.ID,
		&o.EstablishmentID,
		&o.CustomerID,
		&o.SlotID,
		&o.ScheduledDate,
		&o.ScheduledTime,
		&o.IsScheduled,
		&o.CanReschedule,
		&o.RescheduleLimit,
		&o.IsRescheduled,
		&o.RescheduleCount,
		&o.PredecessorID,
		&o.SlotReleased,
		&o.Status,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.DeliveryAddress,
		&o.PaymentMethod,
		&o.TotalPrice,
		&o.LoyaltyPointsUsed,
		&o.Notes,
		&o.CancellationReason,
		&o.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
