package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"b.id",
	"b.uuid",
	"b.use_id",
	"b.bill_id",
	"b.rate",
	"b.comments",
	"ARRAY(SELECT s.fee_id FROM booking_suppressed_fees s WHERE s.booking_id = b.id ORDER BY s.fee_id) AS suppressed_fees",
	"b.created_at",
	"b.updated_at",
}

// Create создает бронирование
// Проживание и счёт должны быть созданы заранее в той же транзакции
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"uuid",
			"use_id",
			"bill_id",
			"rate",
			"comments",
		).
		Values(
			booking.UUID,
			booking.UseID,
			booking.BillID,
			booking.Rate,
			booking.Comments,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id})
}

// GetByUseID получает бронирование проживания
func (r *Repository) GetByUseID(ctx context.Context, useID int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByUseID", squirrel.Eq{"b.use_id": useID})
}

// GetByBillID получает бронирование, которому принадлежит счёт
func (r *Repository) GetByBillID(ctx context.Context, billID int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByBillID", squirrel.Eq{"b.bill_id": billID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(where)

	// Пересчёт счёта внутри транзакции блокирует бронирование
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// ListByUseIDs получает бронирования набора проживаний
func (r *Repository) ListByUseIDs(ctx context.Context, useIDs []int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.use_id": useIDs}).
		OrderBy("b.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUseIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUseIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUseIDs - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUseIDs - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateRate устанавливает индивидуальную ставку (nil - ставка ресурса)
func (r *Repository) UpdateRate(ctx context.Context, id int64, rate *float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("rate", rate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateRate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// AddSuppressedFee отключает сбор для бронирования (повторный вызов ничего не меняет)
func (r *Repository) AddSuppressedFee(ctx context.Context, bookingID, feeID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_suppressed_fees").
		Columns("booking_id", "fee_id").
		Values(bookingID, feeID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddSuppressedFee - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddSuppressedFee - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ClearSuppressedFees снова включает все сборы бронирования
func (r *Repository) ClearSuppressedFees(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_suppressed_fees").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ClearSuppressedFees - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ClearSuppressedFees - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var rate sql.NullFloat64
	suppressed := make([]int64, 0)

	err := row.Scan(
		&booking.ID,
		&booking.UUID,
		&booking.UseID,
		&booking.BillID,
		&rate,
		&booking.Comments,
		pq.Array(&suppressed),
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rate.Valid {
		v := rate.Float64
		booking.Rate = &v
	}
	booking.SuppressedFeeIDs = suppressed
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
