package capacity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с изменениями вместимости ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вместимости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var capacityColumns = []string{
	"id",
	"resource_id",
	"start_date",
	"quantity",
	"accept_drft",
	"created_at",
}

// GetByID получает изменение вместимости по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.CapacityChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(capacityColumns...).
		From("capacity_changes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	change, err := scanChange(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCapacityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan capacity: %v", ErrScanRow, err)
	}

	return change, nil
}

// GetByResourceAndStart получает изменение ресурса на конкретную дату
func (r *Repository) GetByResourceAndStart(ctx context.Context, resourceID int64, start time.Time) (*domain.CapacityChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(capacityColumns...).
		From("capacity_changes").
		Where(squirrel.Eq{"resource_id": resourceID, "start_date": dates.Day(start)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndStart - build select query: %v", ErrBuildQuery, err)
	}

	change, err := scanChange(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCapacityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceAndStart - scan capacity: %v", ErrScanRow, err)
	}

	return change, nil
}

// ListByResources получает изменения вместимости набора ресурсов по возрастанию даты
// Внутри транзакции строки блокируются, чтобы параллельные изменения шкалы не пересекались
func (r *Repository) ListByResources(ctx context.Context, resourceIDs []int64) ([]domain.CapacityChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(capacityColumns...).
		From("capacity_changes").
		Where(squirrel.Eq{"resource_id": resourceIDs}).
		OrderBy("resource_id ASC", "start_date ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResources - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	changes := make([]domain.CapacityChange, 0)
	for rows.Next() {
		change, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByResources - scan row: %v", ErrScanRow, err)
		}
		changes = append(changes, *change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByResources - rows error: %v", ErrScanRow, err)
	}

	return changes, nil
}

// Create создает изменение вместимости
func (r *Repository) Create(ctx context.Context, change *domain.CapacityChange) (*domain.CapacityChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_changes").
		Columns("resource_id", "start_date", "quantity", "accept_drft").
		Values(change.ResourceID, dates.Day(change.StartDate), change.Quantity, change.AcceptDrft).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&change.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	change.CreatedAt = createdAt.Time

	return change, nil
}

// Update обновляет количество и флаг DRFT существующего изменения
func (r *Repository) Update(ctx context.Context, change *domain.CapacityChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity_changes").
		Set("quantity", change.Quantity).
		Set("accept_drft", change.AcceptDrft).
		Where(squirrel.Eq{"id": change.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCapacityNotFound
	}

	return nil
}

// Delete удаляет изменение вместимости
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("capacity_changes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCapacityNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChange(row rowScanner) (*domain.CapacityChange, error) {
	var change domain.CapacityChange
	var createdAt sql.NullTime

	err := row.Scan(
		&change.ID,
		&change.ResourceID,
		&change.StartDate,
		&change.Quantity,
		&change.AcceptDrft,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	change.StartDate = dates.Day(change.StartDate)
	change.CreatedAt = createdAt.Time

	return &change, nil
}
