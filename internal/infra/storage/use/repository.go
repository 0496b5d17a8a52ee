package use

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

// Repository репозиторий для работы с проживаниями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория проживаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var useColumns = []string{
	"id",
	"location_id",
	"resource_id",
	"user_id",
	"status",
	"arrive",
	"depart",
	"arrival_time",
	"purpose",
	"last_msg",
	"accounted_by",
	"created_at",
	"updated_at",
}

// Create создает проживание
func (r *Repository) Create(ctx context.Context, use *domain.Use) (*domain.Use, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("uses").
		Columns(
			"location_id",
			"resource_id",
			"user_id",
			"status",
			"arrive",
			"depart",
			"arrival_time",
			"purpose",
			"accounted_by",
		).
		Values(
			use.LocationID,
			use.ResourceID,
			use.UserID,
			use.Status,
			dates.Day(use.Arrive),
			dates.Day(use.Depart),
			use.ArrivalTime,
			use.Purpose,
			use.AccountedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&use.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	use.CreatedAt = createdAt.Time
	use.UpdatedAt = updatedAt.Time

	return use, nil
}

// GetByID получает проживание по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Use, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(useColumns...).
		From("uses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	use, err := scanUse(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrUseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan use: %v", ErrScanRow, err)
	}

	return use, nil
}

// List получает проживания с фильтрацией
// Поддерживает фильтрацию по:
// - локации и ресурсу
// - набору статусов
// - пересечению с интервалом дат (OverlapStart, OverlapEnd)
// - точной дате заезда или выезда
//
// Сортировка по дате заезда по убыванию.
func (r *Repository) List(ctx context.Context, filter domain.UsesFilter) ([]*domain.Use, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(useColumns...).
		From("uses")

	if filter.LocationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}
	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *filter.ResourceID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.OverlapStart != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"depart": dates.Day(*filter.OverlapStart)})
	}
	if filter.OverlapEnd != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"arrive": dates.Day(*filter.OverlapEnd)})
	}
	if filter.ArriveOn != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"arrive": dates.Day(*filter.ArriveOn)})
	}
	if filter.DepartOn != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"depart": dates.Day(*filter.DepartOn)})
	}

	selectBuilder = selectBuilder.OrderBy("arrive DESC", "id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	uses := make([]*domain.Use, 0)
	for rows.Next() {
		use, err := scanUse(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		uses = append(uses, use)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return uses, nil
}

// UpdateStatus обновляет статус проживания
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.UseStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("uses").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// MarkLastMsg запоминает время последнего письма гостю
func (r *Repository) MarkLastMsg(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("uses").
		Set("last_msg", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkLastMsg - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkLastMsg", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrUseNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUse(row rowScanner) (*domain.Use, error) {
	var use domain.Use
	var lastMsg, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&use.ID,
		&use.LocationID,
		&use.ResourceID,
		&use.UserID,
		&use.Status,
		&use.Arrive,
		&use.Depart,
		&use.ArrivalTime,
		&use.Purpose,
		&lastMsg,
		&use.AccountedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	use.Arrive = dates.Day(use.Arrive)
	use.Depart = dates.Day(use.Depart)
	if lastMsg.Valid {
		use.LastMsg = &lastMsg.Time
	}
	use.CreatedAt = createdAt.Time
	use.UpdatedAt = updatedAt.Time

	return &use, nil
}
