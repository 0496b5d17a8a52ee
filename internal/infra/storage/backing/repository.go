package backing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с поддержками ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория поддержек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByResource получает все поддержки ресурса по возрастанию даты начала
// Внутри транзакции строки блокируются на время замены поддержек
func (r *Repository) ListByResource(ctx context.Context, resourceID int64) ([]domain.Backing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.resource_id",
		"b.money_account_id",
		"b.drft_account_id",
		"ARRAY(SELECT u.user_id FROM backing_users u WHERE u.backing_id = b.id ORDER BY u.user_id) AS users",
		"b.start_date",
		"b.end_date",
	).
		From("backings b").
		Where(squirrel.Eq{"b.resource_id": resourceID}).
		OrderBy("b.start_date ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	backings := make([]domain.Backing, 0)
	for rows.Next() {
		var b domain.Backing
		var end sql.NullTime
		users := make([]int64, 0)

		err := rows.Scan(
			&b.ID,
			&b.ResourceID,
			&b.MoneyAccountID,
			&b.DrftAccountID,
			pq.Array(&users),
			&b.Start,
			&end,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByResource - scan row: %v", ErrScanRow, err)
		}

		b.Start = dates.Day(b.Start)
		if end.Valid {
			e := dates.Day(end.Time)
			b.End = &e
		}
		b.UserIDs = users
		backings = append(backings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByResource - rows error: %v", ErrScanRow, err)
	}

	return backings, nil
}

// Create сохраняет поддержку вместе с её участниками
// Счета поддержки должны быть созданы заранее
func (r *Repository) Create(ctx context.Context, b *domain.Backing) (*domain.Backing, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var end *time.Time
	if b.End != nil {
		e := dates.Day(*b.End)
		end = &e
	}

	query, args, err := psqlbuilder.Insert("backings").
		Columns("resource_id", "money_account_id", "drft_account_id", "start_date", "end_date").
		Values(b.ResourceID, b.MoneyAccountID, b.DrftAccountID, dates.Day(b.Start), end).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if len(b.UserIDs) == 0 {
		return b, nil
	}

	insertUsers := psqlbuilder.Insert("backing_users").Columns("backing_id", "user_id")
	for _, userID := range b.UserIDs {
		insertUsers = insertUsers.Values(b.ID, userID)
	}

	query, args, err = insertUsers.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert users query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert users: %v", ErrExecQuery, err)
	}

	return b, nil
}

// SetEnd закрывает поддержку датой end
func (r *Repository) SetEnd(ctx context.Context, id int64, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("backings").
		Set("end_date", dates.Day(end)).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetEnd - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "SetEnd", query, args)
}

// Delete удаляет поддержку (участники удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("backings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBackingNotFound
	}

	return nil
}
