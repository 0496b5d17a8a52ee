package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с ресурсами (комнатами)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var resourceColumns = []string{
	"id",
	"location_id",
	"name",
	"default_rate",
	"description",
	"summary",
	"cancellation_policy",
	"created_at",
	"updated_at",
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	resource, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return resource, nil
}

// ListByLocation получает ресурсы локации в порядке имени
func (r *Repository) ListByLocation(ctx context.Context, locationID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("name ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByLocation - scan row: %v", ErrScanRow, err)
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByLocation - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var resource domain.Resource
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&resource.ID,
		&resource.LocationID,
		&resource.Name,
		&resource.DefaultRate,
		&resource.Description,
		&resource.Summary,
		&resource.CancellationPolicy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	return &resource, nil
}
