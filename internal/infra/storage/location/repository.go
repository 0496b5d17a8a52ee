package location

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

// Repository репозиторий для работы с локациями и их сборами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория локаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var locationColumns = []string{
	"l.id",
	"l.name",
	"l.slug",
	"l.short_description",
	"l.address",
	"l.timezone",
	"l.max_booking_days",
	"l.welcome_email_days_ahead",
	"l.email_subject_prefix",
	"l.check_in",
	"l.check_out",
	"l.visibility",
	"ARRAY(SELECT a.user_id FROM location_house_admins a WHERE a.location_id = l.id ORDER BY a.user_id) AS house_admins",
	"l.created_at",
	"l.updated_at",
}

// GetByID получает локацию по ID вместе со списком администраторов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(locationColumns...).
		From("locations l").
		Where(squirrel.Eq{"l.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	location, err := scanLocation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	return location, nil
}

// GetBySlug получает локацию по slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(locationColumns...).
		From("locations l").
		Where(squirrel.Eq{"l.slug": slug}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - build select query: %v", ErrBuildQuery, err)
	}

	location, err := scanLocation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - scan location: %v", ErrScanRow, err)
	}

	return location, nil
}

// List получает все локации в порядке ID
// Используется регламентными задачами, которые обходят локации последовательно
func (r *Repository) List(ctx context.Context) ([]*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(locationColumns...).
		From("locations l").
		OrderBy("l.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return locations, nil
}

// GetFees получает сборы, настроенные для локации, в порядке ID
func (r *Repository) GetFees(ctx context.Context, locationID int64) ([]domain.Fee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"f.id",
		"f.description",
		"f.percentage",
		"f.paid_by_house",
	).
		From("fees f").
		Join("location_fees lf ON lf.fee_id = f.id").
		Where(squirrel.Eq{"lf.location_id": locationID}).
		OrderBy("f.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetFees - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetFees - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	fees := make([]domain.Fee, 0)
	for rows.Next() {
		var fee domain.Fee
		if err := rows.Scan(&fee.ID, &fee.Description, &fee.Percentage, &fee.PaidByHouse); err != nil {
			return nil, fmt.Errorf("%w: GetFees - scan row: %v", ErrScanRow, err)
		}
		fees = append(fees, fee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetFees - rows error: %v", ErrScanRow, err)
	}

	return fees, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	var location domain.Location
	var createdAt, updatedAt sql.NullTime
	adminIDs := make([]int64, 0)

	err := row.Scan(
		&location.ID,
		&location.Name,
		&location.Slug,
		&location.ShortDescription,
		&location.Address,
		&location.Timezone,
		&location.MaxBookingDays,
		&location.WelcomeEmailDaysAhead,
		&location.EmailSubjectPrefix,
		&location.CheckIn,
		&location.CheckOut,
		&location.Visibility,
		pq.Array(&adminIDs),
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	location.HouseAdminIDs = adminIDs
	location.CreatedAt = createdAt.Time
	location.UpdatedAt = updatedAt.Time

	return &location, nil
}
