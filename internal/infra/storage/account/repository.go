package account

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

// Repository репозиторий для работы с валютами и счетами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCurrencyByName получает валюту по имени
func (r *Repository) GetCurrencyByName(ctx context.Context, name string) (*domain.Currency, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "symbol").
		From("currencies").
		Where(squirrel.Eq{"name": name}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCurrencyByName - build select query: %v", ErrBuildQuery, err)
	}

	var currency domain.Currency
	err = executor.QueryRowContext(ctx, query, args...).Scan(&currency.ID, &currency.Name, &currency.Symbol)
	if err == sql.ErrNoRows {
		return nil, ErrCurrencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCurrencyByName - scan currency: %v", ErrScanRow, err)
	}

	return &currency, nil
}

// CreateCurrency создает валюту, если её ещё нет
// Возвращает false, если валюта с таким именем уже существовала
func (r *Repository) CreateCurrency(ctx context.Context, currency *domain.Currency) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("currencies").
		Columns("name", "symbol").
		Values(currency.Name, currency.Symbol).
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CreateCurrency - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&currency.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CreateCurrency - execute insert: %v", ErrExecQuery, err)
	}

	return true, nil
}

// GetByID получает счёт вместе с владельцами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a.currency_id",
		"a.name",
		"a.type",
		"ARRAY(SELECT o.user_id FROM account_owners o WHERE o.account_id = a.id ORDER BY o.user_id) AS owners",
		"a.created_at",
	).
		From("accounts a").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var account domain.Account
	owners := make([]int64, 0)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.CurrencyID,
		&account.Name,
		&account.Type,
		pq.Array(&owners),
		&account.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan account: %v", ErrScanRow, err)
	}
	account.OwnerIDs = owners

	return &account, nil
}

// Create создает счёт и записывает его владельцев
func (r *Repository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("accounts").
		Columns("currency_id", "name", "type").
		Values(account.CurrencyID, account.Name, account.Type).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if len(account.OwnerIDs) == 0 {
		return account, nil
	}

	insertOwners := psqlbuilder.Insert("account_owners").Columns("account_id", "user_id")
	for _, userID := range account.OwnerIDs {
		insertOwners = insertOwners.Values(account.ID, userID)
	}

	query, args, err = insertOwners.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert owners query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert owners: %v", ErrExecQuery, err)
	}

	return account, nil
}

// Rename переименовывает счёт
func (r *Repository) Rename(ctx context.Context, id int64, name string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("accounts").
		Set("name", name).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Rename - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Rename - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Rename - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// GetPrimaryAccountID получает основной счёт пользователя в валюте
func (r *Repository) GetPrimaryAccountID(ctx context.Context, userID, currencyID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("account_id").
		From("primary_accounts").
		Where(squirrel.Eq{"user_id": userID, "currency_id": currencyID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetPrimaryAccountID - build select query: %v", ErrBuildQuery, err)
	}

	var accountID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&accountID)
	if err == sql.ErrNoRows {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetPrimaryAccountID - scan row: %v", ErrScanRow, err)
	}

	return accountID, nil
}

// SetPrimaryAccount назначает основной счёт пользователя в валюте
// Первичный ключ (user_id, currency_id) гарантирует единственность основного счёта
func (r *Repository) SetPrimaryAccount(ctx context.Context, userID, currencyID, accountID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("primary_accounts").
		Columns("user_id", "currency_id", "account_id").
		Values(userID, currencyID, accountID).
		Suffix("ON CONFLICT (user_id, currency_id) DO UPDATE SET account_id = EXCLUDED.account_id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPrimaryAccount - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetPrimaryAccount - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Balance сумма всех проводок по счёту
func (r *Repository) Balance(ctx context.Context, accountID int64) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(amount), 0)").
		From("account_entries").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Balance - build select query: %v", ErrBuildQuery, err)
	}

	var balance float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&balance); err != nil {
		return 0, fmt.Errorf("%w: Balance - scan row: %v", ErrScanRow, err)
	}

	return balance, nil
}
