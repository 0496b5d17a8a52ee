package bill

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы со счетами, строками счетов и платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает пустой счёт
func (r *Repository) Create(ctx context.Context) (*domain.Bill, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bills").
		Columns("generated_on").
		Values(squirrel.Expr("NOW()")).
		Suffix("RETURNING id, generated_on").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	bill := &domain.Bill{
		LineItems: make([]domain.LineItem, 0),
		Payments:  make([]domain.Payment, 0),
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&bill.ID, &bill.GeneratedOn); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return bill, nil
}

// GetByID получает счёт со строками и платежами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Bill, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "generated_on", "comment").
		From("bills").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var bill domain.Bill
	err = executor.QueryRowContext(ctx, query, args...).Scan(&bill.ID, &bill.GeneratedOn, &bill.Comment)
	if err == sql.ErrNoRows {
		return nil, ErrBillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bill: %v", ErrScanRow, err)
	}

	if bill.LineItems, err = r.ListLineItems(ctx, id); err != nil {
		return nil, err
	}
	if bill.Payments, err = r.ListPayments(ctx, id); err != nil {
		return nil, err
	}

	return &bill, nil
}

// ListLineItems получает строки счёта вместе со сборами, в порядке создания
func (r *Repository) ListLineItems(ctx context.Context, billID int64) ([]domain.LineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"li.id",
		"li.bill_id",
		"li.description",
		"li.amount",
		"li.paid_by_house",
		"li.custom",
		"f.id",
		"f.description",
		"f.percentage",
		"f.paid_by_house",
	).
		From("bill_line_items li").
		LeftJoin("fees f ON f.id = li.fee_id").
		Where(squirrel.Eq{"li.bill_id": billID}).
		OrderBy("li.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLineItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLineItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		var feeID sql.NullInt64
		var feeDescription sql.NullString
		var feePercentage sql.NullFloat64
		var feePaidByHouse sql.NullBool

		err := rows.Scan(
			&item.ID,
			&item.BillID,
			&item.Description,
			&item.Amount,
			&item.PaidByHouse,
			&item.Custom,
			&feeID,
			&feeDescription,
			&feePercentage,
			&feePaidByHouse,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListLineItems - scan row: %v", ErrScanRow, err)
		}

		if feeID.Valid {
			item.Fee = &domain.Fee{
				ID:          feeID.Int64,
				Description: feeDescription.String,
				Percentage:  feePercentage.Float64,
				PaidByHouse: feePaidByHouse.Bool,
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLineItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// DeleteGeneratedItems удаляет все строки счёта, кроме ручных корректировок
func (r *Repository) DeleteGeneratedItems(ctx context.Context, billID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bill_line_items").
		Where(squirrel.Eq{"bill_id": billID, "custom": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteGeneratedItems - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteGeneratedItems - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// CreateLineItems сохраняет новые строки счёта одним запросом
// Строки с ненулевым ID (сохранённые ручные корректировки) пропускаются
func (r *Repository) CreateLineItems(ctx context.Context, billID int64, items []domain.LineItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("bill_line_items").
		Columns("bill_id", "fee_id", "description", "amount", "paid_by_house", "custom")

	count := 0
	for _, item := range items {
		if item.ID != 0 {
			continue
		}
		var feeID *int64
		if item.Fee != nil {
			feeID = &item.Fee.ID
		}
		insert = insert.Values(billID, feeID, item.Description, item.Amount, item.PaidByHouse, item.Custom)
		count++
	}
	if count == 0 {
		return nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateLineItems - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateLineItems - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Touch обновляет время генерации счёта
func (r *Repository) Touch(ctx context.Context, billID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bills").
		Set("generated_on", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": billID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Touch - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Touch - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Touch - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBillNotFound
	}

	return nil
}

var paymentColumns = []string{
	"id",
	"bill_id",
	"user_id",
	"payment_date",
	"payment_service",
	"payment_method",
	"paid_amount",
	"transaction_id",
}

// CreatePayment сохраняет платёж или возврат
func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"bill_id",
			"user_id",
			"payment_date",
			"payment_service",
			"payment_method",
			"paid_amount",
			"transaction_id",
		).
		Values(
			payment.BillID,
			payment.UserID,
			payment.PaymentDate,
			payment.PaymentService,
			payment.PaymentMethod,
			payment.PaidAmount,
			payment.TransactionID,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreatePayment - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID); err != nil {
		return nil, fmt.Errorf("%w: CreatePayment - execute insert: %v", ErrExecQuery, err)
	}

	return payment, nil
}

// ListPayments получает платежи счёта в порядке даты
func (r *Repository) ListPayments(ctx context.Context, billID int64) ([]domain.Payment, error) {
	return r.listPayments(ctx, "ListPayments", squirrel.Eq{"bill_id": billID})
}

// ListPaymentsByTransaction получает все платежи одной транзакции провайдера
func (r *Repository) ListPaymentsByTransaction(ctx context.Context, transactionID string) ([]domain.Payment, error) {
	return r.listPayments(ctx, "ListPaymentsByTransaction", squirrel.Eq{"transaction_id": transactionID})
}

func (r *Repository) listPayments(ctx context.Context, op string, where squirrel.Eq) ([]domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(where).
		OrderBy("payment_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		var billID sql.NullInt64
		err := rows.Scan(
			&p.ID,
			&billID,
			&p.UserID,
			&p.PaymentDate,
			&p.PaymentService,
			&p.PaymentMethod,
			&p.PaidAmount,
			&p.TransactionID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		p.BillID = billID.Int64
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return payments, nil
}
