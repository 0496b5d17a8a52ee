package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	billRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/bill"
	bookingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LodgingService/internal/service/billing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

type fakeBookingRepo map[int64]*domain.Booking

func (r fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r fakeBookingRepo) GetByBillID(_ context.Context, billID int64) (*domain.Booking, error) {
	for _, b := range r {
		if b.BillID == billID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r fakeBookingRepo) UpdateRate(_ context.Context, id int64, rate *float64) error {
	r[id].Rate = rate
	return nil
}

func (r fakeBookingRepo) AddSuppressedFee(_ context.Context, bookingID, feeID int64) error {
	r[bookingID].SuppressedFeeIDs = append(r[bookingID].SuppressedFeeIDs, feeID)
	return nil
}

func (r fakeBookingRepo) ClearSuppressedFees(_ context.Context, bookingID int64) error {
	r[bookingID].SuppressedFeeIDs = nil
	return nil
}

type fakeUseRepo map[int64]domain.Use

func (r fakeUseRepo) GetByID(_ context.Context, id int64) (*domain.Use, error) {
	u := r[id]
	return &u, nil
}

type fakeResourceRepo map[int64]domain.Resource

func (r fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res := r[id]
	return &res, nil
}

type fakeLocationRepo struct {
	location domain.Location
	fees     []domain.Fee
}

func (r fakeLocationRepo) GetByID(_ context.Context, _ int64) (*domain.Location, error) {
	l := r.location
	return &l, nil
}

func (r fakeLocationRepo) GetFees(_ context.Context, _ int64) ([]domain.Fee, error) {
	return r.fees, nil
}

type fakeBillRepo struct {
	bills    map[int64]*domain.Bill
	nextID   int64
	touched  int
	payments []domain.Payment
}

func (r *fakeBillRepo) GetByID(_ context.Context, id int64) (*domain.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, billRepo.ErrBillNotFound
	}
	copied := *b
	copied.LineItems = append([]domain.LineItem(nil), b.LineItems...)
	copied.Payments = make([]domain.Payment, 0)
	for _, p := range r.payments {
		if p.BillID == id {
			copied.Payments = append(copied.Payments, p)
		}
	}
	return &copied, nil
}

func (r *fakeBillRepo) DeleteGeneratedItems(_ context.Context, billID int64) error {
	kept := make([]domain.LineItem, 0)
	for _, li := range r.bills[billID].LineItems {
		if li.Custom {
			kept = append(kept, li)
		}
	}
	r.bills[billID].LineItems = kept
	return nil
}

func (r *fakeBillRepo) CreateLineItems(_ context.Context, billID int64, items []domain.LineItem) error {
	for _, li := range items {
		if li.ID != 0 {
			continue
		}
		r.nextID++
		li.ID = r.nextID
		li.BillID = billID
		r.bills[billID].LineItems = append(r.bills[billID].LineItems, li)
	}
	return nil
}

func (r *fakeBillRepo) Touch(_ context.Context, _ int64) error {
	r.touched++
	return nil
}

func (r *fakeBillRepo) CreatePayment(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.nextID++
	p.ID = r.nextID
	r.payments = append(r.payments, *p)
	return p, nil
}

func (r *fakeBillRepo) ListPaymentsByTransaction(_ context.Context, transactionID string) ([]domain.Payment, error) {
	out := make([]domain.Payment, 0)
	for _, p := range r.payments {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			out = append(out, p)
		}
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics map[string]int

func (m countingMetrics) IncBillsGenerated(mode string)  { m["bill_"+mode]++ }
func (m countingMetrics) IncPaymentRecorded(kind string) { m["payment_"+kind]++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

const (
	adminID = int64(1)
	guestID = int64(2)

	bookingID = int64(10)
	billID    = int64(20)
)

type fixture struct {
	svc      *Service
	bookings fakeBookingRepo
	bills    *fakeBillRepo
	metrics  countingMetrics
}

// Три ночи по 100, сбор гостя 10% и сбор дома 5%
func newFixture() *fixture {
	bookings := fakeBookingRepo{bookingID: {ID: bookingID, UseID: 30, BillID: billID}}
	bills := &fakeBillRepo{bills: map[int64]*domain.Bill{billID: {ID: billID}}, nextID: 100}
	m := countingMetrics{}

	svc := NewService(
		bookings,
		fakeUseRepo{30: {
			ID: 30, LocationID: 3, ResourceID: 7, UserID: guestID,
			Status: domain.UseStatusConfirmed,
			Arrive: dates.Date(2025, time.May, 1), Depart: dates.Date(2025, time.May, 4),
		}},
		fakeResourceRepo{7: {ID: 7, LocationID: 3, Name: "Bunk", DefaultRate: 100}},
		fakeLocationRepo{
			location: domain.Location{ID: 3, HouseAdminIDs: []int64{adminID}},
			fees: []domain.Fee{
				{ID: 1, Description: "Service fee", Percentage: 0.10},
				{ID: 2, Description: "Processing", Percentage: 0.05, PaidByHouse: true},
			},
		},
		bills,
		passthroughTx{},
		m,
		nopLogger{},
	)
	svc.timeProvider = fixedTime(time.Date(2025, time.May, 2, 12, 0, 0, 0, time.UTC))

	return &fixture{svc: svc, bookings: bookings, bills: bills, metrics: m}
}

func itemsByDescription(resp *models.BillResponse) map[string]float64 {
	out := make(map[string]float64)
	for _, li := range resp.LineItems {
		out[li.Description] = float64(li.Amount)
	}
	return out
}

func TestRegenerate_PersistsLineItems(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Regenerate(context.Background(), &models.RegenerateRequest{BookingID: bookingID, UserID: adminID})
	require.NoError(t, err)

	items := itemsByDescription(resp)
	assert.Equal(t, 300.0, items["Bunk (3 * $100)"])
	assert.Equal(t, 30.0, items["Service fee (10%)"])
	assert.Equal(t, 15.0, items["Processing (5%)"])
	assert.InDelta(t, 330.0, float64(resp.Amount), 1e-9)
	assert.InDelta(t, 15.0, float64(resp.HouseFees), 1e-9)
	assert.Len(t, f.bills.bills[billID].LineItems, 3)
	assert.Equal(t, 1, f.bills.touched)
	assert.Equal(t, 1, f.metrics["bill_"+modePersist])

	// повторная генерация не дублирует строки
	_, err = f.svc.Regenerate(context.Background(), &models.RegenerateRequest{BookingID: bookingID, UserID: adminID})
	require.NoError(t, err)
	assert.Len(t, f.bills.bills[billID].LineItems, 3)
}

func TestRegenerate_PreviewDoesNotWrite(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Regenerate(context.Background(), &models.RegenerateRequest{
		BookingID:       bookingID,
		UserID:          adminID,
		GenerateOptions: models.GenerateOptions{Preview: true},
	})
	require.NoError(t, err)

	assert.Len(t, resp.LineItems, 3)
	assert.Empty(t, f.bills.bills[billID].LineItems)
	assert.Zero(t, f.bills.touched)
	assert.Equal(t, 1, f.metrics["bill_"+modePreview])
}

func TestRegenerate_NonAdminDenied(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Regenerate(context.Background(), &models.RegenerateRequest{BookingID: bookingID, UserID: guestID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Regenerate(context.Background(), &models.RegenerateRequest{BookingID: 999, UserID: adminID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRateOperations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.SetRate(ctx, &models.SetRateRequest{BookingID: bookingID, UserID: adminID, Rate: ptr.Ptr(50.0)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, itemsByDescription(resp)["Bunk (3 * $50)"])
	assert.Equal(t, 15.0, itemsByDescription(resp)["Service fee (10%)"])

	resp, err = f.svc.Comp(ctx, bookingID, adminID)
	require.NoError(t, err)
	assert.True(t, f.bookings[bookingID].IsComped())
	assert.Zero(t, float64(resp.Amount))

	resp, err = f.svc.ResetRate(ctx, bookingID, adminID)
	require.NoError(t, err)
	assert.Nil(t, f.bookings[bookingID].Rate)
	assert.Equal(t, 300.0, itemsByDescription(resp)["Bunk (3 * $100)"])

	// отсутствующая ставка означает 0
	resp, err = f.svc.SetRate(ctx, &models.SetRateRequest{BookingID: bookingID, UserID: adminID})
	require.NoError(t, err)
	require.NotNil(t, f.bookings[bookingID].Rate)
	assert.Zero(t, *f.bookings[bookingID].Rate)
	assert.Zero(t, float64(resp.Amount))

	_, err = f.svc.SetRate(ctx, &models.SetRateRequest{BookingID: bookingID, UserID: adminID, Rate: ptr.Ptr(-1.0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSuppressFee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.Regenerate(ctx, &models.RegenerateRequest{BookingID: bookingID, UserID: adminID})
	require.NoError(t, err)

	var feeItemID, baseItemID int64
	for _, li := range resp.LineItems {
		if li.FeeID != nil && *li.FeeID == 1 {
			feeItemID = li.ID
		}
		if li.FeeID == nil {
			baseItemID = li.ID
		}
	}
	require.NotZero(t, feeItemID)

	resp, err = f.svc.SuppressFee(ctx, bookingID, adminID, feeItemID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, f.bookings[bookingID].SuppressedFeeIDs)
	assert.Len(t, resp.LineItems, 2)
	assert.InDelta(t, 300.0, float64(resp.Amount), 1e-9)

	_, err = f.svc.SuppressFee(ctx, bookingID, adminID, baseItemID)
	assert.ErrorIs(t, err, ErrLineItemNotFound)

	resp, err = f.svc.Regenerate(ctx, &models.RegenerateRequest{
		BookingID:       bookingID,
		UserID:          adminID,
		GenerateOptions: models.GenerateOptions{ResetSuppressed: true},
	})
	require.NoError(t, err)
	assert.Empty(t, f.bookings[bookingID].SuppressedFeeIDs)
	assert.Len(t, resp.LineItems, 3)
}

func TestAddCustomItem(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.AddCustomItem(context.Background(), &models.CustomItemRequest{
		BookingID:   bookingID,
		UserID:      adminID,
		Description: "Early check-in discount",
		Amount:      -50,
	})
	require.NoError(t, err)

	require.Len(t, resp.LineItems, 4)
	assert.Equal(t, "Bunk (3 * $100)", resp.LineItems[0].Description)
	assert.Equal(t, "Early check-in discount", resp.LineItems[1].Description)
	assert.True(t, resp.LineItems[1].Custom)
	assert.Equal(t, 25.0, itemsByDescription(resp)["Service fee (10%)"])
	assert.InDelta(t, 275.0, float64(resp.Amount), 1e-9)

	// повторная генерация сохраняет ручную позицию ровно один раз
	for i := 0; i < 2; i++ {
		again, err := f.svc.Regenerate(context.Background(), &models.RegenerateRequest{BookingID: bookingID, UserID: adminID})
		require.NoError(t, err)
		require.Len(t, again.LineItems, 4)
		custom := 0
		for _, li := range again.LineItems {
			if li.Custom {
				custom++
				assert.Equal(t, "Early check-in discount", li.Description)
			}
		}
		assert.Equal(t, 1, custom)
		assert.InDelta(t, 275.0, float64(again.Amount), 1e-9)
	}

	_, err = f.svc.AddCustomItem(context.Background(), &models.CustomItemRequest{
		BookingID: bookingID, UserID: adminID, Amount: 10,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordPaymentAndFees(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Regenerate(ctx, &models.RegenerateRequest{BookingID: bookingID, UserID: adminID})
	require.NoError(t, err)

	cash, err := f.svc.RecordPayment(ctx, &models.RecordPaymentRequest{
		BillID: billID, UserID: adminID, PayerID: ptr.Ptr(guestID), PaidAmount: 165,
	})
	require.NoError(t, err)
	require.NotNil(t, cash.TransactionID)
	assert.Equal(t, domain.ManualTransactionID, *cash.TransactionID)
	assert.Equal(t, time.Date(2025, time.May, 2, 12, 0, 0, 0, time.UTC), cash.PaymentDate)

	_, err = f.svc.RecordPayment(ctx, &models.RecordPaymentRequest{
		BillID: billID, UserID: adminID, PaidAmount: 165, TransactionID: ptr.Ptr("ch_1"),
	})
	require.NoError(t, err)
	refund, err := f.svc.RecordPayment(ctx, &models.RecordPaymentRequest{
		BillID: billID, UserID: adminID, PaidAmount: -165, TransactionID: ptr.Ptr("ch_1"),
	})
	require.NoError(t, err)
	assert.True(t, refund.IsRefund)
	assert.Equal(t, 2, f.metrics["payment_"+kindPayment])
	assert.Equal(t, 1, f.metrics["payment_"+kindRefund])

	allocations, err := f.svc.PaymentFees(ctx, billID, adminID)
	require.NoError(t, err)
	require.Len(t, allocations, 3)

	// половина счёта: база 150, сбор гостя 15, сбор дома 7.5
	first := allocations[0]
	assert.InDelta(t, 15.0, float64(first.NonHouseFees), 1e-9)
	assert.InDelta(t, 7.5, float64(first.HouseFees), 1e-9)
	assert.InDelta(t, 142.5, float64(first.ToHouse), 1e-9)
	assert.False(t, first.FullyRefund)

	assert.True(t, allocations[1].FullyRefund)
	assert.Zero(t, float64(allocations[1].NetPaid))

	_, err = f.svc.RecordPayment(ctx, &models.RecordPaymentRequest{BillID: billID, UserID: guestID, PaidAmount: 10})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.RecordPayment(ctx, &models.RecordPaymentRequest{BillID: 404, UserID: adminID, PaidAmount: 10})
	assert.ErrorIs(t, err, ErrBillNotFound)
	backdated := time.Date(2025, time.April, 20, 9, 30, 0, 0, time.UTC)
	earlier, err := f.svc.RecordPayment(ctx, &models.RecordPaymentRequest{
		BillID: billID, UserID: adminID, PaidAmount: 1, PaymentDate: &backdated,
	})
	require.NoError(t, err)
	assert.Equal(t, backdated, earlier.PaymentDate)
	assert.Equal(t, backdated, f.bills.payments[len(f.bills.payments)-1].PaymentDate)
}

func TestGetBill_GuestOrAdmin(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetBill(context.Background(), billID, guestID)
	require.NoError(t, err)
	_, err = f.svc.GetBill(context.Background(), billID, adminID)
	require.NoError(t, err)
	_, err = f.svc.GetBill(context.Background(), billID, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
