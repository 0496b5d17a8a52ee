package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	billRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/bill"
	bookingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/booking"
	useRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/use"
	"github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

type fakeBookingRepo struct {
	bookings []domain.Booking
	err      error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			copied := b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetByUseID(_ context.Context, useID int64) (*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, b := range r.bookings {
		if b.UseID == useID {
			copied := b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

type fakeUseRepo map[int64]*domain.Use

func (r fakeUseRepo) GetByID(_ context.Context, id int64) (*domain.Use, error) {
	u, ok := r[id]
	if !ok {
		return nil, useRepo.ErrUseNotFound
	}
	copied := *u
	return &copied, nil
}

func (r fakeUseRepo) List(_ context.Context, filter domain.UsesFilter) ([]*domain.Use, error) {
	out := make([]*domain.Use, 0)
	for _, u := range r {
		if filter.LocationID != nil && u.LocationID != *filter.LocationID {
			continue
		}
		if filter.ResourceID != nil && u.ResourceID != *filter.ResourceID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, st := range filter.Statuses {
				matched = matched || u.Status == st
			}
			if !matched {
				continue
			}
		}
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r fakeUseRepo) UpdateStatus(_ context.Context, id int64, status domain.UseStatus) error {
	r[id].Status = status
	return nil
}

type fakeResourceRepo struct{}

func (fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	return &domain.Resource{ID: id, LocationID: 3, Name: "Bunk", DefaultRate: 40}, nil
}

type fakeLocationRepo struct{}

func (fakeLocationRepo) GetByID(_ context.Context, id int64) (*domain.Location, error) {
	return &domain.Location{ID: id, Name: "Embassy", Slug: "embassy", HouseAdminIDs: []int64{adminID}}, nil
}

type fakeCapacityRepo struct{}

// одно место на ресурсе 7
func (fakeCapacityRepo) ListByResources(_ context.Context, _ []int64) ([]domain.CapacityChange, error) {
	return []domain.CapacityChange{{ID: 1, ResourceID: 7, StartDate: dates.Date(2025, time.January, 1), Quantity: 1}}, nil
}

type fakeBillRepo map[int64]*domain.Bill

func (r fakeBillRepo) GetByID(_ context.Context, id int64) (*domain.Bill, error) {
	b, ok := r[id]
	if !ok {
		return nil, billRepo.ErrBillNotFound
	}
	return b, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	adminID = int64(1)
	guestID = int64(2)
)

func june(day int) time.Time {
	return dates.Date(2025, time.June, day)
}

func newTestService(bookings *fakeBookingRepo, uses fakeUseRepo, bills fakeBillRepo) *Service {
	return NewService(bookings, uses, fakeResourceRepo{}, fakeLocationRepo{}, fakeCapacityRepo{}, bills, passthroughTx{}, nopLogger{})
}

func unpaidBill(id int64) *domain.Bill {
	return &domain.Bill{ID: id, LineItems: []domain.LineItem{{ID: 1, Description: "Bunk (2 * $40)", Amount: 80}}}
}

func TestGetByID_Serialization(t *testing.T) {
	uses := fakeUseRepo{
		5: {ID: 5, LocationID: 3, ResourceID: 7, UserID: guestID, Status: domain.UseStatusConfirmed, Arrive: june(3), Depart: june(5), Purpose: "visit"},
	}
	bookings := &fakeBookingRepo{bookings: []domain.Booking{domain.NewBooking(5, 50, nil)}}
	bookings.bookings[0].ID = 9
	svc := newTestService(bookings, uses, fakeBillRepo{50: unpaidBill(50)})

	resp, err := svc.GetByID(context.Background(), 9, guestID)
	require.NoError(t, err)

	assert.Equal(t, int64(9), resp.ID)
	require.NotNil(t, resp.UUID)
	assert.Equal(t, 2025, resp.Arrive.Year)
	assert.Equal(t, 6, resp.Arrive.Month)
	assert.Equal(t, 5, resp.Depart.Day)
	assert.Equal(t, 2, resp.Nights)
	assert.Equal(t, "embassy", resp.Location.Slug)
	require.NotNil(t, resp.Bill)
	assert.InDelta(t, 80.0, float64(resp.Bill.TotalOwed), 1e-9)

	_, err = svc.GetByID(context.Background(), 9, 77)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 404, adminID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus(t *testing.T) {
	uses := fakeUseRepo{
		5: {ID: 5, LocationID: 3, ResourceID: 7, UserID: guestID, Status: domain.UseStatusPending, Arrive: june(3), Depart: june(5)},
		6: {ID: 6, LocationID: 3, ResourceID: 7, UserID: 8, Status: domain.UseStatusConfirmed, Arrive: june(4), Depart: june(6)},
	}
	bookings := &fakeBookingRepo{bookings: []domain.Booking{
		{ID: 9, UseID: 5, BillID: 50},
	}}
	svc := newTestService(bookings, uses, fakeBillRepo{50: unpaidBill(50)})
	ctx := context.Background()

	// гость не может одобрить своё бронирование
	_, err := svc.UpdateStatus(ctx, &models.UpdateStatusRequest{BookingID: 9, UserID: guestID, Status: "approved"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateStatus(ctx, &models.UpdateStatusRequest{BookingID: 9, UserID: adminID, Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// единственное место 4 июня занято проживанием 6
	_, err = svc.UpdateStatus(ctx, &models.UpdateStatusRequest{BookingID: 9, UserID: adminID, Status: "approved"})
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, domain.UseStatusPending, uses[5].Status)

	uses[6].Status = domain.UseStatusCanceled
	resp, err := svc.UpdateStatus(ctx, &models.UpdateStatusRequest{BookingID: 9, UserID: adminID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, domain.UseStatusApproved, uses[5].Status)

	resp, err = svc.UpdateStatus(ctx, &models.UpdateStatusRequest{BookingID: 9, UserID: guestID, Status: "canceled"})
	require.NoError(t, err)
	assert.Equal(t, "canceled", resp.Status)
	require.NotNil(t, resp.Bill)

	_, err = svc.UpdateStatus(ctx, &models.UpdateStatusRequest{BookingID: 9, UserID: guestID, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrCannotTransition)
}

func TestUnpaidBookings_SkipsUsesWithoutBooking(t *testing.T) {
	paid := unpaidBill(51)
	paid.Payments = []domain.Payment{{ID: 1, BillID: 51, PaidAmount: 80}}

	uses := fakeUseRepo{
		5: {ID: 5, LocationID: 3, ResourceID: 7, UserID: guestID, Status: domain.UseStatusConfirmed, Arrive: june(3), Depart: june(5)},
		6: {ID: 6, LocationID: 3, ResourceID: 7, UserID: 8, Status: domain.UseStatusConfirmed, Arrive: june(6), Depart: june(8)},
		7: {ID: 7, LocationID: 3, ResourceID: 7, UserID: 8, Status: domain.UseStatusConfirmed, Arrive: june(9), Depart: june(10)},
		8: {ID: 8, LocationID: 3, ResourceID: 7, UserID: 8, Status: domain.UseStatusPending, Arrive: june(9), Depart: june(10)},
	}
	bookings := &fakeBookingRepo{bookings: []domain.Booking{
		{ID: 9, UseID: 5, BillID: 50},
		{ID: 10, UseID: 6, BillID: 51},
		{ID: 11, UseID: 8, BillID: 52},
	}}
	svc := newTestService(bookings, uses, fakeBillRepo{50: unpaidBill(50), 51: paid, 52: unpaidBill(52)})

	resp, err := svc.UnpaidBookings(context.Background(), 3, adminID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(9), resp.Bookings[0].ID)

	_, err = svc.UnpaidBookings(context.Background(), 3, guestID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUnpaidBookings_PropagatesRepositoryErrors(t *testing.T) {
	uses := fakeUseRepo{
		5: {ID: 5, LocationID: 3, ResourceID: 7, Status: domain.UseStatusConfirmed, Arrive: june(3), Depart: june(5)},
	}
	bookings := &fakeBookingRepo{err: errors.New("connection reset")}
	svc := newTestService(bookings, uses, fakeBillRepo{})

	_, err := svc.UnpaidBookings(context.Background(), 3, adminID)
	assert.ErrorIs(t, err, ErrInternal)
}
