package backing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	backingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/backing"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-LodgingService/internal/service/backing/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

func jan(day int) time.Time {
	return dates.Date(2025, time.January, day)
}

type fakeBackingRepo struct {
	nextID   int64
	backings map[int64]domain.Backing
}

func (r *fakeBackingRepo) ListByResource(_ context.Context, resourceID int64) ([]domain.Backing, error) {
	out := make([]domain.Backing, 0)
	for _, b := range r.backings {
		if b.ResourceID == resourceID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBackingRepo) Create(_ context.Context, b *domain.Backing) (*domain.Backing, error) {
	r.nextID++
	b.ID = r.nextID
	r.backings[b.ID] = *b
	return b, nil
}

func (r *fakeBackingRepo) SetEnd(_ context.Context, id int64, end time.Time) error {
	b, ok := r.backings[id]
	if !ok {
		return backingRepo.ErrBackingNotFound
	}
	b.End = &end
	r.backings[id] = b
	return nil
}

func (r *fakeBackingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.backings[id]; !ok {
		return backingRepo.ErrBackingNotFound
	}
	delete(r.backings, id)
	return nil
}

type fakeAccountRepo struct {
	nextID   int64
	accounts map[int64]*domain.Account
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.nextID++
	account.ID = r.nextID
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) Rename(_ context.Context, id int64, name string) error {
	r.accounts[id].Name = name
	return nil
}

type fakeCurrencies struct {
	ensured map[string]int64
}

func (c *fakeCurrencies) EnsureCurrency(_ context.Context, name, symbol string) (*domain.Currency, bool, error) {
	id, ok := c.ensured[name]
	if !ok {
		id = int64(len(c.ensured) + 1)
		c.ensured[name] = id
	}
	return &domain.Currency{ID: id, Name: name, Symbol: symbol}, !ok, nil
}

type fakeResourceRepo map[int64]*domain.Resource

func (r fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res, ok := r[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return res, nil
}

type fakeLocationRepo map[int64]*domain.Location

func (r fakeLocationRepo) GetByID(_ context.Context, id int64) (*domain.Location, error) {
	loc, ok := r[id]
	if !ok {
		return nil, locationRepo.ErrLocationNotFound
	}
	return loc, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics map[string]int

func (m countingMetrics) AddBackingsReplaced(action string, n int) {
	m[action] += n
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime time.Time

func (f fixedTime) Now() time.Time {
	return time.Time(f)
}

type fixture struct {
	svc      *Service
	backings *fakeBackingRepo
	accounts *fakeAccountRepo
	metrics  countingMetrics
}

func newFixture(existing ...domain.Backing) *fixture {
	backings := &fakeBackingRepo{backings: make(map[int64]domain.Backing)}
	for _, b := range existing {
		backings.backings[b.ID] = b
		if b.ID > backings.nextID {
			backings.nextID = b.ID
		}
	}
	accounts := &fakeAccountRepo{nextID: 100, accounts: make(map[int64]*domain.Account)}
	metrics := countingMetrics{}

	svc := NewService(
		backings,
		accounts,
		&fakeCurrencies{ensured: make(map[string]int64)},
		fakeResourceRepo{7: {ID: 7, LocationID: 3, Name: "Room 1"}},
		fakeLocationRepo{3: {ID: 3, HouseAdminIDs: []int64{1}}},
		passthroughTx{},
		metrics,
		nopLogger{},
	)
	svc.timeProvider = fixedTime(jan(15).Add(10 * time.Hour))

	return &fixture{svc: svc, backings: backings, accounts: accounts, metrics: metrics}
}

func TestSetNextBacking_ReplacesCurrentAndFuture(t *testing.T) {
	current := domain.Backing{ID: 1, ResourceID: 7, UserIDs: []int64{5}, Start: jan(1)}
	future := domain.Backing{ID: 2, ResourceID: 7, UserIDs: []int64{6}, Start: jan(25), End: ptr.Ptr(jan(30))}
	f := newFixture(current, future)

	resp, err := f.svc.SetNextBacking(context.Background(), &models.SetNextBackingRequest{
		ResourceID: 7,
		UserID:     1,
		BackerIDs:  []int64{10, 11},
		Start:      jan(20),
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-20", resp.Start)
	assert.Nil(t, resp.End)
	assert.Equal(t, []int64{10, 11}, resp.Backers)

	// текущая закрыта, будущая удалена
	require.Contains(t, f.backings.backings, int64(1))
	assert.Equal(t, jan(20), *f.backings.backings[1].End)
	assert.NotContains(t, f.backings.backings, int64(2))

	money := f.accounts.accounts[resp.MoneyAccountID]
	drft := f.accounts.accounts[resp.DrftAccountID]
	require.NotNil(t, money)
	require.NotNil(t, drft)
	assert.Equal(t, "Room 1 USD Account: Backing 3", money.Name)
	assert.Equal(t, "Room 1 DRFT Account: Backing 3", drft.Name)
	assert.Equal(t, []int64{10, 11}, money.OwnerIDs)
	assert.Equal(t, domain.AccountTypeCredit, drft.Type)
	assert.NotEqual(t, money.CurrencyID, drft.CurrencyID)

	assert.Equal(t, 1, f.metrics[actionDeleted])
	assert.Equal(t, 1, f.metrics[actionEnded])
	assert.Equal(t, 1, f.metrics[actionCreated])
}

func TestSetNextBacking_Errors(t *testing.T) {
	tests := []struct {
		name     string
		existing []domain.Backing
		req      models.SetNextBackingRequest
		wantErr  error
	}{
		{
			name:    "not an admin",
			req:     models.SetNextBackingRequest{ResourceID: 7, UserID: 2, BackerIDs: []int64{10}, Start: jan(20)},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown resource",
			req:     models.SetNextBackingRequest{ResourceID: 8, UserID: 1, BackerIDs: []int64{10}, Start: jan(20)},
			wantErr: ErrResourceNotFound,
		},
		{
			name:    "no backers",
			req:     models.SetNextBackingRequest{ResourceID: 7, UserID: 1, Start: jan(20)},
			wantErr: ErrInvalidInput,
		},
		{
			name:     "start before current backing",
			existing: []domain.Backing{{ID: 1, ResourceID: 7, UserIDs: []int64{5}, Start: jan(10)}},
			req:      models.SetNextBackingRequest{ResourceID: 7, UserID: 1, BackerIDs: []int64{10}, Start: jan(5)},
			wantErr:  ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.existing...)
			_, err := f.svc.SetNextBacking(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.accounts.accounts)
		})
	}
}

func TestListBackings(t *testing.T) {
	f := newFixture(
		domain.Backing{ID: 1, ResourceID: 7, Start: jan(1), End: ptr.Ptr(jan(20))},
		domain.Backing{ID: 2, ResourceID: 7, Start: jan(20)},
	)

	resp, err := f.svc.ListBackings(context.Background(), 7, 1)
	require.NoError(t, err)

	require.NotNil(t, resp.Current)
	assert.Equal(t, int64(1), resp.Current.ID)
	assert.Equal(t, "2025-01-20", *resp.Current.End)
	require.Len(t, resp.Scheduled, 1)
	assert.Equal(t, int64(2), resp.Scheduled[0].ID)
	require.NotNil(t, resp.Latest)
	assert.Equal(t, int64(2), resp.Latest.ID)

	_, err = f.svc.ListBackings(context.Background(), 7, 2)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
