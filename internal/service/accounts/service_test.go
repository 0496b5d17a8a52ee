package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	accountRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/account"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-LodgingService/internal/service/accounts/models"
)

type primaryKey struct {
	userID, currencyID int64
}

type fakeAccountRepo struct {
	nextID     int64
	currencies map[string]*domain.Currency
	accounts   map[int64]*domain.Account
	primary    map[primaryKey]int64
	balances   map[int64]float64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		currencies: make(map[string]*domain.Currency),
		accounts:   make(map[int64]*domain.Account),
		primary:    make(map[primaryKey]int64),
		balances:   make(map[int64]float64),
	}
}

func (r *fakeAccountRepo) GetCurrencyByName(_ context.Context, name string) (*domain.Currency, error) {
	c, ok := r.currencies[name]
	if !ok {
		return nil, accountRepo.ErrCurrencyNotFound
	}
	return c, nil
}

func (r *fakeAccountRepo) CreateCurrency(_ context.Context, currency *domain.Currency) (bool, error) {
	if _, ok := r.currencies[currency.Name]; ok {
		return false, nil
	}
	r.nextID++
	currency.ID = r.nextID
	r.currencies[currency.Name] = currency
	return true, nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, accountRepo.ErrAccountNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.nextID++
	account.ID = r.nextID
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) GetPrimaryAccountID(_ context.Context, userID, currencyID int64) (int64, error) {
	id, ok := r.primary[primaryKey{userID, currencyID}]
	if !ok {
		return 0, accountRepo.ErrAccountNotFound
	}
	return id, nil
}

func (r *fakeAccountRepo) SetPrimaryAccount(_ context.Context, userID, currencyID, accountID int64) error {
	r.primary[primaryKey{userID, currencyID}] = accountID
	return nil
}

func (r *fakeAccountRepo) Balance(_ context.Context, accountID int64) (float64, error) {
	return r.balances[accountID], nil
}

type fakeUserClient map[int64]*userservice.User

func (c fakeUserClient) GetUserWithGracefulDegradation(_ context.Context, userID int64) (*userservice.User, error) {
	u, ok := c[userID]
	if !ok {
		return nil, userservice.ErrServiceDegraded
	}
	return u, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeAccountRepo) *Service {
	users := fakeUserClient{1: {ID: 1, Username: "ada", FirstName: "Ada", LastName: "Lovelace"}}
	return NewService(repo, users, passthroughTx{}, nopLogger{})
}

func TestEnsureCurrency_IsIdempotent(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestService(repo)

	usd, created, err := svc.EnsureCurrency(context.Background(), domain.CurrencyUSD, domain.CurrencyUSDSymbol)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.EnsureCurrency(context.Background(), domain.CurrencyUSD, domain.CurrencyUSDSymbol)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, usd.ID, again.ID)
	assert.Len(t, repo.currencies, 1)
}

func TestGetOrCreatePrimaryAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 1, Currency: domain.CurrencyDRFT})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "Ada Lovelace (DRFT)", first.Account.Name)
	assert.Equal(t, []int64{1}, first.Account.Owners)
	assert.Equal(t, domain.CurrencyDRFTSymbol, first.Account.Currency.Symbol)

	second, err := svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 1, Currency: domain.CurrencyDRFT})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Account.ID, second.Account.ID)

	// недоступный сервис пользователей не мешает созданию счёта
	other, err := svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 2, Currency: domain.CurrencyUSD})
	require.NoError(t, err)
	assert.Equal(t, "user 2 (USD)", other.Account.Name)

	_, err = svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 1, Currency: "EUR"})
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestGetOrCreatePrimaryAccount_OwnerCheck(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 1, Currency: domain.CurrencyUSD})
	require.NoError(t, err)

	usd := repo.currencies[domain.CurrencyUSD]
	repo.primary[primaryKey{3, usd.ID}] = repo.primary[primaryKey{1, usd.ID}]

	_, err = svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 3, Currency: domain.CurrencyUSD})
	assert.ErrorIs(t, err, domain.ErrNotAccountOwner)
}

func TestDrftBalance(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	balance, err := svc.DrftBalance(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, balance)

	created, err := svc.GetOrCreatePrimaryAccount(ctx, &models.PrimaryAccountRequest{UserID: 1, Currency: domain.CurrencyDRFT})
	require.NoError(t, err)
	repo.balances[created.Account.ID] = 4

	resp, err := svc.GetDrftBalance(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, float64(resp.Balance), 1e-9)
	assert.Equal(t, domain.CurrencyDRFTSymbol, resp.Symbol)
}
