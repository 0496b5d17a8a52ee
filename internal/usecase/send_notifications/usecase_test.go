package send_notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/mailer"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/slack"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

func mar(day int) time.Time {
	return dates.Date(2025, time.March, day)
}

type fakeLocationRepo []*domain.Location

func (r fakeLocationRepo) List(_ context.Context) ([]*domain.Location, error) {
	return r, nil
}

func (r fakeLocationRepo) GetBySlug(_ context.Context, slug string) (*domain.Location, error) {
	for _, loc := range r {
		if loc.Slug == slug {
			return loc, nil
		}
	}
	return nil, locationRepo.ErrLocationNotFound
}

type fakeUseRepo struct {
	uses   []*domain.Use
	marked map[int64]time.Time
}

func (r *fakeUseRepo) List(_ context.Context, f domain.UsesFilter) ([]*domain.Use, error) {
	statuses := make(map[domain.UseStatus]bool)
	for _, s := range f.Statuses {
		statuses[s] = true
	}

	out := make([]*domain.Use, 0)
	for _, u := range r.uses {
		switch {
		case f.LocationID != nil && u.LocationID != *f.LocationID,
			len(statuses) > 0 && !statuses[u.Status],
			f.ArriveOn != nil && !u.Arrive.Equal(*f.ArriveOn),
			f.DepartOn != nil && !u.Depart.Equal(*f.DepartOn),
			f.OverlapStart != nil && u.Depart.Before(*f.OverlapStart),
			f.OverlapEnd != nil && u.Arrive.After(*f.OverlapEnd):
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUseRepo) MarkLastMsg(_ context.Context, id int64, at time.Time) error {
	r.marked[id] = at
	return nil
}

type fakeResourceRepo map[int64]*domain.Resource

func (r fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	return r[id], nil
}

type fakeUnpaid []*bookingModels.BookingResponse

func (u fakeUnpaid) ConfirmedButUnpaid(_ context.Context, _ *domain.Location) ([]*bookingModels.BookingResponse, error) {
	return u, nil
}

type fakeUsers map[int64]*userservice.User

func (u fakeUsers) GetUsers(_ context.Context, ids []int64) (map[int64]*userservice.User, error) {
	out := make(map[int64]*userservice.User)
	for _, id := range ids {
		if user, ok := u[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

type fakeMailer struct {
	sent    []mailer.Message
	failFor map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	for _, to := range msg.To {
		if m.failFor[to] {
			return "", mailer.ErrDeliveryFailed
		}
	}
	m.sent = append(m.sent, msg)
	return "id", nil
}

type fakeSlack struct {
	posted []slack.Payload
	err    error
}

func (s *fakeSlack) Post(_ context.Context, payload slack.Payload) error {
	if s.err != nil {
		return s.err
	}
	s.posted = append(s.posted, payload)
	return nil
}

type countingMetrics map[string]int

func (m countingMetrics) IncNotification(kind, status string) {
	m[kind+"/"+status]++
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
	uc      *UseCase
	uses    *fakeUseRepo
	mailer  *fakeMailer
	slack   *fakeSlack
	metrics countingMetrics
}

func confirmed(id, userID int64, arrive, depart time.Time) *domain.Use {
	return &domain.Use{
		ID: id, LocationID: 3, ResourceID: 7, UserID: userID,
		Status: domain.UseStatusConfirmed, Arrive: arrive, Depart: depart,
	}
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		uses: &fakeUseRepo{
			uses: []*domain.Use{
				confirmed(1, 10, mar(12), mar(15)),
				confirmed(2, 11, mar(5), mar(10)),
				confirmed(3, 12, mar(10), mar(13)),
				confirmed(4, 13, mar(8), mar(20)),
				{ID: 5, LocationID: 3, ResourceID: 7, UserID: 11, Status: domain.UseStatusPending, Arrive: mar(20), Depart: mar(22)},
			},
			marked: make(map[int64]time.Time),
		},
		mailer:  &fakeMailer{failFor: map[string]bool{}},
		slack:   &fakeSlack{},
		metrics: countingMetrics{},
	}

	users := fakeUsers{
		1:  {ID: 1, Username: "host", FirstName: "Grace", LastName: "Hopper", Email: "admin@example.com"},
		10: {ID: 10, Username: "ada", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		11: {ID: 11, Username: "bob", Email: "bob@example.com"},
		13: {ID: 13, Username: "carol", FirstName: "Carol", Email: "carol@example.com"},
	}

	f.uc = NewUseCase(
		fakeLocationRepo{{ID: 3, Name: "Embassy", Slug: "embassy", WelcomeEmailDaysAhead: 2, HouseAdminIDs: []int64{1}}},
		f.uses,
		fakeResourceRepo{7: {ID: 7, Name: "Bunk"}},
		fakeUnpaid{{ID: 40, Resource: bookingModels.ResourceRef{ID: 7, Name: "Bunk"}}},
		users,
		f.mailer,
		f.slack,
		f.metrics,
		Options{AdminEmails: []string{"ops@example.com", "admin@example.com"}, SiteName: "Embassy Network", BaseURL: "https://example.com"},
		nopLogger{},
	)
	f.uc.timeProvider = fixedTime(now)
	return f
}

func TestSendGuestWelcome(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))

	report, err := f.uc.SendGuestWelcome(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, []string{"ada@example.com"}, msg.To)
	assert.Equal(t, "[Embassy] Welcome to Embassy", msg.Subject)
	assert.Contains(t, msg.Text, "March 12 - March 15 in Bunk")
	assert.Contains(t, f.uses.marked, int64(1))
	assert.Equal(t, 1, f.metrics["welcome/sent"])
}

func TestSendGuestWelcome_DeliveryFailure(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))
	f.mailer.failFor["ada@example.com"] = true

	report, err := f.uc.SendGuestWelcome(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, f.uses.marked)
	assert.Equal(t, 1, f.metrics["welcome/failed"])
}

func TestSendDepartureEmail(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))

	report, err := f.uc.SendDepartureEmail(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, []string{"bob@example.com"}, f.mailer.sent[0].To)
}

func TestSendGuestsResidentsDailyUpdate(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))

	report, err := f.uc.SendGuestsResidentsDailyUpdate(context.Background())
	require.NoError(t, err)

	// гость use 3 без адреса, use 2 уже выезжает
	assert.Equal(t, 1, report.Sent)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, []string{"carol@example.com"}, msg.To)
	assert.Equal(t, "[Embassy] Arrivals and Departures for March 10, 2025", msg.Subject)
	assert.Contains(t, msg.Text, "Arriving today (1)")
	assert.Contains(t, msg.Text, "user 12, March 10 - March 13 in Bunk")
	assert.Contains(t, msg.Text, "Departing today (1)")
	assert.Equal(t, 1, f.metrics["guest_digest/skipped"])
}

func TestSendGuestsResidentsDailyUpdate_QuietDay(t *testing.T) {
	f := newFixture(mar(11).Add(7 * time.Hour))

	report, err := f.uc.SendGuestsResidentsDailyUpdate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	assert.Empty(t, f.mailer.sent)
}

func TestSendAdminDailyUpdate(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))

	report, err := f.uc.SendAdminDailyUpdate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, []string{"ops@example.com", "admin@example.com"}, msg.To)
	assert.Contains(t, msg.Text, "Pending requests (1)")
	assert.Contains(t, msg.Text, "Confirmed but unpaid (1)")
	assert.Contains(t, msg.Text, "booking 40, Bunk")
}

func TestSlackDaily(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))

	report, err := f.uc.SlackDaily(context.Background(), "embassy")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	require.Len(t, f.slack.posted, 1)
	payload := f.slack.posted[0]
	assert.Equal(t, "Arrivals and Departures for March 10, 2025", payload.Text)
	require.Len(t, payload.Attachments, 2)
	assert.Equal(t, slack.ColorGood, payload.Attachments[0].Color)
	assert.Equal(t, slack.ColorDanger, payload.Attachments[1].Color)
	assert.Equal(t, "https://example.com/people/bob/", payload.Attachments[1].TitleLink)

	_, err = f.uc.SlackDaily(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestSlackDaily_NoMoves(t *testing.T) {
	f := newFixture(mar(25).Add(7 * time.Hour))

	_, err := f.uc.SlackDaily(context.Background(), "embassy")
	require.NoError(t, err)

	require.Len(t, f.slack.posted, 1)
	require.Len(t, f.slack.posted[0].Attachments, 1)
	assert.Equal(t, "No arrivals or departures today", f.slack.posted[0].Attachments[0].Text)
}

func TestSlackDaily_DisabledOrFailing(t *testing.T) {
	f := newFixture(mar(10).Add(7 * time.Hour))
	f.uc.slack = nil

	report, err := f.uc.SlackDaily(context.Background(), "embassy")
	require.NoError(t, err)
	assert.Zero(t, report.Sent)

	f = newFixture(mar(10).Add(7 * time.Hour))
	f.slack.err = errors.New("webhook down")

	report, err = f.uc.SlackDaily(context.Background(), "embassy")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, f.metrics["slack/failed"])
}
