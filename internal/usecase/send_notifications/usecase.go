package send_notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/mailer"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-LodgingService/pkg/dates"
	"github.com/m04kA/SMC-LodgingService/pkg/ptr"
)

// UseCase регламентные рассылки гостям, администраторам и в Slack
type UseCase struct {
	locationRepo LocationRepository
	useRepo      UseRepository
	resourceRepo ResourceRepository
	unpaid       UnpaidProvider
	users        UserDirectory
	mailer       Mailer
	slack        SlackPoster
	metrics      Metrics
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// slack может быть nil, тогда публикация в Slack пропускается
func NewUseCase(
	locationRepo LocationRepository,
	useRepo UseRepository,
	resourceRepo ResourceRepository,
	unpaid UnpaidProvider,
	users UserDirectory,
	mailer Mailer,
	slack SlackPoster,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		locationRepo: locationRepo,
		useRepo:      useRepo,
		resourceRepo: resourceRepo,
		unpaid:       unpaid,
		users:        users,
		mailer:       mailer,
		slack:        slack,
		metrics:      metrics,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// SendGuestWelcome письмо гостям, заезжающим через welcome_email_days_ahead дней
func (uc *UseCase) SendGuestWelcome(ctx context.Context) (*Report, error) {
	uc.logger.Info("Running task: send_guest_welcome")
	report := &Report{Kind: KindWelcome}

	err := uc.forEachLocation(ctx, func(location *domain.Location, today time.Time) error {
		daysAhead := location.WelcomeEmailDaysAhead
		if daysAhead <= 0 {
			daysAhead = domain.DefaultWelcomeEmailDaysAhead
		}
		soon := today.AddDate(0, 0, daysAhead)

		stays, err := uc.confirmedStays(ctx, domain.UsesFilter{LocationID: ptr.Ptr(location.ID), ArriveOn: &soon})
		if err != nil {
			return err
		}
		for _, s := range stays {
			subject, text := welcomeText(location, s, uc.opts)
			uc.sendToGuest(ctx, report, s, subject, text)
		}
		return nil
	})
	return report, err
}

// SendDepartureEmail письмо гостям, выезжающим сегодня
func (uc *UseCase) SendDepartureEmail(ctx context.Context) (*Report, error) {
	uc.logger.Info("Running task: send_departure_email")
	report := &Report{Kind: KindDeparture}

	err := uc.forEachLocation(ctx, func(location *domain.Location, today time.Time) error {
		stays, err := uc.confirmedStays(ctx, domain.UsesFilter{LocationID: ptr.Ptr(location.ID), DepartOn: &today})
		if err != nil {
			return err
		}
		for _, s := range stays {
			subject, text := departureText(location, s, uc.opts)
			uc.sendToGuest(ctx, report, s, subject, text)
		}
		return nil
	})
	return report, err
}

// SendGuestsResidentsDailyUpdate сводка заездов и выездов для всех, кто живёт в доме сегодня
// Если в локации нет ни заездов, ни выездов, письма не отправляются
func (uc *UseCase) SendGuestsResidentsDailyUpdate(ctx context.Context) (*Report, error) {
	uc.logger.Info("Running task: send_guests_residents_daily_update")
	report := &Report{Kind: KindGuestDigest}

	err := uc.forEachLocation(ctx, func(location *domain.Location, today time.Time) error {
		arriving, departing, err := uc.movesOn(ctx, location, today)
		if err != nil {
			return err
		}
		if len(arriving) == 0 && len(departing) == 0 {
			uc.logger.Info("send_guests_residents_daily_update: no arrivals or departures at location id=%d", location.ID)
			return nil
		}

		residents, err := uc.confirmedStays(ctx, domain.UsesFilter{
			LocationID:   ptr.Ptr(location.ID),
			OverlapStart: &today,
			OverlapEnd:   &today,
		})
		if err != nil {
			return err
		}

		subject, text := guestDigestText(location, today, arriving, departing)
		for _, s := range residents {
			// выезжающие сегодня уже не живут в доме
			if !s.Depart.After(today) {
				continue
			}
			uc.sendToGuest(ctx, report, s, subject, text)
		}
		return nil
	})
	return report, err
}

// SendAdminDailyUpdate сводка администраторам: заезды, выезды, заявки и неоплаченные бронирования
func (uc *UseCase) SendAdminDailyUpdate(ctx context.Context) (*Report, error) {
	uc.logger.Info("Running task: send_admin_daily_update")
	report := &Report{Kind: KindAdminDigest}

	err := uc.forEachLocation(ctx, func(location *domain.Location, today time.Time) error {
		arriving, departing, err := uc.movesOn(ctx, location, today)
		if err != nil {
			return err
		}

		pendingUses, err := uc.useRepo.List(ctx, domain.UsesFilter{
			LocationID:   ptr.Ptr(location.ID),
			Statuses:     []domain.UseStatus{domain.UseStatusPending},
			OverlapStart: &today,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to list pending uses: %v", ErrInternal, err)
		}
		pending, err := uc.stays(ctx, pendingUses)
		if err != nil {
			return err
		}

		unpaid, err := uc.unpaid.ConfirmedButUnpaid(ctx, location)
		if err != nil {
			return fmt.Errorf("%w: failed to get unpaid bookings: %v", ErrInternal, err)
		}

		if len(arriving)+len(departing)+len(pending)+len(unpaid) == 0 {
			uc.logger.Info("send_admin_daily_update: nothing to report at location id=%d", location.ID)
			return nil
		}

		recipients := uc.adminRecipients(ctx, location)
		if len(recipients) == 0 {
			uc.logger.Warn("send_admin_daily_update: location id=%d has no admin emails", location.ID)
			uc.metrics.IncNotification(KindAdminDigest, statusSkipped)
			return nil
		}

		subject, text := adminDigestText(location, today, arriving, departing, pending, unpaid)
		uc.send(ctx, report, mailer.Message{To: recipients, Subject: subject, Text: text})
		return nil
	})
	return report, err
}

// SlackDaily публикует заезды и выезды локации в Slack
func (uc *UseCase) SlackDaily(ctx context.Context, slug string) (*Report, error) {
	report := &Report{Kind: KindSlack}
	if uc.slack == nil {
		uc.logger.Info("Skipping task: slack_daily")
		return report, nil
	}
	uc.logger.Info("Running task: slack_daily for location %s", slug)

	location, err := uc.locationRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("slack_daily: location %s not found", slug)
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("%w: failed to get location %s: %v", ErrInternal, slug, err)
	}

	today := location.Today(uc.timeProvider.Now())
	arriving, departing, err := uc.movesOn(ctx, location, today)
	if err != nil {
		return nil, err
	}

	if err := uc.slack.Post(ctx, slackPayload(location, today, arriving, departing, uc.opts)); err != nil {
		uc.logger.Error("slack_daily: failed to post for location %s: %v", slug, err)
		uc.metrics.IncNotification(KindSlack, statusFailed)
		report.Failed++
		return report, nil
	}

	uc.metrics.IncNotification(KindSlack, statusSent)
	report.Sent++
	return report, nil
}

// forEachLocation вызывает fn для каждой локации с её сегодняшней датой
// Ошибка одной локации не останавливает рассылку по остальным
func (uc *UseCase) forEachLocation(ctx context.Context, fn func(location *domain.Location, today time.Time) error) error {
	locations, err := uc.locationRepo.List(ctx)
	if err != nil {
		uc.logger.Error("failed to list locations: %v", err)
		return fmt.Errorf("%w: failed to list locations: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	var errs []error
	for _, location := range locations {
		if err := fn(location, location.Today(now)); err != nil {
			uc.logger.Error("location id=%d: %v", location.ID, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// movesOn подтверждённые заезды и выезды локации в день today
func (uc *UseCase) movesOn(ctx context.Context, location *domain.Location, today time.Time) ([]stay, []stay, error) {
	arriving, err := uc.confirmedStays(ctx, domain.UsesFilter{LocationID: ptr.Ptr(location.ID), ArriveOn: &today})
	if err != nil {
		return nil, nil, err
	}
	departing, err := uc.confirmedStays(ctx, domain.UsesFilter{LocationID: ptr.Ptr(location.ID), DepartOn: &today})
	if err != nil {
		return nil, nil, err
	}
	return arriving, departing, nil
}

func (uc *UseCase) confirmedStays(ctx context.Context, filter domain.UsesFilter) ([]stay, error) {
	filter.Statuses = []domain.UseStatus{domain.UseStatusConfirmed}
	uses, err := uc.useRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list uses: %v", ErrInternal, err)
	}
	return uc.stays(ctx, uses)
}

// stays дополняет проживания именами гостей и ресурсов
// Недоступность UserService не прерывает рассылку: гости без адреса пропускаются
func (uc *UseCase) stays(ctx context.Context, uses []*domain.Use) ([]stay, error) {
	if len(uses) == 0 {
		return []stay{}, nil
	}

	ids := make([]int64, 0, len(uses))
	for _, u := range uses {
		ids = append(ids, u.UserID)
	}
	users, err := uc.users.GetUsers(ctx, ids)
	if err != nil {
		uc.logger.Warn("failed to get users, sending without names: %v", err)
		users = map[int64]*userservice.User{}
	}

	resources := make(map[int64]*domain.Resource)
	result := make([]stay, 0, len(uses))
	for _, u := range uses {
		resource, ok := resources[u.ResourceID]
		if !ok {
			resource, err = uc.resourceRepo.GetByID(ctx, u.ResourceID)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to get resource id=%d: %v", ErrInternal, u.ResourceID, err)
			}
			resources[u.ResourceID] = resource
		}

		s := stay{
			UseID:        u.ID,
			GuestID:      u.UserID,
			GuestName:    fmt.Sprintf("user %d", u.UserID),
			ResourceName: resource.Name,
			Arrive:       dates.Day(u.Arrive),
			Depart:       dates.Day(u.Depart),
		}
		if user, ok := users[u.UserID]; ok {
			s.GuestName = user.FullName()
			s.GuestEmail = user.Email
			s.Username = user.Username
		}
		result = append(result, s)
	}
	return result, nil
}

// adminRecipients адреса из настроек и адреса администраторов локации
func (uc *UseCase) adminRecipients(ctx context.Context, location *domain.Location) []string {
	seen := make(map[string]bool)
	recipients := make([]string, 0, len(uc.opts.AdminEmails)+len(location.HouseAdminIDs))
	add := func(email string) {
		if email != "" && !seen[email] {
			seen[email] = true
			recipients = append(recipients, email)
		}
	}

	for _, email := range uc.opts.AdminEmails {
		add(email)
	}

	if len(location.HouseAdminIDs) > 0 {
		admins, err := uc.users.GetUsers(ctx, location.HouseAdminIDs)
		if err != nil {
			uc.logger.Warn("failed to get admins of location id=%d: %v", location.ID, err)
		}
		for _, id := range location.HouseAdminIDs {
			if admin, ok := admins[id]; ok {
				add(admin.Email)
			}
		}
	}
	return recipients
}

// sendToGuest отправляет письмо гостю и отмечает время последнего письма
func (uc *UseCase) sendToGuest(ctx context.Context, report *Report, s stay, subject, text string) {
	if s.GuestEmail == "" {
		uc.logger.Warn("%s: guest of use id=%d has no email, skipping", report.Kind, s.UseID)
		uc.metrics.IncNotification(report.Kind, statusSkipped)
		return
	}

	if !uc.send(ctx, report, mailer.Message{To: []string{s.GuestEmail}, Subject: subject, Text: text}) {
		return
	}

	if err := uc.useRepo.MarkLastMsg(ctx, s.UseID, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("%s: failed to mark last message of use id=%d: %v", report.Kind, s.UseID, err)
	}
}

func (uc *UseCase) send(ctx context.Context, report *Report, msg mailer.Message) bool {
	if _, err := uc.mailer.Send(ctx, msg); err != nil {
		uc.logger.Error("%s: failed to send %q: %v", report.Kind, msg.Subject, err)
		uc.metrics.IncNotification(report.Kind, statusFailed)
		report.Failed++
		return false
	}
	uc.metrics.IncNotification(report.Kind, statusSent)
	report.Sent++
	return true
}
