package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-LodgingService/internal/config"
	billRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/bill"
	bookingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/booking"
	capacityRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/capacity"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	useRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/use"
	mailerClient "github.com/m04kA/SMC-LodgingService/internal/integrations/mailer"
	slackClient "github.com/m04kA/SMC-LodgingService/internal/integrations/slack"
	userServiceClient "github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-LodgingService/internal/service/bookings"
	sendNotificationsUC "github.com/m04kA/SMC-LodgingService/internal/usecase/send_notifications"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/logger"
	"github.com/m04kA/SMC-LodgingService/pkg/metrics"
	"github.com/m04kA/SMC-LodgingService/pkg/txmanager"
)

const (
	jobWelcome     = "welcome"
	jobDeparture   = "departure"
	jobGuestDigest = "guest-digest"
	jobAdminDigest = "admin-digest"
	jobSlack       = "slack"
	jobAll         = "all"
)

var allJobs = []string{jobWelcome, jobDeparture, jobGuestDigest, jobAdminDigest, jobSlack}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "jobs: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath    string
		jobs          []string
		slackLocation string
	)

	flagSet := pflag.NewFlagSet("jobs", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "config.toml", "path to TOML config file")
	flagSet.StringSliceVar(&jobs, "job", []string{jobAll},
		"jobs to run: welcome, departure, guest-digest, admin-digest, slack or all")
	flagSet.StringVar(&slackLocation, "slack-location", "", "location slug for the slack job")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	selected, err := expandJobs(jobs)
	if err != nil {
		return err
	}
	if contains(selected, jobSlack) && slackLocation == "" {
		// slack по умолчанию запускается только при явно заданной локации
		if len(jobs) == 1 && jobs[0] == jobAll {
			selected = remove(selected, jobSlack)
		} else {
			return fmt.Errorf("--slack-location is required for the slack job")
		}
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	locationRepository := locationRepo.NewRepository(wrappedDB)
	resourceRepository := resourceRepo.NewRepository(wrappedDB)
	useRepository := useRepo.NewRepository(wrappedDB)

	bookingSvc := bookingsService.NewService(
		bookingRepo.NewRepository(wrappedDB),
		useRepository,
		resourceRepository,
		locationRepository,
		capacityRepo.NewRepository(wrappedDB),
		billRepo.NewRepository(wrappedDB),
		txMgr,
		log,
	)

	userClient := userServiceClient.NewClient(cfg.Users.URL, time.Duration(cfg.Users.Timeout)*time.Second, log)
	mailer := mailerClient.NewClient(cfg.Mailer.URL, cfg.Mailer.From, time.Duration(cfg.Mailer.Timeout)*time.Second, log)

	// Без вебхука задача slack пропускается
	var slack sendNotificationsUC.SlackPoster
	if cfg.Slack.Enabled && cfg.Slack.WebhookURL != "" {
		slack = slackClient.NewClient(cfg.Slack.WebhookURL, time.Duration(cfg.Slack.Timeout)*time.Second, log)
	}

	notifications := sendNotificationsUC.NewUseCase(
		locationRepository,
		useRepository,
		resourceRepository,
		bookingSvc,
		userClient,
		mailer,
		slack,
		metricsCollector,
		sendNotificationsUC.Options{
			AdminEmails: cfg.Jobs.AdminDigestEmails,
			SiteName:    cfg.Site.Name,
			BaseURL:     cfg.Site.BaseURL,
		},
		log,
	)

	tasks := map[string]func(ctx context.Context) (*sendNotificationsUC.Report, error){
		jobWelcome:     notifications.SendGuestWelcome,
		jobDeparture:   notifications.SendDepartureEmail,
		jobGuestDigest: notifications.SendGuestsResidentsDailyUpdate,
		jobAdminDigest: notifications.SendAdminDailyUpdate,
		jobSlack: func(ctx context.Context) (*sendNotificationsUC.Report, error) {
			return notifications.SlackDaily(ctx, slackLocation)
		},
	}

	// Задачи независимы: ошибка одной не отменяет остальные
	var errs []error
	for _, job := range selected {
		report, err := tasks[job](ctx)
		if report != nil {
			log.Info("Job %s finished: sent=%d, failed=%d", job, report.Sent, report.Failed)
		}
		if err != nil {
			log.Error("Job %s failed: %v", job, err)
			errs = append(errs, fmt.Errorf("%s: %w", job, err))
		}
	}

	return errors.Join(errs...)
}

// expandJobs раскрывает all и проверяет имена задач
func expandJobs(jobs []string) ([]string, error) {
	selected := make([]string, 0, len(allJobs))
	for _, job := range jobs {
		job = strings.TrimSpace(job)
		if job == jobAll {
			for _, j := range allJobs {
				if !contains(selected, j) {
					selected = append(selected, j)
				}
			}
			continue
		}
		if !contains(allJobs, job) {
			return nil, fmt.Errorf("unknown job %q", job)
		}
		if !contains(selected, job) {
			selected = append(selected, job)
		}
	}
	return selected, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
