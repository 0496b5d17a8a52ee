package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addLineItemHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/add_line_item"
	bookingRateHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/booking_rate"
	createBookingHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/create_booking"
	deleteCapacityHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/delete_capacity"
	getAvailabilityHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/get_availability"
	getBillHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/get_bill"
	getBookingHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/get_booking"
	getCapacityHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/get_capacity"
	getPaymentFeesHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/get_payment_fees"
	getUnpaidBookingsHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/get_unpaid_bookings"
	recordPaymentHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/record_payment"
	regenerateBillHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/regenerate_bill"
	resourceBackingsHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/resource_backings"
	suppressFeeHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/suppress_fee"
	updateBookingStatusHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/update_booking_status"
	upsertCapacityHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/upsert_capacity"
	userAccountsHandler "github.com/m04kA/SMC-LodgingService/internal/api/handlers/user_accounts"
	"github.com/m04kA/SMC-LodgingService/internal/api/middleware"
	"github.com/m04kA/SMC-LodgingService/internal/config"
	accountRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/account"
	backingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/backing"
	billRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/bill"
	bookingRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/booking"
	capacityRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/capacity"
	locationRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/location"
	resourceRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/resource"
	useRepo "github.com/m04kA/SMC-LodgingService/internal/infra/storage/use"
	userServiceClient "github.com/m04kA/SMC-LodgingService/internal/integrations/userservice"
	accountsService "github.com/m04kA/SMC-LodgingService/internal/service/accounts"
	backingService "github.com/m04kA/SMC-LodgingService/internal/service/backing"
	billingService "github.com/m04kA/SMC-LodgingService/internal/service/billing"
	bookingsService "github.com/m04kA/SMC-LodgingService/internal/service/bookings"
	capacityService "github.com/m04kA/SMC-LodgingService/internal/service/capacity"
	createBookingUC "github.com/m04kA/SMC-LodgingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-LodgingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-LodgingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LodgingService/pkg/logger"
	"github.com/m04kA/SMC-LodgingService/pkg/metrics"
	"github.com/m04kA/SMC-LodgingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-LodgingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	// nil коллектор безопасен: счётчики сервисов и обёртка БД его пропускают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.Users.URL,
		time.Duration(cfg.Users.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)", cfg.Users.URL, cfg.Users.Timeout)

	// Инициализируем репозитории
	locationRepository := locationRepo.NewRepository(wrappedDB)
	resourceRepository := resourceRepo.NewRepository(wrappedDB)
	capacityRepository := capacityRepo.NewRepository(wrappedDB)
	useRepository := useRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	billRepository := billRepo.NewRepository(wrappedDB)
	accountRepository := accountRepo.NewRepository(wrappedDB)
	backingRepository := backingRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	accountsSvc := accountsService.NewService(accountRepository, userClient, txMgr, log)
	billingSvc := billingService.NewService(
		bookingRepository,
		useRepository,
		resourceRepository,
		locationRepository,
		billRepository,
		txMgr,
		metricsCollector,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		useRepository,
		resourceRepository,
		locationRepository,
		capacityRepository,
		billRepository,
		txMgr,
		log,
	)
	capacitySvc := capacityService.NewService(
		capacityRepository,
		resourceRepository,
		locationRepository,
		txMgr,
		metricsCollector,
		log,
	)
	backingSvc := backingService.NewService(
		backingRepository,
		accountRepository,
		accountsSvc,
		resourceRepository,
		locationRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		useRepository,
		bookingRepository,
		billRepository,
		resourceRepository,
		locationRepository,
		capacityRepository,
		billingSvc,
		accountsSvc,
		txMgr,
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		resourceRepository,
		locationRepository,
		capacityRepository,
		useRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUnpaidBookings := getUnpaidBookingsHandler.NewHandler(bookingSvc, log)
	getBill := getBillHandler.NewHandler(billingSvc, log)
	regenerateBill := regenerateBillHandler.NewHandler(billingSvc, log)
	bookingRate := bookingRateHandler.NewHandler(billingSvc, log)
	suppressFee := suppressFeeHandler.NewHandler(billingSvc, log)
	addLineItem := addLineItemHandler.NewHandler(billingSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(billingSvc, log)
	getPaymentFees := getPaymentFeesHandler.NewHandler(billingSvc, log)
	upsertCapacity := upsertCapacityHandler.NewHandler(capacitySvc, log)
	deleteCapacity := deleteCapacityHandler.NewHandler(capacitySvc, log)
	getCapacity := getCapacityHandler.NewHandler(capacitySvc, log)
	resourceBackings := resourceBackingsHandler.NewHandler(backingSvc, log)
	userAccounts := userAccountsHandler.NewHandler(accountsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность ресурса и локации по дням
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Resource).Methods(http.MethodGet)
	api.HandleFunc("/locations/{locationId}/availability", getAvailability.Location).Methods(http.MethodGet)

	// Изменение вместимости по ID
	api.HandleFunc("/capacities/{capacityId}", getCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/preview", createBooking.Preview).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Счёт бронирования (для администраторов локации) ---
	protected.HandleFunc("/bookings/{bookingId}/bill/regenerate", regenerateBill.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/rate", bookingRate.SetRate).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/rate", bookingRate.ResetRate).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/comp", bookingRate.Comp).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/line-items", addLineItem.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/line-items/{lineItemId}/suppress", suppressFee.Handle).Methods(http.MethodPost)

	// --- Счета и платежи ---
	protected.HandleFunc("/bills/{billId}", getBill.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bills/{billId}/payments", recordPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bills/{billId}/payment-fees", getPaymentFees.Handle).Methods(http.MethodGet)

	// --- Управление локацией ---
	protected.HandleFunc("/locations/{locationId}/unpaid-bookings", getUnpaidBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/capacities", upsertCapacity.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/capacities/{capacityId}", deleteCapacity.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/resources/{resourceId}/backings", resourceBackings.SetNext).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/backings", resourceBackings.List).Methods(http.MethodGet)

	// --- Счета пользователя ---
	protected.HandleFunc("/accounts/primary", userAccounts.PrimaryAccount).Methods(http.MethodPost)
	protected.HandleFunc("/users/me/drft-balance", userAccounts.DrftBalance).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
