package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	blockedDatesHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/blocked_dates"
	breaksHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/breaks"
	cancelAppointmentHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_available_slots"
	listAppointmentsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/list_appointments"
	servicesHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/services"
	updateAppointmentStatusHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/update_appointment_status"
	workingHoursHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/working_hours"
	"github.com/m04kA/BarberBookingService/internal/api/middleware"
	"github.com/m04kA/BarberBookingService/internal/config"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	blockedDateRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/blocked_date"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/settings"
	workingDayRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/working_day"
	"github.com/m04kA/BarberBookingService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/BarberBookingService/internal/service/appointments"
	catalogService "github.com/m04kA/BarberBookingService/internal/service/catalog"
	scheduleService "github.com/m04kA/BarberBookingService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/BarberBookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/logger"
	"github.com/m04kA/BarberBookingService/pkg/metrics"
	"github.com/m04kA/BarberBookingService/pkg/tracing"
	"github.com/m04kA/BarberBookingService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.toml"), "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting BarberBookingService...")
	log.Info("Configuration loaded from %s", *configPath)

	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}
	log.Info("Business timezone=%s, slot step=%dm, conflict tolerance=%dm",
		location, cfg.Business.SlotStepMinutes, cfg.Business.ConflictToleranceMinutes)

	// Трассировка
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}

	// Инициализируем метрики (если включены)
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

	// Без метрик обёртка работает как прозрачный адаптер
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB, time.Duration(cfg.Business.SlotStepMinutes)*time.Minute)
	workingDayRepository := workingDayRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	blockedDateRepository := blockedDateRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Сервисы
	scheduleSvc := scheduleService.NewService(
		workingDayRepository,
		settingsRepository,
		blockedDateRepository,
		txManager,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, txManager, location, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)

	// Уведомления о новых записях
	var (
		eventNotifier notifier.Notifier
		kafkaNotifier *notifier.KafkaNotifier
	)
	switch cfg.Notifications.Driver {
	case "kafka":
		kafkaNotifier = notifier.NewKafkaNotifier(cfg.Notifications.KafkaBrokers, cfg.Notifications.KafkaTopic, log)
		eventNotifier = kafkaNotifier
		log.Info("Notifications via Kafka (brokers=%v, topic=%s)", cfg.Notifications.KafkaBrokers, cfg.Notifications.KafkaTopic)
	case "webhook":
		eventNotifier = notifier.NewWebhookNotifier(
			cfg.Notifications.WebhookURL,
			time.Duration(cfg.Business.NotificationTimeout)*time.Second,
			log,
		)
		log.Info("Notifications via webhook (url=%s)", cfg.Notifications.WebhookURL)
	default:
		eventNotifier = notifier.NewLogNotifier(log)
		log.Info("Notifications are written to log")
	}
	dispatcher := notifier.NewDispatcher(eventNotifier, time.Duration(cfg.Business.NotificationTimeout)*time.Second, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleSvc,
		appointmentRepository,
		location,
		cfg.Business.SlotStepMinutes,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		scheduleSvc,
		txManager,
		dispatcher,
		metricsCollector,
		createAppointmentUC.Options{
			Location:                 location,
			SlotStepMinutes:          cfg.Business.SlotStepMinutes,
			ConflictToleranceMinutes: cfg.Business.ConflictToleranceMinutes,
		},
		log,
	)

	// Ограничение частоты создания записей
	clientIPs, err := middleware.NewClientIPResolver(cfg.RateLimit.TrustedProxies)
	if err != nil {
		log.Fatal("Failed to parse trusted proxies: %v", err)
	}

	var (
		limiter     middleware.Limiter
		redisClient *redis.Client
	)
	if cfg.RateLimit.Enabled {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		if cfg.Redis.Enabled {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Address,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				log.Warn("Redis is unavailable (%s), rate limiter will fail open: %v", cfg.Redis.Address, err)
			}
			limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Requests, window, "barber:rl:appointments")
			log.Info("Rate limit via Redis: %d requests per %s", cfg.RateLimit.Requests, window)
		} else {
			limiter = middleware.NewLocalLimiter(cfg.RateLimit.Requests, window)
			log.Info("Rate limit in memory: %d requests per %s", cfg.RateLimit.Requests, window)
		}
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	workingHours := workingHoursHandler.NewHandler(scheduleSvc, log)
	breaks := breaksHandler.NewHandler(scheduleSvc, log)
	blockedDates := blockedDatesHandler.NewHandler(scheduleSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Warn("GET /healthz - database ping failed: %v", err)
			handlers.RespondUnavailable(w)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов на дату
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог услуг
	api.HandleFunc("/services", services.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", services.HandleGet).Methods(http.MethodGet)

	// Создание записи
	var createHandler http.Handler = http.HandlerFunc(createAppointment.Handle)
	if limiter != nil {
		createHandler = middleware.RateLimit(limiter, clientIPs, log)(createHandler)
	}
	api.Handle("/appointments", createHandler).Methods(http.MethodPost)

	// Отмена записи клиентом по токену
	api.HandleFunc("/appointments/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Basic auth)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Username, cfg.Admin.PasswordHash, log))

	// --- Записи ---
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Расписание ---
	admin.HandleFunc("/working-hours", workingHours.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/working-hours", workingHours.HandleReplace).Methods(http.MethodPut)
	admin.HandleFunc("/breaks", breaks.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/breaks", breaks.HandleReplace).Methods(http.MethodPut)
	admin.HandleFunc("/blocked-dates", blockedDates.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/blocked-dates", blockedDates.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/blocked-dates/{blockedDateId}", blockedDates.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уже созданных событий
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("Pending notifications were not delivered: %v", err)
	}
	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			log.Error("Failed to close Kafka writer: %v", err)
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
