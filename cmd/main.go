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

	canRescheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/can_reschedule"
	cancelOrderHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_order"
	createSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_slot"
	listSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_slots"
	resetCounterHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reset_counter"
	rescheduleOrderHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_order"
	toggleBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/toggle_block"
	updateSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	orderRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/order"
	slotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/slot"
	notifierClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/notifier"
	slotsService "github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	cancellationSync "github.com/m04kA/SMC-SchedulingService/internal/sync/cancellation"
	canRescheduleUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/can_reschedule"
	cancelOrderUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_order"
	rescheduleOrderUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_order"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgfeed"
	"github.com/m04kA/SMC-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Контекст фоновых потребителей (change feed, синхронизация отмен)
	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Доменные счетчики для usecase-ов и фоновых потребителей
	var domainMetrics interface {
		IncReschedule(result string)
		IncCancellation(source string)
		IncCompensationFailure()
		IncSlotBecameFull()
	}
	if cfg.Metrics.Enabled {
		domainMetrics = metricsCollector
	} else {
		domainMetrics = metrics.Noop{}
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

	// Инициализируем клиент сервиса уведомлений
	var notifier interface {
		NotifyRescheduled(ctx context.Context, successor *domain.ScheduledOrder)
		NotifyCancelled(ctx context.Context, order *domain.ScheduledOrder, reason string)
	}
	if cfg.Notifier.Enabled {
		notifier = notifierClient.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		log.Info("Notifier client initialized (URL=%s timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	} else {
		notifier = notifierClient.NoopClient{}
		log.Info("Notifier disabled by config")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository  *slotRepo.Repository
		orderRepository *orderRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		orderRepository = orderRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		orderRepository = orderRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем шину событий заказов
	var orderEvents interface {
		PublishOrderRescheduled(ctx context.Context, original *domain.ScheduledOrder, successor *domain.ScheduledOrder)
		PublishOrderCancelled(ctx context.Context, order *domain.ScheduledOrder, reason string)
	}
	if cfg.NATS.Enabled {
		bus, err := events.Connect(cfg.NATS.URL)
		if err != nil {
			log.Fatal("Failed to connect to NATS: %v", err)
		}
		defer bus.Close()

		orderEvents = events.NewOrderEventPublisher(bus, cfg.NATS.OrderSubject, log)
		log.Info("NATS connected (URL=%s subject=%s)", cfg.NATS.URL, cfg.NATS.OrderSubject)

		// Синхронизация отмен: слушаем события заказов, отмененных извне
		cancellationConsumer := cancellationSync.NewConsumer(
			bus,
			orderRepository,
			slotRepository,
			domainMetrics,
			log,
			cfg.NATS.OrderSubject,
		)
		if err := cancellationConsumer.Start(ctx); err != nil {
			log.Fatal("Failed to start cancellation sync: %v", err)
		}
	} else {
		orderEvents = events.NoopOrderEventPublisher{}
		log.Info("NATS disabled by config, order events will not be published")
	}

	// Change feed слотов: LISTEN/NOTIFY + in-memory представления доступности
	availabilityManager := availability.NewManager(slotRepository, domainMetrics, log)

	feedListener, err := pgfeed.NewListener(cfg.Database.DSN(), cfg.Feed.SlotChannel, log)
	if err != nil {
		log.Fatal("Failed to start slot change feed: %v", err)
	}
	defer feedListener.Close()

	go feedListener.Run(ctx)
	go availabilityManager.Run(ctx, feedListener.Events())

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, log)

	// Инициализируем use cases
	canRescheduleUseCase := canRescheduleUC.NewUseCase(orderRepository, log)

	rescheduleOrderUseCase := rescheduleOrderUC.NewUseCase(
		orderRepository,
		slotRepository,
		txMgr,
		orderEvents,
		notifier,
		domainMetrics,
		log,
	)

	cancelOrderUseCase := cancelOrderUC.NewUseCase(
		orderRepository,
		slotRepository,
		orderEvents,
		notifier,
		domainMetrics,
		log,
	)

	// Инициализируем handlers
	listSlots := listSlotsHandler.NewHandler(availabilityManager, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	toggleBlock := toggleBlockHandler.NewHandler(slotSvc, log)
	resetCounter := resetCounterHandler.NewHandler(slotSvc, log)
	canReschedule := canRescheduleHandler.NewHandler(canRescheduleUseCase, log)
	rescheduleOrder := rescheduleOrderHandler.NewHandler(rescheduleOrderUseCase, log)
	cancelOrder := cancelOrderHandler.NewHandler(cancelOrderUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов заведения на дату
	api.HandleFunc("/establishments/{establishmentId}/slots",
		listSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Администрирование слотов (для менеджеров заведений) ---
	// Создание слота
	protected.HandleFunc("/establishments/{establishmentId}/slots",
		createSlot.Handle).Methods(http.MethodPost)

	// Обновление параметров слота
	protected.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPatch)

	// Удаление слота без активных бронирований
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// Блокировка/разблокировка слота
	protected.HandleFunc("/slots/{slotId}/block", toggleBlock.Handle).Methods(http.MethodPatch)

	// Принудительный сброс счетчика занятости
	protected.HandleFunc("/slots/{slotId}/reset", resetCounter.Handle).Methods(http.MethodPost)

	// --- Плановые заказы ---
	// Проверка возможности переноса
	protected.HandleFunc("/orders/{orderId}/can-reschedule", canReschedule.Handle).Methods(http.MethodGet)

	// Перенос заказа на другой слот
	protected.HandleFunc("/orders/{orderId}/reschedule", rescheduleOrder.Handle).Methods(http.MethodPost)

	// Отмена планового заказа
	protected.HandleFunc("/orders/{orderId}/cancel", cancelOrder.Handle).Methods(http.MethodPatch)

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

	// Останавливаем фоновые потребители
	cancelBackground()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
