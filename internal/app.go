package internal

import (
	logger_adapter "catalog-service/internal/adapters/logger"
	"catalog-service/internal/adapters/memory"
	mongo_adapter "catalog-service/internal/adapters/mongodb"
	postgres_adapter "catalog-service/internal/adapters/postgres"
	rabbitmq_adapter "catalog-service/internal/adapters/rabbitmq"
	"catalog-service/internal/adapters/rest"
	"catalog-service/internal/configs"
	"catalog-service/internal/constants"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/usecase"
	"catalog-service/pkg/fluentlogger"
	"catalog-service/pkg/mongodb"
	"catalog-service/pkg/postgres"
	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_producer"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	storage       *storage
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
}

// storage - репозитории выбранного драйвера и функция освобождения ресурсов
type storage struct {
	properties port.PropertyRepositoryPort
	owners     port.OwnerRepositoryPort
	traces     port.PropertyTraceRepositoryPort
	close      func(ctx context.Context) error
}

// NewApp создает приложение: здесь все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// --- 2. ХРАНИЛИЩЕ ---
	application.storage, err = newStorage(context.Background(), appConfig, appLogger)
	if err != nil {
		application.shutdown()
		return nil, err
	}

	// --- 3. СОБЫТИЯ (необязательно) ---
	var events port.PropertyEventsPort
	if appConfig.RabbitMQ.Enabled {
		events, err = application.initEvents(baseLogger)
		if err != nil {
			application.shutdown()
			return nil, err
		}
	} else {
		appLogger.Info("RabbitMQ disabled, property events will not be published", nil)
	}

	// --- 4. USE CASES ---
	st := application.storage
	listUC := usecase.NewListPropertiesUseCase(st.properties, appConfig.Catalog.PageSize)
	detailsUC := usecase.NewGetPropertyDetailsUseCase(st.properties, st.owners, st.traces)
	createUC := usecase.NewCreatePropertyUseCase(st.properties, events)
	updateUC := usecase.NewUpdatePropertyUseCase(st.properties, events)
	deleteUC := usecase.NewDeletePropertyUseCase(st.properties, events)
	appLogger.Info("All use cases initialized", nil)

	// --- 5. REST ---
	validator, err := contracts.NewRequestValidator()
	if err != nil {
		application.shutdown()
		return nil, fmt.Errorf("failed to compile request schemas: %w", err)
	}

	handlers, err := rest.NewPropertyHandler(listUC, detailsUC, createUC, updateUC, deleteUC, validator)
	if err != nil {
		application.shutdown()
		return nil, err
	}

	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               appConfig.Rest.PORT,
		RequestTimeout:     appConfig.Rest.RequestTimeout,
		CorsAllowedOrigins: appConfig.Rest.CorsAllowedOrigins,
	}, handlers, baseLogger)

	return application, nil
}

func newStorage(ctx context.Context, cfg *configs.AppConfig, logger port.LoggerPort) (*storage, error) {
	switch cfg.Storage.Driver {
	case configs.StorageMongo:
		client, db, err := mongodb.NewClient(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			logger.Error("Failed to connect to MongoDB", err, nil)
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		st, err := newMongoStorage(ctx, db, client.Disconnect)
		if err != nil {
			return nil, err
		}
		logger.Info("MongoDB storage initialized", port.Fields{"database": cfg.Mongo.Database})
		return st, nil

	case configs.StoragePostgres:
		pool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:    cfg.Postgres.DatabaseURL,
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		if err := postgres_adapter.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		properties, err := postgres_adapter.NewPropertyRepository(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		owners, err := postgres_adapter.NewOwnerRepository(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		traces, err := postgres_adapter.NewPropertyTraceRepository(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("PostgreSQL storage initialized", nil)
		return &storage{
			properties: properties,
			owners:     owners,
			traces:     traces,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case configs.StorageMemory:
		store := memory.NewStore()
		logger.Warn("Using in-memory storage, data will be lost on restart", nil)
		return &storage{
			properties: store,
			owners:     store,
			traces:     store,
			close:      func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) initEvents(baseLogger port.LoggerPort) (port.PropertyEventsPort, error) {
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, connManagerBridge)
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"}))
	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
		ExchangeName:             a.config.RabbitMQ.Exchange,
		ExchangeType:             constants.CatalogExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   producerBridge,
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	a.eventProducer = producer
	a.logger.Info("RabbitMQ Event Producer initialized.", port.Fields{"exchange": a.config.RabbitMQ.Exchange})

	events, err := rabbitmq_adapter.NewPropertyEventsAdapter(producer)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Run запускает HTTP-сервер и ждет сигнала завершения.
func (a *App) Run() error {
	defer a.shutdown()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		return err
	}
}

// shutdown освобождает ресурсы в обратном порядке создания
func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
	}

	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	if a.storage != nil && a.storage.close != nil {
		if err := a.storage.close(ctx); err != nil {
			a.logger.Error("Error closing storage", err, nil)
		}
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}

// newMongoStorage собирает репозитории поверх db. При ошибке соединение
// закрывается через disconnect.
func newMongoStorage(ctx context.Context, db *mongo.Database, disconnect func(context.Context) error) (*storage, error) {
	fail := func(err error) (*storage, error) {
		if closeErr := disconnect(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to disconnect from mongo: %w", closeErr))
		}
		return nil, err
	}

	properties, err := mongo_adapter.NewPropertyRepository(db)
	if err != nil {
		return fail(err)
	}
	owners, err := mongo_adapter.NewOwnerRepository(db)
	if err != nil {
		return fail(err)
	}
	traces, err := mongo_adapter.NewPropertyTraceRepository(db)
	if err != nil {
		return fail(err)
	}
	return &storage{
		properties: properties,
		owners:     owners,
		traces:     traces,
		close:      disconnect,
	}, nil
}
