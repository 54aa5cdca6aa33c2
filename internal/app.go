package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/redis/go-redis/v9"

	cache_adapter "anjia-property-service/internal/adapters/cache"
	"anjia-property-service/internal/adapters/fallbackcatalog"
	logger_adapter "anjia-property-service/internal/adapters/logger"
	metrics_adapter "anjia-property-service/internal/adapters/metrics"
	rabbitmq_adapter "anjia-property-service/internal/adapters/rabbitmq"
	"anjia-property-service/internal/adapters/rest"
	"anjia-property-service/internal/adapters/staticdata"
	"anjia-property-service/internal/adapters/wpfetcher"
	"anjia-property-service/internal/configs"
	"anjia-property-service/internal/core/domain"
	"anjia-property-service/internal/core/normalize"
	"anjia-property-service/internal/core/port"
	"anjia-property-service/internal/core/usecase"
	fluentlogger "anjia-property-service/pkg/fluent_logger"
	"anjia-property-service/pkg/rabbitmq/rabbitmq_common"
	"anjia-property-service/pkg/resilient"
)

const shutdownTimeout = 15 * time.Second

// App is the composition root of the service.
type App struct {
	config       *configs.AppConfig
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	memoryCache *cache_adapter.MemoryCache
	redisClient *redis.Client

	connManager          *rabbitmq_common.ConnectionManager
	invalidationListener port.EventListenerPort
}

// sourceChains are the tiers tried, in order, for each kind of request.
type sourceChains struct {
	item    []port.PropertySourcePort
	listing []port.PropertySourcePort
}

// NewApp loads the configuration and wires every component.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- loggers ---
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
			_ = fluentClient.Close()
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

	// --- outgoing adapters ---
	cache, err := application.buildCache(baseLogger)
	if err != nil {
		application.closeResources()
		return nil, err
	}

	metrics := metrics_adapter.NewPrometheusMetrics("anjia")

	normalizer := normalize.New(normalize.Config{
		CMSBaseURL:  appConfig.CMS.PrimaryURL,
		Placeholder: appConfig.PlaceholderImage,
		Agent: domain.Agent{
			ID:      appConfig.Agent.ID,
			Name:    appConfig.Agent.Name,
			Email:   appConfig.Agent.Email,
			Phone:   appConfig.Agent.Phone,
			Company: appConfig.Agent.Company,
		},
	})

	chains, err := buildSourceChains(appConfig.CMS)
	if err != nil {
		appLogger.Error("Failed to create property sources", err, nil)
		application.closeResources()
		return nil, err
	}
	appLogger.Info("Property sources initialized", port.Fields{
		"item_chain":    sourceNames(chains.item),
		"listing_chain": sourceNames(chains.listing),
	})

	// --- use cases ---
	resolvePropertyUseCase := usecase.NewResolvePropertyUseCase(chains.item, normalizer, cache, appConfig.Cache.ItemTTL, metrics)
	listPropertiesUseCase := usecase.NewListPropertiesUseCase(chains.listing, normalizer, cache, appConfig.Cache.ListingTTL, metrics)
	invalidateCacheUseCase := usecase.NewInvalidateCacheUseCase(cache)
	appLogger.Info("All use cases initialized.", nil)

	// --- incoming adapters ---
	if appConfig.RabbitMQ.Enabled {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		listener, err := rabbitmq_adapter.NewCacheInvalidationConsumerAdapter(
			rabbitmq_adapter.DefaultConsumerConfig(appConfig.RabbitMQ.URL),
			invalidateCacheUseCase,
			baseLogger,
			connManager,
		)
		if err != nil {
			appLogger.Error("Failed to create cache invalidation listener", err, nil)
			application.closeResources()
			return nil, err
		}
		application.invalidationListener = listener
		appLogger.Info("Cache invalidation listener initialized.", nil)
	}

	propertyHandlers := rest.NewPropertyHandler(listPropertiesUseCase, resolvePropertyUseCase)
	cacheHandlers := rest.NewCacheHandler(invalidateCacheUseCase)
	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.Port,
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
	}, propertyHandlers, cacheHandlers, metrics.Handler(), baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

func (a *App) buildCache(baseLogger port.LoggerPort) (port.CachePort, error) {
	cfg := a.config.Cache
	if cfg.Backend != configs.CacheBackendRedis {
		a.memoryCache = cache_adapter.NewMemoryCache(nil)
		a.logger.Info("Using in-memory cache", nil)
		return a.memoryCache, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cache_adapter.NewRedisClient(ctx, cache_adapter.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		a.logger.Error("Failed to connect to Redis", err, port.Fields{"addr": cfg.RedisAddr})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.redisClient = client
	a.logger.Info("Using Redis cache", port.Fields{"addr": cfg.RedisAddr, "db": cfg.RedisDB})
	return cache_adapter.NewRedisCache(client, cfg.RedisPrefix, baseLogger.WithFields(port.Fields{"component": "redis_cache"})), nil
}

// buildSourceChains builds item lookups as primary, static, fallback and
// listings as primary, mirror, static. An empty mirror URL leaves the mirror out.
func buildSourceChains(cfg configs.CMSConfig) (sourceChains, error) {
	policy := func(timeout time.Duration) resilient.Policy {
		p := resilient.DefaultPolicy(timeout)
		p.MaxRetries = cfg.RetryMax
		p.BaseDelay = cfg.RetryBaseDelay
		return p
	}
	newCMS := func(name domain.Source, baseURL string) (*wpfetcher.WPFetcherAdapter, error) {
		return wpfetcher.NewWPFetcherAdapter(wpfetcher.Config{
			Name:          name,
			BaseURL:       baseURL,
			ListingPolicy: policy(cfg.ListingTimeout),
			ItemPolicy:    policy(cfg.ItemTimeout),
			UserAgent:     cfg.UserAgent,
		})
	}

	primary, err := newCMS(domain.SourcePrimaryCMS, cfg.PrimaryURL)
	if err != nil {
		return sourceChains{}, err
	}
	static, err := staticdata.NewStaticDatasetAdapter()
	if err != nil {
		return sourceChains{}, fmt.Errorf("failed to load static dataset: %w", err)
	}
	fallback := fallbackcatalog.NewCatalogAdapter()

	chains := sourceChains{
		item:    []port.PropertySourcePort{primary, static, fallback},
		listing: []port.PropertySourcePort{primary},
	}
	if cfg.MirrorURL != "" {
		mirror, err := newCMS(domain.SourceMirrorCMS, cfg.MirrorURL)
		if err != nil {
			return sourceChains{}, err
		}
		chains.listing = append(chains.listing, mirror)
	}
	chains.listing = append(chains.listing, static)
	return chains, nil
}

func sourceNames(sources []port.PropertySourcePort) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s.Name())
	}
	return names
}

// Run starts every component and blocks until a signal or a component failure.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()

		a.closeResources()
		a.logger.Info("Application shut down gracefully.", nil)
		a.closeFluent()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 2)

	if a.memoryCache != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.memoryCache.RunSweeper(appCtx, a.config.Cache.SweepInterval)
		}()
	}

	if a.invalidationListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Cache Invalidation Listener"})
			listenerLogger.Info("Starting listener...", nil)
			if err := a.invalidationListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("cache invalidation listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

// closeResources releases broker and cache connections. Safe on a partly built App.
func (a *App) closeResources() {
	if a.invalidationListener != nil {
		if err := a.invalidationListener.Close(); err != nil {
			a.logger.Error("Error closing cache invalidation listener", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
}

func (a *App) closeFluent() {
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent may already be gone, so stdout only
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
	}
	return level
}
