package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"repurpose/internal/api/v1/handler"
	"repurpose/internal/config"
	"repurpose/internal/extract"
	"repurpose/internal/llm"
	"repurpose/internal/middleware"
	"repurpose/internal/pubsub"
	"repurpose/internal/repository"
	"repurpose/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the HTTP handler and everything behind it. The returned closer
// releases the usage store and the Pub/Sub client.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, io.Closer, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	var closers closerList

	// 1. Usage store
	store, storeCloser, err := newUsageStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, storeCloser)

	// 2. Article fetcher
	extractFn, err := extract.ForName(cfg.Extractor)
	if err != nil {
		_ = closers.Close()
		return nil, nil, err
	}
	fetcher := service.NewArticleFetcher(service.FetcherOptions{
		Timeout:      cfg.FetchTimeout(),
		MaxBytes:     cfg.FetchMaxBytes,
		BlockPrivate: cfg.FetchBlockPrivate,
		Extract:      extractFn,
	}, logger)

	// 3. LLM provider
	generator, err := llm.New(llm.Options{
		Provider:        cfg.LLMProvider,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		MaxTokens:       cfg.LLMMaxTokens,
		Timeout:         cfg.LLMTimeout(),
	})
	if err != nil {
		_ = closers.Close()
		return nil, nil, err
	}
	if generator == nil {
		logger.Warn().Str("provider", cfg.LLMProvider).Msg("LLM API key not set; /generate will answer 500")
	}

	// 4. Pub/Sub publisher
	var events pubsub.EventPublisher = pubsub.NopEventPublisher{}
	if cfg.GCPProjectID != "" && cfg.PubSubGenerationTopic != "" {
		pub, err := pubsub.NewPublisher(ctx, cfg.GCPProjectID)
		if err != nil {
			_ = closers.Close()
			return nil, nil, fmt.Errorf("create Pub/Sub publisher: %w", err)
		}
		closers = append(closers, pub)
		events = pubsub.NewEventPublisher(pub, cfg.PubSubGenerationTopic)
		logger.Info().Str("topic", cfg.PubSubGenerationTopic).Msg("Publishing generation events")
	}

	// 5. Services & handlers
	validate := validator.New(validator.WithRequiredStructEnabled())

	usageSvc := service.NewUsageService(store, cfg.FreeDailyLimit, nil, logger)
	generationSvc := service.NewGenerationService(usageSvc, fetcher, generator, events, nil, logger)
	billingSvc := service.NewBillingService(cfg.StripeSecretKey, cfg.StripePriceID, logger)

	generateHandler := handler.NewGenerateHandler(generationSvc, validate, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(billingSvc, cfg.PublicBaseURL, validate, logger)

	// 6. Routes
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(chimw.Recoverer)
	r.MethodNotAllowed(handler.MethodNotAllowed(logger))

	r.Get("/healthz", handler.Health(logger))
	generateHandler.RegisterRoutes(r)
	subscriptionHandler.RegisterRoutes(r)

	// 7. CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(r), closers, nil
}

// newUsageStore opens the backend selected by USAGE_STORE.
func newUsageStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.UsageStore, io.Closer, error) {
	switch strings.ToLower(cfg.UsageStore) {
	case "", "memory":
		logger.Warn().Msg("Using in-memory usage store; counters reset on restart")
		return repository.NewMemoryUsageStore(), nopCloser{}, nil

	case "redis":
		client, err := repository.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("Redis connection successful")
		return repository.NewRedisUsageStore(client), client, nil

	case "postgres":
		if cfg.DBConnectionString == "" {
			return nil, nil, errors.New("DB_CONNECTION_STRING is required for the postgres usage store")
		}
		pool, err := pgxpool.New(ctx, prepareDSN(cfg.DBConnectionString, cfg.IsDevelopment()))
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		store, err := repository.NewPostgresUsageStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info().Msg("Database connection successful")
		return store, closerFunc(func() error { pool.Close(); return nil }), nil

	case "sqlite":
		db, err := repository.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewSQLiteUsageStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("SQLite usage store opened")
		return store, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown usage store %q", cfg.UsageStore)
	}
}

// prepareDSN disables SSL for local databases and, elsewhere, switches to the
// simple protocol so transaction poolers like pgbouncer work.
func prepareDSN(dsn string, development bool) string {
	param := "default_query_exec_mode=simple_protocol"
	if development {
		if strings.Contains(dsn, "sslmode") {
			return dsn
		}
		param = "sslmode=disable"
	} else if strings.Contains(dsn, "default_query_exec_mode") {
		return dsn
	}

	separator := " "
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		separator = "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
	}
	return dsn + separator + param
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerList []io.Closer

// Close closes in reverse order and returns every error joined.
func (l closerList) Close() error {
	var errs []error
	for i := len(l) - 1; i >= 0; i-- {
		if err := l[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
