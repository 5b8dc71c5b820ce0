// Package main is the entrypoint for the Brewlog API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/brewlog/brewlog/internal/cache"
	"github.com/brewlog/brewlog/internal/config"
	"github.com/brewlog/brewlog/internal/handler"
	"github.com/brewlog/brewlog/internal/metrics"
	"github.com/brewlog/brewlog/internal/middleware"
	"github.com/brewlog/brewlog/internal/predictor"
	"github.com/brewlog/brewlog/internal/repository"
	"github.com/brewlog/brewlog/internal/server"
	"github.com/brewlog/brewlog/internal/service"
	"github.com/brewlog/brewlog/internal/weather"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Outbound clients
	predictorClient := predictor.New(cfg.PredictorURL, cfg.PredictorTimeout, logger)
	weatherClient := weather.New(weather.Config{
		APIKey:  cfg.WeatherAPIKey,
		Lat:     cfg.WeatherLat,
		Lon:     cfg.WeatherLon,
		Timeout: cfg.WeatherTimeout,
	}, logger)
	if cfg.WeatherAPIKey == "" {
		logger.Warn("no weather API key configured, readings will use the fallback values")
	}

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, cacheClient, cfg.SessionTTL)
	beanService := service.NewBeanService(repo, metricsRecorder)
	recipeService := service.NewRecipeService(repo, metricsRecorder)
	predictionService := service.NewPredictionService(
		repo,
		predictorClient,
		weatherClient,
		cacheClient,
		cfg.WeatherCacheTTL,
		metricsRecorder,
	)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	userHandler := handler.NewUserHandler(userService, logger)
	beanHandler := handler.NewBeanHandler(beanService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger)
	predictionHandler := handler.NewPredictionHandler(predictionService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:       h,
		health:     healthHandler,
		metrics:    metricsHandler,
		user:       userHandler,
		bean:       beanHandler,
		recipe:     recipeHandler,
		prediction: predictionHandler,
		repo:       repo,
		cache:      cacheClient,
		cfg:        cfg,
		logger:     logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"predictor_url", cfg.PredictorURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything the router needs.
type routerDeps struct {
	base       *handler.Handler
	health     *handler.HealthHandler
	metrics    *handler.MetricsHandler
	user       *handler.UserHandler
	bean       *handler.BeanHandler
	recipe     *handler.RecipeHandler
	prediction *handler.PredictionHandler
	repo       *repository.Repository
	cache      *cache.Cache
	cfg        *config.Config
	logger     *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	// Session resolution for every API route; anonymous requests pass
	// through and are stopped by RequireUser where it applies.
	authCfg := middleware.AuthConfig{
		Logger:     deps.logger,
		Repository: deps.repo,
		Cache:      deps.cache,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identify(authCfg))

		// Account lifecycle
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", deps.user.Register)
			r.Post("/login", deps.user.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser())
				r.Post("/logout", deps.user.Logout)
				r.Get("/me", deps.user.Me)
				r.Put("/me", deps.user.UpdateMe)
				r.Delete("/me", deps.user.DeleteMe)
			})
		})

		// Bean management
		r.Route("/beans", func(r chi.Router) {
			r.Use(middleware.RequireUser())
			r.Get("/", deps.bean.List)
			r.Post("/", deps.bean.Create)
			r.Get("/user/{userID}", deps.bean.ListForUser)
			r.Get("/{id}", deps.bean.Get)
			r.Put("/{id}", deps.bean.Update)
			r.Delete("/{id}", deps.bean.Delete)
		})

		// Recipe management
		r.Route("/recipes", func(r chi.Router) {
			r.Use(middleware.RequireUser())
			r.Get("/", deps.recipe.List)
			r.Post("/", deps.recipe.Create)
			r.Get("/user/{userID}", deps.recipe.ListForUser)
			r.Get("/bean/{beanID}", deps.recipe.ListByBean)
			r.Get("/date-range", deps.recipe.ListByDateRange)
			r.Get("/weather/{label}", deps.recipe.ListByWeather)
			r.Get("/temperature-range", deps.recipe.ListByTemperatureRange)
			r.Get("/humidity-range", deps.recipe.ListByHumidityRange)
			r.Get("/{id}", deps.recipe.Get)
			r.Put("/{id}", deps.recipe.Update)
			r.Delete("/{id}", deps.recipe.Delete)
		})

		// Prediction flow
		r.Route("/predict", func(r chi.Router) {
			r.Use(middleware.RequireUser())
			r.Get("/history", deps.prediction.History)
			r.Post("/coffee", deps.prediction.Predict)
			r.Get("/weather", deps.prediction.Weather)
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
