// Package main is the entrypoint for the recipe book server.
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
	"github.com/joho/godotenv"

	"github.com/marigunko/my-recipe-book/internal/cache"
	"github.com/marigunko/my-recipe-book/internal/config"
	"github.com/marigunko/my-recipe-book/internal/handler"
	"github.com/marigunko/my-recipe-book/internal/middleware"
	"github.com/marigunko/my-recipe-book/internal/repository"
	"github.com/marigunko/my-recipe-book/internal/server"
	"github.com/marigunko/my-recipe-book/internal/service"
	"github.com/marigunko/my-recipe-book/internal/web"
)

func main() {
	ctx := context.Background()

	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

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

	templates, err := web.Templates()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// Services
	authService := service.NewAuthService(repo, cacheClient, cfg.SessionTTL)
	sectionService := service.NewSectionService(repo, cacheClient)
	recipeService := service.NewRecipeService(repo, cacheClient)

	// Handlers
	base := handler.New(templates, logger)
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(base, authService, cfg.CookieSecure)
	bookHandler := handler.NewBookHandler(base, sectionService)
	sectionHandler := handler.NewSectionPageHandler(base, sectionService, recipeService)

	r := setupRouter(base, healthHandler, authHandler, bookHandler, sectionHandler, authService, cfg, logger)

	srv := server.New(server.Options{
		Handler:         r,
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
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

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	base *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	sectionHandler *handler.SectionPageHandler,
	authService *service.AuthService,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.BodyLimit(cfg.MaxRequestBodySize))

	// Health endpoints (outside the gate)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Everything page-facing runs behind the access gate, which
	// classifies paths and redirects before any protected render.
	gateCfg := middleware.GateConfig{
		Logger:       logger,
		Sessions:     authService,
		CookieSecure: cfg.CookieSecure,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Gate(gateCfg))

		r.Get("/", base.Root)

		// Auth pages, rate limited on the form POSTs
		r.Group(func(r chi.Router) {
			if cfg.AuthRateLimitEnabled {
				r.Use(middleware.RateLimit(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst))
			}
			r.Post("/login", authHandler.SubmitLogin)
			r.Post("/register", authHandler.SubmitRegister)
		})
		r.Get("/login", authHandler.ShowLogin)
		r.Get("/register", authHandler.ShowRegister)
		r.Post("/logout", authHandler.Logout)

		// Sections
		r.Route("/book", func(r chi.Router) {
			r.Get("/", bookHandler.Show)
			r.Post("/sections", bookHandler.CreateSection)
			r.Post("/sections/{id}", bookHandler.UpdateSection)
			r.Get("/sections/{id}/delete", bookHandler.ConfirmDeleteSection)
			r.Post("/sections/{id}/delete", bookHandler.DeleteSection)
		})

		// Recipes within one owned section
		r.Route("/section/{id}", func(r chi.Router) {
			r.Get("/", sectionHandler.Show)
			r.Get("/new-recipe", sectionHandler.NewRecipeForm)
			r.Post("/new-recipe", sectionHandler.CreateRecipe)
			r.Post("/recipes/{recipeID}", sectionHandler.UpdateRecipe)
			r.Get("/recipes/{recipeID}/delete", sectionHandler.ConfirmDeleteRecipe)
			r.Post("/recipes/{recipeID}/delete", sectionHandler.DeleteRecipe)
		})
	})

	// 404 and 405 handlers
	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)

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
