package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prd-generator/internal/config"
	"prd-generator/internal/database"
	"prd-generator/internal/handler"
	"prd-generator/internal/middleware"
	"prd-generator/internal/repository"
	"prd-generator/internal/router"
	"prd-generator/internal/service"
	"prd-generator/internal/service/llm"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(context.Background(), cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	prdRepo := repository.NewPRDRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	slog.Info("database ready")

	codec, err := service.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	authService := service.NewAuthService(codec, userRepo)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	userService := service.NewUserService(userRepo)

	provider := newProvider(cfg)
	slog.Info("llm provider selected", "provider", provider.Name())

	promptBuilder := service.NewPromptBuilder(templateRepo)
	prdService := service.NewPRDService(prdRepo, promptBuilder, provider)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(userService),
		PRD:    handler.NewPRDHandler(prdService),
		Health: handler.NewHealthHandler(db),
		Docs:   handler.NewDocsHandler(cfg.OpenAPISpecPath),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func newProvider(cfg *config.Config) llm.Provider {
	opts := llm.Options{
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}

	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, opts)
	case "anthropic":
		return llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, opts)
	case "ollama":
		return llm.NewOllamaProvider(cfg.OllamaURL, opts)
	default:
		return llm.NewStaticProvider()
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.db.Close()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
