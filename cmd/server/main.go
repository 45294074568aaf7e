package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"parley/internal/capabilities"
	"parley/internal/config"
	"parley/internal/handler"
	"parley/internal/middleware"
	"parley/internal/persona"
	"parley/internal/render"
	"parley/internal/repository/memory"
	serviceChat "parley/internal/service/chat"
	serviceLLM "parley/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load assistant persona (embedded default unless PERSONA_FILE is set)
	assistant, err := persona.Load(cfg.PersonaFile)
	if err != nil {
		log.Fatalf("Failed to load persona: %v", err)
	}
	logger.Info("persona loaded",
		"name", assistant.Name,
		"scope_rules", len(assistant.OutOfScope),
	)

	// Setup LLM providers and resolve the default model
	provider, model, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	// Initialize model catalog
	catalog, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize model catalog: %v", err)
	}
	if _, ok := catalog.Lookup(provider.Name(), model); !ok {
		logger.Warn("default model not in catalog", "provider", provider.Name(), "model", model)
	}

	// Conversations live in memory only
	conversationRepo := memory.NewConversationRepository()

	// Create services
	conversationService, err := serviceChat.NewService(ctx, conversationRepo, assistant, logger)
	if err != nil {
		log.Fatalf("Failed to create conversation service: %v", err)
	}
	turnController := serviceChat.NewTurnController(
		conversationRepo,
		assistant,
		provider,
		model,
		cfg.RequestTimeout,
		logger,
	)

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	// Create handlers (handlers only talk to services)
	chatHandler := handler.NewChatHandler(conversationService, turnController, renderer, logger)
	pageHandler := handler.NewPageHandler(conversationService, turnController, renderer, assistant.Name, logger)
	modelsHandler := handler.NewModelsHandler(cfg, logger, catalog)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Model catalog
	mux.HandleFunc("GET /api/models", modelsHandler.ListModels)

	// Conversation routes
	mux.HandleFunc("GET /api/conversations", chatHandler.ListConversations)
	mux.HandleFunc("POST /api/conversations", chatHandler.CreateConversation)
	mux.HandleFunc("GET /api/conversations/current", chatHandler.GetCurrentConversation) // Must come before {id} route
	mux.HandleFunc("GET /api/conversations/{id}", chatHandler.GetConversation)
	mux.HandleFunc("PATCH /api/conversations/{id}", chatHandler.RenameConversation)
	mux.HandleFunc("POST /api/conversations/{id}/activate", chatHandler.ActivateConversation)
	mux.HandleFunc("POST /api/conversations/{id}/messages", chatHandler.SendMessage)

	// Server-rendered page (works without JavaScript)
	mux.HandleFunc("GET /{$}", pageHandler.Index)
	mux.HandleFunc("POST /chat/new", pageHandler.NewChat)
	mux.HandleFunc("POST /chat/send", pageHandler.Send)
	mux.HandleFunc("POST /chat/{id}/activate", pageHandler.Activate)
	mux.HandleFunc("POST /chat/{id}/rename", pageHandler.Rename)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Routes
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 15 * time.Second,
		// A send waits on the completion endpoint
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
