// Package main initializes and starts the CipherHack server, setting up
// configuration, logging, the generation client, the table store,
// services, handlers and the HTTP server.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	nethttp "net/http"

	"github.com/atinyakov/cipherhack/internal/config"
	"github.com/atinyakov/cipherhack/internal/genai"
	"github.com/atinyakov/cipherhack/internal/logger"
	"github.com/atinyakov/cipherhack/internal/repository"
	"github.com/atinyakov/cipherhack/internal/server"
	"github.com/atinyakov/cipherhack/internal/server/handler/http"
	"github.com/atinyakov/cipherhack/internal/service"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging; the level is raised once config loads.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}

	// Load secrets and options. A missing secret is fatal.
	options, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Log.Fatal("failed to load config", zap.Error(err))
	}
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log
	if options.ConfigFile != "" {
		zapLogger.Info("loaded config file", zap.String("path", options.ConfigFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the table store selected by configuration.
	store, err := repository.Open(ctx, repository.Config{
		Backend:          options.StoreBackend,
		SupabaseURL:      options.SupabaseURL,
		SupabaseKey:      options.SupabaseKey,
		DSN:              options.StoreDSN,
		FirestoreProject: options.StoreProject,
		HTTPClient:       nethttp.DefaultClient,
	})
	if err != nil {
		zapLogger.Fatal("cannot open table store", zap.String("backend", options.StoreBackend), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	// Initialize the generation client.
	gemini := genai.New(options.GeminiAPIKey,
		genai.WithModel(options.GeminiModel),
		genai.WithBaseURL(options.GeminiBaseURL),
		genai.WithTimeout(options.GeminiTimeout),
	)

	// Initialize business-logic services.
	ideaService := service.NewIdeaGenerator(gemini, service.ChatMode(options.ChatMode), zapLogger)
	workspaceService := service.NewWorkspace(store)

	renderer, err := http.NewRenderer()
	if err != nil {
		zapLogger.Fatal("failed to parse templates", zap.Error(err))
	}

	// Flash messages live in a signed cookie. Without a configured secret
	// the key is random and flashes do not survive a restart.
	secret := []byte(options.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = nethttp.SameSiteLaxMode
	sessionStore.Options.Secure = options.TLSEnabled()

	// Create HTTP handlers for pages and the JSON API.
	pageHandler := &http.PageHandler{
		Ideas:             ideaService,
		Workspace:         workspaceService,
		Renderer:          renderer,
		Logger:            zapLogger,
		PersistTodoToggle: options.PersistTodoToggle,
	}
	apiHandler := &http.APIHandler{
		Ideas:     ideaService,
		Workspace: workspaceService,
		Logger:    zapLogger,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(pageHandler, apiHandler, sessionStore, zapLogger)

	zapLogger.Info("starting CipherHack",
		zap.String("addr", options.Address),
		zap.String("store", options.StoreBackend),
		zap.String("model", gemini.Model()),
		zap.String("chat_mode", options.ChatMode),
		zap.Bool("persist_todo_toggle", options.PersistTodoToggle),
	)
	if err := server.Run(ctx, server.Config{
		Addr:    options.Address,
		Handler: router,
		TLSCert: options.TLSCert,
		TLSKey:  options.TLSKey,
		Logger:  zapLogger,
	}); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
