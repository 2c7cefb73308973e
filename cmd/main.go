package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stage-link/api"
	"stage-link/channel"
	"stage-link/contract"
	"stage-link/internal"
	"stage-link/mail"
	"stage-link/repositories"
	"stage-link/runtime"
	"stage-link/runtime/workers"
	"stage-link/search"
	"stage-link/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups (database, index) only execute reliably when the exit path returns through
// here instead of calling os.Exit somewhere deeper.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Stores (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	userRepository, err := repositories.NewUserRepository(db)
	if err != nil {
		return fmt.Errorf("user repository setup failed: %w", err)
	}
	defer func() { _ = userRepository.Close() }()
	notificationRepository := repositories.NewNotificationRepository(db, log, config.LimitNotifications)

	// 3. Supervision & Routing Pipeline
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	dispatcher := runtime.NewDispatcher(
		log, sup, registry, notificationRepository,
		config.BufferSize, config.SinkTimeout, config.MetricInterval,
	)

	index := search.NewIndex(writer, log)
	extraWorkers := []contract.Worker{search.NewWorker(log, index, dispatcher.IndexFeed())}

	mailConfig := mail.Config{APIKey: config.MailAPIKey, APIURL: config.MailAPIURL, From: config.MailFrom}
	if mailConfig.Enabled() {
		sender := mail.NewSender(mailConfig, log)
		extraWorkers = append(extraWorkers, mail.NewWorker(log, sender, userRepository, dispatcher.MailFeed()))
	} else {
		log.Info("Mail provider not configured, mail fan-out disabled")
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher.Start(ctx, extraWorkers...)

	// 5. HTTP & Channel Surface
	secret := []byte(config.Secret)
	gatekeeper := channel.NewGatekeeper(secret, userRepository, config.SubscribePrefix, config.AdmissionTimeout)
	channelServer := channel.NewServer(log, gatekeeper, registry, config.ConnectionBufferSize, config.WriteTimeout)

	authService := services.NewAuthService(userRepository, secret, config.TokenDuration)
	notificationService := services.NewNotificationService(notificationRepository, index)

	e := api.NewEchoServer()
	api.RegisterRoutes(e, secret, userRepository,
		api.NewAuthHandler(authService),
		api.NewNotificationHandler(notificationService, dispatcher),
		channelServer,
	)

	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.NotificationMapper, func() map[string]any {
			connections, subscriptions := registry.Stats()
			return map[string]any{
				"Connections":   connections,
				"Subscriptions": subscriptions,
				"Time":          time.Now().UTC().Format(time.RFC822),
			}
		})
		log.Info("Inspect dashboard started", "port", config.DebugPort)
	}

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	dispatcher.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
