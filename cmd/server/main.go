package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"

	"github.com/imaginify/webhook-service/internal/clerk"
	"github.com/imaginify/webhook-service/internal/config"
	"github.com/imaginify/webhook-service/internal/httpapi"
	"github.com/imaginify/webhook-service/internal/shared/logging"
	sharedserver "github.com/imaginify/webhook-service/internal/shared/server"
	"github.com/imaginify/webhook-service/internal/user"
	"github.com/imaginify/webhook-service/internal/usersync"
	"github.com/imaginify/webhook-service/internal/webhook"
)

const serviceName = "webhook-service"

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger(serviceName, cfg.LogLevel)

	// Refuse to serve the endpoint at all rather than skip verification.
	verifier, err := webhook.NewVerifier(cfg.Clerk.WebhookSecret, webhook.WithTolerance(cfg.Clerk.Tolerance))
	if err != nil {
		panic(fmt.Errorf("webhook verifier error: %w", err))
	}

	repo, cleanup, err := newRepository(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("repository init error: %w", err))
	}
	defer cleanup()

	var reconciler *usersync.Reconciler
	if cfg.Clerk.SecretKey != "" {
		reconciler = usersync.NewReconciler(clerk.NewClient(cfg.Clerk.APIURL, cfg.Clerk.SecretKey))
	} else {
		logger.Warn("CLERK_SECRET_KEY not set; created users will not be linked in Clerk metadata")
	}

	syncer, err := usersync.NewSyncer(repo, reconciler, logger)
	if err != nil {
		panic(fmt.Errorf("user sync init error: %w", err))
	}

	limiter := httpapi.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	router := sharedserver.NewRouter(serviceName, func(r chi.Router) {
		httpapi.RegisterRoutes(r, verifier, syncer, limiter, logger)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("webhook service configured",
		slog.String("datastore", string(cfg.DataStore)),
		slog.Bool("reconcile", reconciler != nil),
		slog.Int("rateLimit", cfg.RateLimit.PerSecond))

	if err := sharedserver.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func newRepository(ctx context.Context, cfg config.Config) (user.Repository, func(), error) {
	switch cfg.DataStore {
	case config.DataStoreFirestore:
		if cfg.Firestore.EmulatorHost != "" {
			if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.Firestore.EmulatorHost); err != nil {
				return nil, nil, fmt.Errorf("set FIRESTORE_EMULATOR_HOST: %w", err)
			}
		}

		client, err := firestore.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		cleanup := func() {
			_ = client.Close()
		}
		return user.NewFirestoreRepository(client), cleanup, nil
	case config.DataStorePostgres:
		openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := user.OpenPostgres(openCtx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			_ = db.Close()
		}
		return user.NewPostgresRepository(db), cleanup, nil
	default:
		return user.NewMemoryRepository(), func() {}, nil
	}
}
