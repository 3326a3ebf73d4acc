package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"google.golang.org/api/option"

	"github.com/angelmondragon/biowe-backend/api/controllers"
	"github.com/angelmondragon/biowe-backend/api/routes"
	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/events"
	"github.com/angelmondragon/biowe-backend/internal/identity"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/internal/promo"
	"github.com/angelmondragon/biowe-backend/internal/store"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/firebase"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/metrics"
	"github.com/angelmondragon/biowe-backend/pkg/pubsub"
	"github.com/angelmondragon/biowe-backend/pkg/redis"
	"github.com/angelmondragon/biowe-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	var app *firebase.App
	if cfg.NeedsFirebase() {
		app, err = firebase.New(ctx, cfg.Firebase, logg)
		if err != nil {
			return err
		}
	}

	backend, err := store.Open(ctx, cfg, app, logg)
	if err != nil {
		return err
	}
	closers = append(closers, backend.Close)
	readiness := map[string]controllers.Pinger{"store": backend}

	var redisClient *redis.Client
	var numberer orders.Numberer = orders.RandomNumberer{}
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		readiness["redis"] = redisClient
		counter, err := orders.NewCounterNumberer(redisClient)
		if err != nil {
			return err
		}
		numberer = orders.NewFallbackNumberer(counter, orders.RandomNumberer{}, logg)
	}

	var publisher orders.EventPublisher = events.Noop{}
	if cfg.PubSub.Enabled() {
		projectID := cfg.PubSub.ProjectID
		if projectID == "" {
			projectID = cfg.Firebase.ProjectID
		}
		psClient, err := pubsub.NewClient(ctx, projectID, []string{cfg.PubSub.OrdersTopic}, logg)
		if err != nil {
			return err
		}
		closers = append(closers, psClient.Close)
		if publisher, err = events.NewPubSubPublisher(psClient, cfg.PubSub.OrdersTopic, logg); err != nil {
			return err
		}
	}

	verifier, directory, err := buildIdentity(ctx, cfg, app)
	if err != nil {
		return err
	}

	var uploader controllers.ObjectUploader
	if cfg.Firebase.StorageBucket != "" {
		var opts []option.ClientOption
		if app != nil {
			opts = app.Options()
		}
		gcsClient, err := gcs.NewClient(ctx, cfg.Firebase.StorageBucket, cfg.Upload.PublicBaseURL, logg, opts...)
		if err != nil {
			return err
		}
		closers = append(closers, gcsClient.Close)
		readiness["storage"] = gcsClient
		uploader = gcsClient
	}

	table := promo.DefaultTable()
	if cfg.Promo.TableFile != "" {
		if table, err = promo.LoadTable(cfg.Promo.TableFile); err != nil {
			return err
		}
	}
	evaluator, err := promo.NewEvaluator(table, nil)
	if err != nil {
		return err
	}

	catalogSvc, err := catalog.NewService(backend.Products, backend.Posts, nil)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:     backend.Orders,
		Products: backend.Products,
		Promo:    evaluator,
		Pricer:   orders.NewPricer(orders.RulesFromConfig(cfg.Pricing)),
		Numberer: numberer,
		Events:   publisher,
		Metrics:  metrics.NewOrderMetrics(registry),
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Services{
			Verifier:  verifier,
			Catalog:   catalogSvc,
			Promo:     evaluator,
			Orders:    ordersSvc,
			Directory: directory,
			Uploader:  uploader,
			Redis:     redisClient,
			Metrics:   metrics.NewHTTPMetrics(registry),
			Gatherer:  registry,
			Readiness: readiness,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":  addr,
		"store": backend.Name,
		"auth":  cfg.Auth.Provider,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildIdentity picks the token verifier and, with Firebase auth, the user directory.
func buildIdentity(ctx context.Context, cfg *config.Config, app *firebase.App) (identity.Verifier, identity.Directory, error) {
	if cfg.Auth.Provider == config.AuthProviderJWT {
		verifier, err := identity.NewJWTVerifier(cfg.Auth, nil)
		if err != nil {
			return nil, nil, err
		}
		return verifier, nil, nil
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, err
	}
	verifier, err := identity.NewFirebaseVerifier(authClient)
	if err != nil {
		return nil, nil, err
	}
	directory, err := identity.NewFirebaseDirectory(authClient)
	if err != nil {
		return nil, nil, err
	}
	return verifier, directory, nil
}
