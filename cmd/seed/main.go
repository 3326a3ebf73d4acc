package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/store"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/firebase"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	only := flag.String("only", "", "seed a single collection: products|blog (default both)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logg.WithFields(ctx, map[string]any{"backend": cfg.Store.Backend})

	if err := run(ctx, cfg, logg, *only); err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed complete")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, only string) (err error) {
	var app *firebase.App
	if !cfg.Store.IsSQL() {
		if app, err = firebase.New(ctx, cfg.Firebase, logg); err != nil {
			return err
		}
	}

	backend, err := store.Open(ctx, cfg, app, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, backend.Close())
	}()

	switch only {
	case "":
		return multierr.Append(
			seedProducts(ctx, backend.Products, logg),
			seedPosts(ctx, backend.Posts, logg),
		)
	case "products":
		return seedProducts(ctx, backend.Products, logg)
	case "blog":
		return seedPosts(ctx, backend.Posts, logg)
	default:
		return fmt.Errorf("unknown -only value %q", only)
	}
}

// seedProducts upserts by fixed id so reruns overwrite rather than duplicate.
func seedProducts(ctx context.Context, repo catalog.ProductRepository, logg *logger.Logger) error {
	now := time.Now().UTC()
	var errs error
	for _, product := range launchProducts() {
		product.CreatedAt = now
		product.UpdatedAt = now
		if err := repo.SaveProduct(ctx, &product); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %s: %w", product.ID, err))
			continue
		}
		logg.Debug(logg.WithField(ctx, "product_id", product.ID), "product seeded")
	}
	return errs
}

func seedPosts(ctx context.Context, repo catalog.BlogRepository, logg *logger.Logger) error {
	now := time.Now().UTC()
	var errs error
	for _, post := range launchPosts() {
		post.CreatedAt = now
		post.UpdatedAt = now
		if err := repo.SavePost(ctx, &post); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("blog post %s: %w", post.ID, err))
			continue
		}
		logg.Debug(logg.WithField(ctx, "post_id", post.ID), "blog post seeded")
	}
	return errs
}
