// Package store opens the configured persistence backend and exposes it
// through the repository interfaces the domain services depend on.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/internal/orders"
	"github.com/angelmondragon/biowe-backend/internal/store/docstore"
	"github.com/angelmondragon/biowe-backend/internal/store/sqlstore"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/db"
	"github.com/angelmondragon/biowe-backend/pkg/firebase"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
	"github.com/angelmondragon/biowe-backend/pkg/migrate"
)

// Backend is an opened persistence backend.
type Backend struct {
	Name     string
	Products catalog.ProductRepository
	Posts    catalog.BlogRepository
	Orders   orders.Repository

	pinger  db.Pinger
	closers []func() error
}

// Open connects to cfg.Store.Backend. The Firestore backend needs app.
func Open(ctx context.Context, cfg *config.Config, app *firebase.App, logg *logger.Logger) (*Backend, error) {
	if cfg.Store.IsSQL() {
		return openSQL(ctx, cfg, logg)
	}
	return openFirestore(ctx, app)
}

func openSQL(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	client, err := db.New(ctx, cfg.Store.Backend, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		return nil, multierr.Append(fmt.Errorf("dev migrations: %w", err), client.Close())
	}
	st, err := sqlstore.New(client.DB())
	if err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	return &Backend{
		Name:     cfg.Store.Backend,
		Products: st.Products,
		Posts:    st.Posts,
		Orders:   st.Orders,
		pinger:   client,
		closers:  []func() error{client.Close},
	}, nil
}

func openFirestore(ctx context.Context, app *firebase.App) (*Backend, error) {
	if app == nil {
		return nil, errors.New("firebase app required for the firestore backend")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	st, err := docstore.New(client)
	if err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	return &Backend{
		Name:     config.StoreBackendFirestore,
		Products: st.Products,
		Posts:    st.Posts,
		Orders:   st.Orders,
		pinger:   st,
		closers:  []func() error{client.Close},
	}, nil
}

// Ping checks the underlying connection.
func (b *Backend) Ping(ctx context.Context) error {
	if b == nil || b.pinger == nil {
		return errors.New("store not opened")
	}
	return b.pinger.Ping(ctx)
}

// Close releases every connection and reports all failures together.
func (b *Backend) Close() error {
	if b == nil {
		return nil
	}
	var err error
	for _, closeFn := range b.closers {
		err = multierr.Append(err, closeFn())
	}
	return err
}
