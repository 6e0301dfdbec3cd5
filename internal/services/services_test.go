package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type env struct {
	db       *sqlx.DB
	reg      *prometheus.Registry
	pub      *recordingPublisher
	products *repos.ProductRepo
	orders   *repos.OrderRepo
	catalog  *services.CatalogService
	ordering *services.OrderService
}

type recordingPublisher struct{ topics []string }

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	pub := &recordingPublisher{}
	emitter := events.NewEmitter(pub, events.Topics{Products: "products", Orders: "orders"}, m)

	products := repos.NewProductRepo(db)
	orders := repos.NewOrderRepo(db)
	return &env{
		db:       db,
		reg:      reg,
		pub:      pub,
		products: products,
		orders:   orders,
		catalog:  services.NewCatalogService(products, emitter, m),
		ordering: services.NewOrderService(orders, products, emitter, m),
	}
}
