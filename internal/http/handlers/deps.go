package handlers

import (
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	HealthHandler  *HealthHandler
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

// NewDeps wires repos, services and handlers over one database handle.
// A nil gatherer serves the default Prometheus registry.
func NewDeps(db *sqlx.DB, emitter *events.Emitter, m *metrics.Metrics, gatherer prometheus.Gatherer) *Deps {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, emitter, m)
	orderSvc := services.NewOrderService(orderRepo, prodRepo, emitter, m)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc},
		HealthHandler:  &HealthHandler{DB: db},
		Metrics:        m,
		Gatherer:       gatherer,
	}
}
