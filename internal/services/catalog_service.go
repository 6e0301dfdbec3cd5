package services

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

type CatalogService struct {
	Prods   *repos.ProductRepo
	Events  *events.Emitter
	Metrics *metrics.Metrics
}

func NewCatalogService(prods *repos.ProductRepo, emitter *events.Emitter, m *metrics.Metrics) *CatalogService {
	return &CatalogService{Prods: prods, Events: emitter, Metrics: m}
}

// CreateProduct stores a product and returns its id. Inputs are stored as given.
func (s *CatalogService) CreateProduct(ctx context.Context, name string, price float64, sizes []domain.Size) (string, error) {
	id, err := s.Prods.Create(ctx, name, price, sizes)
	if err != nil {
		return "", err
	}
	s.Metrics.ProductCreated()
	s.Events.ProductCreated(ctx, domain.Product{ID: id, Name: name, Price: price, Sizes: sizes})
	return id, nil
}

// ListProducts returns one page of products matching f, ordered by creation.
func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter, limit, offset int) ([]domain.ProductSummary, domain.PageInfo, error) {
	if err := checkWindow(limit, offset); err != nil {
		return nil, domain.PageInfo{}, err
	}
	products, total, err := s.Prods.List(ctx, f, limit, offset)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return products, domain.NewPageInfo(offset, limit, total), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func checkWindow(limit, offset int) error {
	if limit < 1 {
		return fmt.Errorf("limit must be at least 1: %w", domain.ErrValidation)
	}
	if offset < 0 {
		return fmt.Errorf("offset must not be negative: %w", domain.ErrValidation)
	}
	return nil
}
