package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

type OrderService struct {
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
	Events  *events.Emitter
	Metrics *metrics.Metrics
}

func NewOrderService(orders *repos.OrderRepo, prods *repos.ProductRepo, emitter *events.Emitter, m *metrics.Metrics) *OrderService {
	return &OrderService{Orders: orders, Prods: prods, Events: emitter, Metrics: m}
}

// Create checks every referenced product in order, totals price × qty and stores the order.
// Nothing is written unless every item resolves. The product reads and the insert are not
// isolated from concurrent product changes.
func (s *OrderService) Create(ctx context.Context, userID string, items []domain.OrderItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("order must contain at least one item: %w", domain.ErrValidation)
	}

	stored := make([]domain.OrderItem, 0, len(items))
	total := 0.0
	for i, it := range items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			s.Metrics.OrderRejected("invalid_product_reference")
			return "", fmt.Errorf("item %d: productId %q: %w", i, it.ProductID, domain.ErrInvalidProductReference)
		}
		p, err := s.Prods.Get(ctx, pid.String())
		if errors.Is(err, domain.ErrProductNotFound) {
			s.Metrics.OrderRejected("product_not_found")
			return "", fmt.Errorf("item %d: %w", i, err)
		}
		if err != nil {
			return "", err
		}
		total += p.Price * float64(it.Qty)
		stored = append(stored, domain.OrderItem{ProductID: p.ID, Qty: it.Qty})
	}

	id, err := s.Orders.Create(ctx, userID, stored, total)
	if err != nil {
		return "", err
	}
	s.Metrics.OrderCreated()
	s.Events.OrderCreated(ctx, domain.Order{ID: id, UserID: userID, Items: stored, Total: total})
	return id, nil
}

// ListByUser returns one page of the user's orders with product names attached.
// Items whose product no longer exists are left out, and an order left with no
// items is left out entirely. Totals are the stored ones.
func (s *OrderService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.OrderView, domain.PageInfo, error) {
	if err := checkWindow(limit, offset); err != nil {
		return nil, domain.PageInfo{}, err
	}
	orders, total, err := s.Orders.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}

	var ids []string
	seen := map[string]bool{}
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	names, err := s.Prods.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		lines := make([]domain.OrderLine, 0, len(o.Items))
		for _, it := range o.Items {
			name, ok := names[it.ProductID]
			if !ok {
				continue
			}
			lines = append(lines, domain.OrderLine{
				Qty:            it.Qty,
				ProductDetails: domain.ProductDetails{ID: it.ProductID, Name: name},
			})
		}
		if len(lines) == 0 {
			continue
		}
		views = append(views, domain.OrderView{ID: o.ID, Items: lines, Total: o.Total})
	}
	return views, domain.NewPageInfo(offset, limit, total), nil
}
