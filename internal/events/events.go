package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
)

type EventType string

const (
	EventTypeProductCreated EventType = "product.created"
	EventTypeOrderCreated   EventType = "order.created"
)

type ProductEvent struct {
	EventType EventType     `json:"event_type"`
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Price     float64       `json:"price"`
	Sizes     []domain.Size `json:"sizes"`
	Timestamp time.Time     `json:"timestamp"`
}

type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderEvent struct {
	EventType EventType        `json:"event_type"`
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	Items     []OrderEventItem `json:"items"`
	Total     float64          `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}

func (e *ProductEvent) Type() EventType { return e.EventType }
func (e *OrderEvent) Type() EventType   { return e.EventType }

func NewProductEvent(p domain.Product) *ProductEvent {
	return &ProductEvent{
		EventType: EventTypeProductCreated,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Sizes:     p.Sizes,
		Timestamp: time.Now().UTC(),
	}
}

func NewOrderEvent(o domain.Order) *OrderEvent {
	items := make([]OrderEventItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderEventItem{ProductID: it.ProductID, Qty: it.Qty}
	}
	return &OrderEvent{
		EventType: EventTypeOrderCreated,
		OrderID:   o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers one JSON-encoded event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

type Topics struct {
	Products string
	Orders   string
}

// Emitter announces stored documents. Emitting happens after the write is committed,
// so a delivery failure is logged and counted but never reported to the caller.
type Emitter struct {
	pub     Publisher
	topics  Topics
	metrics *metrics.Metrics
	logger  *logrus.Entry
}

func NewEmitter(pub Publisher, topics Topics, m *metrics.Metrics) *Emitter {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Emitter{pub: pub, topics: topics, metrics: m, logger: applog.Component("events")}
}

func (e *Emitter) ProductCreated(ctx context.Context, p domain.Product) {
	if e == nil {
		return
	}
	e.emit(ctx, e.topics.Products, p.ID, NewProductEvent(p))
}

func (e *Emitter) OrderCreated(ctx context.Context, o domain.Order) {
	if e == nil {
		return
	}
	e.emit(ctx, e.topics.Orders, o.ID, NewOrderEvent(o))
}

func (e *Emitter) emit(ctx context.Context, topic, key string, event any) {
	if err := e.pub.Publish(ctx, topic, key, event); err != nil {
		e.metrics.PublishFailed(topic)
		e.logger.WithError(err).WithFields(logrus.Fields{"topic": topic, "key": key}).Warn("event not published")
	}
}
