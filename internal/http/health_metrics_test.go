package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"storefront/internal/http/handlers"
)

func TestHealthz(t *testing.T) {
	a := newTestApp(t, handlers.AppOptions{})

	resp, body := a.do(t, "GET", "/healthz", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"db":"up"`) {
		t.Fatalf("expected healthy, got %d %s", resp.StatusCode, body)
	}

	_ = a.db.Close()
	resp, body = a.do(t, "GET", "/healthz", nil)
	if resp.StatusCode != http.StatusServiceUnavailable || !strings.Contains(string(body), `"db":"down"`) {
		t.Fatalf("expected 503 after close, got %d %s", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, handlers.AppOptions{})
	id := a.createProduct(t, "A", 1)
	a.do(t, "POST", "/orders", handlers.CreateOrderRequest{UserID: user("u1"), Items: []handlers.OrderItemRequest{{ProductID: id, Qty: 1}}})
	a.do(t, "POST", "/orders", handlers.CreateOrderRequest{UserID: user("u1"), Items: []handlers.OrderItemRequest{{ProductID: "bogus", Qty: 1}}})

	resp, body := a.do(t, "GET", "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	text := string(body)
	for _, want := range []string{
		"storefront_products_created_total 1",
		"storefront_orders_created_total 1",
		`storefront_orders_rejected_total{reason="invalid_product_reference"} 1`,
		`storefront_http_requests_total{method="POST",route="/orders",status="201"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics missing %q:\n%s", want, text)
		}
	}
}
