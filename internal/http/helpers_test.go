package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/events"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

type testApp struct {
	app *fiber.App
	db  *sqlx.DB
	reg *prometheus.Registry
}

// Minimal app over an in-memory database, same routes as the binary.
func newTestApp(t *testing.T, opts handlers.AppOptions) *testApp {
	t.Helper()
	db, err := repos.OpenDB(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	emitter := events.NewEmitter(events.NopPublisher{}, events.Topics{Products: "products", Orders: "orders"}, m)
	deps := handlers.NewDeps(db, emitter, m, reg)
	return &testApp{app: handlers.NewApp(deps, opts), db: db, reg: reg}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func (a *testApp) createProduct(t *testing.T, name string, price float64, sizes ...handlers.SizeRequest) string {
	t.Helper()
	if sizes == nil {
		sizes = []handlers.SizeRequest{}
	}
	resp, body := a.do(t, "POST", "/products", handlers.CreateProductRequest{Name: name, Price: &price, Sizes: sizes})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: status %d body=%s", resp.StatusCode, body)
	}
	var created handlers.CreatedResponse
	decode(t, body, &created)
	return created.ID
}

func (a *testApp) orderCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := a.db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	return n
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

type logEntry struct {
	Action string         `json:"action"`
	Level  string         `json:"level"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	applog.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	defer applog.SetOutput(io.Discard)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

func user(id string) *string { return &id }
