package repos

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"golang.org/x/text/cases"
	"modernc.org/sqlite"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// sqlite's LOWER folds ASCII only; fold(x) gives the name filter full Unicode case folding.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return foldCase(v), nil
		case []byte:
			return foldCase(string(v)), nil
		default:
			return v, nil
		}
	})
}

// foldCase maps s to its case-folded form, so "Éclair" and "éCLAIR" compare equal.
func foldCase(s string) string { return cases.Fold().String(s) }

// OpenDB connects with driver "sqlite" or "pgx", checks the connection and
// creates the schema if it is missing.
func OpenDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite", "pgx":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", driver, err)
	}
	if driver == "sqlite" {
		// An in-memory database lives and dies with its connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConns)
		db.SetMaxIdleConns(defaultMaxIdleConns)
		db.SetConnMaxLifetime(defaultConnMaxLifetime)
		db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	}

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// Ping checks the store within the default connection timeout.
func Ping(ctx context.Context, db *sqlx.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping %s: %w", db.DriverName(), err)
	}
	return nil
}

// Statements are kept to types and syntax that sqlite and postgres share.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL CHECK (price >= 0)
)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS product_sizes(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  size TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  PRIMARY KEY (product_id, position)
)`,
	`CREATE INDEX IF NOT EXISTS idx_product_sizes_size ON product_sizes(size)`,

	`CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total DOUBLE PRECISION NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, id)`,

	// product_id carries no foreign key: references are only checked when the order is created.
	`CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  PRIMARY KEY (order_id, position)
)`,
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedIfEmpty inserts a few demo products when the catalog is empty.
func SeedIfEmpty(ctx context.Context, products *ProductRepo) error {
	n, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Component("seed").Info("inserting demo products")
	demo := []struct {
		name  string
		price float64
		sizes []domain.Size
	}{
		{"Classic White Tee", 12.5, []domain.Size{{Size: "S", Quantity: 10}, {Size: "M", Quantity: 14}, {Size: "L", Quantity: 6}}},
		{"Blue Denim Shirt", 39.9, []domain.Size{{Size: "M", Quantity: 5}, {Size: "L", Quantity: 2}}},
		{"Canvas Sneakers", 54, []domain.Size{{Size: "42", Quantity: 3}, {Size: "43", Quantity: 1}}},
	}
	for _, d := range demo {
		if _, err := products.Create(ctx, d.name, d.price, d.sizes); err != nil {
			return err
		}
	}
	return nil
}

// newID returns a time-ordered identifier; sorting by id sorts by creation.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
