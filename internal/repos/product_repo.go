package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// Create stores the product and its sizes in one transaction and returns the new id.
func (r *ProductRepo) Create(ctx context.Context, name string, price float64, sizes []domain.Size) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("generate product id: %w: %w", domain.ErrPersistence, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin product insert: %w: %w", domain.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO products(id, name, price) VALUES (?, ?, ?)`), id, name, price)
	if err != nil {
		return "", fmt.Errorf("insert product: %w: %w", domain.ErrPersistence, err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return "", fmt.Errorf("insert product: %w: no row stored", domain.ErrPersistence)
	}
	for i, s := range sizes {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO product_sizes(product_id, position, size, quantity)
			VALUES (?, ?, ?, ?)
		`), id, i, s.Size, s.Quantity); err != nil {
			return "", fmt.Errorf("insert product size: %w: %w", domain.ErrPersistence, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit product: %w: %w", domain.ErrPersistence, err)
	}
	return id, nil
}

// List returns one page of matching products ordered by id, plus the number of matches overall.
func (r *ProductRepo) List(ctx context.Context, f domain.ProductFilter, limit, offset int) ([]domain.ProductSummary, int, error) {
	where := `1 = 1`
	args := []any{}
	if f.Name != "" {
		if r.db.DriverName() == "sqlite" {
			where += ` AND fold(name) LIKE ? ESCAPE '\'`
			args = append(args, "%"+escapeLike(foldCase(f.Name))+"%")
		} else {
			where += ` AND LOWER(name) LIKE LOWER(?) ESCAPE '\'`
			args = append(args, "%"+escapeLike(f.Name)+"%")
		}
	}
	if f.Size != "" {
		where += ` AND EXISTS (SELECT 1 FROM product_sizes s WHERE s.product_id = products.id AND s.size = ?)`
		args = append(args, f.Size)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM products WHERE `+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w: %w", domain.ErrPersistence, err)
	}

	out := []domain.ProductSummary{}
	query := `
	  SELECT id, name, price
	  FROM products
	  WHERE ` + where + `
	  ORDER BY id
	  LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w: %w", domain.ErrPersistence, err)
	}
	return out, total, nil
}

// Get loads a product with its sizes. It returns domain.ErrProductNotFound when no row matches.
func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT id, name, price FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w: %w", domain.ErrPersistence, err)
	}

	p.Sizes = []domain.Size{}
	if err := r.db.SelectContext(ctx, &p.Sizes, r.db.Rebind(`
		SELECT size, quantity FROM product_sizes WHERE product_id = ? ORDER BY position
	`), id); err != nil {
		return domain.Product{}, fmt.Errorf("get product sizes: %w: %w", domain.ErrPersistence, err)
	}
	return p, nil
}

// NamesByIDs resolves product names for the given ids. Ids with no product are absent from the map.
func (r *ProductRepo) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	query, args, err := sqlx.In(`SELECT id, name FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build product lookup: %w", err)
	}
	var rows []domain.ProductDetails
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lookup products: %w: %w", domain.ErrPersistence, err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w: %w", domain.ErrPersistence, err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the search text match literally inside a LIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
