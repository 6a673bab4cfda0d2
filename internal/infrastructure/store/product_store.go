package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/example/stockledger/internal/model"
)

// PostgresProductStore implements ProductStore on PostgreSQL.
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

const productColumns = `p.id, p.name, p.sku, p.catalog_id, COALESCE(c.name, ''), p.description,
	p.images, p.unit_price, p.cost_price, p.stock_quantity, p.user_id, p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.CatalogID, &p.CatalogName, &p.Description,
		pq.Array(&p.Images), &p.UnitPrice, &p.CostPrice, &p.StockQuantity, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresProductStore) GetByID(ctx context.Context, id string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN catalogs c ON c.id = p.catalog_id
		WHERE p.id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (s *PostgresProductStore) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN catalogs c ON c.id = p.catalog_id
		WHERE p.sku = $1`, sku)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by sku: %w", err)
	}
	return p, nil
}

func (s *PostgresProductStore) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, sku, catalog_id, description, images,
			unit_price, cost_price, stock_quantity, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.SKU, p.CatalogID, p.Description, pq.Array(p.Images),
		p.UnitPrice, p.CostPrice, p.StockQuantity, p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSKU
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update persists the product's mutable attributes. Stock quantity is
// deliberately not written here; only the ledger touches it.
func (s *PostgresProductStore) Update(ctx context.Context, p *model.Product) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, sku = $2, catalog_id = $3, description = $4, images = $5,
			unit_price = $6, cost_price = $7, updated_at = NOW()
		WHERE id = $8`,
		p.Name, p.SKU, p.CatalogID, p.Description, pq.Array(p.Images),
		p.UnitPrice, p.CostPrice, p.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSKU
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresProductStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresProductStore) List(ctx context.Context, q ProductQuery) ([]*model.Product, int, error) {
	where := "TRUE"
	args := []any{}

	if q.Keyword != "" {
		args = append(args, "%"+q.Keyword+"%")
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.sku ILIKE $%d)", len(args), len(args))
	}
	if q.CatalogID != "" {
		args = append(args, q.CatalogID)
		where += fmt.Sprintf(" AND p.catalog_id = $%d", len(args))
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products p WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	args = append(args, q.PageSize, q.PageSize*(q.Page-1))

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM products p LEFT JOIN catalogs c ON c.id = p.catalog_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// ListAll returns every product, used by the inventory report.
func (s *PostgresProductStore) ListAll(ctx context.Context) ([]*model.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN catalogs c ON c.id = p.catalog_id
		ORDER BY p.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListCompact returns the minimal product fields used for barcode
// generation.
func (s *PostgresProductStore) ListCompact(ctx context.Context, keyword string) ([]*model.ProductSummary, error) {
	query := `SELECT id, name, sku, unit_price, stock_quantity FROM products`
	args := []any{}
	if keyword != "" {
		query += ` WHERE name ILIKE $1 OR sku ILIKE $1`
		args = append(args, "%"+keyword+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	summaries := make([]*model.ProductSummary, 0)
	for rows.Next() {
		var ps model.ProductSummary
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.SKU, &ps.UnitPrice, &ps.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		summaries = append(summaries, &ps)
	}
	return summaries, rows.Err()
}

func (s *PostgresProductStore) FindIDsByKeyword(ctx context.Context, keyword string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM products WHERE name ILIKE $1 OR sku ILIKE $1`,
		"%"+keyword+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query product ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ApplyDelta adds delta to the product's stock quantity in a single
// UPDATE so concurrent movements against the same product cannot lose
// updates.
func (s *PostgresProductStore) ApplyDelta(ctx context.Context, id string, delta int) (int, error) {
	var quantity int
	err := s.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING stock_quantity`,
		delta, id,
	).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("update stock quantity: %w", err)
	}
	return quantity, nil
}
