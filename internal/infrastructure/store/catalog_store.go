package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/stockledger/internal/model"
)

// PostgresCatalogStore implements CatalogStore on PostgreSQL.
type PostgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(db *sql.DB) *PostgresCatalogStore {
	return &PostgresCatalogStore{db: db}
}

func scanCatalog(row interface{ Scan(...any) error }) (*model.Catalog, error) {
	var c model.Catalog
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresCatalogStore) GetByID(ctx context.Context, id string) (*model.Catalog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, created_at, updated_at FROM catalogs WHERE id = $1`, id)

	c, err := scanCatalog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	return c, nil
}

func (s *PostgresCatalogStore) GetByCode(ctx context.Context, code string) (*model.Catalog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, created_at, updated_at FROM catalogs WHERE code = $1`, code)

	c, err := scanCatalog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog by code: %w", err)
	}
	return c, nil
}

func (s *PostgresCatalogStore) Create(ctx context.Context, c *model.Catalog) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalogs (id, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Code, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	return nil
}

func (s *PostgresCatalogStore) Update(ctx context.Context, c *model.Catalog) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE catalogs SET name = $1, code = $2, updated_at = NOW() WHERE id = $3`,
		c.Name, c.Code, c.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("update catalog: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

func (s *PostgresCatalogStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM catalogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

func (s *PostgresCatalogStore) List(ctx context.Context) ([]*model.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, created_at, updated_at FROM catalogs ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query catalogs: %w", err)
	}
	defer rows.Close()

	catalogs := make([]*model.Catalog, 0)
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		catalogs = append(catalogs, c)
	}
	return catalogs, rows.Err()
}
