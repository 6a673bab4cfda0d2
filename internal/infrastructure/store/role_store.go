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

// PostgresRoleStore implements RoleStore on PostgreSQL. Permission sets
// are stored as a text array.
type PostgresRoleStore struct {
	db *sql.DB
}

func NewPostgresRoleStore(db *sql.DB) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

func scanRole(row interface{ Scan(...any) error }) (*model.Role, error) {
	var r model.Role
	err := row.Scan(&r.ID, &r.Name, &r.Description, pq.Array(&r.Permissions),
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresRoleStore) GetByID(ctx context.Context, id string) (*model.Role, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles WHERE id = $1`, id)

	r, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query role: %w", err)
	}
	return r, nil
}

func (s *PostgresRoleStore) GetByName(ctx context.Context, name string) (*model.Role, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles WHERE name = $1`, name)

	r, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query role by name: %w", err)
	}
	return r, nil
}

func (s *PostgresRoleStore) Create(ctx context.Context, r *model.Role) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roles (id, name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.Name, r.Description, pq.Array(r.Permissions), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (s *PostgresRoleStore) Update(ctx context.Context, r *model.Role) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE roles
		SET name = $1, description = $2, permissions = $3, updated_at = NOW()
		WHERE id = $4`,
		r.Name, r.Description, pq.Array(r.Permissions), r.ID,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *PostgresRoleStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (s *PostgresRoleStore) List(ctx context.Context) ([]*model.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]*model.Role, 0)
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
