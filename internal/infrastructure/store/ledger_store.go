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

// PostgresLedgerStore implements LedgerStore on PostgreSQL. Rows in
// stock_transactions are append-only; this store exposes no update or
// delete.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

func (s *PostgresLedgerStore) AppendMovement(ctx context.Context, entry *model.StockTransaction, delta int) (int, error) {
	return s.append(ctx, entry, delta, false)
}

func (s *PostgresLedgerStore) AppendMovementChecked(ctx context.Context, entry *model.StockTransaction, delta int) (int, error) {
	return s.append(ctx, entry, delta, true)
}

// append inserts the ledger entry and applies the quantity delta in one
// transaction. The quantity update is a single conditional UPDATE, so
// concurrent movements against the same product serialize on the row
// and no update is lost. When checked is true the update refuses to
// drive the quantity negative and the whole transaction rolls back.
func (s *PostgresLedgerStore) append(ctx context.Context, entry *model.StockTransaction, delta int, checked bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_transactions (id, product_id, user_id, type, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.ProductID, entry.UserID, entry.Type, entry.Quantity,
		entry.Reason, entry.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert stock transaction: %w", err)
	}

	guard := ""
	if checked {
		guard = " AND stock_quantity + $1 >= 0"
	}
	var quantity int
	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2`+guard+`
		RETURNING stock_quantity`,
		delta, entry.ProductID,
	).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		if checked {
			return 0, ErrInsufficientStock
		}
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("update stock quantity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return quantity, nil
}

// Query returns transactions matching q ordered by creation time
// descending, along with the total match count. Product and user
// display fields come from LEFT JOINs so entries survive deletion of
// what they reference.
func (s *PostgresLedgerStore) Query(ctx context.Context, q MovementQuery) ([]*model.StockTransaction, int, error) {
	where := "TRUE"
	args := []any{}

	if q.Type != "" && q.Type != "ALL" {
		args = append(args, q.Type)
		where += fmt.Sprintf(" AND t.type = $%d", len(args))
	}
	if q.ProductIDs != nil {
		args = append(args, pq.Array(q.ProductIDs))
		where += fmt.Sprintf(" AND t.product_id = ANY($%d)", len(args))
	}
	if q.Start != nil {
		args = append(args, *q.Start)
		where += fmt.Sprintf(" AND t.created_at >= $%d", len(args))
	}
	if q.End != nil {
		args = append(args, *q.End)
		where += fmt.Sprintf(" AND t.created_at <= $%d", len(args))
	}
	if q.UserID != "" {
		args = append(args, q.UserID)
		where += fmt.Sprintf(" AND t.user_id = $%d", len(args))
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stock_transactions t WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count stock transactions: %w", err)
	}

	if q.Limit < 1 {
		q.Limit = 10
	}
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT t.id, t.product_id, t.user_id, t.type, t.quantity, t.reason, t.created_at,
			COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(c.name, ''), COALESCE(u.name, '')
		FROM stock_transactions t
		LEFT JOIN products p ON p.id = t.product_id
		LEFT JOIN catalogs c ON c.id = p.catalog_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query stock transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*model.StockTransaction, 0)
	for rows.Next() {
		var t model.StockTransaction
		err := rows.Scan(&t.ID, &t.ProductID, &t.UserID, &t.Type, &t.Quantity, &t.Reason,
			&t.CreatedAt, &t.ProductName, &t.ProductSKU, &t.CatalogName, &t.UserName)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, total, rows.Err()
}
