package store

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

// Not-found sentinels shared by the Postgres stores. Handlers map these
// to 404 responses.
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrCatalogNotFound      = errors.New("catalog not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDuplicateSKU         = errors.New("sku already exists")
	ErrDuplicateCode        = errors.New("catalog code already exists")
	ErrDuplicateEmail       = errors.New("email already registered")
)

// ErrInsufficientStock is returned by guarded movement appends when the
// delta would drive the product quantity negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var pqErr sqlState
	if errors.As(err, &pqErr) {
		return pqErr.SQLState() == "23505"
	}
	return false
}
