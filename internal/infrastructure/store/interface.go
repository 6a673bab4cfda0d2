package store

import (
	"context"
	"time"

	"github.com/example/stockledger/internal/model"
)

// ProductQuery filters the product listing.
type ProductQuery struct {
	Keyword   string // case-insensitive match on name or sku
	CatalogID string
	Page      int
	PageSize  int
}

// MovementQuery filters the stock transaction listing. ProductIDs is a
// membership filter resolved from a text search; a nil slice means no
// product filter.
type MovementQuery struct {
	Type       string
	ProductIDs []string
	Start      *time.Time
	End        *time.Time
	UserID     string // restrict to acting user when non-empty
	Limit      int
	Offset     int
}

// ProductStore is the inventory store: authoritative product state,
// including the denormalized stock quantity.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ProductQuery) ([]*model.Product, int, error)
	ListAll(ctx context.Context) ([]*model.Product, error)
	ListCompact(ctx context.Context, keyword string) ([]*model.ProductSummary, error)

	// FindIDsByKeyword resolves a text search to product ids, used by
	// the ledger query to filter transactions by membership.
	FindIDsByKeyword(ctx context.Context, keyword string) ([]string, error)

	// ApplyDelta atomically adds delta to the product's stock quantity
	// and returns the new quantity. Must be a single atomic increment,
	// never a read followed by a write.
	ApplyDelta(ctx context.Context, id string, delta int) (int, error)
}

// LedgerStore is the append-only stock transaction log. The movement
// append and the product quantity update are a single transactional
// unit: if either fails, neither is applied.
type LedgerStore interface {
	// AppendMovement inserts the entry and applies delta to the
	// product's quantity in one database transaction. Returns the new
	// quantity.
	AppendMovement(ctx context.Context, entry *model.StockTransaction, delta int) (int, error)

	// AppendMovementChecked behaves like AppendMovement but fails with
	// ErrInsufficientStock when the delta would drive the quantity
	// negative, leaving both the entry and the quantity untouched.
	AppendMovementChecked(ctx context.Context, entry *model.StockTransaction, delta int) (int, error)

	Query(ctx context.Context, q MovementQuery) ([]*model.StockTransaction, int, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.User, error)
}

type RoleStore interface {
	GetByID(ctx context.Context, id string) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	Create(ctx context.Context, r *model.Role) error
	Update(ctx context.Context, r *model.Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.Role, error)
}

type CatalogStore interface {
	GetByID(ctx context.Context, id string) (*model.Catalog, error)
	GetByCode(ctx context.Context, code string) (*model.Catalog, error)
	Create(ctx context.Context, c *model.Catalog) error
	Update(ctx context.Context, c *model.Catalog) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.Catalog, error)
}

type NotificationStore interface {
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) (*model.Notification, error)
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
