package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// QueryFilters are the optional, AND-combined filters for the movement
// listing.
type QueryFilters struct {
	Type      string // exact kind, "" or "ALL" means no filter
	Search    string // case-insensitive match on product name or sku
	Date      string // "today" shortcut
	StartDate string // 2006-01-02
	EndDate   string // 2006-01-02
	Page      int
	Limit     int
}

// Caller identifies who is asking. Non-privileged callers only ever see
// their own movements.
type Caller struct {
	UserID     string
	Privileged bool
}

// QueryResult is a page of the movement history, most recent first.
type QueryResult struct {
	Transactions []*model.StockTransaction `json:"transactions"`
	Page         int                       `json:"page"`
	Pages        int                       `json:"pages"`
	Total        int                       `json:"total"`
}

const dateLayout = "2006-01-02"

// Query returns the filtered, paginated movement history ordered by
// creation time descending. An explicit start/end pair wins over the
// "today" shortcut. Text search resolves matching product ids first and
// then filters entries by membership, mirroring how the history is
// browsed per product.
func (s *Service) Query(ctx context.Context, f QueryFilters, caller Caller) (*QueryResult, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	q := store.MovementQuery{
		Type:   f.Type,
		Limit:  limit,
		Offset: limit * (page - 1),
	}
	if !caller.Privileged {
		q.UserID = caller.UserID
	}

	if f.Search != "" {
		ids, err := s.products.FindIDsByKeyword(ctx, f.Search)
		if err != nil {
			return nil, fmt.Errorf("resolve search: %w", err)
		}
		if len(ids) == 0 {
			return &QueryResult{
				Transactions: []*model.StockTransaction{},
				Page:         page,
			}, nil
		}
		q.ProductIDs = ids
	}

	start, end, err := s.dateRange(f)
	if err != nil {
		return nil, err
	}
	q.Start, q.End = start, end

	transactions, total, err := s.entries.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}

	return &QueryResult{
		Transactions: transactions,
		Page:         page,
		Pages:        (total + limit - 1) / limit,
		Total:        total,
	}, nil
}

// dateRange normalizes the date filters to an inclusive
// start-of-day..end-of-day window in server-local time.
func (s *Service) dateRange(f QueryFilters) (*time.Time, *time.Time, error) {
	if f.StartDate != "" && f.EndDate != "" {
		startDay, err := time.ParseInLocation(dateLayout, f.StartDate, time.Local)
		if err != nil {
			return nil, nil, ErrValidation
		}
		endDay, err := time.ParseInLocation(dateLayout, f.EndDate, time.Local)
		if err != nil {
			return nil, nil, ErrValidation
		}
		start := startOfDay(startDay)
		end := endOfDay(endDay)
		return &start, &end, nil
	}

	if f.Date == "today" {
		now := s.now()
		start := startOfDay(now)
		end := endOfDay(now)
		return &start, &end, nil
	}

	return nil, nil, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
