package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams is the normalized page/limit pair.
type PageParams struct {
	Page  int
	Limit int
}

// NewPageParams clamps raw client input: non-positive values fall back to
// the defaults, limit is capped.
func NewPageParams(page, limit int) PageParams {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageParams{Page: page, Limit: limit}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the paginated result envelope. Items marshal under Label
// ("docs" unless an endpoint renames it, e.g. "videos").
type Page[T any] struct {
	Items       []T
	TotalDocs   int64
	Page        int
	Limit       int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
	Label       string
}

func (p Page[T]) MarshalJSON() ([]byte, error) {
	label := p.Label
	if label == "" {
		label = "docs"
	}
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(map[string]any{
		label:         items,
		"totalDocs":   p.TotalDocs,
		"page":        p.Page,
		"limit":       p.Limit,
		"totalPages":  p.TotalPages,
		"hasNextPage": p.HasNextPage,
		"hasPrevPage": p.HasPrevPage,
	})
}

// NewPage computes navigation metadata from a fetched slice and total.
// A page past the end yields empty items with accurate metadata.
func NewPage[T any](items []T, total int64, params PageParams, label string) *Page[T] {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return &Page[T]{
		Items:       items,
		TotalDocs:   total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
		Label:       label,
	}
}

// Querier is the subset of pgxpool.Pool the paginator needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Paginate executes a JoinQuery twice, once with skip/limit for the page
// and once for the matched-set count, and shapes the result.
func Paginate[T any](ctx context.Context, db Querier, q *JoinQuery, params PageParams, label string, scan func(pgx.Rows) (T, error)) (*Page[T], error) {
	countSQL, countArgs := q.BuildCount()
	var total int64
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	sql, args := q.Build(params.Limit, params.Offset())
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0, params.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewPage(items, total, params, label), nil
}
