package sql

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Page describes one page of an offset-paginated result set.
type Page struct {
	// Items holds the records of the current page.
	Items []Record
	// Total is the number of records across all pages.
	Total int64
	// PerPage is the page size the total was divided by.
	PerPage int
	// CurrentPage is the 1-based page number.
	CurrentPage int
	// LastPage is the highest page number, ceil(Total/PerPage).
	LastPage int
}

// Paginate runs an offset-paginated read: one COUNT query without
// limit/offset/orders, and one page-scoped query. Both run on fully
// independent copies of the builder, concurrently; the receiver itself is
// left untouched.
func (b *Builder) Paginate(ctx context.Context, perPage, page int) (*Page, error) {
	if perPage < 1 {
		perPage = 15
	}
	if page < 1 {
		page = 1
	}
	countQ := b.Clone()
	countQ.orders = nil
	countQ.limit = -1
	countQ.offset = -1
	itemsQ := b.Clone().Limit(perPage).Offset((page - 1) * perPage)

	var (
		total int64
		items []Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := countQ.Count(gctx)
		total = n
		return err
	})
	g.Go(func() error {
		records, err := itemsQ.runSelect(gctx)
		items = records
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return &Page{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    last,
	}, nil
}
