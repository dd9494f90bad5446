// Package pager drives offset/limit pagination over a growing list.
//
// A Cursor remembers how far a consumer has read and whether the end has
// been reached, and lets at most one fetch run at a time. Requests made
// while a fetch is running, or after the last page, are dropped rather
// than queued.
package pager

import (
	"context"
	"errors"
	"sync"
)

// FetchFunc loads up to limit rows starting at offset.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Result describes the outcome of one Next call.
type Result[T any] struct {
	Items []T
	// Skipped is set when the call was ignored because a fetch was
	// already running or the last page had been reached.
	Skipped bool
	// Empty is set when the first fetch after a reset returned nothing.
	Empty bool
	// LastPage is set once a fetch returned fewer rows than the page size.
	LastPage bool
}

// Cursor tracks offset-based paging state for one listing.
type Cursor[T any] struct {
	fetch    FetchFunc[T]
	pageSize int

	mu       sync.Mutex
	offset   int
	lastPage bool
	inFlight bool

	// epoch counts resets; a fetch started under an older epoch is stale.
	epoch uint64
}

// ErrInvalidPageSize is returned by New for a page size below one.
var ErrInvalidPageSize = errors.New("pager: page size must be positive")

// New returns a cursor that fetches pageSize rows at a time.
func New[T any](pageSize int, fetch FetchFunc[T]) (*Cursor[T], error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}
	return &Cursor[T]{fetch: fetch, pageSize: pageSize}, nil
}

// PageSize returns the fixed number of rows requested per fetch.
func (c *Cursor[T]) PageSize() int {
	return c.pageSize
}

// Offset returns the number of rows consumed so far.
func (c *Cursor[T]) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// LastPage reports whether the end of the listing has been reached.
func (c *Cursor[T]) LastPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPage
}

// Loading reports whether a fetch is running.
func (c *Cursor[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Reset rewinds to the start of the listing. A fetch already running is
// not cancelled, but its rows are dropped, even when it was reading the
// first page.
func (c *Cursor[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.offset = 0
	c.lastPage = false
}

// Next fetches the following page.
//
// On error the cursor state is unchanged apart from clearing the
// in-flight guard, so the same page can be requested again.
func (c *Cursor[T]) Next(ctx context.Context) (Result[T], error) {
	c.mu.Lock()
	if c.inFlight || c.lastPage {
		c.mu.Unlock()
		return Result[T]{Skipped: true}, nil
	}
	c.inFlight = true
	offset, epoch := c.offset, c.epoch
	c.mu.Unlock()

	items, err := c.fetch(ctx, c.pageSize, offset)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		return Result[T]{}, err
	}

	// A Reset while fetching; this page is stale.
	if c.epoch != epoch {
		return Result[T]{Skipped: true}, nil
	}

	if len(items) == 0 && offset == 0 {
		c.lastPage = true
		return Result[T]{Empty: true, LastPage: true}, nil
	}

	c.offset += len(items)
	if len(items) < c.pageSize {
		c.lastPage = true
	}

	return Result[T]{Items: items, LastPage: c.lastPage}, nil
}

// All drains the cursor from its current position and returns every row.
func (c *Cursor[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for {
		res, err := c.Next(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, res.Items...)
		if res.LastPage || res.Skipped {
			return out, nil
		}
	}
}
