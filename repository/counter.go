package repository

import (
	"context"

	"github.com/joCur/later-server/store"
)

// Counter is one aggregate count over child rows. Two strategies exist:
// StoredCounter keeps a running total in a column and is cheap to read but
// must be adjusted on every mutation; ComputedCounter recounts live rows on
// every read and cannot drift.
type Counter interface {
	Current(ctx context.Context) (int, error)
}

// StoredCounter adjusts a persisted integer column in place. Decrement clamps
// at zero, so over-decrementing (rapid sequential calls past the real count)
// never drives the column negative.
type StoredCounter struct {
	Store  store.Store
	Table  string
	ID     string
	Column string
}

func (c StoredCounter) Increment(ctx context.Context) (int, error) {
	return c.Store.AdjustCounter(ctx, c.Table, c.ID, c.Column, 1)
}

func (c StoredCounter) Decrement(ctx context.Context) (int, error) {
	return c.Store.AdjustCounter(ctx, c.Table, c.ID, c.Column, -1)
}

func (c StoredCounter) Add(ctx context.Context, delta int) (int, error) {
	return c.Store.AdjustCounter(ctx, c.Table, c.ID, c.Column, delta)
}

func (c StoredCounter) Current(ctx context.Context) (int, error) {
	row, err := c.Store.SelectByID(ctx, c.Table, c.ID)
	if err != nil {
		return 0, err
	}
	return rowInt(row, c.Column), nil
}

// ComputedCounter runs a COUNT over the child table on every read.
type ComputedCounter struct {
	Store     store.Store
	Table     string
	ParentCol string
	ParentID  string
}

func (c ComputedCounter) Current(ctx context.Context) (int, error) {
	return c.Store.CountByParent(ctx, c.Table, c.ParentCol, c.ParentID)
}
