// Package store is the request/response boundary to the backing relational
// store. Rows travel as flat maps, the shape the mobile client's PostgREST
// layer used; repositories do all domain mapping on top.
package store

import (
	"context"
	"time"
)

type Row map[string]any

// Table names, matching the persisted schema.
const (
	TableSpaces    = "spaces"
	TableNotes     = "notes"
	TableTodoLists = "todo_lists"
	TableTodoItems = "todo_items"
	TableLists     = "lists"
	TableListItems = "list_items"
)

type Store interface {
	// Insert writes a row and returns it as persisted.
	Insert(ctx context.Context, table string, row Row) (Row, error)

	// SelectByID returns the row or a not-found error.
	SelectByID(ctx context.Context, table, id string) (Row, error)

	// SelectByParent returns all rows whose parentCol equals parentID, in the
	// table's declared order (sort_order ascending where the table has one,
	// created_at as tie-break).
	SelectByParent(ctx context.Context, table, parentCol, parentID string) ([]Row, error)

	// Update patches the named columns on one row and returns the updated row,
	// or a not-found error when the id does not exist.
	Update(ctx context.Context, table, id string, patch Row) (Row, error)

	// Delete removes a row. Deleting an absent id is not an error.
	Delete(ctx context.Context, table, id string) error

	// DeleteByParent removes every row scoped to parentID and reports how many
	// went away.
	DeleteByParent(ctx context.Context, table, parentCol, parentID string) (int64, error)

	// CountByParent counts live rows scoped to parentID.
	CountByParent(ctx context.Context, table, parentCol, parentID string) (int, error)

	// CountByParentWhere additionally filters on a boolean column.
	CountByParentWhere(ctx context.Context, table, parentCol, parentID, boolCol string, value bool) (int, error)

	// MaxIntByParent returns the maximum value of an integer column among rows
	// scoped to parentID. ok is false when no rows exist in the scope.
	MaxIntByParent(ctx context.Context, table, col, parentCol, parentID string) (max int, ok bool, err error)

	// AdjustCounter atomically adds delta to an integer column, clamping the
	// result at zero, and returns the new value. Not-found when id is absent.
	AdjustCounter(ctx context.Context, table, id string, col string, delta int) (int, error)
}

// tableSchema drives identifier validation, result ordering, and the cascade
// behavior the memory store has to emulate (Postgres gets it from foreign
// keys).
type tableSchema struct {
	columns map[string]bool
	orderBy []string
	// children maps child table -> foreign key column referencing this table.
	children map[string]string
}

var schemas = map[string]tableSchema{
	TableSpaces: {
		columns: cols("id", "name", "icon", "color", "archived", "owner_id", "item_count", "created_at", "updated_at"),
		orderBy: []string{"created_at"},
		children: map[string]string{
			TableNotes:     "space_id",
			TableTodoLists: "space_id",
			TableLists:     "space_id",
		},
	},
	TableNotes: {
		columns: cols("id", "title", "content", "tags", "space_id", "owner_id", "favorite", "archived", "sort_order", "created_at", "updated_at"),
		orderBy: []string{"sort_order", "created_at"},
	},
	TableTodoLists: {
		columns: cols("id", "name", "description", "space_id", "owner_id", "color", "icon", "total_item_count", "completed_item_count", "created_at", "updated_at"),
		orderBy: []string{"created_at"},
		children: map[string]string{
			TableTodoItems: "todo_list_id",
		},
	},
	TableTodoItems: {
		columns: cols("id", "todo_list_id", "owner_id", "title", "description", "completed", "due_date", "priority", "tags", "sort_order", "created_at", "updated_at"),
		orderBy: []string{"sort_order", "created_at"},
	},
	TableLists: {
		columns: cols("id", "name", "description", "space_id", "owner_id", "color", "icon", "style", "total_item_count", "checked_item_count", "created_at", "updated_at"),
		orderBy: []string{"created_at"},
		children: map[string]string{
			TableListItems: "list_id",
		},
	},
	TableListItems: {
		columns: cols("id", "list_id", "owner_id", "title", "description", "checked", "tags", "sort_order", "created_at", "updated_at"),
		orderBy: []string{"sort_order", "created_at"},
	},
}

func cols(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func validTable(table string) bool {
	_, ok := schemas[table]
	return ok
}

func validColumn(table, col string) bool {
	s, ok := schemas[table]
	return ok && s.columns[col]
}

// Clone copies a row one level deep; slice and pointer values are duplicated
// so cached rows cannot be mutated through aliases.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		switch val := v.(type) {
		case []string:
			// A nil slice stays nil: it is the NULL the tags columns reject,
			// and rows must read back exactly as written.
			if val == nil {
				out[k] = val
			} else {
				c := make([]string, len(val))
				copy(c, val)
				out[k] = c
			}
		case *time.Time:
			if val == nil {
				out[k] = (*time.Time)(nil)
			} else {
				t := *val
				out[k] = &t
			}
		default:
			out[k] = v
		}
	}
	return out
}
