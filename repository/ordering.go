package repository

import (
	"context"

	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/store"
)

// nextSortOrder picks the sort order for a new child: one past the current
// maximum in the parent scope, or zero for the first child.
func nextSortOrder(ctx context.Context, st store.Store, table, parentCol, parentID string) (int, error) {
	max, ok, err := st.MaxIntByParent(ctx, table, "sort_order", parentCol, parentID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return max + 1, nil
}

// reorderScope moves the child at position from to position to and renumbers
// every sibling so sort orders stay contiguous from zero. Returns the rows in
// their new order.
func reorderScope(ctx context.Context, st store.Store, table, parentCol, parentID string, from, to int) ([]store.Row, error) {
	rows, err := st.SelectByParent(ctx, table, parentCol, parentID)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(rows) {
		return nil, domain.InvalidArgumentf("from index %d out of range [0, %d)", from, len(rows))
	}
	if to < 0 || to >= len(rows) {
		return nil, domain.InvalidArgumentf("to index %d out of range [0, %d)", to, len(rows))
	}

	moved := rows[from]
	rows = append(rows[:from], rows[from+1:]...)
	rows = append(rows[:to], append([]store.Row{moved}, rows[to:]...)...)

	return rows, renumber(ctx, st, table, rows)
}

// resequence closes any sort-order gap left behind by a deletion.
func resequence(ctx context.Context, st store.Store, table, parentCol, parentID string) error {
	rows, err := st.SelectByParent(ctx, table, parentCol, parentID)
	if err != nil {
		return err
	}
	return renumber(ctx, st, table, rows)
}

func renumber(ctx context.Context, st store.Store, table string, rows []store.Row) error {
	for i, row := range rows {
		if rowInt(row, "sort_order") == i {
			continue
		}
		row["sort_order"] = i
		if _, err := st.Update(ctx, table, rowString(row, "id"), store.Row{"sort_order": i}); err != nil {
			return err
		}
	}
	return nil
}
