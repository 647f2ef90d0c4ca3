package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/events"
	"github.com/joCur/later-server/store"
)

// Spaces manages the top-level containers. A space's item count is always the
// sum of live child rows across notes, todo lists and custom lists, computed
// at read time; the stored item_count column only backs the fast
// increment/decrement path and never feeds a read.
type Spaces struct {
	store     store.Store
	hub       *events.Hub
	notes     *Notes
	todoLists *TodoLists
	lists     *Lists
}

func NewSpaces(st store.Store, hub *events.Hub, notes *Notes, todoLists *TodoLists, lists *Lists) *Spaces {
	return &Spaces{store: st, hub: hub, notes: notes, todoLists: todoLists, lists: lists}
}

func (r *Spaces) Create(ctx context.Context, space domain.Space) (domain.Space, error) {
	if space.ID == "" {
		space.ID = uuid.NewString()
	}
	now := utcNow()
	space.CreatedAt, space.UpdatedAt = now, now
	space.ItemCount = 0

	row, err := r.store.Insert(ctx, store.TableSpaces, spaceRow(space))
	if err != nil {
		return domain.Space{}, err
	}
	out := spaceFromRow(row)
	r.publish(events.ActionCreated, out.ID)
	return out, nil
}

func (r *Spaces) GetByID(ctx context.Context, id string) (domain.Space, error) {
	row, err := r.store.SelectByID(ctx, store.TableSpaces, id)
	if err != nil {
		return domain.Space{}, err
	}
	space := spaceFromRow(row)
	count, err := r.ItemCount(ctx, id)
	if err != nil {
		return domain.Space{}, err
	}
	space.ItemCount = count
	return space, nil
}

func (r *Spaces) ListByOwner(ctx context.Context, ownerID string) ([]domain.Space, error) {
	rows, err := r.store.SelectByParent(ctx, store.TableSpaces, "owner_id", ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Space, len(rows))
	for i, row := range rows {
		space := spaceFromRow(row)
		count, err := r.ItemCount(ctx, space.ID)
		if err != nil {
			return nil, err
		}
		space.ItemCount = count
		out[i] = space
	}
	return out, nil
}

func (r *Spaces) Update(ctx context.Context, space domain.Space) (domain.Space, error) {
	space.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableSpaces, space.ID, store.Row{
		"name":       space.Name,
		"icon":       space.Icon.String(),
		"color":      space.Color,
		"archived":   space.Archived,
		"updated_at": space.UpdatedAt,
	})
	if err != nil {
		return domain.Space{}, err
	}
	out := spaceFromRow(row)
	count, err := r.ItemCount(ctx, out.ID)
	if err != nil {
		return domain.Space{}, err
	}
	out.ItemCount = count
	r.publish(events.ActionUpdated, out.ID)
	return out, nil
}

// Archive soft-deletes: the space keeps its rows and drops out of the default
// listings client-side.
func (r *Spaces) Archive(ctx context.Context, id string) (domain.Space, error) {
	space, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Space{}, err
	}
	space.Archived = true
	return r.Update(ctx, space)
}

// Delete removes the space and everything in it (the store cascades child
// rows). Cached item collections for lists that lived in the space are
// dropped here, since the cascade bypasses the item repositories.
func (r *Spaces) Delete(ctx context.Context, id string) error {
	_, err := r.store.SelectByID(ctx, store.TableSpaces, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	todoLists, err := r.todoLists.GetBySpace(ctx, id)
	if err != nil {
		return err
	}
	lists, err := r.lists.GetBySpace(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, store.TableSpaces, id); err != nil {
		return err
	}
	for _, l := range todoLists {
		r.todoLists.items.Invalidate(l.ID)
	}
	for _, l := range lists {
		r.lists.items.Invalidate(l.ID)
	}
	r.publish(events.ActionDeleted, id)
	return nil
}

// DeleteAllContents wipes every entity scoped to the space (notes, todo lists
// with their items, lists with their items) and reports the total rows
// removed. A mid-batch failure aborts and surfaces; it is never half-applied
// in silence.
func (r *Spaces) DeleteAllContents(ctx context.Context, id string) (int64, error) {
	if _, err := r.store.SelectByID(ctx, store.TableSpaces, id); err != nil {
		return 0, err
	}

	var total int64
	n, err := r.notes.DeleteAllBySpace(ctx, id)
	if err != nil {
		return total, err
	}
	total += n

	n, err = r.todoLists.DeleteAllBySpace(ctx, id)
	if err != nil {
		return total, err
	}
	total += n

	n, err = r.lists.DeleteAllBySpace(ctx, id)
	if err != nil {
		return total, err
	}
	total += n

	r.publish(events.ActionUpdated, id)
	return total, nil
}

// ItemCount sums live child rows across the three child tables. Always
// computed, never read from the stored column, so it cannot drift.
func (r *Spaces) ItemCount(ctx context.Context, id string) (int, error) {
	total := 0
	for _, c := range []ComputedCounter{
		{Store: r.store, Table: store.TableNotes, ParentCol: "space_id", ParentID: id},
		{Store: r.store, Table: store.TableTodoLists, ParentCol: "space_id", ParentID: id},
		{Store: r.store, Table: store.TableLists, ParentCol: "space_id", ParentID: id},
	} {
		n, err := c.Current(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// IncrementItemCount bumps the stored running total. Optimization path only;
// reads go through ItemCount.
func (r *Spaces) IncrementItemCount(ctx context.Context, id string) (int, error) {
	return r.storedCounter(id).Increment(ctx)
}

// DecrementItemCount lowers the stored running total, clamping at zero.
func (r *Spaces) DecrementItemCount(ctx context.Context, id string) (int, error) {
	return r.storedCounter(id).Decrement(ctx)
}

// StoredItemCount reads the stored running total without recounting.
func (r *Spaces) StoredItemCount(ctx context.Context, id string) (int, error) {
	return r.storedCounter(id).Current(ctx)
}

func (r *Spaces) storedCounter(id string) StoredCounter {
	return StoredCounter{Store: r.store, Table: store.TableSpaces, ID: id, Column: "item_count"}
}

func (r *Spaces) publish(action events.Action, id string) {
	r.hub.Publish(events.Event{Entity: events.EntitySpace, Action: action, ID: id, SpaceID: id})
}

func spaceRow(s domain.Space) store.Row {
	return store.Row{
		"id":         s.ID,
		"name":       s.Name,
		"icon":       s.Icon.String(),
		"color":      s.Color,
		"archived":   s.Archived,
		"owner_id":   s.OwnerID,
		"item_count": s.ItemCount,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}

func spaceFromRow(row store.Row) domain.Space {
	return domain.Space{
		ID:        rowString(row, "id"),
		Name:      rowString(row, "name"),
		Icon:      domain.ParseIcon(rowString(row, "icon")),
		Color:     rowString(row, "color"),
		Archived:  rowBool(row, "archived"),
		OwnerID:   rowString(row, "owner_id"),
		ItemCount: rowInt(row, "item_count"),
		CreatedAt: rowTime(row, "created_at"),
		UpdatedAt: rowTime(row, "updated_at"),
	}
}
