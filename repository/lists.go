package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/joCur/later-server/cache"
	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/events"
	"github.com/joCur/later-server/store"
)

// Lists manages custom lists and their items. Same caching and count
// discipline as TodoLists, with a checked flag instead of completed and a
// display style on the container.
type Lists struct {
	store store.Store
	hub   *events.Hub
	items *cache.Cache[domain.ListItem]
}

func NewLists(st store.Store, hub *events.Hub, items *cache.Cache[domain.ListItem]) *Lists {
	return &Lists{store: st, hub: hub, items: items}
}

func (r *Lists) Create(ctx context.Context, list domain.List) (domain.List, error) {
	if list.Style == "" {
		list.Style = domain.ListStyleSimple
	}
	if !domain.ValidListStyle(list.Style) {
		return domain.List{}, domain.InvalidArgumentf("list style %q", list.Style)
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	now := utcNow()
	list.CreatedAt, list.UpdatedAt = now, now
	list.TotalItemCount, list.CheckedItemCount = 0, 0

	row, err := r.store.Insert(ctx, store.TableLists, listRow(list))
	if err != nil {
		return domain.List{}, err
	}
	out := listFromRow(row)
	r.publishList(events.ActionCreated, out)
	return out, nil
}

func (r *Lists) GetByID(ctx context.Context, id string) (domain.List, error) {
	row, err := r.store.SelectByID(ctx, store.TableLists, id)
	if err != nil {
		return domain.List{}, err
	}
	return listFromRow(row), nil
}

func (r *Lists) GetBySpace(ctx context.Context, spaceID string) ([]domain.List, error) {
	rows, err := r.store.SelectByParent(ctx, store.TableLists, "space_id", spaceID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.List, len(rows))
	for i, row := range rows {
		out[i] = listFromRow(row)
	}
	return out, nil
}

func (r *Lists) Update(ctx context.Context, list domain.List) (domain.List, error) {
	if !domain.ValidListStyle(list.Style) {
		return domain.List{}, domain.InvalidArgumentf("list style %q", list.Style)
	}
	list.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableLists, list.ID, store.Row{
		"name":        list.Name,
		"description": list.Description,
		"space_id":    list.SpaceID,
		"color":       list.Color,
		"icon":        list.Icon.String(),
		"style":       string(list.Style),
		"updated_at":  list.UpdatedAt,
	})
	if err != nil {
		return domain.List{}, err
	}
	out := listFromRow(row)
	r.publishList(events.ActionUpdated, out)
	return out, nil
}

func (r *Lists) Delete(ctx context.Context, id string) error {
	row, err := r.store.SelectByID(ctx, store.TableLists, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, store.TableLists, id); err != nil {
		return err
	}
	r.items.Invalidate(id)
	r.publishList(events.ActionDeleted, listFromRow(row))
	return nil
}

func (r *Lists) DeleteAllBySpace(ctx context.Context, spaceID string) (int64, error) {
	lists, err := r.GetBySpace(ctx, spaceID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, list := range lists {
		n, err := r.store.DeleteByParent(ctx, store.TableListItems, "list_id", list.ID)
		if err != nil {
			return total, err
		}
		r.items.Invalidate(list.ID)
		total += n
	}
	n, err := r.store.DeleteByParent(ctx, store.TableLists, "space_id", spaceID)
	if err != nil {
		return total, err
	}
	total += n
	if total > 0 {
		r.hub.Publish(events.Event{Entity: events.EntityList, Action: events.ActionDeleted, SpaceID: spaceID})
	}
	return total, nil
}

func (r *Lists) Items(ctx context.Context, listID string) ([]domain.ListItem, error) {
	if cached, ok := r.items.Get(listID); ok {
		return cached, nil
	}
	if _, err := r.store.SelectByID(ctx, store.TableLists, listID); err != nil {
		return nil, err
	}
	rows, err := r.store.SelectByParent(ctx, store.TableListItems, "list_id", listID)
	if err != nil {
		return nil, err
	}
	items := listItemsFromRows(rows)
	r.items.Populate(listID, items)
	return items, nil
}

func (r *Lists) GetItem(ctx context.Context, itemID string) (domain.ListItem, error) {
	row, err := r.store.SelectByID(ctx, store.TableListItems, itemID)
	if err != nil {
		return domain.ListItem{}, err
	}
	return listItemFromRow(row), nil
}

func (r *Lists) AddItem(ctx context.Context, item domain.ListItem) (domain.ListItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := utcNow()
	item.CreatedAt, item.UpdatedAt = now, now

	order, err := nextSortOrder(ctx, r.store, store.TableListItems, "list_id", item.ListID)
	if err != nil {
		return domain.ListItem{}, err
	}
	item.SortOrder = order

	row, err := r.store.Insert(ctx, store.TableListItems, listItemRow(item))
	if err != nil {
		return domain.ListItem{}, err
	}
	out := listItemFromRow(row)

	r.items.Invalidate(out.ListID)
	if _, err := r.totalCounter(out.ListID).Increment(ctx); err != nil {
		return domain.ListItem{}, err
	}
	if out.Checked {
		if _, err := r.checkedCounter(out.ListID).Increment(ctx); err != nil {
			return domain.ListItem{}, err
		}
	}
	r.publishItem(events.ActionCreated, out)
	return out, nil
}

func (r *Lists) UpdateItem(ctx context.Context, item domain.ListItem) (domain.ListItem, error) {
	existing, err := r.GetItem(ctx, item.ID)
	if err != nil {
		return domain.ListItem{}, err
	}

	item.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableListItems, item.ID, store.Row{
		"title":       item.Title,
		"description": item.Description,
		"checked":     item.Checked,
		"tags":        tagsOrEmpty(item.Tags),
		"sort_order":  item.SortOrder,
		"updated_at":  item.UpdatedAt,
	})
	if err != nil {
		return domain.ListItem{}, err
	}
	out := listItemFromRow(row)

	r.items.Invalidate(out.ListID)
	if existing.Checked != out.Checked {
		counter := r.checkedCounter(out.ListID)
		if out.Checked {
			_, err = counter.Increment(ctx)
		} else {
			_, err = counter.Decrement(ctx)
		}
		if err != nil {
			return domain.ListItem{}, err
		}
	}
	r.publishItem(events.ActionUpdated, out)
	return out, nil
}

func (r *Lists) DeleteItem(ctx context.Context, itemID string) error {
	row, err := r.store.SelectByID(ctx, store.TableListItems, itemID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	item := listItemFromRow(row)
	if err := r.store.Delete(ctx, store.TableListItems, itemID); err != nil {
		return err
	}

	r.items.Invalidate(item.ListID)
	if _, err := r.totalCounter(item.ListID).Decrement(ctx); err != nil {
		return err
	}
	if item.Checked {
		if _, err := r.checkedCounter(item.ListID).Decrement(ctx); err != nil {
			return err
		}
	}
	if err := resequence(ctx, r.store, store.TableListItems, "list_id", item.ListID); err != nil {
		return err
	}
	r.publishItem(events.ActionDeleted, item)
	return nil
}

func (r *Lists) DeleteAllItems(ctx context.Context, listID string) (int64, error) {
	n, err := r.store.DeleteByParent(ctx, store.TableListItems, "list_id", listID)
	if err != nil {
		return 0, err
	}
	r.items.Invalidate(listID)
	if _, err := r.Recount(ctx, listID); err != nil {
		return n, err
	}
	if n > 0 {
		r.hub.Publish(events.Event{Entity: events.EntityListItem, Action: events.ActionDeleted, ParentID: listID})
	}
	return n, nil
}

func (r *Lists) ReorderItems(ctx context.Context, listID string, from, to int) ([]domain.ListItem, error) {
	if _, err := r.store.SelectByID(ctx, store.TableLists, listID); err != nil {
		return nil, err
	}
	rows, err := reorderScope(ctx, r.store, store.TableListItems, "list_id", listID, from, to)
	if err != nil {
		return nil, err
	}
	items := listItemsFromRows(rows)
	r.items.Invalidate(listID)
	r.items.Populate(listID, items)
	r.hub.Publish(events.Event{Entity: events.EntityListItem, Action: events.ActionReordered, ParentID: listID})
	return items, nil
}

func (r *Lists) ToggleItem(ctx context.Context, listID, itemID string) (domain.ListItem, error) {
	if _, err := r.store.SelectByID(ctx, store.TableLists, listID); err != nil {
		return domain.ListItem{}, err
	}
	item, err := r.GetItem(ctx, itemID)
	if err != nil {
		return domain.ListItem{}, err
	}
	if item.ListID != listID {
		return domain.ListItem{}, domain.NotFoundf("item %s not in list %s", itemID, listID)
	}

	item.Checked = !item.Checked
	item.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableListItems, itemID, store.Row{
		"checked":    item.Checked,
		"updated_at": item.UpdatedAt,
	})
	if err != nil {
		return domain.ListItem{}, err
	}
	out := listItemFromRow(row)

	r.items.Invalidate(listID)
	counter := r.checkedCounter(listID)
	if out.Checked {
		_, err = counter.Increment(ctx)
	} else {
		_, err = counter.Decrement(ctx)
	}
	if err != nil {
		return domain.ListItem{}, err
	}
	r.publishItem(events.ActionToggled, out)
	return out, nil
}

func (r *Lists) Recount(ctx context.Context, listID string) (domain.List, error) {
	total, err := r.store.CountByParent(ctx, store.TableListItems, "list_id", listID)
	if err != nil {
		return domain.List{}, err
	}
	checked, err := r.store.CountByParentWhere(ctx, store.TableListItems, "list_id", listID, "checked", true)
	if err != nil {
		return domain.List{}, err
	}
	row, err := r.store.Update(ctx, store.TableLists, listID, store.Row{
		"total_item_count":   total,
		"checked_item_count": checked,
	})
	if err != nil {
		return domain.List{}, err
	}
	return listFromRow(row), nil
}

func (r *Lists) totalCounter(listID string) StoredCounter {
	return StoredCounter{Store: r.store, Table: store.TableLists, ID: listID, Column: "total_item_count"}
}

func (r *Lists) checkedCounter(listID string) StoredCounter {
	return StoredCounter{Store: r.store, Table: store.TableLists, ID: listID, Column: "checked_item_count"}
}

func (r *Lists) publishList(action events.Action, list domain.List) {
	r.hub.Publish(events.Event{
		Entity:   events.EntityList,
		Action:   action,
		ID:       list.ID,
		ParentID: list.SpaceID,
		SpaceID:  list.SpaceID,
	})
}

func (r *Lists) publishItem(action events.Action, item domain.ListItem) {
	r.hub.Publish(events.Event{
		Entity:   events.EntityListItem,
		Action:   action,
		ID:       item.ID,
		ParentID: item.ListID,
	})
}

func listRow(l domain.List) store.Row {
	return store.Row{
		"id":                 l.ID,
		"name":               l.Name,
		"description":        l.Description,
		"space_id":           l.SpaceID,
		"owner_id":           l.OwnerID,
		"color":              l.Color,
		"icon":               l.Icon.String(),
		"style":              string(l.Style),
		"total_item_count":   l.TotalItemCount,
		"checked_item_count": l.CheckedItemCount,
		"created_at":         l.CreatedAt,
		"updated_at":         l.UpdatedAt,
	}
}

func listFromRow(row store.Row) domain.List {
	return domain.List{
		ID:               rowString(row, "id"),
		Name:             rowString(row, "name"),
		Description:      rowString(row, "description"),
		SpaceID:          rowString(row, "space_id"),
		OwnerID:          rowString(row, "owner_id"),
		Color:            rowString(row, "color"),
		Icon:             domain.ParseIcon(rowString(row, "icon")),
		Style:            domain.ListStyle(rowString(row, "style")),
		TotalItemCount:   rowInt(row, "total_item_count"),
		CheckedItemCount: rowInt(row, "checked_item_count"),
		CreatedAt:        rowTime(row, "created_at"),
		UpdatedAt:        rowTime(row, "updated_at"),
	}
}

func listItemRow(i domain.ListItem) store.Row {
	return store.Row{
		"id":          i.ID,
		"list_id":     i.ListID,
		"owner_id":    i.OwnerID,
		"title":       i.Title,
		"description": i.Description,
		"checked":     i.Checked,
		"tags":        tagsOrEmpty(i.Tags),
		"sort_order":  i.SortOrder,
		"created_at":  i.CreatedAt,
		"updated_at":  i.UpdatedAt,
	}
}

func listItemFromRow(row store.Row) domain.ListItem {
	return domain.ListItem{
		ID:          rowString(row, "id"),
		ListID:      rowString(row, "list_id"),
		OwnerID:     rowString(row, "owner_id"),
		Title:       rowString(row, "title"),
		Description: rowString(row, "description"),
		Checked:     rowBool(row, "checked"),
		Tags:        rowStrings(row, "tags"),
		SortOrder:   rowInt(row, "sort_order"),
		CreatedAt:   rowTime(row, "created_at"),
		UpdatedAt:   rowTime(row, "updated_at"),
	}
}

func listItemsFromRows(rows []store.Row) []domain.ListItem {
	out := make([]domain.ListItem, len(rows))
	for i, row := range rows {
		out[i] = listItemFromRow(row)
	}
	return out
}
