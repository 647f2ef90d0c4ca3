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

// TodoLists manages todo lists and their items. Item collections are cached
// per list; every item mutation invalidates the list's entry before the call
// returns, so a later read is a miss or post-mutation state, never stale.
type TodoLists struct {
	store store.Store
	hub   *events.Hub
	items *cache.Cache[domain.TodoItem]
}

func NewTodoLists(st store.Store, hub *events.Hub, items *cache.Cache[domain.TodoItem]) *TodoLists {
	return &TodoLists{store: st, hub: hub, items: items}
}

func (r *TodoLists) Create(ctx context.Context, list domain.TodoList) (domain.TodoList, error) {
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	now := utcNow()
	list.CreatedAt, list.UpdatedAt = now, now
	list.TotalItemCount, list.CompletedItemCount = 0, 0

	row, err := r.store.Insert(ctx, store.TableTodoLists, todoListRow(list))
	if err != nil {
		return domain.TodoList{}, err
	}
	out := todoListFromRow(row)
	r.publishList(events.ActionCreated, out)
	return out, nil
}

func (r *TodoLists) GetByID(ctx context.Context, id string) (domain.TodoList, error) {
	row, err := r.store.SelectByID(ctx, store.TableTodoLists, id)
	if err != nil {
		return domain.TodoList{}, err
	}
	return todoListFromRow(row), nil
}

func (r *TodoLists) GetBySpace(ctx context.Context, spaceID string) ([]domain.TodoList, error) {
	rows, err := r.store.SelectByParent(ctx, store.TableTodoLists, "space_id", spaceID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TodoList, len(rows))
	for i, row := range rows {
		out[i] = todoListFromRow(row)
	}
	return out, nil
}

// Update replaces the list's own fields. Item counts are not caller state;
// they stay under repository control.
func (r *TodoLists) Update(ctx context.Context, list domain.TodoList) (domain.TodoList, error) {
	list.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableTodoLists, list.ID, store.Row{
		"name":        list.Name,
		"description": list.Description,
		"space_id":    list.SpaceID,
		"color":       list.Color,
		"icon":        list.Icon.String(),
		"updated_at":  list.UpdatedAt,
	})
	if err != nil {
		return domain.TodoList{}, err
	}
	out := todoListFromRow(row)
	r.publishList(events.ActionUpdated, out)
	return out, nil
}

func (r *TodoLists) Delete(ctx context.Context, id string) error {
	row, err := r.store.SelectByID(ctx, store.TableTodoLists, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, store.TableTodoLists, id); err != nil {
		return err
	}
	r.items.Invalidate(id)
	r.publishList(events.ActionDeleted, todoListFromRow(row))
	return nil
}

// DeleteAllBySpace wipes every list in the space along with its items and
// reports the total rows removed (items included). A failure mid-batch stops
// the batch and is reported; nothing is swallowed.
func (r *TodoLists) DeleteAllBySpace(ctx context.Context, spaceID string) (int64, error) {
	lists, err := r.GetBySpace(ctx, spaceID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, list := range lists {
		n, err := r.store.DeleteByParent(ctx, store.TableTodoItems, "todo_list_id", list.ID)
		if err != nil {
			return total, err
		}
		r.items.Invalidate(list.ID)
		total += n
	}
	n, err := r.store.DeleteByParent(ctx, store.TableTodoLists, "space_id", spaceID)
	if err != nil {
		return total, err
	}
	total += n
	if total > 0 {
		r.hub.Publish(events.Event{Entity: events.EntityTodoList, Action: events.ActionDeleted, SpaceID: spaceID})
	}
	return total, nil
}

// Items returns the list's items in display order, consulting the cache
// before the store.
func (r *TodoLists) Items(ctx context.Context, listID string) ([]domain.TodoItem, error) {
	if cached, ok := r.items.Get(listID); ok {
		return cached, nil
	}
	if _, err := r.store.SelectByID(ctx, store.TableTodoLists, listID); err != nil {
		return nil, err
	}
	rows, err := r.store.SelectByParent(ctx, store.TableTodoItems, "todo_list_id", listID)
	if err != nil {
		return nil, err
	}
	items := todoItemsFromRows(rows)
	r.items.Populate(listID, items)
	return items, nil
}

func (r *TodoLists) GetItem(ctx context.Context, itemID string) (domain.TodoItem, error) {
	row, err := r.store.SelectByID(ctx, store.TableTodoItems, itemID)
	if err != nil {
		return domain.TodoItem{}, err
	}
	return todoItemFromRow(row), nil
}

func (r *TodoLists) AddItem(ctx context.Context, item domain.TodoItem) (domain.TodoItem, error) {
	if !domain.ValidPriority(item.Priority) {
		return domain.TodoItem{}, domain.InvalidArgumentf("priority %q", item.Priority)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := utcNow()
	item.CreatedAt, item.UpdatedAt = now, now

	order, err := nextSortOrder(ctx, r.store, store.TableTodoItems, "todo_list_id", item.TodoListID)
	if err != nil {
		return domain.TodoItem{}, err
	}
	item.SortOrder = order

	row, err := r.store.Insert(ctx, store.TableTodoItems, todoItemRow(item))
	if err != nil {
		return domain.TodoItem{}, err
	}
	out := todoItemFromRow(row)

	r.items.Invalidate(out.TodoListID)
	if _, err := r.totalCounter(out.TodoListID).Increment(ctx); err != nil {
		return domain.TodoItem{}, err
	}
	if out.Completed {
		if _, err := r.completedCounter(out.TodoListID).Increment(ctx); err != nil {
			return domain.TodoItem{}, err
		}
	}
	r.publishItem(events.ActionCreated, out)
	return out, nil
}

// UpdateItem is full-replace. When the replacement flips the completed flag,
// the list's completed count moves with it.
func (r *TodoLists) UpdateItem(ctx context.Context, item domain.TodoItem) (domain.TodoItem, error) {
	if !domain.ValidPriority(item.Priority) {
		return domain.TodoItem{}, domain.InvalidArgumentf("priority %q", item.Priority)
	}
	existing, err := r.GetItem(ctx, item.ID)
	if err != nil {
		return domain.TodoItem{}, err
	}

	item.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableTodoItems, item.ID, store.Row{
		"title":       item.Title,
		"description": item.Description,
		"completed":   item.Completed,
		"due_date":    item.DueDate,
		"priority":    string(item.Priority),
		"tags":        tagsOrEmpty(item.Tags),
		"sort_order":  item.SortOrder,
		"updated_at":  item.UpdatedAt,
	})
	if err != nil {
		return domain.TodoItem{}, err
	}
	out := todoItemFromRow(row)

	r.items.Invalidate(out.TodoListID)
	if existing.Completed != out.Completed {
		counter := r.completedCounter(out.TodoListID)
		if out.Completed {
			_, err = counter.Increment(ctx)
		} else {
			_, err = counter.Decrement(ctx)
		}
		if err != nil {
			return domain.TodoItem{}, err
		}
	}
	r.publishItem(events.ActionUpdated, out)
	return out, nil
}

func (r *TodoLists) DeleteItem(ctx context.Context, itemID string) error {
	row, err := r.store.SelectByID(ctx, store.TableTodoItems, itemID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	item := todoItemFromRow(row)
	if err := r.store.Delete(ctx, store.TableTodoItems, itemID); err != nil {
		return err
	}

	r.items.Invalidate(item.TodoListID)
	if _, err := r.totalCounter(item.TodoListID).Decrement(ctx); err != nil {
		return err
	}
	if item.Completed {
		if _, err := r.completedCounter(item.TodoListID).Decrement(ctx); err != nil {
			return err
		}
	}
	if err := resequence(ctx, r.store, store.TableTodoItems, "todo_list_id", item.TodoListID); err != nil {
		return err
	}
	r.publishItem(events.ActionDeleted, item)
	return nil
}

func (r *TodoLists) DeleteAllItems(ctx context.Context, listID string) (int64, error) {
	n, err := r.store.DeleteByParent(ctx, store.TableTodoItems, "todo_list_id", listID)
	if err != nil {
		return 0, err
	}
	r.items.Invalidate(listID)
	if _, err := r.Recount(ctx, listID); err != nil {
		return n, err
	}
	if n > 0 {
		r.hub.Publish(events.Event{Entity: events.EntityTodoItem, Action: events.ActionDeleted, ParentID: listID})
	}
	return n, nil
}

func (r *TodoLists) ReorderItems(ctx context.Context, listID string, from, to int) ([]domain.TodoItem, error) {
	if _, err := r.store.SelectByID(ctx, store.TableTodoLists, listID); err != nil {
		return nil, err
	}
	rows, err := reorderScope(ctx, r.store, store.TableTodoItems, "todo_list_id", listID, from, to)
	if err != nil {
		return nil, err
	}
	items := todoItemsFromRows(rows)
	r.items.Invalidate(listID)
	r.items.Populate(listID, items)
	r.hub.Publish(events.Event{Entity: events.EntityTodoItem, Action: events.ActionReordered, ParentID: listID})
	return items, nil
}

// ToggleItem flips the completion flag. Both the list and the item must
// exist, and the item must belong to the list.
func (r *TodoLists) ToggleItem(ctx context.Context, listID, itemID string) (domain.TodoItem, error) {
	if _, err := r.store.SelectByID(ctx, store.TableTodoLists, listID); err != nil {
		return domain.TodoItem{}, err
	}
	item, err := r.GetItem(ctx, itemID)
	if err != nil {
		return domain.TodoItem{}, err
	}
	if item.TodoListID != listID {
		return domain.TodoItem{}, domain.NotFoundf("item %s not in list %s", itemID, listID)
	}

	item.Completed = !item.Completed
	item.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableTodoItems, itemID, store.Row{
		"completed":  item.Completed,
		"updated_at": item.UpdatedAt,
	})
	if err != nil {
		return domain.TodoItem{}, err
	}
	out := todoItemFromRow(row)

	r.items.Invalidate(listID)
	counter := r.completedCounter(listID)
	if out.Completed {
		_, err = counter.Increment(ctx)
	} else {
		_, err = counter.Decrement(ctx)
	}
	if err != nil {
		return domain.TodoItem{}, err
	}
	r.publishItem(events.ActionToggled, out)
	return out, nil
}

// Recount rebuilds the stored count snapshots from live item rows. It is the
// drift-proof path used after bulk operations.
func (r *TodoLists) Recount(ctx context.Context, listID string) (domain.TodoList, error) {
	total, err := r.store.CountByParent(ctx, store.TableTodoItems, "todo_list_id", listID)
	if err != nil {
		return domain.TodoList{}, err
	}
	completed, err := r.store.CountByParentWhere(ctx, store.TableTodoItems, "todo_list_id", listID, "completed", true)
	if err != nil {
		return domain.TodoList{}, err
	}
	row, err := r.store.Update(ctx, store.TableTodoLists, listID, store.Row{
		"total_item_count":     total,
		"completed_item_count": completed,
	})
	if err != nil {
		return domain.TodoList{}, err
	}
	return todoListFromRow(row), nil
}

func (r *TodoLists) totalCounter(listID string) StoredCounter {
	return StoredCounter{Store: r.store, Table: store.TableTodoLists, ID: listID, Column: "total_item_count"}
}

func (r *TodoLists) completedCounter(listID string) StoredCounter {
	return StoredCounter{Store: r.store, Table: store.TableTodoLists, ID: listID, Column: "completed_item_count"}
}

func (r *TodoLists) publishList(action events.Action, list domain.TodoList) {
	r.hub.Publish(events.Event{
		Entity:   events.EntityTodoList,
		Action:   action,
		ID:       list.ID,
		ParentID: list.SpaceID,
		SpaceID:  list.SpaceID,
	})
}

func (r *TodoLists) publishItem(action events.Action, item domain.TodoItem) {
	r.hub.Publish(events.Event{
		Entity:   events.EntityTodoItem,
		Action:   action,
		ID:       item.ID,
		ParentID: item.TodoListID,
	})
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func todoListRow(l domain.TodoList) store.Row {
	return store.Row{
		"id":                   l.ID,
		"name":                 l.Name,
		"description":          l.Description,
		"space_id":             l.SpaceID,
		"owner_id":             l.OwnerID,
		"color":                l.Color,
		"icon":                 l.Icon.String(),
		"total_item_count":     l.TotalItemCount,
		"completed_item_count": l.CompletedItemCount,
		"created_at":           l.CreatedAt,
		"updated_at":           l.UpdatedAt,
	}
}

func todoListFromRow(row store.Row) domain.TodoList {
	return domain.TodoList{
		ID:                 rowString(row, "id"),
		Name:               rowString(row, "name"),
		Description:        rowString(row, "description"),
		SpaceID:            rowString(row, "space_id"),
		OwnerID:            rowString(row, "owner_id"),
		Color:              rowString(row, "color"),
		Icon:               domain.ParseIcon(rowString(row, "icon")),
		TotalItemCount:     rowInt(row, "total_item_count"),
		CompletedItemCount: rowInt(row, "completed_item_count"),
		CreatedAt:          rowTime(row, "created_at"),
		UpdatedAt:          rowTime(row, "updated_at"),
	}
}

func todoItemRow(i domain.TodoItem) store.Row {
	return store.Row{
		"id":           i.ID,
		"todo_list_id": i.TodoListID,
		"owner_id":     i.OwnerID,
		"title":        i.Title,
		"description":  i.Description,
		"completed":    i.Completed,
		"due_date":     i.DueDate,
		"priority":     string(i.Priority),
		"tags":         tagsOrEmpty(i.Tags),
		"sort_order":   i.SortOrder,
		"created_at":   i.CreatedAt,
		"updated_at":   i.UpdatedAt,
	}
}

func todoItemFromRow(row store.Row) domain.TodoItem {
	return domain.TodoItem{
		ID:          rowString(row, "id"),
		TodoListID:  rowString(row, "todo_list_id"),
		OwnerID:     rowString(row, "owner_id"),
		Title:       rowString(row, "title"),
		Description: rowString(row, "description"),
		Completed:   rowBool(row, "completed"),
		DueDate:     rowTimePtr(row, "due_date"),
		Priority:    domain.Priority(rowString(row, "priority")),
		Tags:        rowStrings(row, "tags"),
		SortOrder:   rowInt(row, "sort_order"),
		CreatedAt:   rowTime(row, "created_at"),
		UpdatedAt:   rowTime(row, "updated_at"),
	}
}

func todoItemsFromRows(rows []store.Row) []domain.TodoItem {
	out := make([]domain.TodoItem, len(rows))
	for i, row := range rows {
		out[i] = todoItemFromRow(row)
	}
	return out
}
