package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/joCur/later-server/domain"
)

func TestTodoListCountsTrackItems(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	ctx := context.Background()

	e.mustAddTodoItem(t, list.ID, "done one", true)
	e.mustAddTodoItem(t, list.ID, "open", false)
	e.mustAddTodoItem(t, list.ID, "done two", true)

	got, err := e.todoLists.GetByID(ctx, list.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalItemCount != 3 || got.CompletedItemCount != 2 {
		t.Fatalf("counts %d/%d, want 3/2", got.TotalItemCount, got.CompletedItemCount)
	}
	if math.Abs(got.Progress()-2.0/3.0) > 0.01 {
		t.Fatalf("progress %f", got.Progress())
	}
}

func TestTodoListAddItemRejectsBadPriority(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")

	_, err := e.todoLists.AddItem(context.Background(), domain.TodoItem{
		TodoListID: list.ID, OwnerID: testOwner, Title: "bad", Priority: "critical",
	})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestTodoListToggleItem(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	item := e.mustAddTodoItem(t, list.ID, "task", false)
	ctx := context.Background()

	toggled, err := e.todoLists.ToggleItem(ctx, list.ID, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("toggle did not complete the item")
	}
	got, _ := e.todoLists.GetByID(ctx, list.ID)
	if got.CompletedItemCount != 1 {
		t.Fatalf("completed count %d after toggle on", got.CompletedItemCount)
	}

	toggled, err = e.todoLists.ToggleItem(ctx, list.ID, item.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggled.Completed {
		t.Fatal("second toggle did not reopen the item")
	}
	got, _ = e.todoLists.GetByID(ctx, list.ID)
	if got.CompletedItemCount != 0 {
		t.Fatalf("completed count %d after toggle off", got.CompletedItemCount)
	}
}

func TestTodoListToggleItemScoping(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	other := e.mustCreateTodoList(t, space.ID, "backlog")
	item := e.mustAddTodoItem(t, list.ID, "task", false)
	ctx := context.Background()

	if _, err := e.todoLists.ToggleItem(ctx, "absent", item.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing list: want not found, got %v", err)
	}
	if _, err := e.todoLists.ToggleItem(ctx, list.ID, "absent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing item: want not found, got %v", err)
	}
	if _, err := e.todoLists.ToggleItem(ctx, other.ID, item.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign item: want not found, got %v", err)
	}
}

func TestTodoListUpdateItemMovesCompletedCount(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	item := e.mustAddTodoItem(t, list.ID, "task", false)
	ctx := context.Background()

	item.Completed = true
	item.Title = "task, done"
	if _, err := e.todoLists.UpdateItem(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := e.todoLists.GetByID(ctx, list.ID)
	if got.CompletedItemCount != 1 {
		t.Fatalf("completed count %d after completing update", got.CompletedItemCount)
	}

	item.Completed = false
	if _, err := e.todoLists.UpdateItem(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = e.todoLists.GetByID(ctx, list.ID)
	if got.CompletedItemCount != 0 {
		t.Fatalf("completed count %d after reopening update", got.CompletedItemCount)
	}
}

func TestTodoListItemsNeverServeStale(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	e.mustAddTodoItem(t, list.ID, "first", false)
	ctx := context.Background()

	items, err := e.todoLists.Items(ctx, list.ID)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("initial read: %d items", len(items))
	}
	if _, ok := e.todoCache.Get(list.ID); !ok {
		t.Fatal("read did not populate the cache")
	}

	e.mustAddTodoItem(t, list.ID, "second", false)
	items, err = e.todoLists.Items(ctx, list.ID)
	if err != nil {
		t.Fatalf("items after add: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("read after add served stale state: %d items", len(items))
	}
}

func TestTodoListItemsUnknownList(t *testing.T) {
	e := newEnv(t)
	if _, err := e.todoLists.Items(context.Background(), "absent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestTodoListDeleteItemResequencesAndRecounts(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	e.mustAddTodoItem(t, list.ID, "a", true)
	b := e.mustAddTodoItem(t, list.ID, "b", true)
	e.mustAddTodoItem(t, list.ID, "c", false)
	ctx := context.Background()

	if err := e.todoLists.DeleteItem(ctx, b.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := e.todoLists.DeleteItem(ctx, b.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	items, err := e.todoLists.Items(ctx, list.ID)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("%d items after delete", len(items))
	}
	for i, it := range items {
		if it.SortOrder != i {
			t.Fatalf("gap at position %d: order %d", i, it.SortOrder)
		}
	}
	got, _ := e.todoLists.GetByID(ctx, list.ID)
	if got.TotalItemCount != 2 || got.CompletedItemCount != 1 {
		t.Fatalf("counts %d/%d, want 2/1", got.TotalItemCount, got.CompletedItemCount)
	}
}

func TestTodoListDeleteAllItems(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	e.mustAddTodoItem(t, list.ID, "a", true)
	e.mustAddTodoItem(t, list.ID, "b", false)
	ctx := context.Background()

	n, err := e.todoLists.DeleteAllItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("delete all items: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed %d, want 2", n)
	}
	got, _ := e.todoLists.GetByID(ctx, list.ID)
	if got.TotalItemCount != 0 || got.CompletedItemCount != 0 {
		t.Fatalf("counts %d/%d after wipe", got.TotalItemCount, got.CompletedItemCount)
	}
}

func TestTodoListRecountRepairsDrift(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	e.mustAddTodoItem(t, list.ID, "a", true)
	e.mustAddTodoItem(t, list.ID, "b", false)
	ctx := context.Background()

	// Force drift the way a partial failure would.
	if _, err := e.store.AdjustCounter(ctx, "todo_lists", list.ID, "total_item_count", 5); err != nil {
		t.Fatalf("inject drift: %v", err)
	}

	got, err := e.todoLists.Recount(ctx, list.ID)
	if err != nil {
		t.Fatalf("recount: %v", err)
	}
	if got.TotalItemCount != 2 || got.CompletedItemCount != 1 {
		t.Fatalf("counts %d/%d after recount, want 2/1", got.TotalItemCount, got.CompletedItemCount)
	}
}

func TestTodoListReorderItems(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	e.mustAddTodoItem(t, list.ID, "a", false)
	e.mustAddTodoItem(t, list.ID, "b", false)
	e.mustAddTodoItem(t, list.ID, "c", false)
	ctx := context.Background()

	items, err := e.todoLists.ReorderItems(ctx, list.ID, 2, 0)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	if !sameOrder(titles, []string{"c", "a", "b"}) {
		t.Fatalf("order after move: %v", titles)
	}

	// The refreshed order must also be what a cold read sees.
	cached, ok := e.todoCache.Get(list.ID)
	if !ok {
		t.Fatal("reorder left the cache empty")
	}
	if cached[0].Title != "c" {
		t.Fatalf("cache holds pre-move order: %s first", cached[0].Title)
	}
}

func TestTodoListDeleteAllBySpace(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	a := e.mustCreateTodoList(t, space.ID, "a")
	b := e.mustCreateTodoList(t, space.ID, "b")
	e.mustAddTodoItem(t, a.ID, "a1", false)
	e.mustAddTodoItem(t, a.ID, "a2", false)
	e.mustAddTodoItem(t, b.ID, "b1", false)
	ctx := context.Background()

	n, err := e.todoLists.DeleteAllBySpace(ctx, space.ID)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n != 5 {
		t.Fatalf("removed %d rows, want 5 (2 lists + 3 items)", n)
	}
	left, err := e.todoLists.GetBySpace(ctx, space.ID)
	if err != nil {
		t.Fatalf("get by space: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("%d lists survived", len(left))
	}
}

func TestTodoListDeleteIsIdempotent(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "work")
	list := e.mustCreateTodoList(t, space.ID, "sprint")
	ctx := context.Background()

	if err := e.todoLists.Delete(ctx, list.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := e.todoLists.Delete(ctx, list.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}
