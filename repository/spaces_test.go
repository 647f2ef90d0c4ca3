package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/joCur/later-server/domain"
)

func TestSpaceItemCountSumsChildren(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "Work")
	e.mustCreateNote(t, space.ID, "standup notes")
	e.mustCreateNote(t, space.ID, "retro notes")
	e.mustCreateTodoList(t, space.ID, "sprint")
	ctx := context.Background()

	got, err := e.spaces.GetByID(ctx, space.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ItemCount != 3 {
		t.Fatalf("item count %d, want 3", got.ItemCount)
	}
}

func TestSpaceItemCountFollowsChurn(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "churn")
	ctx := context.Background()

	note := e.mustCreateNote(t, space.ID, "n")
	list := e.mustCreateTodoList(t, space.ID, "tl")
	e.mustCreateList(t, space.ID, "l", domain.ListStyleSimple)
	// Items inside a list do not count toward the space.
	e.mustAddTodoItem(t, list.ID, "item", false)

	count, err := e.spaces.ItemCount(ctx, space.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count %d, want 3", count)
	}

	if err := e.notes.Delete(ctx, note.ID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	count, _ = e.spaces.ItemCount(ctx, space.ID)
	if count != 2 {
		t.Fatalf("count %d after delete, want 2", count)
	}
}

func TestSpaceStoredCounterClampsAtZero(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "counter")
	ctx := context.Background()

	n, err := e.spaces.IncrementItemCount(ctx, space.ID)
	if err != nil || n != 1 {
		t.Fatalf("increment: n=%d err=%v", n, err)
	}
	n, err = e.spaces.DecrementItemCount(ctx, space.ID)
	if err != nil || n != 0 {
		t.Fatalf("decrement: n=%d err=%v", n, err)
	}
	n, err = e.spaces.DecrementItemCount(ctx, space.ID)
	if err != nil {
		t.Fatalf("decrement at floor: %v", err)
	}
	if n != 0 {
		t.Fatalf("counter went below zero: %d", n)
	}
	stored, err := e.spaces.StoredItemCount(ctx, space.ID)
	if err != nil || stored != 0 {
		t.Fatalf("stored count %d err=%v", stored, err)
	}
}

func TestSpaceListByOwner(t *testing.T) {
	e := newEnv(t)
	a := e.mustCreateSpace(t, "a")
	e.mustCreateSpace(t, "b")
	e.mustCreateNote(t, a.ID, "n")
	ctx := context.Background()

	spaces, err := e.spaces.ListByOwner(ctx, testOwner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(spaces) != 2 {
		t.Fatalf("%d spaces, want 2", len(spaces))
	}
	if spaces[0].Name != "a" || spaces[0].ItemCount != 1 {
		t.Fatalf("first space %s count %d", spaces[0].Name, spaces[0].ItemCount)
	}

	spaces, err = e.spaces.ListByOwner(ctx, "someone-else")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(spaces) != 0 {
		t.Fatalf("foreign owner sees %d spaces", len(spaces))
	}
}

func TestSpaceArchive(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "old")
	ctx := context.Background()

	got, err := e.spaces.Archive(ctx, space.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !got.Archived {
		t.Fatal("archive did not set the flag")
	}

	again, err := e.spaces.GetByID(ctx, space.ID)
	if err != nil {
		t.Fatalf("get after archive: %v", err)
	}
	if !again.Archived {
		t.Fatal("archive flag did not persist")
	}
}

func TestSpaceUpdateNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.spaces.Update(context.Background(), domain.Space{ID: "absent", Name: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestSpaceDeleteCascades(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "doomed")
	e.mustCreateNote(t, space.ID, "n")
	list := e.mustCreateTodoList(t, space.ID, "tl")
	e.mustAddTodoItem(t, list.ID, "item", false)
	ctx := context.Background()

	// Warm the item cache so the delete has something to drop.
	if _, err := e.todoLists.Items(ctx, list.ID); err != nil {
		t.Fatalf("items: %v", err)
	}

	if err := e.spaces.Delete(ctx, space.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := e.spaces.Delete(ctx, space.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	if _, err := e.spaces.GetByID(ctx, space.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("space survived: %v", err)
	}
	if _, err := e.todoLists.GetByID(ctx, list.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("todo list survived the cascade: %v", err)
	}
	if _, ok := e.todoCache.Get(list.ID); ok {
		t.Fatal("dead list still cached")
	}
}

func TestSpaceDeleteAllContents(t *testing.T) {
	e := newEnv(t)
	space := e.mustCreateSpace(t, "clutter")
	e.mustCreateNote(t, space.ID, "n1")
	e.mustCreateNote(t, space.ID, "n2")
	tl := e.mustCreateTodoList(t, space.ID, "tl")
	e.mustAddTodoItem(t, tl.ID, "t1", false)
	l := e.mustCreateList(t, space.ID, "l", domain.ListStyleSimple)
	e.mustAddListItem(t, l.ID, "l1", false)
	e.mustAddListItem(t, l.ID, "l2", false)
	ctx := context.Background()

	n, err := e.spaces.DeleteAllContents(ctx, space.ID)
	if err != nil {
		t.Fatalf("delete contents: %v", err)
	}
	// 2 notes + 1 todo list + 1 todo item + 1 list + 2 list items.
	if n != 7 {
		t.Fatalf("removed %d rows, want 7", n)
	}

	got, err := e.spaces.GetByID(ctx, space.ID)
	if err != nil {
		t.Fatalf("space should remain: %v", err)
	}
	if got.ItemCount != 0 {
		t.Fatalf("item count %d after wipe", got.ItemCount)
	}

	if _, err := e.spaces.DeleteAllContents(ctx, "absent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing space: want not found, got %v", err)
	}
}
