package repository

import (
	"context"
	"testing"

	"github.com/joCur/later-server/cache"
	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/events"
	"github.com/joCur/later-server/store"
)

const testOwner = "owner-1"

type env struct {
	store     *store.Memory
	hub       *events.Hub
	spaces    *Spaces
	notes     *Notes
	todoLists *TodoLists
	lists     *Lists
	todoCache *cache.Cache[domain.TodoItem]
	listCache *cache.Cache[domain.ListItem]
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := store.NewMemory()
	hub := events.NewHub()
	go hub.Run()

	todoCache := cache.New[domain.TodoItem](cache.DefaultCapacity)
	listCache := cache.New[domain.ListItem](cache.DefaultCapacity)

	notes := NewNotes(st, hub)
	todoLists := NewTodoLists(st, hub, todoCache)
	lists := NewLists(st, hub, listCache)
	spaces := NewSpaces(st, hub, notes, todoLists, lists)

	return &env{
		store:     st,
		hub:       hub,
		spaces:    spaces,
		notes:     notes,
		todoLists: todoLists,
		lists:     lists,
		todoCache: todoCache,
		listCache: listCache,
	}
}

func (e *env) mustCreateSpace(t *testing.T, name string) domain.Space {
	t.Helper()
	space, err := e.spaces.Create(context.Background(), domain.Space{Name: name, OwnerID: testOwner})
	if err != nil {
		t.Fatalf("create space %q: %v", name, err)
	}
	return space
}

func (e *env) mustCreateNote(t *testing.T, spaceID, title string) domain.Note {
	t.Helper()
	note, err := e.notes.Create(context.Background(), domain.Note{
		Title: title, SpaceID: spaceID, OwnerID: testOwner,
	})
	if err != nil {
		t.Fatalf("create note %q: %v", title, err)
	}
	return note
}

func (e *env) mustCreateTodoList(t *testing.T, spaceID, name string) domain.TodoList {
	t.Helper()
	list, err := e.todoLists.Create(context.Background(), domain.TodoList{
		Name: name, SpaceID: spaceID, OwnerID: testOwner,
	})
	if err != nil {
		t.Fatalf("create todo list %q: %v", name, err)
	}
	return list
}

func (e *env) mustAddTodoItem(t *testing.T, listID, title string, completed bool) domain.TodoItem {
	t.Helper()
	item, err := e.todoLists.AddItem(context.Background(), domain.TodoItem{
		TodoListID: listID, OwnerID: testOwner, Title: title, Completed: completed,
	})
	if err != nil {
		t.Fatalf("add todo item %q: %v", title, err)
	}
	return item
}

func (e *env) mustCreateList(t *testing.T, spaceID, name string, style domain.ListStyle) domain.List {
	t.Helper()
	list, err := e.lists.Create(context.Background(), domain.List{
		Name: name, SpaceID: spaceID, OwnerID: testOwner, Style: style,
	})
	if err != nil {
		t.Fatalf("create list %q: %v", name, err)
	}
	return list
}

func (e *env) mustAddListItem(t *testing.T, listID, title string, checked bool) domain.ListItem {
	t.Helper()
	item, err := e.lists.AddItem(context.Background(), domain.ListItem{
		ListID: listID, OwnerID: testOwner, Title: title, Checked: checked,
	})
	if err != nil {
		t.Fatalf("add list item %q: %v", title, err)
	}
	return item
}

func orderOf(notes []domain.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
