package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/events"
	"github.com/joCur/later-server/store"
)

type Notes struct {
	store store.Store
	hub   *events.Hub
}

func NewNotes(st store.Store, hub *events.Hub) *Notes {
	return &Notes{store: st, hub: hub}
}

// Create assigns an id when absent, stamps both timestamps, and places the
// note at the end of its space's order.
func (r *Notes) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := utcNow()
	note.CreatedAt, note.UpdatedAt = now, now

	order, err := nextSortOrder(ctx, r.store, store.TableNotes, "space_id", note.SpaceID)
	if err != nil {
		return domain.Note{}, err
	}
	note.SortOrder = order

	row, err := r.store.Insert(ctx, store.TableNotes, noteRow(note))
	if err != nil {
		return domain.Note{}, err
	}
	out := noteFromRow(row)
	r.publish(events.ActionCreated, out)
	return out, nil
}

func (r *Notes) GetByID(ctx context.Context, id string) (domain.Note, error) {
	row, err := r.store.SelectByID(ctx, store.TableNotes, id)
	if err != nil {
		return domain.Note{}, err
	}
	return noteFromRow(row), nil
}

func (r *Notes) GetBySpace(ctx context.Context, spaceID string) ([]domain.Note, error) {
	rows, err := r.store.SelectByParent(ctx, store.TableNotes, "space_id", spaceID)
	if err != nil {
		return nil, err
	}
	return notesFromRows(rows), nil
}

// Update is full-replace: the caller supplies the complete note and every
// mutable column is written. The updated timestamp always moves.
func (r *Notes) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	note.UpdatedAt = utcNow()
	row, err := r.store.Update(ctx, store.TableNotes, note.ID, store.Row{
		"title":      note.Title,
		"content":    note.Content,
		"tags":       tagsOrEmpty(note.Tags),
		"space_id":   note.SpaceID,
		"favorite":   note.Favorite,
		"archived":   note.Archived,
		"sort_order": note.SortOrder,
		"updated_at": note.UpdatedAt,
	})
	if err != nil {
		return domain.Note{}, err
	}
	out := noteFromRow(row)
	r.publish(events.ActionUpdated, out)
	return out, nil
}

// Delete is idempotent; an unknown id is not an error. Remaining siblings are
// renumbered so the space's order stays contiguous.
func (r *Notes) Delete(ctx context.Context, id string) error {
	row, err := r.store.SelectByID(ctx, store.TableNotes, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, store.TableNotes, id); err != nil {
		return err
	}
	note := noteFromRow(row)
	if err := resequence(ctx, r.store, store.TableNotes, "space_id", note.SpaceID); err != nil {
		return err
	}
	r.publish(events.ActionDeleted, note)
	return nil
}

func (r *Notes) DeleteAllBySpace(ctx context.Context, spaceID string) (int64, error) {
	n, err := r.store.DeleteByParent(ctx, store.TableNotes, "space_id", spaceID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.hub.Publish(events.Event{Entity: events.EntityNote, Action: events.ActionDeleted, SpaceID: spaceID})
	}
	return n, nil
}

// Reorder moves the note at from to position to within its space and
// renumbers all siblings 0-based contiguous. Equal indices are a no-op.
func (r *Notes) Reorder(ctx context.Context, spaceID string, from, to int) ([]domain.Note, error) {
	rows, err := reorderScope(ctx, r.store, store.TableNotes, "space_id", spaceID, from, to)
	if err != nil {
		return nil, err
	}
	notes := notesFromRows(rows)
	r.hub.Publish(events.Event{Entity: events.EntityNote, Action: events.ActionReordered, SpaceID: spaceID})
	return notes, nil
}

// GetByTag matches exactly and case-sensitively over the owner's notes.
func (r *Notes) GetByTag(ctx context.Context, ownerID, tag string) ([]domain.Note, error) {
	rows, err := r.store.SelectByParent(ctx, store.TableNotes, "owner_id", ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Note, 0)
	for _, row := range rows {
		note := noteFromRow(row)
		if note.HasTag(tag) {
			out = append(out, note)
		}
	}
	return out, nil
}

// Search does a case-insensitive substring match over title or content. An
// empty query matches every note; the mobile client has always behaved that
// way and screens were built on it.
func (r *Notes) Search(ctx context.Context, ownerID, query string) ([]domain.Note, error) {
	rows, err := r.store.SelectByParent(ctx, store.TableNotes, "owner_id", ownerID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]domain.Note, 0)
	for _, row := range rows {
		note := noteFromRow(row)
		if strings.Contains(strings.ToLower(note.Title), q) ||
			strings.Contains(strings.ToLower(note.Content), q) {
			out = append(out, note)
		}
	}
	return out, nil
}

func (r *Notes) publish(action events.Action, note domain.Note) {
	r.hub.Publish(events.Event{
		Entity:   events.EntityNote,
		Action:   action,
		ID:       note.ID,
		ParentID: note.SpaceID,
		SpaceID:  note.SpaceID,
	})
}

func noteRow(n domain.Note) store.Row {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return store.Row{
		"id":         n.ID,
		"title":      n.Title,
		"content":    n.Content,
		"tags":       tags,
		"space_id":   n.SpaceID,
		"owner_id":   n.OwnerID,
		"favorite":   n.Favorite,
		"archived":   n.Archived,
		"sort_order": n.SortOrder,
		"created_at": n.CreatedAt,
		"updated_at": n.UpdatedAt,
	}
}

func noteFromRow(row store.Row) domain.Note {
	return domain.Note{
		ID:        rowString(row, "id"),
		Title:     rowString(row, "title"),
		Content:   rowString(row, "content"),
		Tags:      rowStrings(row, "tags"),
		SpaceID:   rowString(row, "space_id"),
		OwnerID:   rowString(row, "owner_id"),
		Favorite:  rowBool(row, "favorite"),
		Archived:  rowBool(row, "archived"),
		SortOrder: rowInt(row, "sort_order"),
		CreatedAt: rowTime(row, "created_at"),
		UpdatedAt: rowTime(row, "updated_at"),
	}
}

func notesFromRows(rows []store.Row) []domain.Note {
	out := make([]domain.Note, len(rows))
	for i, row := range rows {
		out[i] = noteFromRow(row)
	}
	return out
}
