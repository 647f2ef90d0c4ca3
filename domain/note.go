package domain

import "time"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Tags      []string  `json:"tags"`
	SpaceID   string    `json:"space_id"`
	OwnerID   string    `json:"owner_id"`
	Favorite  bool      `json:"favorite"`
	Archived  bool      `json:"archived"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTag reports whether the note carries the exact tag (case-sensitive).
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
