package domain

import "time"

type ListStyle string

const (
	ListStyleSimple    ListStyle = "simple"
	ListStyleChecklist ListStyle = "checklist"
	ListStyleNumbered  ListStyle = "numbered"
	ListStyleBullet    ListStyle = "bullet"
)

func ValidListStyle(s ListStyle) bool {
	switch s {
	case ListStyleSimple, ListStyleChecklist, ListStyleNumbered, ListStyleBullet:
		return true
	}
	return false
}

type List struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SpaceID     string    `json:"space_id"`
	OwnerID     string    `json:"owner_id"`
	Color       string    `json:"color,omitempty"`
	Icon        Icon      `json:"icon"`
	Style       ListStyle `json:"style"`

	TotalItemCount   int `json:"total_item_count"`
	CheckedItemCount int `json:"checked_item_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress is the checked fraction in [0, 1]. An empty list has progress 0.
func (l List) Progress() float64 {
	if l.TotalItemCount == 0 {
		return 0
	}
	return float64(l.CheckedItemCount) / float64(l.TotalItemCount)
}

type ListItem struct {
	ID          string    `json:"id"`
	ListID      string    `json:"list_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Checked     bool      `json:"checked"`
	Tags        []string  `json:"tags"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
