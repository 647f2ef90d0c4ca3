package domain

import "time"

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority accepts the empty string, which means no priority was set.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TodoList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SpaceID     string `json:"space_id"`
	OwnerID     string `json:"owner_id"`
	Color       string `json:"color,omitempty"`
	Icon        Icon   `json:"icon"`

	// Derived from todo_items rows; the stored columns are snapshots kept in
	// step by the repository on every item mutation.
	TotalItemCount     int `json:"total_item_count"`
	CompletedItemCount int `json:"completed_item_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress is the completed fraction in [0, 1]. An empty list has progress 0.
func (l TodoList) Progress() float64 {
	if l.TotalItemCount == 0 {
		return 0
	}
	return float64(l.CompletedItemCount) / float64(l.TotalItemCount)
}

type TodoItem struct {
	ID          string     `json:"id"`
	TodoListID  string     `json:"todo_list_id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Tags        []string   `json:"tags"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
