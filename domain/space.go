package domain

import "time"

type Space struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     Icon   `json:"icon"`
	Color    string `json:"color,omitempty"`
	Archived bool   `json:"archived"`
	OwnerID  string `json:"owner_id"`

	// ItemCount is derived from live child rows at read time. It is never
	// authoritative on the struct itself.
	ItemCount int `json:"item_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
