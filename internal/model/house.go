package model

import "time"

// House is a household group sharing chores. Its ID doubles as the
// human-shareable 6-character join code.
type House struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Members []string `json:"members,omitempty"`
}

type HouseMember struct {
	HouseID   string    `json:"house_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
