package model

import "time"

// Chore is a recurring task scoped to exactly one house.
type Chore struct {
	ID             string     `json:"id"`
	HouseID        string     `json:"house_id"`
	Title          string     `json:"title"`
	CreatedBy      string     `json:"created_by"`
	AssignedTo     *string    `json:"assigned_to"`
	Frequency      string     `json:"frequency"`
	Count          int        `json:"count"`
	NextDueAt      *time.Time `json:"next_due_at"`
	LastNotifiedAt *time.Time `json:"last_notified_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type ChoreCompletion struct {
	ID          int64     `json:"id"`
	ChoreID     string    `json:"chore_id"`
	CompletedBy string    `json:"completed_by"`
	PhotoURL    *string   `json:"photo_url"`
	CompletedAt time.Time `json:"completed_at"`
}
