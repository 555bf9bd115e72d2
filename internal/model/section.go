package model

import "time"

// Section is a named group of recipes owned by exactly one user.
// UserID is immutable after creation; every query touching sections
// filters by it in addition to the primary key.
type Section struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
