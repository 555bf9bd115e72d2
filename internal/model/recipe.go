package model

import "time"

// Recipe belongs to exactly one section and one owner.
// Title, Ingredients and Instructions are non-empty after trimming;
// validation happens in the service layer before any database call.
type Recipe struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SectionID    string    `json:"section_id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}
