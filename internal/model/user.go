// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash is an Argon2id hash in PHC string format and is never
// serialized into responses or session payloads.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
