// Package models defines the server-side records persisted in the metadata
// store and passed between components.
package models

import "time"

// User is created on registration and never modified afterwards.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}
