package models

import "time"

// User is a registered account. Password holds whatever the configured
// hasher produced; with the legacy "plain" hasher that is the raw secret.
type User struct {
	ID        ID        `json:"id"`
	Username  string    `json:"usuario"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // never serialised
	CreatedAt time.Time `json:"createdAt"`
}
