package domain

import (
	"strings"
	"time"
)

// Identity is a registered wallet holder together with its balance.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Balance      Amount    `json:"balance" swaggertype:"number"`
	CreatedAt    time.Time `json:"created_at"`
}

// LookupKey normalizes a username or email for case-insensitive matching.
func LookupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
