package domain

import "time"

// Snippet is a short named text owned by one account.
type Snippet struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	Author    *Account  `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
