package model

import "time"

// Bean represents a coffee bean registered by a user.
// A bean belongs to exactly one owner and is never reassigned.
// Bean names are unique per owner, not globally.
type Bean struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
