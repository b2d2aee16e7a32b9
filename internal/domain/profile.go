package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents the profiles table. Mutated only by the owning user
// or the seeding process.
type Profile struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	FullName     NullString `json:"full_name"`
	AvatarURL    NullString `json:"avatar_url"`
	Status       string     `json:"status"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// PlaceholderProfile stands in for a sender whose profile could not be
// loaded. The message surface never blocks on profile enrichment.
func PlaceholderProfile(id uuid.UUID) Profile {
	return Profile{ID: id, Username: "Unknown"}
}
