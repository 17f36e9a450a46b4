package models

import "time"

// User is the read-only profile of an account managed by the identity provider.
// IDs are opaque strings taken from the token subject.
type User struct {
	ID              string    `gorm:"primaryKey;size:255" json:"id"`
	FirstName       *string   `json:"first_name"`
	LastName        *string   `json:"last_name"`
	ProfileImageURL *string   `json:"profile_image_url"`
	Bio             *string   `gorm:"type:text" json:"bio"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
