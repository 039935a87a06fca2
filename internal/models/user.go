package models

import "time"

// Link is a single entry on a user's public page. Order is significant and
// is preserved exactly as submitted by the client.
type Link struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Handle       string    `json:"handle"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Links        []Link    `json:"links"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicProfile is the projection served for lookups by handle. It carries
// no account identifier and no credential material.
type PublicProfile struct {
	Handle      string `json:"handle"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Links       []Link `json:"links"`
}

// Public returns the projection of the user that is safe to serve to
// anyone who knows the handle.
func (u User) Public() PublicProfile {
	return PublicProfile{
		Handle:      u.Handle,
		Name:        u.Name,
		Email:       u.Email,
		Description: u.Description,
		Image:       u.Image,
		Links:       u.Links,
	}
}
