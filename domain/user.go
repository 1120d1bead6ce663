package domain

import "time"

const (
	DefaultDisplayName  = "Usuário"
	DefaultDisplayEmail = "Sistema GAC"
)

// User represents an authenticated identity in the console.
type User struct {
	ID        string            `json:"id"`
	FullName  string            `json:"full_name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Role      string            `json:"role"`
	Status    string            `json:"status"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == "active"
}

// DisplayUser holds the footer fields shown by the shell.
type DisplayUser struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Resolved bool   `json:"resolved"`
}

// DisplayFor applies the placeholder fields for an absent user or empty values.
// Whitespace is shown as stored.
func DisplayFor(u *User) DisplayUser {
	display := DisplayUser{FullName: DefaultDisplayName, Email: DefaultDisplayEmail}
	if u == nil {
		return display
	}
	display.Resolved = true
	if u.FullName != "" {
		display.FullName = u.FullName
	}
	if u.Email != "" {
		display.Email = u.Email
	}
	return display
}
