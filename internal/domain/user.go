package domain

import "time"

type UserRole string

const RoleUser UserRole = "user"

// User is a registered author. RefreshToken holds the only refresh token
// currently accepted for the user; nil means the session was revoked.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	RefreshToken *string   `json:"-"`
	Posts        []string  `json:"posts"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary returns the public author fields joined onto posts.
func (u *User) Summary() *AuthorSummary {
	if u == nil {
		return nil
	}
	return &AuthorSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// OwnsPost reports whether postID is in the user's owned-post set.
func (u *User) OwnsPost(postID string) bool {
	for _, id := range u.Posts {
		if id == postID {
			return true
		}
	}
	return false
}
