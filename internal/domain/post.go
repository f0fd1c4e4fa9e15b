package domain

import "time"

// Post is a blog entry. AuthorID is fixed at creation.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	AuthorID  string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthorSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PostFilter selects a window of posts, newest first.
// An empty Search matches every post.
type PostFilter struct {
	Search string
	Skip   int64
	Limit  int64
}
