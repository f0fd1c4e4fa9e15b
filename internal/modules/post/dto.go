package post

import (
	"time"

	"blogapp/internal/domain"
)

// PostInput is the multipart (or JSON) body of create and update. A nil or
// empty field means "not provided".
type PostInput struct {
	Title   *string `form:"title" json:"title" validate:"omitempty,min=5"`
	Content *string `form:"content" json:"content" validate:"omitempty,min=20"`
	Slug    *string `form:"slug" json:"slug" validate:"omitempty,min=5"`
}

type PostResponse struct {
	ID        string                `json:"_id"`
	Title     string                `json:"title"`
	Slug      string                `json:"slug"`
	Content   string                `json:"content"`
	ImageURL  string                `json:"imageUrl,omitempty"`
	Author    *domain.AuthorSummary `json:"author"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type ListResult struct {
	Posts      []PostResponse `json:"posts"`
	TotalPages int64          `json:"totalPages"`
	TotalPosts int64          `json:"totalPosts"`
}

func toResponse(p *domain.Post, author *domain.AuthorSummary) PostResponse {
	if author == nil {
		author = &domain.AuthorSummary{ID: p.AuthorID}
	}
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Author:    author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// normalized drops empty fields so validation and updates only see what was
// actually provided.
func (in PostInput) normalized() PostInput {
	for _, f := range []**string{&in.Title, &in.Content, &in.Slug} {
		if *f != nil && **f == "" {
			*f = nil
		}
	}
	return in
}

func provided(v *string) bool {
	return v != nil && *v != ""
}
