package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogapp/internal/database"
	"blogapp/internal/domain"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

type postModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:24"`
	Title     string    `gorm:"column:title;not null"`
	Slug      string    `gorm:"column:slug;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	ImageURL  string    `gorm:"column:image_url"`
	AuthorID  string    `gorm:"column:author_id;size:24;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (postModel) TableName() string { return "posts" }

func toDomainPost(m postModel) *domain.Post {
	return &domain.Post{
		ID:        m.ID,
		Title:     m.Title,
		Slug:      m.Slug,
		Content:   m.Content,
		ImageURL:  m.ImageURL,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toPostModel(p *domain.Post) postModel {
	return postModel{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDomainPosts(models []postModel) []*domain.Post {
	posts := make([]*domain.Post, 0, len(models))
	for _, m := range models {
		posts = append(posts, toDomainPost(m))
	}
	return posts
}

// Create inserts p. A caller-assigned ID is kept so images can be uploaded
// under it before the row exists.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	m := toPostModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create post: %w", translate(err))
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	if !domain.IsValidID(id) {
		return nil, ErrNotFound
	}
	var m postModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainPost(m), nil
}

// Update persists the mutable fields of p. Author and creation time never change.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	p.UpdatedAt = time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&postModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":      p.Title,
			"slug":       p.Slug,
			"content":    p.Content,
			"image_url":  p.ImageURL,
			"updated_at": p.UpdatedAt,
		})
	if tx.Error != nil {
		return fmt.Errorf("update post: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if !domain.IsValidID(id) {
		return ErrNotFound
	}
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&postModel{})
	if tx.Error != nil {
		return fmt.Errorf("delete post: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one window of posts, newest first. Search is a literal,
// case-insensitive substring match on title or content.
func (r *PostRepository) List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, error) {
	q := r.db.WithContext(ctx).Model(&postModel{})
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		lower := database.LowerFunc(r.db)
		q = q.Where(lower+`(title) LIKE ? ESCAPE '\' OR `+lower+`(content) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var models []postModel
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(int(f.Skip)).
		Limit(int(f.Limit)).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return toDomainPosts(models), nil
}

// Count returns the number of stored posts, ignoring any search.
func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&postModel{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	var models []postModel
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return toDomainPosts(models), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
