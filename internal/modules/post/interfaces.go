package post

import (
	"context"

	"blogapp/internal/domain"
)

type PostRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
}

// UserRepositoryInterface is the owner side of the post relation.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	AddPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
}

// ImageStore is the remote side of the image transaction.
type ImageStore interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
	Delete(ctx context.Context, url string) error
	DeleteFolder(ctx context.Context, folder string) error
}
