package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"blogapp/internal/database"
	"blogapp/internal/domain"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	AddPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
	ListWithRefreshToken(ctx context.Context) ([]*domain.User, error)
}

type PostStore interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
}

var (
	_ UserStore = (*UserRepository)(nil)
	_ UserStore = (*MongoUserRepository)(nil)
	_ PostStore = (*PostRepository)(nil)
	_ PostStore = (*MongoPostRepository)(nil)
)

// Store bundles the repositories of one backend.
type Store struct {
	Users UserStore
	Posts PostStore

	ensureIndexes func(ctx context.Context) error
	close         func(ctx context.Context) error
}

type Options struct {
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
}

// Open picks MongoDB when a Mongo URI is set and SQL otherwise.
func Open(ctx context.Context, opts Options, log logrus.FieldLogger) (*Store, error) {
	if opts.MongoURI != "" {
		client, db, err := database.ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		users := NewMongoUserRepository(db)
		posts := NewMongoPostRepository(db)
		return &Store{
			Users: users,
			Posts: posts,
			ensureIndexes: func(ctx context.Context) error {
				return errors.Join(users.EnsureIndexes(ctx), posts.EnsureIndexes(ctx))
			},
			close: client.Disconnect,
		}, nil
	}

	if opts.DatabaseURL == "" {
		return nil, errors.New("either MONGODB_URI or DATABASE_URL must be set")
	}
	db, err := database.Connect(opts.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return NewSQLStore(db), nil
}

// NewSQLStore wraps an open gorm handle. Migrations run as part of
// EnsureIndexes.
func NewSQLStore(db *gorm.DB) *Store {
	return &Store{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
		ensureIndexes: func(context.Context) error {
			return AutoMigrate(db)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// EnsureIndexes creates collection indexes (Mongo) or migrates the schema (SQL).
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if s.ensureIndexes == nil {
		return nil
	}
	return s.ensureIndexes(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
