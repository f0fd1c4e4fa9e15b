package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogapp/internal/domain"
	"blogapp/internal/pkg/utils"

	"gorm.io/gorm"
)

// UserRepository is the SQL credential store. The owned-post set is kept
// as a JSON array column.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           string    `gorm:"column:id;primaryKey;size:24"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:user"`
	RefreshToken *string   `gorm:"column:refresh_token"`
	Posts        string    `gorm:"column:posts;type:text;not null;default:'[]'"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		RefreshToken: m.RefreshToken,
		Posts:        utils.StringToIDs(m.Posts),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        normalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		RefreshToken: u.RefreshToken,
		Posts:        utils.IDsToString(u.Posts),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !domain.IsValidID(id) {
		return nil, ErrNotFound
	}
	var m userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

// GetByIDs returns the users found among ids, in no particular order.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	var models []userModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, toDomainUser(m))
	}
	return users, nil
}

// SetRefreshToken stores token as the user's only valid refresh token.
// A nil token revokes the session.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	if !domain.IsValidID(userID) {
		return ErrNotFound
	}
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"refresh_token": token, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddPost(ctx context.Context, userID, postID string) error {
	return r.updatePosts(ctx, userID, func(ids []string) []string {
		return utils.AppendUnique(ids, postID)
	})
}

func (r *UserRepository) RemovePost(ctx context.Context, userID, postID string) error {
	return r.updatePosts(ctx, userID, func(ids []string) []string {
		return utils.Remove(ids, postID)
	})
}

func (r *UserRepository) updatePosts(ctx context.Context, userID string, fn func([]string) []string) error {
	if !domain.IsValidID(userID) {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m userModel
		if err := tx.Where("id = ?", userID).First(&m).Error; err != nil {
			return translate(err)
		}
		posts := fn(utils.StringToIDs(m.Posts))
		return tx.Model(&userModel{}).
			Where("id = ?", userID).
			Updates(map[string]any{"posts": utils.IDsToString(posts), "updated_at": time.Now().UTC()}).Error
	})
}

// ListWithRefreshToken returns users holding a persisted refresh token.
func (r *UserRepository) ListWithRefreshToken(ctx context.Context) ([]*domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Where("refresh_token IS NOT NULL").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, toDomainUser(m))
	}
	return users, nil
}
