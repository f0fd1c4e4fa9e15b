package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"blogapp/internal/domain"
	"blogapp/internal/modules/upload"
	"blogapp/internal/pkg/imagestore"
	"blogapp/internal/pkg/validator"
	"blogapp/internal/repository"
)

const DefaultNamespace = "blog-app"

type Config struct {
	// Namespace prefixes every remote image folder.
	Namespace    string
	PostsPerPage int
}

// Service owns the post lifecycle, including the remote images bound to it.
type Service struct {
	posts  PostRepositoryInterface
	users  UserRepositoryInterface
	images ImageStore
	cfg    Config
	log    logrus.FieldLogger
}

func NewService(posts PostRepositoryInterface, users UserRepositoryInterface, images ImageStore, cfg Config, log logrus.FieldLogger) *Service {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.PostsPerPage < 1 {
		cfg.PostsPerPage = DefaultPostsPerPage
	}
	return &Service{posts: posts, users: users, images: images, cfg: cfg, log: log}
}

func (s *Service) PostsPerPage() int { return s.cfg.PostsPerPage }

// Create validates the input, uploads the image under the new post's folder
// and persists the post together with its place in the author's post set.
// Nothing is persisted when the upload fails.
func (s *Service) Create(ctx context.Context, authorID string, in PostInput, file *upload.StagedFile) (*domain.Post, error) {
	defer s.release(file)

	in = in.normalized()
	if !provided(in.Slug) && provided(in.Title) {
		if derived := slug.Make(*in.Title); derived != "" {
			in.Slug = &derived
		}
	}
	if fields := validateCreate(in); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if file == nil {
		return nil, ErrImageRequired
	}

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	p := &domain.Post{
		ID:       domain.NewID(),
		Title:    *in.Title,
		Slug:     *in.Slug,
		Content:  *in.Content,
		AuthorID: authorID,
	}

	url, err := s.images.Upload(ctx, file.Path, s.folder(p.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	p.ImageURL = url

	if err := s.posts.Create(ctx, p); err != nil {
		s.purgeImages(ctx, p.ID)
		return nil, err
	}
	if err := s.users.AddPost(ctx, authorID, p.ID); err != nil {
		if delErr := s.posts.Delete(ctx, p.ID); delErr != nil {
			s.log.WithError(delErr).WithField("post_id", p.ID).Error("roll back post after owner update failure")
		}
		s.purgeImages(ctx, p.ID)
		return nil, err
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*PostResponse, error) {
	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(p, s.author(ctx, p.AuthorID))
	return &resp, nil
}

// List returns one page of posts, newest first. TotalPosts counts every
// post regardless of the search.
func (s *Service) List(ctx context.Context, req PageRequest) (*ListResult, error) {
	posts, err := s.posts.List(ctx, domain.PostFilter{
		Search: req.Search,
		Skip:   req.Skip(),
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, err
	}
	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.withAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Posts:      out,
		TotalPages: TotalPages(total, req.Limit),
		TotalPosts: total,
	}, nil
}

// Update applies the provided fields and, when a file is staged, replaces
// the post image. The old image is removed only once the new row is saved.
// Only the author may update.
func (s *Service) Update(ctx context.Context, id, requesterID string, in PostInput, file *upload.StagedFile) (*PostResponse, error) {
	defer s.release(file)

	p, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != requesterID {
		return nil, ErrForbidden
	}
	in = in.normalized()
	if fields := validator.Validate(in); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if provided(in.Title) {
		p.Title = *in.Title
	}
	if provided(in.Content) {
		p.Content = *in.Content
	}
	if provided(in.Slug) {
		p.Slug = *in.Slug
	}

	previous := p.ImageURL
	if file != nil {
		url, err := s.images.Upload(ctx, file.Path, s.folder(p.ID))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImageUpload, err)
		}
		p.ImageURL = url
	}

	if err := s.posts.Update(ctx, p); err != nil {
		if p.ImageURL != previous {
			s.deleteImage(ctx, p.ID, p.ImageURL, "discard uploaded image")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if previous != "" && p.ImageURL != previous {
		s.deleteImage(ctx, p.ID, previous, "delete previous image")
	}

	resp := toResponse(p, s.author(ctx, p.AuthorID))
	return &resp, nil
}

// Delete removes the post, drops it from the author's set and purges its
// remote images. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id, requesterID string) error {
	p, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID {
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if err := s.users.RemovePost(ctx, p.AuthorID, p.ID); err != nil {
		s.log.WithError(err).WithField("post_id", p.ID).Warn("remove post from owner")
	}
	if p.ImageURL != "" {
		s.purgeImages(ctx, p.ID)
	}
	return nil
}

// ListByAuthor returns every post of authorID, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]PostResponse, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, posts)
}

func (s *Service) getPost(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) author(ctx context.Context, id string) *domain.AuthorSummary {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WithError(err).WithField("user_id", id).Warn("load post author")
		}
		return nil
	}
	return u.Summary()
}

func (s *Service) withAuthors(ctx context.Context, posts []*domain.Post) ([]PostResponse, error) {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}

	authors := make(map[string]*domain.AuthorSummary, len(ids))
	if len(ids) > 0 {
		users, err := s.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			authors[u.ID] = u.Summary()
		}
	}

	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toResponse(p, authors[p.AuthorID]))
	}
	return out, nil
}

func (s *Service) folder(postID string) string {
	return imagestore.Folder(s.cfg.Namespace, postID)
}

func (s *Service) deleteImage(ctx context.Context, postID, url, msg string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), url); err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn(msg)
	}
}

// purgeImages removes every remote image of a post. Failures are logged only.
func (s *Service) purgeImages(ctx context.Context, postID string) {
	if err := s.images.DeleteFolder(context.WithoutCancel(ctx), s.folder(postID)); err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn("purge post images")
	}
}

func (s *Service) release(file *upload.StagedFile) {
	if err := file.Release(); err != nil {
		s.log.WithError(err).Warn("release staged file")
	}
}

func validateCreate(in PostInput) []validator.FieldError {
	var fields []validator.FieldError
	if !provided(in.Title) {
		fields = append(fields, validator.FieldError{Field: "title", Message: "title is required"})
	}
	if !provided(in.Content) {
		fields = append(fields, validator.FieldError{Field: "content", Message: "content is required"})
	}
	if !provided(in.Slug) && provided(in.Title) {
		fields = append(fields, validator.FieldError{Field: "slug", Message: "slug must be at least 5 characters long"})
	}
	return append(fields, validator.Validate(in)...)
}
