package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"blogapp/internal/config"
	"blogapp/internal/domain"
	"blogapp/internal/modules/auth"
	"blogapp/internal/pkg/jwt"
	"blogapp/internal/pkg/logger"
	"blogapp/internal/repository"
)

const demoPassword = "secret123"

var demoAuthors = []struct{ name, email string }{
	{"Aigerim Demo", "aigerim@blog.local"},
	{"Daniyar Demo", "daniyar@blog.local"},
	{"Saule Demo", "saule@blog.local"},
}

var demoTitles = []string{
	"Getting Started with the Blog",
	"Writing Your First Post",
	"Ten Tips for Better Headlines",
	"How We Organize Images",
	"Notes on Pagination",
	"Searching Posts Quickly",
	"A Week of Daily Writing",
	"Editing Without Fear",
}

func main() {
	postsPerAuthor := flag.Int("posts", 4, "posts to create per demo author")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := repository.Open(ctx, repository.Options{
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		DatabaseURL:   cfg.DatabaseURL,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer store.Close(ctx)

	if err := store.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("ensure indexes")
	}

	authService := auth.NewService(store.Users, jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Info("creating users...")
	for _, a := range demoAuthors {
		user, err := seedUser(ctx, authService, store, a.name, a.email)
		if err != nil {
			log.WithError(err).WithField("email", a.email).Fatal("seed user")
		}

		for i := 0; i < *postsPerAuthor; i++ {
			title := fmt.Sprintf("%s #%d", demoTitles[rng.Intn(len(demoTitles))], i+1)
			if err := seedPost(ctx, store, user.ID, title); err != nil {
				log.WithError(err).Fatal("seed post")
			}
		}
		log.WithField("email", a.email).WithField("posts", *postsPerAuthor).Info("author seeded")
	}

	log.Info("seed completed")
	log.Infof("demo accounts: %s ... %s / %s", demoAuthors[0].email, demoAuthors[len(demoAuthors)-1].email, demoPassword)
}

// seedUser registers the user, or returns the existing one on a rerun.
func seedUser(ctx context.Context, svc *auth.Service, store *repository.Store, name, email string) (*domain.User, error) {
	user, err := svc.Register(ctx, auth.RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        demoPassword,
		ConfirmPassword: demoPassword,
	})
	if errors.Is(err, auth.ErrEmailAlreadyExists) {
		return store.Users.GetByEmail(ctx, email)
	}
	return user, err
}

func seedPost(ctx context.Context, store *repository.Store, authorID, title string) error {
	p := &domain.Post{
		ID:       domain.NewID(),
		Title:    title,
		Slug:     slug.Make(title),
		Content:  "This is demo content for " + title + ". Replace it with something worth reading.",
		AuthorID: authorID,
	}
	if err := store.Posts.Create(ctx, p); err != nil {
		return err
	}
	return store.Users.AddPost(ctx, authorID, p.ID)
}
