package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapp/internal/domain"
)

const postsCollection = "posts"

type MongoPostRepository struct {
	collection *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection(postsCollection)}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Slug      string             `bson:"slug"`
	Content   string             `bson:"content"`
	ImageURL  string             `bson:"imageUrl,omitempty"`
	Author    primitive.ObjectID `bson:"author"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Slug:      d.Slug,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		AuthorID:  d.Author.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create posts indexes: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) Create(ctx context.Context, p *domain.Post) error {
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return fmt.Errorf("create post: invalid id %q", p.ID)
	}
	author, err := primitive.ObjectIDFromHex(p.AuthorID)
	if err != nil {
		return fmt.Errorf("create post: invalid author %q", p.AuthorID)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err = r.collection.InsertOne(ctx, postDoc{
		ID:        oid,
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Author:    author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create post: %w", ErrDuplicate)
		}
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var d postDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return d.toDomain(), nil
}

func (r *MongoPostRepository) Update(ctx context.Context, p *domain.Post) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	set := bson.M{
		"title":     p.Title,
		"slug":      p.Slug,
		"content":   p.Content,
		"updatedAt": p.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if p.ImageURL != "" {
		set["imageUrl"] = p.ImageURL
	} else {
		update["$unset"] = bson.M{"imageUrl": ""}
	}

	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) List(ctx context.Context, f domain.PostFilter) ([]*domain.Post, error) {
	cursor, err := r.collection.Aggregate(ctx, listPipeline(f))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return decodePosts(ctx, cursor)
}

func (r *MongoPostRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (r *MongoPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return []*domain.Post{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"author": author},
		options.Find().SetSort(newestFirst()))
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return decodePosts(ctx, cursor)
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Post, error) {
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

// searchFilter matches posts whose title or content contains search,
// case-insensitively. Regex metacharacters in search are matched literally.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"content": pattern},
	}}
}

func listPipeline(f domain.PostFilter) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: searchFilter(f.Search)}},
		{{Key: "$sort", Value: newestFirst()}},
	}
	if f.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: f.Skip}})
	}
	if f.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: f.Limit}})
	}
	return pipeline
}
